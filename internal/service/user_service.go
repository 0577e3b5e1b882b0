package service

import (
	"context"
	"fmt"
	"strings"

	"talknest/internal/chat"
	"talknest/internal/models"
	"talknest/internal/repository"
	"talknest/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	bridge   chat.Bridge
}

// OnboardInput carries the profile fields every user must fill in once.
type OnboardInput struct {
	FullName         string `json:"fullName"`
	Bio              string `json:"bio"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
	Location         string `json:"location"`
}

// UpdateProfileInput is a partial update; nil fields are left alone.
type UpdateProfileInput struct {
	FullName         *string `json:"fullName"`
	Bio              *string `json:"bio"`
	Location         *string `json:"location"`
	ProfilePic       *string `json:"profilePic"`
	NativeLanguage   *string `json:"nativeLanguage"`
	LearningLanguage *string `json:"learningLanguage"`
}

// Profile is the acting user plus their cached friends list.
type Profile struct {
	*models.User
	Friends []uint `json:"friends"`
}

func NewUserService(userRepo repository.UserRepository, bridge chat.Bridge) *UserService {
	if bridge == nil {
		bridge = chat.NoopBridge{}
	}
	return &UserService{userRepo: userRepo, bridge: bridge}
}

// Onboard stores the required profile fields and marks the user onboarded.
func (s *UserService) Onboard(ctx context.Context, userID uint, in OnboardInput) (*models.User, error) {
	fields := map[string]string{
		"fullName":         strings.TrimSpace(in.FullName),
		"bio":              strings.TrimSpace(in.Bio),
		"nativeLanguage":   strings.TrimSpace(in.NativeLanguage),
		"learningLanguage": strings.TrimSpace(in.LearningLanguage),
		"location":         strings.TrimSpace(in.Location),
	}
	var missing []string
	for _, name := range []string{"fullName", "bio", "nativeLanguage", "learningLanguage", "location"} {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, models.NewMissingFieldError(fmt.Sprintf("All fields are required (missing: %s)", strings.Join(missing, ", ")))
	}

	if err := validateProfile(fields["fullName"], fields["bio"], fields["location"], fields["nativeLanguage"], fields["learningLanguage"]); err != nil {
		return nil, err
	}

	user, err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"full_name":         fields["fullName"],
		"bio":               fields["bio"],
		"native_language":   fields["nativeLanguage"],
		"learning_language": fields["learningLanguage"],
		"location":          fields["location"],
		"is_onboarded":      true,
	})
	if err != nil {
		return nil, err
	}

	syncChatUser(ctx, s.bridge, user)
	user.Password = ""
	return user, nil
}

// GetProfile returns the user with the ids from their friends list.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.userRepo.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return &Profile{User: user, Friends: friends}, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if err := validation.ValidateFullName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		updates["full_name"] = name
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		updates["bio"] = *in.Bio
	}
	for column, f := range map[string]struct {
		label string
		value *string
	}{
		"location":          {"location", in.Location},
		"profile_pic":       {"profile picture", in.ProfilePic},
		"native_language":   {"native language", in.NativeLanguage},
		"learning_language": {"learning language", in.LearningLanguage},
	} {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if column != "profile_pic" {
			if err := validation.ValidateProfileField(f.label, v); err != nil {
				return nil, models.NewValidationError(err.Error())
			}
		}
		updates[column] = v
	}

	if len(updates) == 0 {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		user.Password = ""
		return user, nil
	}

	user, err := s.userRepo.Update(ctx, userID, updates)
	if err != nil {
		return nil, err
	}

	syncChatUser(ctx, s.bridge, user)
	user.Password = ""
	return user, nil
}

func validateProfile(fullName, bio, location, native, learning string) error {
	if err := validation.ValidateFullName(fullName); err != nil {
		return models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBio(bio); err != nil {
		return models.NewValidationError(err.Error())
	}
	for label, v := range map[string]string{
		"location":          location,
		"native language":   native,
		"learning language": learning,
	} {
		if err := validation.ValidateProfileField(label, v); err != nil {
			return models.NewValidationError(err.Error())
		}
	}
	return nil
}
