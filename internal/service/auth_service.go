package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"talknest/internal/chat"
	"talknest/internal/middleware"
	"talknest/internal/models"
	"talknest/internal/observability"
	"talknest/internal/repository"
	"talknest/internal/session"
	"talknest/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// SignupInput is the payload accepted by Signup.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// LoginInput is the payload accepted by Login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is a freshly issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService creates identities and opens and closes sessions.
type AuthService struct {
	userRepo      repository.UserRepository
	auth          *session.Authenticator
	bridge        chat.Bridge
	defaultAvatar string
	bcryptCost    int
}

// NewAuthService returns a new AuthService. bridge may be nil.
func NewAuthService(userRepo repository.UserRepository, auth *session.Authenticator, bridge chat.Bridge, defaultAvatar string) *AuthService {
	if bridge == nil {
		bridge = chat.NoopBridge{}
	}
	return &AuthService{
		userRepo:      userRepo,
		auth:          auth,
		bridge:        bridge,
		defaultAvatar: defaultAvatar,
		bcryptCost:    bcrypt.DefaultCost,
	}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func (s *AuthService) WithBcryptCost(cost int) *AuthService {
	s.bcryptCost = cost
	return s
}

// Signup validates the input, stores the new identity and opens a session.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, *Session, error) {
	email := models.NormalizeEmail(in.Email)
	fullName := strings.TrimSpace(in.FullName)
	if email == "" || in.Password == "" || fullName == "" {
		return nil, nil, models.NewMissingFieldError("All fields are required")
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateFullName(fullName); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, models.NewConflictError(models.ReasonEmailTaken, "Email already exists. Please log in.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}

	user := &models.User{
		Email:      email,
		Password:   string(hashed),
		FullName:   fullName,
		ProfilePic: s.defaultAvatar,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	syncChatUser(ctx, s.bridge, user)

	sess, err := s.issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	user.Password = ""
	return user, sess, nil
}

// Login checks the credentials. Unknown emails and wrong passwords fail
// the same way.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*models.User, *Session, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, nil, models.NewMissingFieldError("All fields are required")
	}

	user, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, nil, models.NewUnauthenticatedError(models.ReasonInvalidCredentials, "Invalid email or password", nil)
	}

	sess, err := s.issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	user.Password = ""
	return user, sess, nil
}

// Logout revokes the presented token when it is still valid. An invalid or
// missing token is not an error; the caller clears the cookie regardless.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.auth.Tokens().Verify(token)
	if err != nil {
		return nil
	}
	return s.auth.Revoke(ctx, claims)
}

// CookieTTL is how long the session cookie should live.
func (s *AuthService) CookieTTL() time.Duration {
	return s.auth.Tokens().TTL()
}

func (s *AuthService) issue(userID uint) (*Session, error) {
	token, expiresAt, err := s.auth.Tokens().Issue(userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt}, nil
}

// syncChatUser mirrors user into the chat service. Failures are logged and
// never returned.
func syncChatUser(ctx context.Context, bridge chat.Bridge, user *models.User) {
	if err := bridge.UpsertUser(ctx, chat.FromModel(user)); err != nil {
		observability.ChatSyncFailures.Inc()
		middleware.Logger.WarnContext(ctx, "chat user sync failed",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("error", err.Error()),
		)
	}
}
