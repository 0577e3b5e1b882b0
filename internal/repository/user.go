// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"talknest/internal/cache"
	"talknest/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository is the Identity Store plus the denormalized friends list.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.User, error)
	AddFriendLink(ctx context.Context, userID, friendID uint) error
	RemoveFriendLink(ctx context.Context, userID, friendID uint) error
	GetFriendIDs(ctx context.Context, userID uint) ([]uint, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// GetByID reads through the Redis cache. Cached copies never carry the
// password hash.
func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError(models.ReasonEmailTaken, "Email already exists. Please log in.")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Update writes only the given columns so the credential hash is never
// overwritten from a cached copy.
func (r *userRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.User, error) {
	result := r.db.WithContext(ctx).Model(&models.User{ID: id}).Updates(fields)
	if result.Error != nil {
		return nil, models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.NewNotFoundError("User", id)
	}
	cache.InvalidateUser(ctx, id)

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// AddFriendLink inserts friendID into userID's list; repeats are no-ops.
func (r *userRepository) AddFriendLink(ctx context.Context, userID, friendID uint) error {
	link := models.UserFriend{UserID: userID, FriendID: friendID}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RemoveFriendLink drops friendID from userID's list; missing entries are ignored.
func (r *userRepository) RemoveFriendLink(ctx context.Context, userID, friendID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&models.UserFriend{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetFriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).
		Model(&models.UserFriend{}).
		Where("user_id = ?", userID).
		Order("friend_id ASC").
		Pluck("friend_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}
