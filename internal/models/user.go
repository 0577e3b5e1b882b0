// Package models contains data structures for the application's domain models.
package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User represents an identity in the TalkNest application.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Email            string    `gorm:"uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"not null" json:"-"`
	FullName         string    `gorm:"not null" json:"full_name"`
	ProfilePic       string    `json:"profile_pic"`
	Bio              string    `json:"bio"`
	Location         string    `json:"location"`
	NativeLanguage   string    `json:"native_language"`
	LearningLanguage string    `json:"learning_language"`
	IsOnboarded      bool      `gorm:"default:false" json:"is_onboarded"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeSave keeps emails lowercase so the unique index is case-insensitive.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PublicProfile is the projection of a user that other users may see.
type PublicProfile struct {
	ID         uint   `json:"id"`
	FullName   string `json:"full_name"`
	ProfilePic string `json:"profile_pic"`
	Email      string `json:"email,omitempty"`
}

// Public returns the name and avatar projection of u.
func (u User) Public() PublicProfile {
	return PublicProfile{
		ID:         u.ID,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
	}
}

// PublicWithEmail is Public plus the email address, used for friend lists.
func (u User) PublicWithEmail() PublicProfile {
	p := u.Public()
	p.Email = u.Email
	return p
}

// UserFriend is one entry of a user's denormalized friends list. The
// composite primary key gives the list set semantics.
type UserFriend struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	FriendID  uint      `gorm:"primaryKey;autoIncrement:false" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (UserFriend) TableName() string {
	return "user_friends"
}
