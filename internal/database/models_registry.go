package database

import "talknest/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserFriend{},
		&models.FriendRequest{},
	}
}
