// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"talknest/internal/cache"
	"talknest/internal/config"
	"talknest/internal/database"
	"talknest/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbSeq atomic.Int64

// NewSQLiteDB opens a private in-memory SQLite database with the full
// schema, including the friend graph constraints.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:talknest_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{Env: "test", DBDriver: "sqlite"}
	require.NoError(t, database.ApplySchema(context.Background(), db, cfg))
	return db
}

// NewMiniredis starts miniredis and installs it as the cache client for
// the duration of the test.
func NewMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		_ = rdb.Close()
	})
	return mr, rdb
}

// CreateUser inserts a user with the given display name.
func CreateUser(t *testing.T, db *gorm.DB, fullName string) *models.User {
	t.Helper()

	u := &models.User{
		Email:      fmt.Sprintf("user%d@talknest.test", dbSeq.Add(1)),
		Password:   "$2a$10$hash",
		FullName:   fullName,
		ProfilePic: "https://avatar.test/" + fullName,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
