package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"talknest/internal/config"
	"talknest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func sqliteConfig() *config.Config {
	return &config.Config{Env: "test", DBDriver: "sqlite", DBSchemaMode: SchemaModeHybrid}
}

func setupSchemaDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:database_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, ApplySchema(context.Background(), db, sqliteConfig()))
	return db
}

func createUsers(t *testing.T, db *gorm.DB, n int) []models.User {
	t.Helper()
	users := make([]models.User, n)
	for i := range users {
		users[i] = models.User{
			Email:    fmt.Sprintf("user%d@example.com", i),
			Password: "hash",
			FullName: fmt.Sprintf("User %d", i),
		}
		require.NoError(t, db.Create(&users[i]).Error)
	}
	return users
}

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}
	require.NoError(t, configurePool(db, cfg))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
}

func TestDialectorFor(t *testing.T) {
	_, err := dialectorFor(&config.Config{DBDriver: "mysql"})
	assert.Error(t, err)

	d, err := dialectorFor(&config.Config{DBDriver: "sqlite"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	d, err = dialectorFor(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())
}

func TestSchemaPolicy(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		runSQL  bool
		runAuto bool
		wantErr bool
	}{
		{"hybrid dev postgres", config.Config{Env: "development"}, true, true, false},
		{"hybrid prod postgres", config.Config{Env: "production"}, true, false, false},
		{"sql mode", config.Config{Env: "development", DBSchemaMode: "sql"}, true, false, false},
		{"auto dev", config.Config{Env: "development", DBSchemaMode: "auto"}, false, true, false},
		{"auto prod refused", config.Config{Env: "production", DBSchemaMode: "auto"}, false, false, true},
		{"unknown mode", config.Config{DBSchemaMode: "magic"}, false, false, true},
		{"sqlite always auto", config.Config{DBDriver: "sqlite", DBSchemaMode: "sql"}, false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runSQL, runAuto, err := schemaPolicy(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.runSQL, runSQL)
			assert.Equal(t, tt.runAuto, runAuto)
		})
	}
}

func TestApplySchema_IsIdempotent(t *testing.T) {
	db := setupSchemaDB(t)
	assert.NoError(t, ApplySchema(context.Background(), db, sqliteConfig()))
}

func TestConstraints_RejectSelfRequest(t *testing.T) {
	db := setupSchemaDB(t)
	users := createUsers(t, db, 1)

	err := db.Create(&models.FriendRequest{SenderID: users[0].ID, RecipientID: users[0].ID, Status: models.FriendRequestStatusPending}).Error
	assert.Error(t, err)
}

func TestConstraints_OnePendingPerOrderedPair(t *testing.T) {
	db := setupSchemaDB(t)
	users := createUsers(t, db, 2)
	a, b := users[0].ID, users[1].ID

	require.NoError(t, db.Create(&models.FriendRequest{SenderID: a, RecipientID: b, Status: models.FriendRequestStatusPending}).Error)

	err := db.Create(&models.FriendRequest{SenderID: a, RecipientID: b, Status: models.FriendRequestStatusPending}).Error
	assert.Error(t, err, "second pending edge for the same ordered pair must be rejected")

	// the reverse direction is a different ordered pair
	assert.NoError(t, db.Create(&models.FriendRequest{SenderID: b, RecipientID: a, Status: models.FriendRequestStatusPending}).Error)
}

func TestConstraints_OneAcceptedPerUnorderedPair(t *testing.T) {
	db := setupSchemaDB(t)
	users := createUsers(t, db, 3)
	a, b, c := users[0].ID, users[1].ID, users[2].ID

	require.NoError(t, db.Create(&models.FriendRequest{SenderID: a, RecipientID: b, Status: models.FriendRequestStatusAccepted}).Error)

	err := db.Create(&models.FriendRequest{SenderID: b, RecipientID: a, Status: models.FriendRequestStatusAccepted}).Error
	assert.Error(t, err, "reverse accepted edge must collide with the existing friendship")

	assert.NoError(t, db.Create(&models.FriendRequest{SenderID: a, RecipientID: c, Status: models.FriendRequestStatusAccepted}).Error)
}

func TestMigrationStore_EmptyWhenTableMissing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	applied, err := NewMigrationStore(db).GetAppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestValidateAppliedVersions(t *testing.T) {
	registered := []Migration{{Version: 1}, {Version: 2}}

	assert.NoError(t, validateAppliedVersions(nil, registered))
	assert.NoError(t, validateAppliedVersions([]int{1, 2}, registered))

	err := validateAppliedVersions([]int{1, 7}, registered)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000007")
}
