// Package bootstrap wires process-level dependencies before the server starts.
package bootstrap

import (
	"fmt"
	"log/slog"

	"talknest/internal/cache"
	"talknest/internal/config"
	"talknest/internal/database"
	"talknest/internal/middleware"
	"talknest/internal/models"
	"talknest/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData populates an empty development database with demo users.
	SeedDemoData bool
	DemoUsers    int
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	r := cache.InitRedis(cfg.RedisURL)

	if err := ensureDemoData(cfg, db, opts); err != nil {
		return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
	}

	return db, r, nil
}

func ensureDemoData(cfg *config.Config, db *gorm.DB, opts Options) error {
	if !opts.SeedDemoData || cfg.IsProduction() {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		middleware.Logger.Info("demo data skipped, users already present", slog.Int64("users", count))
		return nil
	}

	n := opts.DemoUsers
	if n <= 0 {
		n = 20
	}
	_, err := seed.NewSeeder(db, seed.Options{
		NumUsers:       n,
		FriendsPerUser: 4,
		PendingPerUser: 1,
	}).Run()
	return err
}
