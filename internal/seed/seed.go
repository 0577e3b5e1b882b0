package seed

import (
	"fmt"
	"log/slog"

	"talknest/internal/middleware"
	"talknest/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers int
	// FriendsPerUser is the average number of accepted friendships per user.
	FriendsPerUser int
	// PendingPerUser is the average number of open requests each user sends.
	PendingPerUser int
	ShouldClean    bool
	SkipBcrypt     bool
	// RandomSeed makes generated data reproducible. Zero picks a random seed.
	RandomSeed int64
}

// Summary reports what a seeding run created.
type Summary struct {
	Users       int
	Friendships int
	Pending     int
}

// Seeder populates the database with a demo social graph.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder creates a Seeder bound to db.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, opts: opts, factory: NewFactory(db, opts)}
}

// ClearAll removes every user and relationship row.
func (s *Seeder) ClearAll() error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"user_friends", "friend_requests", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

type pair struct{ lo, hi uint }

func pairOf(a, b uint) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// Run clears the database when asked and seeds users plus a friend graph.
// Every unordered pair carries at most one edge, so the storage constraints
// always hold.
func (s *Seeder) Run() (Summary, error) {
	var summary Summary
	if s.opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return summary, err
		}
	}

	users := make([]*models.User, 0, s.opts.NumUsers)
	for i := 0; i < s.opts.NumUsers; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return summary, fmt.Errorf("create user: %w", err)
		}
		users = append(users, u)
	}
	summary.Users = len(users)
	if len(users) < 2 {
		return summary, nil
	}

	used := make(map[pair]bool)
	pick := func(u *models.User) *models.User {
		for attempt := 0; attempt < 10; attempt++ {
			other := users[s.factory.faker.Number(0, len(users)-1)]
			if other.ID == u.ID || used[pairOf(u.ID, other.ID)] {
				continue
			}
			used[pairOf(u.ID, other.ID)] = true
			return other
		}
		return nil
	}

	for _, u := range users {
		for i := 0; i < s.opts.FriendsPerUser/2; i++ {
			other := pick(u)
			if other == nil {
				break
			}
			if err := s.factory.MakeFriends(u, other); err != nil {
				return summary, fmt.Errorf("make friends: %w", err)
			}
			summary.Friendships++
		}
		for i := 0; i < s.opts.PendingPerUser; i++ {
			other := pick(u)
			if other == nil {
				break
			}
			if _, err := s.factory.CreateFriendRequest(u, other); err != nil {
				return summary, fmt.Errorf("create friend request: %w", err)
			}
			summary.Pending++
		}
	}

	middleware.Logger.Info("seeded social graph",
		slog.Int("users", summary.Users),
		slog.Int("friendships", summary.Friendships),
		slog.Int("pending", summary.Pending),
	)
	return summary, nil
}
