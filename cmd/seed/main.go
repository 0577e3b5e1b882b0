// Command seed populates the database with demo users and friendships.
package main

import (
	"flag"
	"log"

	"talknest/internal/config"
	"talknest/internal/database"
	"talknest/internal/middleware"
	"talknest/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	friends := flag.Int("friends", 6, "Average friends per user")
	pending := flag.Int("pending", 2, "Open friend requests sent per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randomSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	flag.Parse()

	log.Println("TalkNest database seeder")
	log.Printf("Target: %d users, %d friends/user, %d pending/user, clean=%v", *numUsers, *friends, *pending, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.NewSeeder(db, seed.Options{
		NumUsers:       *numUsers,
		FriendsPerUser: *friends,
		PendingPerUser: *pending,
		ShouldClean:    *shouldClean,
		RandomSeed:     *randomSeed,
	}).Run()
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d friendships, %d pending requests", summary.Users, summary.Friendships, summary.Pending)
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
