// Command main runs the database seeder for SkillSwap.
package main

import (
	"flag"
	"log"
	"time"

	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/middleware"
	"skillswap/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 0, "Number of random users to create on top of the demo accounts")
	numRequests := flag.Int("requests", 100, "Number of random requests between the random users")
	shouldClean := flag.Bool("clean", false, "Clean database before seeding")
	fast := flag.Bool("fast", false, "Skip bcrypt for random users")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "Lifetime of the printed demo tokens")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// cached user lookups must not outlive a clean
	cache.InitRedis(cfg.RedisURL)

	if *shouldClean {
		if err := seed.ClearAll(db); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	demo, err := seed.SeedDemo(db)
	if err != nil {
		log.Fatalf("❌ Demo seeding failed: %v", err)
	}

	if *numUsers > 0 {
		log.Printf("Target: %d users, %d requests\n", *numUsers, *numRequests)
		f := seed.NewFactory(db, seed.SeedOptions{SkipBcrypt: *fast})
		if _, err := f.Marketplace(*numUsers, *numRequests); err != nil {
			log.Fatalf("❌ Marketplace seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Demo accounts:")
	for _, name := range []string{"alice", "bob", "carol"} {
		u := demo.Users[name]
		token, err := middleware.GenerateToken(cfg.JWTSecret, u.ID, *tokenTTL)
		if err != nil {
			log.Fatalf("❌ Token for %s: %v", name, err)
		}
		log.Printf("  %-6s Bearer %s", name, token)
	}
	log.Printf("📧 All seeded users have the password: %s", seed.DemoPassword)
}
