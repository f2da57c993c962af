// Command seed populates the database with fake data for development.
package main

import (
	"flag"
	"log"

	"cirqls/internal/config"
	"cirqls/internal/database"
	"cirqls/internal/seed"

	"github.com/joho/godotenv"
)

func main() {
	numUsers := flag.Int("users", 50, "number of users to create")
	numPosts := flag.Int("posts", 200, "number of posts to create")
	shouldClean := flag.Bool("clean", true, "wipe existing data before seeding")
	maxDays := flag.Int("days", 90, "spread post timestamps over this many days")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(database.DB, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		ShouldClean: *shouldClean,
		MaxDays:     *maxDays,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
