// Command migrate applies or inspects the database schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"cirqls/internal/config"
	"cirqls/internal/database"
	"cirqls/internal/models"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <auto|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "auto":
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("automigration failed: %w", err)
		}
		log.Println("schema applied")
	case "status":
		tables := map[string]any{
			"users":       &models.User{},
			"follows":     &models.Follow{},
			"communities": &models.Community{},
			"members":     &models.Member{},
			"moderators":  &models.Moderator{},
			"posts":       &models.Post{},
			"saved_posts": &models.SavedPost{},
			"comments":    &models.Comment{},
			"reactions":   &models.Reaction{},
			"messages":    &models.Message{},
		}
		migrator := db.Migrator()
		missing := 0
		for name, model := range tables {
			if migrator.HasTable(model) {
				log.Printf("present: %s", name)
			} else {
				log.Printf("missing: %s", name)
				missing++
			}
		}
		if missing > 0 {
			log.Printf("%d table(s) missing; run 'migrate auto'", missing)
		}
	default:
		return usage()
	}

	return nil
}
