package main

import (
	"context"
	_ "embed"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/acgh213/marklinks/internal/bookmarks"
	"github.com/acgh213/marklinks/internal/db"
)

//go:embed seed.yaml
var seedYAML []byte

type seedLink struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Tags        string `yaml:"tags"`
	DaysAgo     int    `yaml:"days_ago"`
}

func main() {
	_ = godotenv.Load()

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	var links []seedLink
	if err := yaml.Unmarshal(seedYAML, &links); err != nil {
		log.Fatalf("failed to parse seed data: %v", err)
	}

	if err := db.RunMigrations(databaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	repo := bookmarks.NewRepository(pool)

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("failed to count bookmarks: %v", err)
	}
	if count > 0 {
		fmt.Println("Database already has bookmarks. Skipping seed.")
		return
	}

	now := time.Now()
	for _, l := range links {
		b, err := repo.Create(ctx, bookmarks.CreateInput{
			URL:         l.URL,
			Title:       l.Title,
			Description: l.Description,
			Tags:        l.Tags,
			CreatedAt:   now.AddDate(0, 0, -l.DaysAgo),
		})
		if err != nil {
			log.Fatalf("failed to create bookmark %q: %v", l.URL, err)
		}
		fmt.Printf("Created bookmark: %s (%s)\n", b.ID, b.Title)
	}

	fmt.Printf("\n=== Seed Complete: %d bookmarks ===\n", len(links))
}
