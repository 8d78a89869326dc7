// Command seed populates a development database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"atelier/internal/config"
	"atelier/internal/database"
	"atelier/internal/seed"
)

func main() {
	opts := seed.DefaultOptions()
	flag.IntVar(&opts.Users, "users", opts.Users, "number of accounts to create")
	flag.IntVar(&opts.PostsPerUser, "posts", opts.PostsPerUser, "posts per account")
	flag.IntVar(&opts.Follows, "follows", opts.Follows, "follow toggles to perform")
	flag.IntVar(&opts.Likes, "likes", opts.Likes, "like toggles to perform")
	flag.StringVar(&opts.Password, "password", opts.Password, "password for every seeded account")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(context.Background(), db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
