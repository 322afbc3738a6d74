// Command seed fills the configured database with demo and fake data.
package main

import (
	"context"
	"flag"
	"log"

	"recordhub/internal/auth"
	"recordhub/internal/config"
	"recordhub/internal/seed"
	"recordhub/internal/server"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of fake users to create")
	postsPerUser := flag.Int("posts", 5, "Number of posts per fake user")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = time based)")
	demo := flag.Bool("demo", true, "Also create the built-in demo users")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	ctx := context.Background()
	defer func() { _ = srv.Shutdown(ctx) }()

	if *demo {
		created, err := seed.SeedDemoUsers(ctx, srv.UserRepository(), srv.AuthService())
		if err != nil {
			log.Fatalf("Demo user seeding failed: %v", err)
		}
		log.Printf("Demo users created: %d", created)
	}

	factory := seed.NewFactory(srv.UserRepository(), srv.PostRepository(),
		auth.NewBcryptHasher(cfg.BcryptCost), seed.Options{Seed: *randSeed})
	res, err := factory.Populate(ctx, *numUsers, *postsPerUser)
	if err != nil {
		log.Fatalf("Seeding failed after %d users, %d posts: %v", res.Users, res.Posts, err)
	}

	log.Printf("Created %d users and %d posts", res.Users, res.Posts)
	log.Printf("All seeded users have the password: %s", seed.DemoPassword)
}
