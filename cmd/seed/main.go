package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"nodewars/internal/config"
	"nodewars/internal/model"
	"nodewars/internal/repository"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(cfg.MongoDB)
	problemRepo := repository.NewProblemRepo(db)
	userRepo := repository.NewUserRepo(db)

	problems := []*model.Problem{
		{
			Slug:        "two-sum",
			Title:       "Two Sum",
			Difficulty:  model.DifficultyEasy,
			Description: "Return the indices of the two numbers that add up to the target.",
		},
		{
			Slug:        "valid-parentheses",
			Title:       "Valid Parentheses",
			Difficulty:  model.DifficultyEasy,
			Description: "Decide whether a string of brackets is balanced.",
		},
		{
			Slug:        "merge-intervals",
			Title:       "Merge Intervals",
			Difficulty:  model.DifficultyMedium,
			Description: "Merge all overlapping intervals.",
		},
	}
	for _, p := range problems {
		exists, err := problemRepo.Exists(ctx, p.Slug)
		if err != nil {
			log.Fatalf("Failed to check problem %s: %v", p.Slug, err)
		}
		if exists {
			continue
		}
		if err := problemRepo.Create(ctx, p); err != nil {
			log.Fatalf("Failed to insert problem %s: %v", p.Slug, err)
		}
	}

	users := []*model.User{
		{Username: "alice", PreferredUsername: "alice", Email: "alice@example.com", ProfilePicture: "avatars/alice.png", Elo: 1200},
		{Username: "bob", PreferredUsername: "bob", Email: "bob@example.com", ProfilePicture: "avatars/bob.png", Elo: 1185},
	}
	for _, u := range users {
		if err := userRepo.Upsert(ctx, u); err != nil {
			log.Fatalf("Failed to upsert user %s: %v", u.Username, err)
		}
	}

	fmt.Printf("Seeded %d problems and %d users into %s\n", len(problems), len(users), cfg.MongoDB)
}
