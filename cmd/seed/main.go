package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"zapshift/internal/config"
	"zapshift/internal/db"
	"zapshift/internal/model"
	"zapshift/internal/repository"
)

// SeedUser is one entry of the optional SEED_FILE fixture.
type SeedUser struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Region      string `json:"region"`
	District    string `json:"district"`
	Role        string `json:"role"`
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := log.New("seed")

	if cfg.OwnerEmail == "" {
		logger.Fatal("OWNER_EMAIL must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	store, closeStore, err := db.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to store: %v", err)
	}
	defer func() { _ = closeStore(context.Background()) }()
	logger.Infoj(log.JSON{"msg": "connected", "store": cfg.StoreDriver})

	users := []SeedUser{{
		Email:       cfg.OwnerEmail,
		DisplayName: "Owner",
		Region:      "Dhaka",
		District:    "Dhaka",
		Role:        string(model.RoleAdmin),
	}}
	if path := os.Getenv("SEED_FILE"); path != "" {
		extra, err := loadSeedUsers(path)
		if err != nil {
			logger.Fatalf("Failed to load %s: %v", path, err)
		}
		users = append(users, extra...)
	}

	seeded, updated, skipped, err := seedUsers(ctx, store.Users, cfg.OwnerEmail, users)
	if err != nil {
		logger.Fatalf("Failed to seed users: %v", err)
	}
	logger.Infoj(log.JSON{"msg": "seed completed", "created": seeded, "updated": updated, "skipped": skipped})
}

func loadSeedUsers(path string) ([]SeedUser, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var users []SeedUser
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return users, nil
}

// seedUsers creates missing users and brings existing ones to the listed
// role and location. The owner always ends up admin.
func seedUsers(ctx context.Context, repo repository.UserRepository, owner string, users []SeedUser) (seeded, updated, skipped int, err error) {
	for _, u := range users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		role := model.Role(u.Role)
		if email == owner {
			role = model.RoleAdmin
		}
		if email == "" || !role.Valid() {
			skipped++
			continue
		}

		existing, err := repo.FindByEmail(ctx, email)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return seeded, updated, skipped, fmt.Errorf("error checking user %s: %w", email, err)
		}

		if existing != nil {
			if err := repo.UpdateRoleByEmail(ctx, email, role); err != nil {
				return seeded, updated, skipped, fmt.Errorf("error updating user %s: %w", email, err)
			}
			if u.Region != "" && u.District != "" {
				if err := repo.UpdateProfile(ctx, email, u.Region, u.District); err != nil {
					return seeded, updated, skipped, fmt.Errorf("error updating user %s: %w", email, err)
				}
			}
			updated++
			continue
		}

		if err := repo.Create(ctx, &model.User{
			Email:       email,
			DisplayName: u.DisplayName,
			Region:      u.Region,
			District:    u.District,
			Role:        role,
			CreatedAt:   time.Now().UTC(),
		}); err != nil {
			return seeded, updated, skipped, fmt.Errorf("error creating user %s: %w", email, err)
		}
		seeded++
	}
	return seeded, updated, skipped, nil
}
