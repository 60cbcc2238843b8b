// Seed populates a development database with fake users, posts, follows,
// likes and comments so the feeds have something to show.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/openflock/backend/internal/database"
	"github.com/openflock/backend/internal/models"
	"github.com/openflock/backend/internal/repository"
	"github.com/openflock/backend/internal/social"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	userCount := flag.Int("users", 10, "number of users to create")
	postCount := flag.Int("posts", 30, "number of posts to create")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	if err := database.Initialize(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(database.DB, repository.DefaultTimeout)
	posts := repository.NewPostRepository(database.DB, repository.DefaultTimeout)
	notifs := repository.NewNotificationRepository(database.DB, repository.DefaultTimeout)
	socialService := social.NewService(users, posts, notifs, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	seeded := make([]*models.User, 0, *userCount)
	for i := 0; i < *userCount; i++ {
		user := &models.User{
			Username:     fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:        fmt.Sprintf("seed%d_%s", i, gofakeit.Email()),
			DisplayName:  gofakeit.Name(),
			Bio:          gofakeit.Sentence(8),
			PasswordHash: string(hash),
			AvatarURL:    gofakeit.ImageURL(200, 200),
		}
		if err := users.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		seeded = append(seeded, user)
	}
	log.Printf("Created %d users", len(seeded))

	created := make([]*models.Post, 0, *postCount)
	for i := 0; i < *postCount; i++ {
		author := seeded[rand.Intn(len(seeded))]
		post, err := socialService.CreatePost(ctx, author.ID, gofakeit.Sentence(12), "")
		if err != nil {
			log.Fatalf("Failed to create post: %v", err)
		}
		created = append(created, post)
	}
	log.Printf("Created %d posts", len(created))

	// Random follow edges and likes; toggles keep everything consistent
	follows, likes, comments := 0, 0, 0
	for _, actor := range seeded {
		for _, target := range seeded {
			if actor.ID != target.ID && rand.Float32() < 0.3 {
				if _, err := socialService.FollowUnfollow(ctx, actor.ID, target.ID); err == nil {
					follows++
				}
			}
		}
		for _, post := range created {
			if rand.Float32() < 0.2 {
				if _, err := socialService.ToggleLike(ctx, actor.ID, post.ID); err == nil {
					likes++
				}
			}
			if rand.Float32() < 0.1 {
				if _, err := socialService.AddComment(ctx, actor.ID, post.ID, gofakeit.Sentence(6)); err == nil {
					comments++
				}
			}
		}
	}
	log.Printf("Created %d follows, %d likes, %d comments", follows, likes, comments)
	log.Println("Seed complete")
}
