// Admin CLI for Openflock. backfill-counts recomputes the cached counter
// columns from the edge tables, which are the source of truth.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/openflock/backend/internal/database"
	"github.com/openflock/backend/internal/models"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Openflock admin tool",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				log.Println("Warning: .env file not found, using system environment variables")
			}
			return database.Initialize()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = database.Close()
		},
	}

	rootCmd.AddCommand(statsCmd(), backfillCountsCmd(), migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print row counts for the main tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := []struct {
				name  string
				model interface{}
			}{
				{"users", &models.User{}},
				{"posts", &models.Post{}},
				{"comments", &models.Comment{}},
				{"follows", &models.Follow{}},
				{"post_likes", &models.PostLike{}},
				{"notifications", &models.Notification{}},
			}
			for _, t := range tables {
				var count int64
				if err := database.DB.Model(t.model).Count(&count).Error; err != nil {
					return fmt.Errorf("count %s: %w", t.name, err)
				}
				fmt.Printf("%-14s %d\n", t.name, count)
			}
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.Migrate()
		},
	}
}

// backfillCountsCmd repairs counter drift. Counter updates are applied
// best-effort after edge writes, so a crash or store hiccup can leave the
// cached columns behind; this recomputes every counter from its edge table.
func backfillCountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill-counts",
		Short: "Recompute cached counters from the follows, post_likes and comments tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db := database.DB

			if err := db.Exec(`UPDATE users SET
				follower_count = (SELECT COUNT(*) FROM follows WHERE followee_id = users.id),
				following_count = (SELECT COUNT(*) FROM follows WHERE follower_id = users.id),
				post_count = (SELECT COUNT(*) FROM posts WHERE user_id = users.id)`).Error; err != nil {
				return fmt.Errorf("backfill user counts: %w", err)
			}

			if err := db.Exec(`UPDATE posts SET
				like_count = (SELECT COUNT(*) FROM post_likes WHERE post_id = posts.id),
				comment_count = (SELECT COUNT(*) FROM comments WHERE post_id = posts.id)`).Error; err != nil {
				return fmt.Errorf("backfill post counts: %w", err)
			}

			fmt.Println("Counters backfilled")
			return nil
		},
	}
}
