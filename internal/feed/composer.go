// Package feed composes read-only views from the content store and the
// follow graph. Nothing here mutates state; joins are resolved with
// batched preloads at this boundary.
package feed

import (
	"context"

	"github.com/openflock/backend/internal/models"
	"github.com/openflock/backend/internal/repository"
)

// Composer builds the global, following, liked and authored feeds
type Composer struct {
	users *repository.UserRepository
	posts *repository.PostRepository
}

// NewComposer creates the feed composer
func NewComposer(users *repository.UserRepository, posts *repository.PostRepository) *Composer {
	return &Composer{users: users, posts: posts}
}

// Global returns every post, newest first, with author and comment-author
// summaries resolved
func (c *Composer) Global(ctx context.Context) ([]models.Post, error) {
	return c.posts.ListGlobal(ctx)
}

// Following returns posts authored by anyone the user follows, newest
// first. A user who follows nobody gets an empty feed, not an error.
func (c *Composer) Following(ctx context.Context, userID string) ([]models.Post, error) {
	followingIDs, err := c.users.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.posts.ListByAuthorIDs(ctx, followingIDs)
}

// Liked returns the posts the given user likes, in stored edge order
func (c *Composer) Liked(ctx context.Context, userID string) ([]models.Post, error) {
	if _, err := c.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	likedIDs, err := c.posts.LikedPostIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.posts.ListByIDs(ctx, likedIDs)
}

// Authored returns the posts of the user with the given username, newest
// first
func (c *Composer) Authored(ctx context.Context, username string) ([]models.Post, error) {
	user, err := c.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return c.posts.ListByAuthorIDs(ctx, []string{user.ID})
}
