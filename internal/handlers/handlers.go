// Package handlers is the HTTP adapter. It resolves the acting identity,
// calls exactly one core operation per request, and maps the typed failure
// back onto a transport status. All logging and telemetry for core errors
// happens here, never inside the core.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/openflock/backend/internal/auth"
	"github.com/openflock/backend/internal/cache"
	"github.com/openflock/backend/internal/feed"
	"github.com/openflock/backend/internal/middleware"
	"github.com/openflock/backend/internal/notifications"
	"github.com/openflock/backend/internal/repository"
	"github.com/openflock/backend/internal/social"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	authService *auth.Service
	social      *social.Service
	feeds       *feed.Composer
	notifFeed   *notifications.Feed
	users       *repository.UserRepository
	redis       *cache.RedisClient
}

// NewHandlers creates a new handlers instance
func NewHandlers(authService *auth.Service, socialService *social.Service, feeds *feed.Composer, notifFeed *notifications.Feed, users *repository.UserRepository) *Handlers {
	return &Handlers{
		authService: authService,
		social:      socialService,
		feeds:       feeds,
		notifFeed:   notifFeed,
		users:       users,
	}
}

// SetRedisClient enables the short-TTL global feed cache
func (h *Handlers) SetRedisClient(redis *cache.RedisClient) {
	h.redis = redis
}

// RegisterRoutes wires every route onto the engine
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/login", h.Login)

	api := r.Group("/api")
	api.Use(middleware.RequireAuth(h.authService))

	api.GET("/users/suggested", h.GetSuggestedUsers)
	api.GET("/users/:username", h.GetUserProfile)
	api.POST("/users/update", h.UpdateProfile)
	api.POST("/social/follow", h.FollowUnfollow)

	api.POST("/posts", h.CreatePost)
	api.DELETE("/posts/:id", h.DeletePost)
	api.POST("/posts/:id/like", h.ToggleLike)
	api.POST("/posts/:id/comments", h.AddComment)
	api.DELETE("/posts/:id/comments/:commentId", h.DeleteComment)

	api.GET("/feed/global", h.GetGlobalFeed)
	api.GET("/feed/following", h.GetFollowingFeed)
	api.GET("/feed/liked/:id", h.GetLikedFeed)
	api.GET("/feed/user/:username", h.GetAuthoredFeed)

	api.GET("/notifications", h.GetNotifications)
	api.DELETE("/notifications", h.DeleteAllNotifications)
	api.DELETE("/notifications/:id", h.DeleteNotification)
}
