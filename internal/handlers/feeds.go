package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openflock/backend/internal/logger"
	"github.com/openflock/backend/internal/metrics"
	"github.com/openflock/backend/internal/models"
	"github.com/openflock/backend/internal/util"
)

const (
	globalFeedCacheKey = "feed:global"
	globalFeedCacheTTL = 15 * time.Second
)

// GetGlobalFeed returns every post newest-first. Responses are cached in
// Redis for a few seconds; post create/delete invalidates the key so a
// deleted post never outlives its row in the feed.
// GET /api/feed/global
func (h *Handlers) GetGlobalFeed(c *gin.Context) {
	if cached, err := h.redis.Get(c.Request.Context(), globalFeedCacheKey); err == nil && cached != "" {
		var posts []models.Post
		if json.Unmarshal([]byte(cached), &posts) == nil {
			metrics.FeedCacheLookups.WithLabelValues("hit").Inc()
			c.JSON(http.StatusOK, gin.H{"posts": posts})
			return
		}
	}
	metrics.FeedCacheLookups.WithLabelValues("miss").Inc()

	posts, err := h.feeds.Global(c.Request.Context())
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	if encoded, err := json.Marshal(posts); err == nil {
		if err := h.redis.Set(c.Request.Context(), globalFeedCacheKey, string(encoded), globalFeedCacheTTL); err != nil {
			logger.WarnWithFields("global feed cache write failed", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetFollowingFeed returns posts by users the caller follows
// GET /api/feed/following
func (h *Handlers) GetFollowingFeed(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	posts, err := h.feeds.Following(c.Request.Context(), userID)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetLikedFeed returns the posts liked by the given user
// GET /api/feed/liked/:id
func (h *Handlers) GetLikedFeed(c *gin.Context) {
	targetID := c.Param("id")

	posts, err := h.feeds.Liked(c.Request.Context(), targetID)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetAuthoredFeed returns the posts authored by the given username
// GET /api/feed/user/:username
func (h *Handlers) GetAuthoredFeed(c *gin.Context) {
	username := c.Param("username")

	posts, err := h.feeds.Authored(c.Request.Context(), username)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handlers) invalidateGlobalFeed(c *gin.Context) {
	if err := h.redis.Delete(c.Request.Context(), globalFeedCacheKey); err != nil {
		logger.WarnWithFields("global feed cache invalidation failed", err)
	}
}
