package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openflock/backend/internal/util"
)

// CreatePost creates a post for the caller
// POST /api/posts
func (h *Handlers) CreatePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Text     string `json:"text"`
		ImageURL string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.social.CreatePost(c.Request.Context(), userID, req.Text, req.ImageURL)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	h.invalidateGlobalFeed(c)

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// DeletePost deletes the caller's own post, cascading comments and likes
// DELETE /api/posts/:id
func (h *Handlers) DeletePost(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")

	if err := h.social.DeletePost(c.Request.Context(), userID, postID); err != nil {
		util.RespondServiceError(c, err)
		return
	}

	h.invalidateGlobalFeed(c)

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

// ToggleLike toggles the caller's like on a post and returns the like set
// POST /api/posts/:id/like
func (h *Handlers) ToggleLike(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")

	likes, err := h.social.ToggleLike(c.Request.Context(), userID, postID)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"likes": likes})
}

// AddComment appends a comment and returns the updated post
// POST /api/posts/:id/comments
func (h *Handlers) AddComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.social.AddComment(c.Request.Context(), userID, postID, req.Text)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// DeleteComment removes a comment and returns the updated post
// DELETE /api/posts/:id/comments/:commentId
func (h *Handlers) DeleteComment(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	postID := c.Param("id")
	commentID := c.Param("commentId")

	post, err := h.social.DeleteComment(c.Request.Context(), userID, postID, commentID)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}
