package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openflock/backend/internal/errors"
	"github.com/openflock/backend/internal/util"
)

// GetUserProfile returns a user's public profile by username
// GET /api/users/:username
func (h *Handlers) GetUserProfile(c *gin.Context) {
	username := c.Param("username")

	user, err := h.users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// GetSuggestedUsers returns up to 4 users the caller does not follow yet
// GET /api/users/suggested
func (h *Handlers) GetSuggestedUsers(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	users, err := h.users.Suggested(c.Request.Context(), userID, 4)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateProfile updates the caller's own profile fields
// POST /api/users/update
func (h *Handlers) UpdateProfile(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}

	var req struct {
		DisplayName *string `json:"display_name,omitempty"`
		Bio         *string `json:"bio,omitempty"`
		Link        *string `json:"link,omitempty"`
		Email       *string `json:"email,omitempty"`
		AvatarURL   *string `json:"avatar_url,omitempty"`
		CoverURL    *string `json:"cover_url,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	if req.Email != nil {
		if !util.IsValidEmail(*req.Email) {
			util.RespondValidationError(c, "email", "invalid email format")
			return
		}
		existing, err := h.users.GetByEmail(c.Request.Context(), *req.Email)
		if err == nil && existing.ID != user.ID {
			util.RespondConflict(c, "email")
			return
		}
		if err != nil && !errors.IsCode(err, errors.ErrNotFound) {
			util.RespondServiceError(c, err)
			return
		}
		user.Email = *req.Email
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Link != nil {
		user.Link = *req.Link
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.CoverURL != nil {
		user.CoverURL = *req.CoverURL
	}

	if err := h.users.Update(c.Request.Context(), user); err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
