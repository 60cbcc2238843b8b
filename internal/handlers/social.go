package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openflock/backend/internal/util"
)

// FollowUnfollow toggles the caller's follow edge on the target user
// POST /api/social/follow
func (h *Handlers) FollowUnfollow(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		TargetUserID string `json:"target_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	followed, err := h.social.FollowUnfollow(c.Request.Context(), userID, req.TargetUserID)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"followed": followed})
}
