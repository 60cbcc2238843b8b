package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openflock/backend/internal/util"
)

// GetNotifications returns the caller's notifications newest-first and
// marks them all read. The read flags in the response reflect the state
// before this call; a second call returns the same records, all read.
// GET /api/notifications
func (h *Handlers) GetNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	notifications, err := h.notifFeed.List(c.Request.Context(), userID)
	if err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// DeleteAllNotifications removes every notification owned by the caller
// DELETE /api/notifications
func (h *Handlers) DeleteAllNotifications(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}

	if err := h.notifFeed.DeleteAll(c.Request.Context(), userID); err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notifications deleted"})
}

// DeleteNotification removes a single notification owned by the caller
// DELETE /api/notifications/:id
func (h *Handlers) DeleteNotification(c *gin.Context) {
	userID, ok := util.GetUserIDFromContext(c)
	if !ok {
		return
	}
	notificationID := c.Param("id")

	if err := h.notifFeed.DeleteOne(c.Request.Context(), userID, notificationID); err != nil {
		util.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}
