package server

import (
	"net/http"
	"strconv"

	"compustore-be/internal/utils"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListNotifications(c *gin.Context) {
	customerID, ok := utils.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false, "error": "not authorized", "kind": "NotAuthorized",
		})
		return
	}

	notifications, err := s.notifications.List(
		c.Request.Context(), customerID, c.Query("unread") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": notifications})
}

func (s *Server) handleMarkNotificationRead(c *gin.Context) {
	customerID, ok := utils.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false, "error": "not authorized", "kind": "NotAuthorized",
		})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false, "error": "invalid notification id", "kind": "BadRequest",
		})
		return
	}

	if err := s.notifications.MarkRead(c.Request.Context(), id, customerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleMarkAllNotificationsRead(c *gin.Context) {
	customerID, ok := utils.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false, "error": "not authorized", "kind": "NotAuthorized",
		})
		return
	}

	if err := s.notifications.MarkAllRead(c.Request.Context(), customerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
