package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
)

// GetNotificationsHandler lists the user's notifications, newest first.
func GetNotificationsHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := owner(c, c.Query("userId"))
		if err != nil {
			failErr(c, err)
			return
		}
		notifications, err := db.GetNotificationsByUserID(c.Request.Context(), userID)
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "notifications found", gin.H{"notifications": notifications})
	}
}

func MarkNotificationAsReadHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := idParam(c)
		ctx := c.Request.Context()

		notification, err := db.GetNotificationByID(ctx, id)
		if err == nil {
			err = checkOwner(c, notification.UserID)
		}
		if err == nil {
			err = db.MarkNotificationAsRead(ctx, id)
		}
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "notification marked as read", nil)
	}
}

func DeleteNotificationHandler(db *database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := idParam(c)
		ctx := c.Request.Context()

		notification, err := db.GetNotificationByID(ctx, id)
		if err == nil {
			err = checkOwner(c, notification.UserID)
		}
		if err == nil {
			err = db.DeleteNotification(ctx, id)
		}
		if err != nil {
			failErr(c, err)
			return
		}
		ok(c, http.StatusOK, "notification deleted", nil)
	}
}
