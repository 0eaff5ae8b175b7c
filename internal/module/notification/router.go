package notification

import (
	"club-activity-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (m *ModuleNotification) InitRouter(r *gin.RouterGroup) {
	notificationGroup := r.Group("/notification")
	notificationGroup.Use(middleware.Auth())
	{
		notificationGroup.GET("/list", ListNotifications)
		notificationGroup.PUT("/read/:id", MarkRead)
		notificationGroup.PUT("/read-all", MarkAllRead)
	}
}
