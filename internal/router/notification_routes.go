package router

import "github.com/gin-gonic/gin"

// RegisterNotificationRoutes 注册通知相关路由
func (rt *Router) RegisterNotificationRoutes(r *gin.Engine) {
	notifications := r.Group("/notifications", rt.auth)
	{
		notifications.POST("/read", rt.h.Notification.MarkRead)
		notifications.GET("/:userId", rt.h.Notification.List)
		notifications.GET("/:userId/unreadCount", rt.h.Notification.UnreadCount)
	}
}
