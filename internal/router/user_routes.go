package router

import "github.com/gin-gonic/gin"

// RegisterUserRoutes 注册用户相关路由
func (rt *Router) RegisterUserRoutes(r *gin.Engine) {
	users := r.Group("/users", rt.auth)
	{
		users.GET("/me", rt.h.User.Me)
		users.GET("/:userId", rt.h.User.Get)
		users.PUT("/:userId", rt.h.User.Update)
		users.GET("/:userId/rooms", rt.h.User.Rooms)
	}
}
