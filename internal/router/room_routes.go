package router

import "github.com/gin-gonic/gin"

// RegisterRoomRoutes 注册房间相关路由
// 房间详情可匿名访问，其余需要登录
func (rt *Router) RegisterRoomRoutes(r *gin.Engine) {
	r.GET("/rooms/:id", rt.optional, rt.h.Room.Detail)

	rooms := r.Group("/rooms", rt.auth)
	{
		rooms.POST("/join", rt.h.Room.Join)
		rooms.GET("/:id/privacy", rt.h.Room.GetPrivacy)
		rooms.POST("/:id/privacy", rt.h.Room.SetPrivacy)
		rooms.POST("/:id/leave", rt.h.Room.Leave)
	}
}
