// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"course_match_server/internal/handler"
	"course_match_server/internal/infrastructure/middleware"
	"course_match_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有 Handler 聚合与认证中间件
type Router struct {
	h        *handler.Handlers
	auth     gin.HandlerFunc // 必须登录
	optional gin.HandlerFunc // 可匿名访问，登录时识别身份
}

// NewRouter 创建路由管理器
// users 用于认证后为调用者建档
func NewRouter(h *handler.Handlers, users middleware.UserEnsurer) *Router {
	return &Router{
		h:        h,
		auth:     middleware.JWTAuth(users),
		optional: middleware.OptionalAuth(),
	}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", rt.h.Health.Check)
	r.NoRoute(func(c *gin.Context) { handler.HandleError(c, errorx.ErrNotFound) })

	rt.RegisterRoomRoutes(r)         // 房间路由
	rt.RegisterContactRoutes(r)      // 联系方式路由
	rt.RegisterUserRoutes(r)         // 用户路由
	rt.RegisterNotificationRoutes(r) // 通知路由
	rt.RegisterScheduleRoutes(r)     // 课表导入路由
}
