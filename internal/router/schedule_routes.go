package router

import "github.com/gin-gonic/gin"

// RegisterScheduleRoutes 注册课表导入相关路由
func (rt *Router) RegisterScheduleRoutes(r *gin.Engine) {
	schedule := r.Group("/schedule", rt.auth)
	{
		schedule.POST("/parse", rt.h.Schedule.Parse)
		schedule.POST("/confirm", rt.h.Schedule.Confirm)
	}
}
