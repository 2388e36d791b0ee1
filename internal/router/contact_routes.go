package router

import "github.com/gin-gonic/gin"

// RegisterContactRoutes 注册联系方式申请相关路由
func (rt *Router) RegisterContactRoutes(r *gin.Engine) {
	contacts := r.Group("/contacts", rt.auth)
	{
		contacts.POST("/request", rt.h.Contact.Request)
		contacts.POST("/respond", rt.h.Contact.Respond)
		contacts.GET("/connections/:userId", rt.h.Contact.Connections)
		contacts.GET("/pending/:userId", rt.h.Contact.Pending)
		contacts.GET("/status/:userId/:targetId", rt.h.Contact.Status)
	}
}
