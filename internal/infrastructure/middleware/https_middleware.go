package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// TlsHandler HTTPS 重定向与安全响应头
// sslRedirect 为 false 时（由 Nginx 终止 TLS）只设置安全头
func TlsHandler(host string, port int, sslRedirect bool) gin.HandlerFunc {
	// 在返回函数之前初始化，避免每次请求都重复创建对象
	secureMiddleware := secure.New(secure.Options{
		SSLRedirect:          sslRedirect,
		SSLHost:              host + ":" + strconv.Itoa(port),
		FrameDeny:            true,
		ContentTypeNosniff:   true,
		BrowserXssFilter:     true,
		SSLProxyHeaders:      map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:        false,
		STSSeconds:           0,
		STSIncludeSubdomains: false,
	})

	return func(c *gin.Context) {
		err := secureMiddleware.Process(c.Writer, c.Request)
		if err != nil {
			// 不要在中间件里用 Fatal，否则服务会挂掉
			zap.L().Error("TLS redirection failed", zap.Error(err))
			c.Abort()
			return
		}

		// 重定向时 secure 已写出响应
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
