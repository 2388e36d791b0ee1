// Package https_server 提供 HTTP/HTTPS 服务器的初始化和配置
// 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"time"

	"course_match_server/internal/config"                    // 配置管理
	"course_match_server/internal/handler"                   // Handler 聚合对象
	"course_match_server/internal/infrastructure/logger"     // 自定义日志中间件
	"course_match_server/internal/infrastructure/middleware" // 认证与 TLS 中间件
	"course_match_server/internal/infrastructure/ratelimit"  // 限流中间件
	"course_match_server/internal/router"                    // 路由注册

	"github.com/gin-contrib/cors" // CORS 跨域中间件
	"github.com/gin-gonic/gin"    // Gin Web 框架
)

// Options 构建引擎所需的依赖
type Options struct {
	Handlers  *handler.Handlers
	Users     middleware.UserEnsurer
	RateStore ratelimit.Store
}

// Init 初始化 HTTP/HTTPS 服务器并返回 Gin 引擎实例
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则与可选的 TLS 重定向
//  4. 按 IP 限流
//  5. 注册业务路由
func Init(conf *config.Config, opts Options) *gin.Engine {
	if conf.MainConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	// 创建空白 Gin 引擎（不使用 gin.Default() 以便完全控制中间件）
	engine := gin.New()

	engine.Use(logger.GinLogger())
	// 参数 true 表示在日志中包含堆栈信息
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.ExposeHeaders = []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 处理 SSL 时 sslRedirect 关闭，只保留安全响应头
	engine.Use(middleware.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port, conf.MainConfig.SSLRedirect))

	if opts.RateStore != nil {
		window := time.Duration(conf.RateLimitConfig.WindowSeconds) * time.Second
		engine.Use(ratelimit.Middleware(opts.RateStore, conf.RateLimitConfig.Limit, window))
	}

	rt := router.NewRouter(opts.Handlers, opts.Users)
	rt.RegisterRoutes(engine)

	return engine
}
