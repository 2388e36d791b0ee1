package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"course_match_server/internal/config"
	"course_match_server/internal/dao/database"
	myredis "course_match_server/internal/dao/redis"
	"course_match_server/internal/handler"
	"course_match_server/internal/https_server"
	"course_match_server/internal/infrastructure/logger"
	"course_match_server/internal/infrastructure/mq"
	"course_match_server/internal/infrastructure/ratelimit"
	"course_match_server/internal/service"
	"course_match_server/internal/service/schedule"
	"course_match_server/pkg/constants"
	"course_match_server/pkg/util/jwt"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.MainConfig.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer zap.L().Sync()
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := database.Init()
	checks := map[string]handler.Checker{"database": repos.Ping}

	// 4. 限流存储，多实例部署时使用 Redis
	var rateStore ratelimit.Store = ratelimit.NewMemoryStore(nil)
	if conf.RateLimitConfig.Backend == "redis" {
		cache, err := myredis.Init()
		if err != nil {
			zap.L().Fatal("Redis 初始化失败", zap.Error(err))
		}
		defer cache.Close()
		rateStore = ratelimit.NewRedisStore(cache)
		checks["redis"] = cache.Ping
	}

	// 5. 初始化 JWT
	if conf.JWTConfig.Secret == "" {
		zap.L().Fatal("jwtConfig.secret 未配置")
	}
	jwt.Init(conf.JWTConfig.Secret)

	// 6. 通知镜像（可选）
	var publisher mq.NotificationPublisher = mq.NopPublisher{}
	if conf.KafkaConfig.Enabled {
		mq.EnsureTopic(conf.KafkaConfig)
		publisher = mq.NewKafkaPublisher(conf.KafkaConfig, constants.NOTIFY_WORKER_NUM, constants.NOTIFY_WORKER_BUFFER)
		zap.L().Info("Kafka 通知镜像已开启", zap.String("topic", conf.KafkaConfig.NotificationTopic))
	}

	// 7. 初始化 Service 与 Handler 层 (依赖注入)
	svc := service.NewServices(repos, conf, publisher, schedule.NewVisionParser(conf.VisionConfig))
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("初始化翻译器失败", zap.Error(err))
	}
	handlers := handler.NewHandlers(svc, checks)

	// 8. 初始化 HTTP 服务器
	engine := https_server.Init(conf, https_server.Options{
		Handlers:  handlers,
		Users:     svc.User,
		RateStore: rateStore,
	})
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 设置信号监听
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
	// 等待已入队的通知镜像写完
	if err := publisher.Close(); err != nil {
		zap.L().Error("close notification publisher", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}
