package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Checker 依赖健康检查
type Checker func(ctx context.Context) error

// HealthHandler 健康检查
type HealthHandler struct {
	checks map[string]Checker
}

// NewHealthHandler checks 为依赖名到检查函数的映射，如 database、redis
func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Check GET /healthz
// 任一依赖不可用时返回 503
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	result := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			zap.L().Warn("health check failed", zap.String("dependency", name), zap.Error(err))
			result[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		result[name] = "up"
	}
	c.JSON(status, gin.H{"status": http.StatusText(status), "dependencies": result})
}
