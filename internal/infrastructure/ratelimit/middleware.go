package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"course_match_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Middleware 按客户端 IP 限流
// 计数存储出错时放行并记录日志，限流故障不影响主流程
func Middleware(store Store, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, ttl, err := store.Incr(c.Request.Context(), c.ClientIP(), window)
		if err != nil {
			zap.L().Warn("rate limit store unavailable", zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(ttl.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": errorx.ErrTooManyRequests.Code,
				"msg":  errorx.ErrTooManyRequests.Msg,
			})
			return
		}
		c.Next()
	}
}
