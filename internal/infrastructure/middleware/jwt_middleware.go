package middleware

import (
	"context"
	"strings"

	"course_match_server/internal/infrastructure/logger"
	"course_match_server/pkg/errorx"
	"course_match_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserEnsurer 首次访问时为调用者建立资料行并同步认证标记
type UserEnsurer interface {
	EnsureUser(ctx context.Context, identity *jwt.Identity) error
}

var (
	errBadTokenFormat = errorx.New(errorx.CodeUnauthorized, "Token 格式错误，请使用 Bearer Token")
	errInvalidToken   = errorx.New(errorx.CodeUnauthorized, "Token 已过期或无效，请重新登录")
)

// JWTAuth JWT 认证中间件
// 验证 Access Token，确保本地有用户资料，并将调用者身份存入上下文
func JWTAuth(users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 从 Header 获取 Token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWith(c, errorx.ErrUnauthorized)
			return
		}

		// 2. 解析 Bearer Token
		token, ok := bearerToken(authHeader)
		if !ok {
			abortWith(c, errBadTokenFormat)
			return
		}

		// 3. 验证 Token
		identity, err := jwt.ParseToken(token)
		if err != nil {
			abortWith(c, errInvalidToken)
			return
		}

		// 4. 建立本地资料行
		if users != nil {
			if err := users.EnsureUser(c.Request.Context(), identity); err != nil {
				zap.L().Error("ensure user failed", zap.String("user_id", identity.UserID), zap.Error(err))
				abortWith(c, errorx.ErrServerBusy)
				return
			}
		}

		// 5. 将用户信息存入上下文，供后续 Handler 使用
		setIdentity(c, identity)
		c.Next()
	}
}

// OptionalAuth 可选认证
// 携带合法 Token 时写入身份，没有或无效时按匿名处理，不会拒绝请求
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if identity, err := jwt.ParseToken(token); err == nil {
				setIdentity(c, identity)
			}
		}
		c.Next()
	}
}

// CurrentUserID 从上下文取调用者 ID，匿名时返回空字符串
func CurrentUserID(c *gin.Context) string {
	return c.GetString(logger.ContextUserIDKey)
}

func setIdentity(c *gin.Context, identity *jwt.Identity) {
	c.Set(logger.ContextUserIDKey, identity.UserID)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func abortWith(c *gin.Context, err *errorx.CodeError) {
	c.AbortWithStatusJSON(errorx.HTTPStatus(err.Code), gin.H{
		"code": err.Code,
		"msg":  err.Msg,
	})
}
