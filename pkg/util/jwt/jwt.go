// Package jwt 解析认证服务签发的 Bearer Token
// 本服务不签发也不刷新 Token，只把 Token 解析为调用者身份用于归属校验
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret string // 与认证服务共享的 HS256 密钥
}

// 全局配置，由 Init 函数初始化
var jwtConfig *JWTConfig

// Init 初始化 JWT 配置
func Init(secret string) {
	jwtConfig = &JWTConfig{Secret: secret}
}

// Claims 认证服务签发的声明
// Subject 即用户 ID
type Claims struct {
	Email          string `json:"email"`
	EmailConfirmed bool   `json:"email_confirmed"`
	jwt.RegisteredClaims
}

// Identity 解析后的调用者身份
type Identity struct {
	UserID         string
	Email          string
	EmailConfirmed bool
}

// ParseToken 解析并验证 Token，返回调用者身份
func ParseToken(tokenString string) (*Identity, error) {
	if jwtConfig == nil || jwtConfig.Secret == "" {
		return nil, errors.New("jwt secret not configured")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtConfig.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return &Identity{
		UserID:         claims.Subject,
		Email:          claims.Email,
		EmailConfirmed: claims.EmailConfirmed,
	}, nil
}

// GenerateToken 生成测试/本地联调用的 Token，格式与认证服务一致
func GenerateToken(userID, email string, emailConfirmed bool, ttl time.Duration) (string, error) {
	if jwtConfig == nil || jwtConfig.Secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := Claims{
		Email:          email,
		EmailConfirmed: emailConfirmed,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtConfig.Secret))
}
