// Package common 放置各业务 Service 共用的时钟、ID 生成与错误转换
package common

import (
	"time"

	"github.com/google/uuid"
)

// Env Service 运行环境，测试时替换为可控实现
type Env struct {
	Now   func() time.Time
	NewID func() string
}

// Option 修改 Env
type Option func(*Env)

// WithClock 替换时钟
func WithClock(now func() time.Time) Option {
	return func(e *Env) { e.Now = now }
}

// WithIDGenerator 替换 ID 生成器
func WithIDGenerator(next func() string) Option {
	return func(e *Env) { e.NewID = next }
}

// NewEnv 默认使用 UTC 当前时间与 UUID v4
func NewEnv(opts ...Option) Env {
	env := Env{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&env)
	}
	return env
}

// FormatTime 接口层统一的时间格式
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
