// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找，敏感项可由环境变量（.env）覆盖
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"course_match_server/pkg/constants"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
	"github.com/joho/godotenv"   // .env 文件加载
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName     string `toml:"appName"`     // 应用名称，用于日志标识等
	Host        string `toml:"host"`        // 服务器监听地址，如 "0.0.0.0"
	Port        int    `toml:"port"`        // 服务器监听端口，如 8000
	Mode        string `toml:"mode"`        // 运行模式：dev / release
	SSLRedirect bool   `toml:"sslRedirect"` // 是否将 HTTP 请求重定向到 HTTPS（由 Nginx 处理 SSL 时关闭）
}

// DatabaseConfig 关系型数据库连接配置
type DatabaseConfig struct {
	Driver       string `toml:"driver"`       // postgres 或 mysql
	Dsn          string `toml:"dsn"`          // 完整连接串，非空时忽略下面的分项
	Host         string `toml:"host"`         // 数据库地址
	Port         int    `toml:"port"`         // 端口
	User         string `toml:"user"`         // 用户名
	Password     string `toml:"password"`     // 密码
	DatabaseName string `toml:"databaseName"` // 数据库名称
	SSLMode      string `toml:"sslMode"`      // postgres sslmode，如 disable / require
	AutoMigrate  bool   `toml:"autoMigrate"`  // 启动时是否自动迁移表结构
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 通知镜像使用的 Kafka 配置
// 通知以数据库为准（轮询读取），Kafka 只是给下游（如邮件投递）的至少一次副本
type KafkaConfig struct {
	Enabled           bool          `toml:"enabled"`           // 是否开启通知镜像
	HostPort          string        `toml:"hostPort"`          // Kafka 服务器地址，如 "localhost:9092"
	NotificationTopic string        `toml:"notificationTopic"` // 通知主题
	Partition         int           `toml:"partition"`         // 主题分区数，仅用于自动创建主题
	Timeout           time.Duration `toml:"timeout"`           // 写超时（秒）
}

// JWTConfig 认证配置
type JWTConfig struct {
	Secret string `toml:"secret"` // 与认证服务共享的签名密钥
}

// MatchConfig 匹配与联系方式相关配置
type MatchConfig struct {
	School                  string   `toml:"school"`                  // 课程所属学校
	CooldownMinutes         int      `toml:"cooldownMinutes"`         // 申请被拒绝后的冷却分钟数
	PrivilegedEmailSuffixes []string `toml:"privilegedEmailSuffixes"` // 认证邮箱后缀，如 "@rutgers.edu"
}

// QuotaConfig 额度配置
type QuotaConfig struct {
	DailyAllowance int `toml:"dailyAllowance"` // 非认证用户每日识别次数
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Backend       string `toml:"backend"`       // memory 或 redis
	Limit         int    `toml:"limit"`         // 每个窗口允许的请求数
	WindowSeconds int    `toml:"windowSeconds"` // 窗口长度（秒）
}

// VisionConfig 课表识别服务配置
type VisionConfig struct {
	Endpoint       string `toml:"endpoint"`       // 识别服务地址，留空则关闭识别入口
	ApiKey         string `toml:"apiKey"`         // 识别服务密钥
	TimeoutSeconds int    `toml:"timeoutSeconds"` // 调用超时
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`      // 主配置
	DatabaseConfig  `toml:"databaseConfig"`  // 数据库配置
	RedisConfig     `toml:"redisConfig"`     // Redis 配置
	LogConfig       `toml:"logConfig"`       // 日志配置
	KafkaConfig     `toml:"kafkaConfig"`     // Kafka 配置
	JWTConfig       `toml:"jwtConfig"`       // JWT 配置
	MatchConfig     `toml:"matchConfig"`     // 匹配配置
	QuotaConfig     `toml:"quotaConfig"`     // 额度配置
	RateLimitConfig `toml:"rateLimitConfig"` // 限流配置
	VisionConfig    `toml:"visionConfig"`    // 识别服务配置
}

// config 全局配置单例，延迟加载
var config *Config

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	paths := []string{
		"configs/config_local.toml",       // 本地开发配置（优先）
		"configs/config.toml",             // 默认配置
		"../../configs/config_local.toml", // 从子目录运行时的路径
		"../../configs/config.toml",       // 从子目录运行时的路径
	}

	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件、环境变量并填充默认值
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig() // 忽略加载错误，使用默认值
		// .env 不存在时直接使用进程环境变量
		if err := godotenv.Load(".env.local"); err != nil {
			_ = godotenv.Load()
		}
		config.applyEnv()
		config.applyDefaults()
	}
	return config
}

// applyEnv 使用环境变量覆盖敏感配置
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseConfig.Dsn = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTConfig.Secret = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RedisConfig.Password = v
	}
	if v := os.Getenv("VISION_API_KEY"); v != "" {
		c.VisionConfig.ApiKey = v
	}
}

// applyDefaults 为未配置项填充默认值
func (c *Config) applyDefaults() {
	if c.MainConfig.AppName == "" {
		c.MainConfig.AppName = "course_match_server"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.MainConfig.Mode == "" {
		c.MainConfig.Mode = "dev"
	}
	if c.DatabaseConfig.Driver == "" {
		c.DatabaseConfig.Driver = "postgres"
	}
	if c.DatabaseConfig.SSLMode == "" {
		c.DatabaseConfig.SSLMode = "disable"
	}
	if c.RedisConfig.Port == 0 {
		c.RedisConfig.Port = 6379
	}
	if c.KafkaConfig.NotificationTopic == "" {
		c.KafkaConfig.NotificationTopic = "notification"
	}
	if c.KafkaConfig.Partition <= 0 {
		c.KafkaConfig.Partition = 1
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 3
	}
	if c.MatchConfig.CooldownMinutes <= 0 {
		c.MatchConfig.CooldownMinutes = int(constants.CONTACT_REQUEST_COOLDOWN / time.Minute)
	}
	if c.QuotaConfig.DailyAllowance <= 0 {
		c.QuotaConfig.DailyAllowance = constants.DEFAULT_DAILY_QUOTA
	}
	if c.RateLimitConfig.Backend == "" {
		c.RateLimitConfig.Backend = "memory"
	}
	if c.RateLimitConfig.Limit <= 0 {
		c.RateLimitConfig.Limit = constants.RATE_LIMIT_DEFAULT
	}
	if c.RateLimitConfig.WindowSeconds <= 0 {
		c.RateLimitConfig.WindowSeconds = int(constants.RATE_LIMIT_WINDOW_DEFAULT / time.Second)
	}
	if c.VisionConfig.TimeoutSeconds <= 0 {
		c.VisionConfig.TimeoutSeconds = 60
	}
}

// Cooldown 申请被拒绝后的冷却时长
func (m MatchConfig) Cooldown() time.Duration {
	return time.Duration(m.CooldownMinutes) * time.Minute
}

// IsPrivilegedEmail 判断邮箱是否为认证机构邮箱
// 邮箱必须已验证，后缀大小写不敏感
func (m MatchConfig) IsPrivilegedEmail(email string, confirmed bool) bool {
	if !confirmed || email == "" {
		return false
	}
	lower := strings.ToLower(email)
	for _, suffix := range m.PrivilegedEmailSuffixes {
		if suffix != "" && strings.HasSuffix(lower, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}
