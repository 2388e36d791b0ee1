// Package database 提供数据访问层的初始化
// 负责建立数据库连接（PostgreSQL / MySQL）、自动迁移表结构、初始化 Repository 层
package database

import (
	"fmt"

	"course_match_server/internal/config"                  // 配置管理
	"course_match_server/internal/dao/database/repository" // Repository 层
	"course_match_server/internal/model"                   // 数据模型

	"go.uber.org/zap"                        // 日志库
	mysqldriver "gorm.io/driver/mysql"       // GORM MySQL 驱动
	postgresdriver "gorm.io/driver/postgres" // GORM PostgreSQL 驱动
	"gorm.io/gorm"                           // GORM ORM 框架
	gormlogger "gorm.io/gorm/logger"
)

// Init 初始化数据库连接并返回 Repository 层实例
// 执行步骤：
//  1. 根据配置选择驱动并构建 DSN
//  2. 使用 GORM 建立数据库连接（开启 TranslateError，唯一键冲突映射为 ErrDuplicatedKey）
//  3. 按需执行 AutoMigrate
//  4. 创建并返回 Repository 实例
func Init() *repository.Repositories {
	conf := config.GetConfig()

	dialector, err := Dialector(conf.DatabaseConfig)
	if err != nil {
		zap.L().Fatal("数据库配置错误", zap.Error(err))
	}

	gormConf := &gorm.Config{TranslateError: true}
	if conf.MainConfig.Mode == "release" {
		gormConf.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := gorm.Open(dialector, gormConf)
	if err != nil {
		// 连接失败，记录致命错误并退出程序
		zap.L().Fatal("数据库连接失败", zap.String("driver", conf.DatabaseConfig.Driver), zap.Error(err))
	}

	if conf.DatabaseConfig.AutoMigrate {
		if err := Migrate(db); err != nil {
			zap.L().Fatal("数据库迁移失败", zap.Error(err))
		}
	}

	zap.L().Info("数据库初始化完成", zap.String("driver", conf.DatabaseConfig.Driver))
	return repository.NewRepositories(db)
}

// Migrate 自动迁移表结构
// 如果表不存在则创建，如果字段变更则更新结构
// 注意：不会删除已有字段或数据
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UserInfo{},           // 用户资料表
		&model.Course{},             // 课程表
		&model.Room{},               // 房间表
		&model.RoomMember{},         // 房间成员表
		&model.ContactRequest{},     // 联系方式申请表
		&model.Connection{},         // 用户连接表
		&model.RoomPrivacySetting{}, // 房间隐私设置表
		&model.Notification{},       // 通知表
		&model.CatalogSection{},     // 课程目录缓存表
	)
}

// Dialector 根据驱动类型返回 GORM 方言
func Dialector(c config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := BuildDSN(c)
	switch c.Driver {
	case "postgres", "postgresql":
		return postgresdriver.Open(dsn), nil
	case "mysql":
		return mysqldriver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// BuildDSN 构建连接字符串，配置了完整 Dsn 时直接使用
func BuildDSN(c config.DatabaseConfig) string {
	if c.Dsn != "" {
		return c.Dsn
	}
	switch c.Driver {
	case "mysql":
		// 格式：user:password@tcp(host:port)/database?params
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.DatabaseName)
	default:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.Host, c.Port, c.User, c.Password, c.DatabaseName, c.SSLMode)
	}
}
