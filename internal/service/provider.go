// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"course_match_server/internal/config"
	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/infrastructure/mq"
	"course_match_server/internal/service/catalog"
	"course_match_server/internal/service/common"
	"course_match_server/internal/service/contact"
	"course_match_server/internal/service/notification"
	"course_match_server/internal/service/quota"
	"course_match_server/internal/service/room"
	"course_match_server/internal/service/schedule"
	"course_match_server/internal/service/user"
	"course_match_server/internal/service/visibility"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	Room         RoomService         // 房间 Service
	Contact      ContactService      // 联系方式 Service
	User         UserService         // 用户 Service
	Notification NotificationService // 通知 Service
	Quota        QuotaService        // 额度 Service
	Schedule     ScheduleService     // 课表导入 Service
}

// NewServices 创建并注入所有 Service 实例
// 依赖注入流程：
//  1. 接收 Repository 聚合、配置、通知镜像与识别客户端
//  2. 按依赖顺序创建各个 Service（通知、目录、可见性 -> 房间 -> 课表导入）
//  3. 返回 Services 聚合
//
// publisher 为 nil 时不做 Kafka 镜像；opts 用于测试注入时钟与 ID
func NewServices(repos *repository.Repositories, conf *config.Config, publisher mq.NotificationPublisher, parser schedule.Parser, opts ...common.Option) *Services {
	cooldown := conf.MatchConfig.Cooldown()
	allowance := conf.QuotaConfig.DailyAllowance

	notificationSvc := notification.NewNotificationService(repos, publisher, opts...)
	catalogSvc := catalog.NewCatalogService(repos, conf.MatchConfig.School)
	members := visibility.NewResolver(repos, cooldown, opts...)
	roomSvc := room.NewRoomService(repos, catalogSvc, notificationSvc, members, opts...)
	quotaSvc := quota.NewQuotaService(repos, allowance, opts...)

	return &Services{
		Room:         roomSvc,
		Contact:      contact.NewContactService(repos, notificationSvc, cooldown, opts...),
		User:         user.NewUserService(repos, conf.MatchConfig, allowance, quotaSvc, opts...),
		Notification: notificationSvc,
		Quota:        quotaSvc,
		Schedule:     schedule.NewScheduleService(repos, parser, quotaSvc, roomSvc, conf.MatchConfig.School),
	}
}
