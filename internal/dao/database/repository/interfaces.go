package repository

import (
	"context"
	"time"

	"course_match_server/internal/model"

	"gorm.io/gorm"
)

// ==================== Repository 接口定义 ====================

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindById 根据 ID 查找用户
	FindById(ctx context.Context, id string) (*model.UserInfo, error)
	// FindByIds 批量查找用户
	FindByIds(ctx context.Context, ids []string) ([]model.UserInfo, error)
	// CreateIfAbsent 用户不存在时创建，返回是否新建
	CreateIfAbsent(ctx context.Context, user *model.UserInfo) (bool, error)
	// UpdateIdentity 同步认证服务的邮箱与认证标记
	UpdateIdentity(ctx context.Context, id, email string, isPrivileged bool) error
	// UpdateProfile 更新资料字段（昵称、头像、联系方式、分享开关）
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error
	// FindByIdForUpdate 加行锁读取用户，仅在事务内使用
	FindByIdForUpdate(ctx context.Context, id string) (*model.UserInfo, error)
	// UpdateQuota 写回额度计数
	UpdateQuota(ctx context.Context, id string, remaining int, resetAt time.Time) error
}

// CourseRepository 课程数据访问接口
type CourseRepository interface {
	// FindByNameAndSchool 根据自然键查找课程
	FindByNameAndSchool(ctx context.Context, name, school string) (*model.Course, error)
	// CreateIfAbsent 插入课程，自然键冲突时不做任何事，返回是否新建
	CreateIfAbsent(ctx context.Context, course *model.Course) (bool, error)
}

// RoomRepository 房间数据访问接口
type RoomRepository interface {
	// FindById 根据 ID 查找房间
	FindById(ctx context.Context, id string) (*model.Room, error)
	// FindWithCourse 查找房间及其课程信息
	FindWithCourse(ctx context.Context, id string) (*model.RoomWithCourse, error)
	// FindByKey 根据自然键查找房间
	FindByKey(ctx context.Context, key model.RoomKey) (*model.Room, error)
	// CreateIfAbsent 插入房间，自然键冲突时不做任何事，返回是否新建
	CreateIfAbsent(ctx context.Context, room *model.Room) (bool, error)
	// FindSiblings 同一课程同一学期的其他房间（其他上课时段）
	FindSiblings(ctx context.Context, courseId, semester, excludeId string) ([]model.Room, error)
	// FindByUser 用户加入的所有房间
	FindByUser(ctx context.Context, userId string) ([]model.RoomWithCourse, error)
	// IncrementMemberCount 原子增减成员数，只允许在成员关系变更的同一事务中调用
	IncrementMemberCount(ctx context.Context, id string, delta int) error
}

// RoomMemberRepository 房间成员数据访问接口
type RoomMemberRepository interface {
	// Insert 插入成员关系，已存在时不做任何事，返回是否新建
	Insert(ctx context.Context, member *model.RoomMember) (bool, error)
	// Delete 删除成员关系，返回是否确实删除
	Delete(ctx context.Context, roomId, userId string) (bool, error)
	// Exists 用户是否在房间中
	Exists(ctx context.Context, roomId, userId string) (bool, error)
	// FindMemberIds 房间所有成员 ID
	FindMemberIds(ctx context.Context, roomId string) ([]string, error)
	// FindMembersWithUserInfo 房间成员及资料（一次 JOIN 查询）
	FindMembersWithUserInfo(ctx context.Context, roomId string) ([]model.RoomMemberWithUserInfo, error)
}

// ContactRequestRepository 联系方式申请数据访问接口
type ContactRequestRepository interface {
	// FindById 根据 ID 查找申请
	FindById(ctx context.Context, id string) (*model.ContactRequest, error)
	// FindByPair 查找有序对的当前申请
	FindByPair(ctx context.Context, requesterId, targetId string) (*model.ContactRequest, error)
	// DeleteStaleByPair 删除有序对已失效的旧申请：已通过，或在 rejectedBefore 之前被拒绝
	// pending 与冷却期内的申请保留，随后的插入会撞上唯一索引
	DeleteStaleByPair(ctx context.Context, requesterId, targetId string, rejectedBefore time.Time) error
	// Create 创建申请
	Create(ctx context.Context, req *model.ContactRequest) error
	// RespondPending 仅当申请仍处于 pending 且被申请人匹配时更新状态，返回是否更新
	RespondPending(ctx context.Context, id, targetId, status string, respondedAt time.Time) (bool, error)
	// FindPendingByTarget 收到的待处理申请
	FindPendingByTarget(ctx context.Context, targetId string) ([]model.ContactRequest, error)
	// FindByRequesterAndTargets 某人发给一批用户的申请（批量查询）
	FindByRequesterAndTargets(ctx context.Context, requesterId string, targetIds []string) ([]model.ContactRequest, error)
}

// ConnectionRepository 用户连接数据访问接口
type ConnectionRepository interface {
	// CreateIfAbsent 创建连接，已存在时不做任何事，返回是否新建
	CreateIfAbsent(ctx context.Context, conn *model.Connection) (bool, error)
	// Exists 两个用户是否已连接
	Exists(ctx context.Context, userA, userB string) (bool, error)
	// FindByUser 用户的所有连接
	FindByUser(ctx context.Context, userId string) ([]model.Connection, error)
	// FindPeersAmong 在给定用户中找出与 userId 已连接的用户（批量查询）
	FindPeersAmong(ctx context.Context, userId string, others []string) ([]string, error)
}

// RoomPrivacyRepository 房间隐私设置数据访问接口
type RoomPrivacyRepository interface {
	// Upsert 写入或覆盖设置
	Upsert(ctx context.Context, setting *model.RoomPrivacySetting) error
	// Find 查找设置，不存在返回 NotFound
	Find(ctx context.Context, roomId, userId string) (*model.RoomPrivacySetting, error)
	// FindByRoomAndUsers 批量查询一个房间内多个用户的设置
	FindByRoomAndUsers(ctx context.Context, roomId string, userIds []string) ([]model.RoomPrivacySetting, error)
}

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	// CreateBatch 批量写入通知
	CreateBatch(ctx context.Context, notifications []model.Notification) error
	// FindByUser 按时间倒序查询通知
	FindByUser(ctx context.Context, userId string, unreadOnly bool, limit int) ([]model.Notification, error)
	// CountUnread 未读数
	CountUnread(ctx context.Context, userId string) (int64, error)
	// MarkRead 标记已读，ids 为空时标记全部
	MarkRead(ctx context.Context, userId string, ids []string) (int64, error)
}

// CatalogRepository 课程目录缓存数据访问接口（只读）
type CatalogRepository interface {
	// FindMeetings 查询某学期某课号的所有上课时段
	FindMeetings(ctx context.Context, year, term int, index string) ([]model.CatalogSection, error)
}

// ==================== Repository 聚合 ====================

// Repositories 聚合所有 Repository 实例
// 作为依赖注入的入口，Service 层通过此结构访问数据层
type Repositories struct {
	db             *gorm.DB                 // GORM 数据库实例，内存实现时为 nil
	User           UserRepository           // 用户 Repository
	Course         CourseRepository         // 课程 Repository
	Room           RoomRepository           // 房间 Repository
	RoomMember     RoomMemberRepository     // 房间成员 Repository
	ContactRequest ContactRequestRepository // 联系方式申请 Repository
	Connection     ConnectionRepository     // 连接 Repository
	RoomPrivacy    RoomPrivacyRepository    // 房间隐私设置 Repository
	Notification   NotificationRepository   // 通知 Repository
	Catalog        CatalogRepository        // 课程目录缓存 Repository
}

// NewRepositories 创建所有 Repository 实例
// 接收 GORM 数据库实例，初始化并返回 Repositories 聚合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:             db,
		User:           NewUserRepository(db),
		Course:         NewCourseRepository(db),
		Room:           NewRoomRepository(db),
		RoomMember:     NewRoomMemberRepository(db),
		ContactRequest: NewContactRequestRepository(db),
		Connection:     NewConnectionRepository(db),
		RoomPrivacy:    NewRoomPrivacyRepository(db),
		Notification:   NewNotificationRepository(db),
		Catalog:        NewCatalogRepository(db),
	}
}

// Transaction 在数据库事务中执行函数
// 事务内的所有操作要么全部成功，要么全部回滚
// 未绑定数据库的实现（如测试用的内存实现）由各 Repository 自行保证单步原子性
func (r *Repositories) Transaction(ctx context.Context, fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 使用事务 db 创建新的 Repositories 实例
		return fn(NewRepositories(tx))
	})
}

// Ping 检查数据库连接，用于健康检查
func (r *Repositories) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return wrapDBError(err, "get sql db")
	}
	return wrapDBError(sqlDB.PingContext(ctx), "ping database")
}
