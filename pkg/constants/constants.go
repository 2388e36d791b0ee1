package constants

import "time"

const (
	CONTACT_REQUEST_COOLDOWN   = time.Hour   // 申请被拒绝后的冷却时长
	DEFAULT_DAILY_QUOTA        = 5           // 非认证用户每日识别次数
	NOTIFICATION_PAGE_SIZE     = 50          // 通知列表默认条数
	NOTIFICATION_PAGE_MAX      = 200         // 通知列表最大条数
	SCHEDULE_IMAGE_MAX_SIZE    = 10 << 20    // 课表图片最大 10MB
	NOTIFY_WORKER_NUM          = 4           // 通知镜像发布协程数
	NOTIFY_WORKER_BUFFER       = 1000        // 通知镜像发布缓冲区
	RATE_LIMIT_DEFAULT         = 120         // 每个 IP 每窗口默认请求数
	RATE_LIMIT_WINDOW_DEFAULT  = time.Minute // 限流窗口
	REQUEST_MESSAGE_MAX_LENGTH = 200         // 申请附言最大长度
)
