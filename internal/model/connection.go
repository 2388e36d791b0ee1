package model

import "time"

// Connection 两个用户之间的连接（双向可见）
// 规范化存储 user_id1 < user_id2，避免出现镜像重复行；只由通过的申请创建，创建后不可变
type Connection struct {
	UserId1   string    `gorm:"column:user_id1;primaryKey;type:varchar(36);check:chk_connection_order,user_id1 < user_id2;comment:较小的用户id"`
	UserId2   string    `gorm:"column:user_id2;primaryKey;type:varchar(36);index;comment:较大的用户id"`
	RoomId    *string   `gorm:"column:room_id;type:varchar(36);comment:来源房间"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Connection) TableName() string {
	return "user_connection"
}

// CanonicalPair 返回规范化顺序的用户对
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Peer 返回连接中另一方的用户 ID
func (c Connection) Peer(userId string) string {
	if c.UserId1 == userId {
		return c.UserId2
	}
	return c.UserId1
}
