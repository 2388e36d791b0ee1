package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/model"
	"course_match_server/pkg/enum/contact_request_status_enum"
	"course_match_server/pkg/errorx"
)

type pairKey [2]string

// MemStore 内存版数据库，实现全部 Repository 接口
// 所有操作共用一把锁，单步原子；不支持回滚
type MemStore struct {
	mu sync.Mutex

	users         map[string]model.UserInfo
	courses       map[string]model.Course
	rooms         map[string]model.Room
	members       map[pairKey]model.RoomMember // (roomId, userId)
	requests      map[string]model.ContactRequest
	connections   map[pairKey]model.Connection // (userId1, userId2) 有序
	privacy       map[pairKey]model.RoomPrivacySetting
	notifications []model.Notification
	catalog       []model.CatalogSection

	// NotificationErr 非空时 CreateBatch 返回该错误，用于验证通知失败不影响主流程
	NotificationErr error
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:       make(map[string]model.UserInfo),
		courses:     make(map[string]model.Course),
		rooms:       make(map[string]model.Room),
		members:     make(map[pairKey]model.RoomMember),
		requests:    make(map[string]model.ContactRequest),
		connections: make(map[pairKey]model.Connection),
		privacy:     make(map[pairKey]model.RoomPrivacySetting),
	}
}

// Repositories 返回绑定到本存储的 Repository 聚合
func (s *MemStore) Repositories() *repository.Repositories {
	return &repository.Repositories{
		User:           memUsers{s},
		Course:         memCourses{s},
		Room:           memRooms{s},
		RoomMember:     memMembers{s},
		ContactRequest: memRequests{s},
		Connection:     memConnections{s},
		RoomPrivacy:    memPrivacy{s},
		Notification:   memNotifications{s},
		Catalog:        memCatalog{s},
	}
}

// ==================== 测试辅助 ====================

// PutUser 直接写入用户
func (s *MemStore) PutUser(u model.UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Id] = u
}

// PutCatalog 写入课程目录
func (s *MemStore) PutCatalog(sections ...model.CatalogSection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = append(s.catalog, sections...)
}

// User 读取用户，不存在返回 false
func (s *MemStore) User(id string) (model.UserInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

// Room 读取房间
func (s *MemStore) Room(id string) (model.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[id]
	return r, ok
}

// RoomCount 房间总数
func (s *MemStore) RoomCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// CourseCount 课程总数
func (s *MemStore) CourseCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.courses)
}

// MemberRows 某房间的成员行数
func (s *MemStore) MemberRows(roomId string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.members {
		if k[0] == roomId {
			n++
		}
	}
	return n
}

// Notifications 某用户收到的全部通知，按写入顺序
func (s *MemStore) Notifications(userId string) []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Notification
	for _, n := range s.notifications {
		if n.UserId == userId {
			out = append(out, n)
		}
	}
	return out
}

// ConnectionCount 连接总数
func (s *MemStore) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

// SetRequestRespondedAt 改写申请的处理时间，用于冷却期测试
func (s *MemStore) SetRequestRespondedAt(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.requests[id]; ok {
		r.RespondedAt = &at
		s.requests[id] = r
	}
}

func notFound(format string, args ...any) error {
	return errorx.Newf(errorx.CodeNotFound, format, args...)
}

// ==================== User ====================

type memUsers struct{ s *MemStore }

func (r memUsers) FindById(_ context.Context, id string) (*model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, notFound("user %s", id)
	}
	return &u, nil
}

func (r memUsers) FindByIds(_ context.Context, ids []string) ([]model.UserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.UserInfo
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r memUsers) CreateIfAbsent(_ context.Context, user *model.UserInfo) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.Id]; ok {
		return false, nil
	}
	r.s.users[user.Id] = *user
	return true, nil
}

func (r memUsers) UpdateIdentity(_ context.Context, id, email string, isPrivileged bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil
	}
	u.Email = email
	u.IsPrivileged = isPrivileged
	r.s.users[id] = u
	return nil
}

func (r memUsers) UpdateProfile(_ context.Context, id string, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return notFound("user %s", id)
	}
	for k, v := range updates {
		switch k {
		case "nickname":
			u.Nickname = v.(string)
		case "avatar":
			u.Avatar = v.(string)
		case "wechat":
			u.Wechat = v.(string)
		case "qq":
			u.QQ = v.(string)
		case "auto_share_contact":
			u.AutoShareContact = v.(bool)
		case "updated_at":
			u.UpdatedAt = v.(time.Time)
		}
	}
	r.s.users[id] = u
	return nil
}

func (r memUsers) FindByIdForUpdate(ctx context.Context, id string) (*model.UserInfo, error) {
	return r.FindById(ctx, id)
}

func (r memUsers) UpdateQuota(_ context.Context, id string, remaining int, resetAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return notFound("user %s", id)
	}
	u.MatchQuotaRemaining = remaining
	u.QuotaResetAt = &resetAt
	r.s.users[id] = u
	return nil
}

// ==================== Course ====================

type memCourses struct{ s *MemStore }

func (r memCourses) FindByNameAndSchool(_ context.Context, name, school string) (*model.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.courses {
		if c.Name == name && c.School == school {
			return &c, nil
		}
	}
	return nil, notFound("course %s@%s", name, school)
}

func (r memCourses) CreateIfAbsent(_ context.Context, course *model.Course) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.courses {
		if c.Name == course.Name && c.School == course.School {
			return false, nil
		}
	}
	r.s.courses[course.Id] = *course
	return true, nil
}

// ==================== Room ====================

type memRooms struct{ s *MemStore }

func (r memRooms) FindById(_ context.Context, id string) (*model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, notFound("room %s", id)
	}
	return &room, nil
}

func (r memRooms) withCourse(room model.Room) model.RoomWithCourse {
	c := r.s.courses[room.CourseId]
	return model.RoomWithCourse{Room: room, CourseName: c.Name, CourseCode: c.Code, School: c.School}
}

func (r memRooms) FindWithCourse(_ context.Context, id string) (*model.RoomWithCourse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil, notFound("room %s", id)
	}
	rc := r.withCourse(room)
	return &rc, nil
}

func (r memRooms) FindByKey(_ context.Context, key model.RoomKey) (*model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, room := range r.s.rooms {
		if room.Key() == key {
			return &room, nil
		}
	}
	return nil, notFound("room key %+v", key)
}

func (r memRooms) CreateIfAbsent(_ context.Context, room *model.Room) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.rooms {
		if existing.Key() == room.Key() {
			return false, nil
		}
	}
	r.s.rooms[room.Id] = *room
	return true, nil
}

func sortRooms(rooms []model.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].DayOfWeek != rooms[j].DayOfWeek {
			return rooms[i].DayOfWeek < rooms[j].DayOfWeek
		}
		if rooms[i].StartTime != rooms[j].StartTime {
			return rooms[i].StartTime < rooms[j].StartTime
		}
		return rooms[i].Id < rooms[j].Id
	})
}

func (r memRooms) FindSiblings(_ context.Context, courseId, semester, excludeId string) ([]model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Room
	for _, room := range r.s.rooms {
		if room.CourseId == courseId && room.Semester == semester && room.Id != excludeId {
			out = append(out, room)
		}
	}
	sortRooms(out)
	return out, nil
}

func (r memRooms) FindByUser(_ context.Context, userId string) ([]model.RoomWithCourse, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rooms []model.Room
	for k := range r.s.members {
		if k[1] == userId {
			if room, ok := r.s.rooms[k[0]]; ok {
				rooms = append(rooms, room)
			}
		}
	}
	sortRooms(rooms)
	out := make([]model.RoomWithCourse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, r.withCourse(room))
	}
	return out, nil
}

func (r memRooms) IncrementMemberCount(_ context.Context, id string, delta int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[id]
	if !ok || room.MemberCount+delta < 0 {
		return notFound("room %s", id)
	}
	room.MemberCount += delta
	r.s.rooms[id] = room
	return nil
}

// ==================== RoomMember ====================

type memMembers struct{ s *MemStore }

func (r memMembers) Insert(_ context.Context, member *model.RoomMember) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pairKey{member.RoomId, member.UserId}
	if _, ok := r.s.members[k]; ok {
		return false, nil
	}
	r.s.members[k] = *member
	return true, nil
}

func (r memMembers) Delete(_ context.Context, roomId, userId string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := pairKey{roomId, userId}
	if _, ok := r.s.members[k]; !ok {
		return false, nil
	}
	delete(r.s.members, k)
	return true, nil
}

func (r memMembers) Exists(_ context.Context, roomId, userId string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.members[pairKey{roomId, userId}]
	return ok, nil
}

func (r memMembers) sorted(roomId string) []model.RoomMember {
	var out []model.RoomMember
	for k, m := range r.s.members {
		if k[0] == roomId {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].UserId < out[j].UserId
	})
	return out
}

func (r memMembers) FindMemberIds(_ context.Context, roomId string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for _, m := range r.sorted(roomId) {
		ids = append(ids, m.UserId)
	}
	return ids, nil
}

func (r memMembers) FindMembersWithUserInfo(_ context.Context, roomId string) ([]model.RoomMemberWithUserInfo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.RoomMemberWithUserInfo
	for _, m := range r.sorted(roomId) {
		u, ok := r.s.users[m.UserId]
		if !ok {
			continue
		}
		out = append(out, model.RoomMemberWithUserInfo{
			UserId:           m.UserId,
			Nickname:         u.Nickname,
			Avatar:           u.Avatar,
			Wechat:           u.Wechat,
			QQ:               u.QQ,
			AutoShareContact: u.AutoShareContact,
			JoinedAt:         m.JoinedAt,
		})
	}
	return out, nil
}

// ==================== ContactRequest ====================

type memRequests struct{ s *MemStore }

func (r memRequests) FindById(_ context.Context, id string) (*model.ContactRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, notFound("contact request %s", id)
	}
	return &req, nil
}

func (r memRequests) FindByPair(_ context.Context, requesterId, targetId string) (*model.ContactRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requests {
		if req.RequesterId == requesterId && req.TargetId == targetId {
			return &req, nil
		}
	}
	return nil, notFound("contact request %s->%s", requesterId, targetId)
}

func (r memRequests) DeleteStaleByPair(_ context.Context, requesterId, targetId string, rejectedBefore time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, req := range r.s.requests {
		if req.RequesterId != requesterId || req.TargetId != targetId {
			continue
		}
		stale := req.Status == contact_request_status_enum.ACCEPTED ||
			(req.Status == contact_request_status_enum.REJECTED && req.RespondedAt != nil && !req.RespondedAt.After(rejectedBefore))
		if stale {
			delete(r.s.requests, id)
		}
	}
	return nil
}

func (r memRequests) Create(_ context.Context, req *model.ContactRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.requests {
		if existing.RequesterId == req.RequesterId && existing.TargetId == req.TargetId {
			return errorx.Newf(errorx.CodeConflict, "contact request %s->%s exists", req.RequesterId, req.TargetId)
		}
	}
	r.s.requests[req.Id] = *req
	return nil
}

func (r memRequests) RespondPending(_ context.Context, id, targetId, status string, respondedAt time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	req, ok := r.s.requests[id]
	if !ok || req.TargetId != targetId || req.Status != contact_request_status_enum.PENDING {
		return false, nil
	}
	req.Status = status
	req.RespondedAt = &respondedAt
	r.s.requests[id] = req
	return true, nil
}

func (r memRequests) FindPendingByTarget(_ context.Context, targetId string) ([]model.ContactRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.ContactRequest
	for _, req := range r.s.requests {
		if req.TargetId == targetId && req.Status == contact_request_status_enum.PENDING {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Id > out[j].Id
	})
	return out, nil
}

func (r memRequests) FindByRequesterAndTargets(_ context.Context, requesterId string, targetIds []string) ([]model.ContactRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	targets := make(map[string]struct{}, len(targetIds))
	for _, id := range targetIds {
		targets[id] = struct{}{}
	}
	var out []model.ContactRequest
	for _, req := range r.s.requests {
		if _, ok := targets[req.TargetId]; ok && req.RequesterId == requesterId {
			out = append(out, req)
		}
	}
	return out, nil
}

// ==================== Connection ====================

type memConnections struct{ s *MemStore }

func (r memConnections) CreateIfAbsent(_ context.Context, conn *model.Connection) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	conn.UserId1, conn.UserId2 = model.CanonicalPair(conn.UserId1, conn.UserId2)
	k := pairKey{conn.UserId1, conn.UserId2}
	if _, ok := r.s.connections[k]; ok {
		return false, nil
	}
	r.s.connections[k] = *conn
	return true, nil
}

func (r memConnections) Exists(_ context.Context, userA, userB string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, b := model.CanonicalPair(userA, userB)
	_, ok := r.s.connections[pairKey{a, b}]
	return ok, nil
}

func (r memConnections) FindByUser(_ context.Context, userId string) ([]model.Connection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Connection
	for k, c := range r.s.connections {
		if k[0] == userId || k[1] == userId {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Peer(userId) < out[j].Peer(userId)
	})
	return out, nil
}

func (r memConnections) FindPeersAmong(_ context.Context, userId string, others []string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	peers := make([]string, 0)
	for _, other := range others {
		a, b := model.CanonicalPair(userId, other)
		if _, ok := r.s.connections[pairKey{a, b}]; ok {
			peers = append(peers, other)
		}
	}
	return peers, nil
}

// ==================== RoomPrivacy ====================

type memPrivacy struct{ s *MemStore }

func (r memPrivacy) Upsert(_ context.Context, setting *model.RoomPrivacySetting) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.privacy[pairKey{setting.RoomId, setting.UserId}] = *setting
	return nil
}

func (r memPrivacy) Find(_ context.Context, roomId, userId string) (*model.RoomPrivacySetting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.privacy[pairKey{roomId, userId}]
	if !ok {
		return nil, notFound("privacy %s/%s", roomId, userId)
	}
	return &p, nil
}

func (r memPrivacy) FindByRoomAndUsers(_ context.Context, roomId string, userIds []string) ([]model.RoomPrivacySetting, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.RoomPrivacySetting
	for _, id := range userIds {
		if p, ok := r.s.privacy[pairKey{roomId, id}]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// ==================== Notification ====================

type memNotifications struct{ s *MemStore }

func (r memNotifications) CreateBatch(_ context.Context, notifications []model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.NotificationErr != nil {
		return r.s.NotificationErr
	}
	r.s.notifications = append(r.s.notifications, notifications...)
	return nil
}

func (r memNotifications) FindByUser(_ context.Context, userId string, unreadOnly bool, limit int) ([]model.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Notification
	// 倒序遍历：同一时刻写入的通知后写的排在前面
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserId != userId || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memNotifications) CountUnread(_ context.Context, userId string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, x := range r.s.notifications {
		if x.UserId == userId && !x.IsRead {
			n++
		}
	}
	return n, nil
}

func (r memNotifications) MarkRead(_ context.Context, userId string, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	var n int64
	for i := range r.s.notifications {
		x := &r.s.notifications[i]
		if x.UserId != userId || x.IsRead {
			continue
		}
		if len(ids) > 0 {
			if _, ok := wanted[x.Id]; !ok {
				continue
			}
		}
		x.IsRead = true
		n++
	}
	return n, nil
}

// ==================== Catalog ====================

type memCatalog struct{ s *MemStore }

func (r memCatalog) FindMeetings(_ context.Context, year, term int, index string) ([]model.CatalogSection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.CatalogSection
	for _, c := range r.s.catalog {
		if c.Year == year && c.Term == term && c.Index == index {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MeetingDay != out[j].MeetingDay {
			return out[i].MeetingDay < out[j].MeetingDay
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

var (
	_ repository.UserRepository           = memUsers{}
	_ repository.CourseRepository         = memCourses{}
	_ repository.RoomRepository           = memRooms{}
	_ repository.RoomMemberRepository     = memMembers{}
	_ repository.ContactRequestRepository = memRequests{}
	_ repository.ConnectionRepository     = memConnections{}
	_ repository.RoomPrivacyRepository    = memPrivacy{}
	_ repository.NotificationRepository   = memNotifications{}
	_ repository.CatalogRepository        = memCatalog{}
)
