// Package user 用户资料
// 用户由认证服务管理，本服务在首次认证访问时建档，之后只同步邮箱与认证标记
package user

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"course_match_server/internal/config"
	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/dto/request"
	"course_match_server/internal/dto/respond"
	"course_match_server/internal/model"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/errorx"
	"course_match_server/pkg/util/jwt"

	"go.uber.org/zap"
)

// QuotaView 额度展示
type QuotaView interface {
	Remaining(remaining int, resetAt *time.Time, isPrivileged bool) int
}

var errUserNotFound = errorx.New(errorx.CodeUserNotExist, "用户不存在")

// userInfoService 用户业务逻辑实现
type userInfoService struct {
	repos     *repository.Repositories
	match     config.MatchConfig
	allowance int
	quota     QuotaView
	env       common.Env
}

// NewUserService 构造函数
func NewUserService(repos *repository.Repositories, match config.MatchConfig, allowance int, quota QuotaView, opts ...common.Option) *userInfoService {
	return &userInfoService{repos: repos, match: match, allowance: allowance, quota: quota, env: common.NewEnv(opts...)}
}

// EnsureUser 确保调用者已建档
// 首次访问时创建用户，昵称默认取邮箱 @ 之前的部分；邮箱或认证标记变化时同步
func (u *userInfoService) EnsureUser(ctx context.Context, identity *jwt.Identity) error {
	privileged := u.match.IsPrivilegedEmail(identity.Email, identity.EmailConfirmed)

	existing, err := u.repos.User.FindById(ctx, identity.UserID)
	if err == nil {
		if existing.Email == identity.Email && existing.IsPrivileged == privileged {
			return nil
		}
		if err := u.repos.User.UpdateIdentity(ctx, identity.UserID, identity.Email, privileged); err != nil {
			return common.Internal(err, "sync user identity", zap.String("user_id", identity.UserID))
		}
		return nil
	}
	if !errorx.IsNotFound(err) {
		return common.Internal(err, "find user", zap.String("user_id", identity.UserID))
	}

	now := u.env.Now()
	created, err := u.repos.User.CreateIfAbsent(ctx, &model.UserInfo{
		Id:                  identity.UserID,
		Email:               identity.Email,
		Nickname:            defaultNickname(identity.Email),
		IsPrivileged:        privileged,
		MatchQuotaRemaining: u.allowance,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	if err != nil {
		return common.Internal(err, "create user", zap.String("user_id", identity.UserID))
	}
	if created {
		zap.L().Info("user created", zap.String("user_id", identity.UserID), zap.Bool("privileged", privileged))
	}
	return nil
}

// defaultNickname 邮箱 @ 之前的部分，截断到 50 个字
func defaultNickname(email string) string {
	name, _, _ := strings.Cut(email, "@")
	name = strings.TrimSpace(name)
	if name == "" {
		return "同学"
	}
	if utf8.RuneCountInString(name) > 50 {
		name = string([]rune(name)[:50])
	}
	return name
}

// GetProfile 查看资料
// 本人可以看到全部字段；他人只能看到公开字段，联系方式在对方全局公开或双方已连接时可见
func (u *userInfoService) GetProfile(ctx context.Context, userId, viewerId string) (*respond.UserInfoRespond, error) {
	user, err := u.repos.User.FindById(ctx, userId)
	if err != nil {
		return nil, common.NotFoundAs(err, errUserNotFound, "find user", zap.String("user_id", userId))
	}

	rsp := &respond.UserInfoRespond{
		Id:               user.Id,
		Nickname:         user.Nickname,
		Avatar:           user.Avatar,
		IsPrivileged:     user.IsPrivileged,
		AutoShareContact: user.AutoShareContact,
	}
	if userId == viewerId {
		rsp.Email, rsp.Wechat, rsp.QQ = user.Email, user.Wechat, user.QQ
		remaining := u.quota.Remaining(user.MatchQuotaRemaining, user.QuotaResetAt, user.IsPrivileged)
		rsp.MatchQuotaRemaining = &remaining
		if user.QuotaResetAt != nil && user.QuotaResetAt.After(u.env.Now()) {
			rsp.QuotaResetAt = common.FormatTime(*user.QuotaResetAt)
		}
		return rsp, nil
	}

	visible := user.AutoShareContact
	if !visible && viewerId != "" {
		if visible, err = u.repos.Connection.Exists(ctx, userId, viewerId); err != nil {
			return nil, common.Internal(err, "check connection", zap.String("user_id", userId))
		}
	}
	if visible {
		rsp.Wechat, rsp.QQ = user.Wechat, user.QQ
	}
	return rsp, nil
}

// UpdateProfile 更新本人资料，未传的字段保持不变
func (u *userInfoService) UpdateProfile(ctx context.Context, userId string, req request.UpdateProfileRequest) (*respond.UserInfoRespond, error) {
	updates := make(map[string]interface{})
	if req.Nickname != nil {
		nickname := strings.TrimSpace(*req.Nickname)
		if nickname == "" || utf8.RuneCountInString(nickname) > 50 {
			return nil, errorx.New(errorx.CodeInvalidParam, "昵称长度需在 1-50 之间")
		}
		updates["nickname"] = nickname
	}
	if req.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*req.Avatar)
	}
	if req.Wechat != nil {
		updates["wechat"] = strings.TrimSpace(*req.Wechat)
	}
	if req.QQ != nil {
		qq := strings.TrimSpace(*req.QQ)
		if qq != "" && !validQQ(qq) {
			return nil, errorx.New(errorx.CodeInvalidParam, "QQ 号格式错误")
		}
		updates["qq"] = qq
	}
	if req.AutoShareContact != nil {
		updates["auto_share_contact"] = *req.AutoShareContact
	}
	if len(updates) > 0 {
		updates["updated_at"] = u.env.Now()
		if err := u.repos.User.UpdateProfile(ctx, userId, updates); err != nil {
			return nil, common.NotFoundAs(err, errUserNotFound, "update profile", zap.String("user_id", userId))
		}
	}
	return u.GetProfile(ctx, userId, userId)
}

// validQQ QQ 号为 5-12 位数字，首位不为 0
func validQQ(qq string) bool {
	if len(qq) < 5 || len(qq) > 12 || qq[0] == '0' {
		return false
	}
	for _, r := range qq {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
