// Package quota 每日识别额度
// 额度记录在 user_info 上，过期后在下一次消费时惰性重置，不需要定时任务
package quota

import (
	"context"
	"time"

	"course_match_server/internal/dao/database/repository"
	"course_match_server/internal/service/common"
	"course_match_server/pkg/errorx"
	"course_match_server/pkg/util/timeslot"

	"go.uber.org/zap"
)

// quotaService 额度业务逻辑实现
type quotaService struct {
	repos     *repository.Repositories
	allowance int
	env       common.Env
}

// NewQuotaService 构造函数，allowance 为非认证用户每日次数
func NewQuotaService(repos *repository.Repositories, allowance int, opts ...common.Option) *quotaService {
	return &quotaService{repos: repos, allowance: allowance, env: common.NewEnv(opts...)}
}

// Consume 消费一次额度
// 认证用户直接放行且不改动数据；其余用户在事务内加行锁读取，重置时间已过则先恢复为每日额度
func (s *quotaService) Consume(ctx context.Context, userId string, isPrivileged bool) error {
	if isPrivileged {
		return nil
	}
	now := s.env.Now()
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.FindByIdForUpdate(ctx, userId)
		if err != nil {
			return err
		}
		remaining := user.MatchQuotaRemaining
		if s.expired(user.QuotaResetAt, now) {
			remaining = s.allowance
		}
		if remaining <= 0 {
			return errorx.ErrQuotaExceeded
		}
		return tx.User.UpdateQuota(ctx, userId, remaining-1, timeslot.NextUTCMidnight(now))
	})
	if err != nil {
		return common.NotFoundAs(err, errorx.New(errorx.CodeUserNotExist, "用户不存在"), "consume quota", zap.String("user_id", userId))
	}
	return nil
}

// Refund 归还一次额度，用于识别服务失败的情况
// 额度已过期重置时不需要归还；归还后不超过每日额度
func (s *quotaService) Refund(ctx context.Context, userId string, isPrivileged bool) error {
	if isPrivileged {
		return nil
	}
	now := s.env.Now()
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		user, err := tx.User.FindByIdForUpdate(ctx, userId)
		if err != nil {
			return err
		}
		if s.expired(user.QuotaResetAt, now) || user.MatchQuotaRemaining >= s.allowance {
			return nil
		}
		return tx.User.UpdateQuota(ctx, userId, user.MatchQuotaRemaining+1, *user.QuotaResetAt)
	})
	if err != nil {
		return common.Internal(err, "refund quota", zap.String("user_id", userId))
	}
	return nil
}

// Remaining 当前剩余次数，认证用户返回 -1 表示不限
func (s *quotaService) Remaining(remaining int, resetAt *time.Time, isPrivileged bool) int {
	if isPrivileged {
		return -1
	}
	if s.expired(resetAt, s.env.Now()) {
		return s.allowance
	}
	return remaining
}

func (s *quotaService) expired(resetAt *time.Time, now time.Time) bool {
	return resetAt == nil || !resetAt.After(now)
}
