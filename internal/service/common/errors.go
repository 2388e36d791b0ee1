package common

import (
	"course_match_server/pkg/errorx"

	"go.uber.org/zap"
)

// Internal 处理 Repository 返回的错误
// 业务错误（参数、权限、不存在等）原样返回；数据库、缓存及未知错误记录日志后统一返回 ErrServerBusy，
// 不把底层错误细节暴露给客户端
func Internal(err error, op string, fields ...zap.Field) error {
	if err == nil {
		return nil
	}
	switch errorx.GetCode(err) {
	case errorx.CodeDBError, errorx.CodeCacheError, errorx.CodeServerBusy, errorx.CodeConflict:
		zap.L().Error(op, append(fields, zap.Error(err))...)
		return errorx.ErrServerBusy
	default:
		return err
	}
}

// NotFoundAs 把 NotFound 替换为带业务提示的错误，其余交给 Internal
func NotFoundAs(err error, notFound error, op string, fields ...zap.Field) error {
	if errorx.IsNotFound(err) {
		return notFound
	}
	return Internal(err, op, fields...)
}
