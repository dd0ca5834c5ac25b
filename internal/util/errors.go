package util

import "errors"

var (
	ErrUserNotFound      = errors.New("用户不存在")
	ErrDuplicateAccount  = errors.New("该邮箱已被注册")
	ErrEmailNotVerified  = errors.New("email not verified")
	ErrInvalidPin        = errors.New("invalid recovery pin")
	ErrResetNotFound     = errors.New("password reset target not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrPinResetNotLocal  = errors.New("pin reset only available on the embedded backend")
	ErrScoreNotFound     = errors.New("score record not found")
	ErrRequestNotPending = errors.New("password reset request is not pending")
)
