package service

import (
	"context"
	"errors"
	"time"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/util"
	"mathquest_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type ResetService struct {
	Backend repository.Backend
}

func NewResetService(backend repository.Backend) *ResetService {
	return &ResetService{Backend: backend}
}

// Request 按邮箱或学号找账号。没找到也要落一条 userId 为空的记录，
// 留给管理员人工处理，入口不暴露账号是否存在
func (s *ResetService) Request(ctx context.Context, identifier string) error {
	req := &model.PasswordResetRequest{
		Identifier:  identifier,
		Status:      model.ResetPending,
		RequestedAt: time.Now(),
	}

	user, err := s.Backend.Users().FindByIdentifier(ctx, identifier)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if user != nil {
		req.UserID = &user.ID
	}

	return s.Backend.Resets().Create(ctx, req)
}

// ResetWithPin 嵌入式后端的自助找回：校验注册时留的 PIN，直接改密码
func (s *ResetService) ResetWithPin(ctx context.Context, identifier, pin, newPassword string) error {
	if !s.Backend.SupportsPinReset() {
		return util.ErrPinResetNotLocal
	}

	user, err := s.Backend.Users().FindByIdentifier(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		return util.ErrResetNotFound
	}
	if err != nil {
		return err
	}

	if user.RecoveryPinHash == "" {
		return util.ErrInvalidPin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.RecoveryPinHash), []byte(pin)); err != nil {
		return util.ErrInvalidPin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Backend.Users().UpdatePassword(ctx, user.ID, string(hash))
}

func (s *ResetService) ListPending(ctx context.Context) ([]model.PasswordResetRequest, error) {
	requests, err := s.Backend.Resets().ListPending(ctx)
	if err != nil {
		return nil, err
	}
	if requests == nil {
		requests = []model.PasswordResetRequest{}
	}
	return requests, nil
}

// Complete 把请求移出待处理队列；实际改密码走 AdminSetPassword 特权通道
func (s *ResetService) Complete(ctx context.Context, id uint) error {
	err := s.Backend.Resets().Complete(ctx, id, time.Now())
	if errors.Is(err, repository.ErrNotFound) {
		return util.ErrRequestNotPending
	}
	return err
}

// AdminSetPassword 特权改密通道，路由层已做管理员白名单校验
func (s *ResetService) AdminSetPassword(ctx context.Context, userID uint, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = s.Backend.Users().UpdatePassword(ctx, userID, string(hash))
	if errors.Is(err, repository.ErrNotFound) {
		return util.ErrUserNotFound
	}
	if err != nil {
		return err
	}

	logger.Log.Info("admin password reset", zap.Uint("user_id", userID))
	return nil
}
