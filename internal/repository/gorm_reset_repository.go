package repository

import (
	"context"
	"errors"
	"time"

	"mathquest_backend/internal/model"

	"gorm.io/gorm"
)

type GormResetRepository struct {
	DB *gorm.DB
}

func NewGormResetRepository(db *gorm.DB) *GormResetRepository {
	return &GormResetRepository{DB: db}
}

func (r *GormResetRepository) Create(ctx context.Context, req *model.PasswordResetRequest) error {
	return r.DB.WithContext(ctx).Create(req).Error
}

func (r *GormResetRepository) ListPending(ctx context.Context) ([]model.PasswordResetRequest, error) {
	var requests []model.PasswordResetRequest
	err := r.DB.WithContext(ctx).
		Where("status = ?", model.ResetPending).
		Order("requested_at").
		Find(&requests).Error
	return requests, err
}

func (r *GormResetRepository) FindByID(ctx context.Context, id uint) (*model.PasswordResetRequest, error) {
	var req model.PasswordResetRequest
	err := r.DB.WithContext(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *GormResetRepository) Complete(ctx context.Context, id uint, at time.Time) error {
	res := r.DB.WithContext(ctx).Model(&model.PasswordResetRequest{}).
		Where("id = ? AND status = ?", id, model.ResetPending).
		Updates(map[string]interface{}{
			"status":       model.ResetCompleted,
			"completed_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
