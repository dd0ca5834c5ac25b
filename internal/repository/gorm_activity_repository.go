package repository

import (
	"context"
	"errors"
	"time"

	"mathquest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormActivityRepository struct {
	DB *gorm.DB
}

func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{DB: db}
}

func (r *GormActivityRepository) Get(ctx context.Context, userID uint) (*model.ActivityMeta, error) {
	var meta model.ActivityMeta
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&meta).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

func (r *GormActivityRepository) Upsert(ctx context.Context, userID uint, lastActivityDate string, streak int) error {
	meta := model.ActivityMeta{
		UserID:           userID,
		LastActivityDate: lastActivityDate,
		Streak:           streak,
		UpdatedAt:        time.Now(),
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_activity_date": lastActivityDate,
			"streak":             streak,
			"updated_at":         meta.UpdatedAt,
		}),
	}).Create(&meta).Error
}

func (r *GormActivityRepository) Delete(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.ActivityMeta{}).Error
}
