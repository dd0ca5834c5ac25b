package repository

import (
	"context"
	"time"

	"mathquest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormAchievementRepository struct {
	DB *gorm.DB
}

func NewGormAchievementRepository(db *gorm.DB) *GormAchievementRepository {
	return &GormAchievementRepository{DB: db}
}

// Unlock 冲突时什么都不做，首次解锁时间不被覆盖
func (r *GormAchievementRepository) Unlock(ctx context.Context, userID uint, achievementID string, at time.Time) error {
	record := model.Achievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    at,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(&record).Error
}

func (r *GormAchievementRepository) List(ctx context.Context, userID uint) ([]model.Achievement, error) {
	var records []model.Achievement
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&records).Error
	return records, err
}

func (r *GormAchievementRepository) DeleteAll(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.Achievement{}).Error
}
