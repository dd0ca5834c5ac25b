package repository

import (
	"context"
	"errors"
	"time"

	"mathquest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormProgressRepository struct {
	DB *gorm.DB
}

func NewGormProgressRepository(db *gorm.DB) *GormProgressRepository {
	return &GormProgressRepository{DB: db}
}

// Merge 单条 upsert，max 在 SQL 端算，避免两端设备并发写时丢更新
func (r *GormProgressRepository) Merge(ctx context.Context, userID uint, topicID, content, activities int) error {
	now := time.Now()
	record := model.TopicProgress{
		UserID:     userID,
		TopicID:    topicID,
		Content:    content,
		Activities: activities,
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	var contentExpr clause.Expr
	switch r.DB.Dialector.Name() {
	case "mysql":
		contentExpr = gorm.Expr("GREATEST(content, VALUES(content))")
	default: // sqlite
		contentExpr = gorm.Expr("MAX(content, excluded.content)")
	}

	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "topic_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"content":    contentExpr,
			"activities": activities,
			"updated_at": now,
		}),
	}).Create(&record).Error
}

func (r *GormProgressRepository) Get(ctx context.Context, userID uint, topicID int) (*model.TopicProgress, error) {
	var record model.TopicProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND topic_id = ?", userID, topicID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GormProgressRepository) List(ctx context.Context, userID uint) ([]model.TopicProgress, error) {
	var records []model.TopicProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("topic_id").
		Find(&records).Error
	return records, err
}

func (r *GormProgressRepository) DeleteAll(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.TopicProgress{}).Error
}
