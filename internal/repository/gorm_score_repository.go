package repository

import (
	"context"
	"errors"

	"mathquest_backend/internal/model"

	"gorm.io/gorm"
)

type GormScoreRepository struct {
	DB *gorm.DB
}

func NewGormScoreRepository(db *gorm.DB) *GormScoreRepository {
	return &GormScoreRepository{DB: db}
}

func (r *GormScoreRepository) Create(ctx context.Context, score *model.Score) error {
	return r.DB.WithContext(ctx).Create(score).Error
}

func (r *GormScoreRepository) ListByUser(ctx context.Context, userID uint, topicID *int, limit int) ([]model.Score, error) {
	query := r.DB.WithContext(ctx).Where("user_id = ?", userID)
	if topicID != nil {
		query = query.Where("topic_id = ?", *topicID)
	}

	var scores []model.Score
	err := query.Order("completed_at DESC").Limit(limit).Find(&scores).Error
	return scores, err
}

func (r *GormScoreRepository) FindByID(ctx context.Context, userID, scoreID uint) (*model.Score, error) {
	var score model.Score
	err := r.DB.WithContext(ctx).
		Preload("Answers").
		Where("id = ? AND user_id = ?", scoreID, userID).
		First(&score).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *GormScoreRepository) DeleteAll(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("score_id IN (?)",
			tx.Model(&model.Score{}).Select("id").Where("user_id = ?", userID),
		).Delete(&model.ScoreAnswer{}).Error
		if err != nil {
			return err
		}
		return tx.Unscoped().Where("user_id = ?", userID).Delete(&model.Score{}).Error
	})
}
