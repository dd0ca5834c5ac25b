package service

import (
	"context"
	"time"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
)

type AchievementService struct {
	Backend repository.Backend
}

func NewAchievementService(backend repository.Backend) *AchievementService {
	return &AchievementService{Backend: backend}
}

// Unlock 幂等，重复解锁保持首次的 unlockedAt
func (s *AchievementService) Unlock(ctx context.Context, userID uint, achievementID string) error {
	return s.Backend.Achievements().Unlock(ctx, userID, achievementID, time.Now())
}

// List 不保证顺序，展示端自行排序
func (s *AchievementService) List(ctx context.Context, userID uint) ([]model.Achievement, error) {
	records, err := s.Backend.Achievements().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Achievement{}
	}
	return records, nil
}
