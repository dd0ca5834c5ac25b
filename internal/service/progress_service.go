package service

import (
	"context"
	"errors"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
	"mathquest_backend/pkg/logger"

	"go.uber.org/zap"
)

type ProgressService struct {
	Backend repository.Backend
}

func NewProgressService(backend repository.Backend) *ProgressService {
	return &ProgressService{Backend: backend}
}

// SaveProgress 两个输入都先压进 [0,100] 再合并。
// content 单调不回退；activities 按最新写入覆盖：练习完成度是分难度的，
// 重做低难度关卡不应该把高难度的完成度拉回去
func (s *ProgressService) SaveProgress(ctx context.Context, userID uint, topicID, content, activities int) error {
	content = model.ClampPercent(content)
	activities = model.ClampPercent(activities)
	return s.Backend.Progress().Merge(ctx, userID, topicID, content, activities)
}

// GetProgress 单专题的加权综合进度，没有记录时为 0
func (s *ProgressService) GetProgress(ctx context.Context, userID uint, topicID int) (int, error) {
	record, err := s.Backend.Progress().Get(ctx, userID, topicID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return model.CombinedProgress(record.Content, record.Activities), nil
}

// GetProgressMap 全部专题的综合进度
func (s *ProgressService) GetProgressMap(ctx context.Context, userID uint) (map[int]int, error) {
	records, err := s.Backend.Progress().List(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make(map[int]int, len(records))
	for _, r := range records {
		result[r.TopicID] = model.CombinedProgress(r.Content, r.Activities)
	}
	return result, nil
}

// GetProgressDetail 未加权的双轴数值，报表界面需要分别展示两条轴
func (s *ProgressService) GetProgressDetail(ctx context.Context, userID uint, topicID int) (*model.ProgressDetail, error) {
	record, err := s.Backend.Progress().Get(ctx, userID, topicID)
	if errors.Is(err, repository.ErrNotFound) {
		return &model.ProgressDetail{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &model.ProgressDetail{Content: record.Content, Activities: record.Activities}, nil
}

func (s *ProgressService) GetProgressDetailMap(ctx context.Context, userID uint) (map[int]model.ProgressDetail, error) {
	records, err := s.Backend.Progress().List(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make(map[int]model.ProgressDetail, len(records))
	for _, r := range records {
		result[r.TopicID] = model.ProgressDetail{Content: r.Content, Activities: r.Activities}
	}
	return result, nil
}

// ClearAllProgress 清空当前用户的进度、成绩、成就和连续天数
func (s *ProgressService) ClearAllProgress(ctx context.Context, userID uint) error {
	if err := s.Backend.Progress().DeleteAll(ctx, userID); err != nil {
		return err
	}
	if err := s.Backend.Scores().DeleteAll(ctx, userID); err != nil {
		return err
	}
	if err := s.Backend.Achievements().DeleteAll(ctx, userID); err != nil {
		return err
	}
	if err := s.Backend.Activity().Delete(ctx, userID); err != nil {
		return err
	}

	logger.Log.Info("cleared all progress", zap.Uint("user_id", userID))
	return nil
}
