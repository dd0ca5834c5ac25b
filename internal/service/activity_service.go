package service

import (
	"context"
	"errors"
	"time"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
)

type ActivityService struct {
	Backend repository.Backend
}

func NewActivityService(backend repository.Backend) *ActivityService {
	return &ActivityService{Backend: backend}
}

// Touch 按日历天推进连续学习天数并返回推进后的值：
// 同一天重复调用不变；昨天有活跃则 +1；断档则回到 1；
// 首次活跃记 0——第一天还构不成「连续」，次日活跃才确立
// 比较的是日历日期而非时间差，23:59 与次日 00:01 也算连续两天
func (s *ActivityService) Touch(ctx context.Context, userID uint, now time.Time) (int, error) {
	today := model.DateOf(now)
	yesterday := model.DateOf(now.AddDate(0, 0, -1))

	meta, err := s.Backend.Activity().Get(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return 0, err
	}

	streak := 0
	last := ""
	if meta != nil {
		streak = meta.Streak
		last = meta.LastActivityDate
	}

	switch {
	case last == today:
		// 当天已记过，不重复累计
	case last == yesterday:
		streak++
	case last != "":
		streak = 1
	default:
		streak = 0
	}

	if err := s.Backend.Activity().Upsert(ctx, userID, today, streak); err != nil {
		return 0, err
	}
	return streak, nil
}

// GetStreak 只读当前值，没有记录时为 0
func (s *ActivityService) GetStreak(ctx context.Context, userID uint) (int, error) {
	meta, err := s.Backend.Activity().Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return meta.Streak, nil
}

// GetMeta 管理端聚合用
func (s *ActivityService) GetMeta(ctx context.Context, userID uint) (*model.ActivityMeta, error) {
	meta, err := s.Backend.Activity().Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &model.ActivityMeta{UserID: userID}, nil
	}
	return meta, err
}
