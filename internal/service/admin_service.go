package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/util"
	"mathquest_backend/pkg/logger"
	"mathquest_backend/pkg/monitoring"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// aggregationConcurrency 每个用户的读取相互独立，扇出并发上限
	aggregationConcurrency = 8

	overviewCacheKey = "admin:overview"
	overviewCacheTTL = 30 * time.Second
)

type AdminService struct {
	Backend repository.Backend
	rdb     *redis.Client
}

func NewAdminService(backend repository.Backend, rdb *redis.Client) *AdminService {
	return &AdminService{Backend: backend, rdb: rdb}
}

// FetchAllUsersWithSummaries 班级报表：对身份集合逐用户扇出读取并折叠。
// 单个用户读取失败只记日志并置零那一行，不拖垮整张报表
func (s *AdminService) FetchAllUsersWithSummaries(ctx context.Context) (*model.AdminReport, error) {
	start := time.Now()
	defer func() {
		monitoring.AggregationDuration.Observe(time.Since(start).Seconds())
	}()

	users, err := s.Backend.Users().List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]model.AdminUserSummary, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(aggregationConcurrency)
	for i := range users {
		i := i
		g.Go(func() error {
			rows[i] = s.summarizeUser(gctx, &users[i])
			return nil
		})
	}
	// goroutine 从不返回错误，Wait 只用来等全部完成
	_ = g.Wait()

	report := &model.AdminReport{
		Users:    rows,
		Overview: computeOverview(rows),
	}

	s.cacheOverview(ctx, report.Overview)
	return report, nil
}

// summarizeUser 折叠单个用户的进度、成绩和活跃记录；任何一路失败都置零继续
func (s *AdminService) summarizeUser(ctx context.Context, user *model.User) model.AdminUserSummary {
	row := model.AdminUserSummary{
		UserID:    user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
		Progress:  map[int]int{},
	}

	progress, err := s.Backend.Progress().List(ctx, user.ID)
	if err != nil {
		logger.Log.Warn("aggregation: progress fetch failed",
			zap.Uint("user_id", user.ID), zap.Error(err))
	} else if len(progress) > 0 {
		sum := 0
		for _, p := range progress {
			combined := model.CombinedProgress(p.Content, p.Activities)
			row.Progress[p.TopicID] = combined
			sum += combined
		}
		row.CombinedProgress = int(math.Round(float64(sum) / float64(len(progress))))
	}

	scores, err := s.Backend.Scores().ListByUser(ctx, user.ID, nil, util.AdminScoreCap)
	if err != nil {
		logger.Log.Warn("aggregation: score fetch failed",
			zap.Uint("user_id", user.ID), zap.Error(err))
	} else {
		row.Scores = SummarizeScores(scores)
	}

	meta, err := s.Backend.Activity().Get(ctx, user.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logger.Log.Warn("aggregation: activity fetch failed",
			zap.Uint("user_id", user.ID), zap.Error(err))
	} else if meta != nil {
		row.LastActivityDate = meta.LastActivityDate
		row.Streak = meta.Streak
	}

	return row
}

func computeOverview(rows []model.AdminUserSummary) model.AdminOverview {
	overview := model.AdminOverview{TotalStudents: len(rows)}
	if len(rows) == 0 {
		return overview
	}

	progressSum := 0
	for _, r := range rows {
		progressSum += r.CombinedProgress
		overview.TotalQuizzesTaken += r.Scores.QuizzesTaken
	}
	overview.AvgCombinedProgress = int(math.Round(float64(progressSum) / float64(len(rows))))
	return overview
}

// GetOverview 轻量首页数值走 30 秒的旁路缓存，避免每次都全量扇出
func (s *AdminService) GetOverview(ctx context.Context) (*model.AdminOverview, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, overviewCacheKey).Result()
		if err == nil {
			var overview model.AdminOverview
			if err := json.Unmarshal([]byte(raw), &overview); err == nil {
				return &overview, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("overview cache read failed", zap.Error(err))
		}
	}

	report, err := s.FetchAllUsersWithSummaries(ctx)
	if err != nil {
		return nil, err
	}
	return &report.Overview, nil
}

func (s *AdminService) cacheOverview(ctx context.Context, overview model.AdminOverview) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(overview)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, overviewCacheKey, raw, overviewCacheTTL).Err(); err != nil {
		logger.Log.Warn("overview cache write failed", zap.Error(err))
	}
}

// FetchUserScores 管理端查看指定学生的成绩流水
func (s *AdminService) FetchUserScores(ctx context.Context, userID uint) ([]model.Score, error) {
	scores, err := s.Backend.Scores().ListByUser(ctx, userID, nil, util.AdminScoreCap)
	if err != nil {
		return nil, err
	}
	if scores == nil {
		scores = []model.Score{}
	}
	return scores, nil
}

func (s *AdminService) FetchUserAchievements(ctx context.Context, userID uint) ([]model.Achievement, error) {
	records, err := s.Backend.Achievements().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.Achievement{}
	}
	return records, nil
}

// FetchQuizAttemptDetails 逐题明细
func (s *AdminService) FetchQuizAttemptDetails(ctx context.Context, userID, scoreID uint) (*model.Score, error) {
	score, err := s.Backend.Scores().FindByID(ctx, userID, scoreID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.ErrScoreNotFound
	}
	return score, err
}
