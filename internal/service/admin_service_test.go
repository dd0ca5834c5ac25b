package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
	"mathquest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchAllUsersWithSummaries(t *testing.T) {
	backend := newTestBackend(t)
	progressSvc := NewProgressService(backend)
	scoreSvc := NewScoreService(backend)
	activitySvc := NewActivityService(backend)
	adminSvc := NewAdminService(backend, nil)
	ctx := context.Background()

	active := createTestUser(t, backend, "active@example.com")
	idle := createTestUser(t, backend, "idle@example.com")

	require.NoError(t, progressSvc.SaveProgress(ctx, active.ID, 1, 100, 100)) // 100
	require.NoError(t, progressSvc.SaveProgress(ctx, active.ID, 2, 50, 0))    // 35
	_, err := scoreSvc.SaveScore(ctx, active.ID, ScoreInput{TopicID: 1, Score: 8, Total: 10, Passed: true})
	require.NoError(t, err)
	_, err = activitySvc.Touch(ctx, active.ID, time.Now())
	require.NoError(t, err)

	report, err := adminSvc.FetchAllUsersWithSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, report.Users, 2)

	byEmail := map[string]model.AdminUserSummary{}
	for _, row := range report.Users {
		byEmail[row.Email] = row
	}

	activeRow := byEmail["active@example.com"]
	// round((100+35)/2) = 68
	assert.Equal(t, 68, activeRow.CombinedProgress)
	assert.Equal(t, map[int]int{1: 100, 2: 35}, activeRow.Progress)
	assert.Equal(t, 1, activeRow.Scores.QuizzesTaken)
	assert.Equal(t, 80, activeRow.Scores.BestScore)
	assert.Equal(t, model.DateOf(time.Now()), activeRow.LastActivityDate)

	// 没有任何数据的学生也要出现在报表里，数值为零
	idleRow := byEmail[idle.Email]
	assert.Equal(t, idle.ID, idleRow.UserID)
	assert.Equal(t, 0, idleRow.CombinedProgress)
	assert.Empty(t, idleRow.Progress)
	assert.Equal(t, 0, idleRow.Scores.QuizzesTaken)
	assert.Equal(t, "", idleRow.LastActivityDate)

	assert.Equal(t, 2, report.Overview.TotalStudents)
	assert.Equal(t, 34, report.Overview.AvgCombinedProgress) // round((68+0)/2)
	assert.Equal(t, 1, report.Overview.TotalQuizzesTaken)
}

func TestFetchAllUsersEmptyRoster(t *testing.T) {
	backend := newTestBackend(t)
	adminSvc := NewAdminService(backend, nil)

	report, err := adminSvc.FetchAllUsersWithSummaries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Users)
	assert.Equal(t, 0, report.Overview.TotalStudents)
	assert.Equal(t, 0, report.Overview.AvgCombinedProgress)
}

// flakyBackend 让进度读取固定失败，模拟聚合中的单路故障
type flakyBackend struct {
	repository.Backend
}

type failingProgressRepo struct{}

func (failingProgressRepo) Merge(ctx context.Context, userID uint, topicID, content, activities int) error {
	return errors.New("storage offline")
}
func (failingProgressRepo) Get(ctx context.Context, userID uint, topicID int) (*model.TopicProgress, error) {
	return nil, errors.New("storage offline")
}
func (failingProgressRepo) List(ctx context.Context, userID uint) ([]model.TopicProgress, error) {
	return nil, errors.New("storage offline")
}
func (failingProgressRepo) DeleteAll(ctx context.Context, userID uint) error {
	return errors.New("storage offline")
}

func (b *flakyBackend) Progress() repository.ProgressRepository {
	return failingProgressRepo{}
}

func TestAggregationToleratesPartialFailure(t *testing.T) {
	backend := newTestBackend(t)
	scoreSvc := NewScoreService(backend)
	ctx := context.Background()

	user := createTestUser(t, backend, "flaky@example.com")
	_, err := scoreSvc.SaveScore(ctx, user.ID, ScoreInput{TopicID: 1, Score: 10, Total: 10, Passed: true})
	require.NoError(t, err)

	adminSvc := NewAdminService(&flakyBackend{Backend: backend}, nil)

	report, err := adminSvc.FetchAllUsersWithSummaries(ctx)
	require.NoError(t, err)
	require.Len(t, report.Users, 1)

	// 进度读取失败只把该轴置零，成绩照常汇总
	row := report.Users[0]
	assert.Equal(t, 0, row.CombinedProgress)
	assert.Empty(t, row.Progress)
	assert.Equal(t, 1, row.Scores.QuizzesTaken)
	assert.Equal(t, 100, row.Scores.BestScore)
}

func TestFetchQuizAttemptDetails(t *testing.T) {
	backend := newTestBackend(t)
	scoreSvc := NewScoreService(backend)
	adminSvc := NewAdminService(backend, nil)
	ctx := context.Background()

	user := createTestUser(t, backend, "detail@example.com")
	score, err := scoreSvc.SaveScore(ctx, user.ID, ScoreInput{
		TopicID: 1, Score: 1, Total: 2,
		Answers: []ScoreAnswerInput{{QuestionIndex: 0, QuestionText: "2 + 2", SelectedAnswer: "4", CorrectAnswer: "4", IsCorrect: true}},
	})
	require.NoError(t, err)

	detail, err := adminSvc.FetchQuizAttemptDetails(ctx, user.ID, score.ID)
	require.NoError(t, err)
	require.Len(t, detail.Answers, 1)

	_, err = adminSvc.FetchQuizAttemptDetails(ctx, user.ID, 999)
	assert.ErrorIs(t, err, util.ErrScoreNotFound)
}

// pinlessBackend 模拟远程文档库部署，不支持本地 PIN 找回
type pinlessBackend struct {
	repository.Backend
}

func (b *pinlessBackend) SupportsPinReset() bool { return false }

func TestPinResetRejectedOnRemoteBackend(t *testing.T) {
	backend := newTestBackend(t)
	createTestUser(t, backend, "remote@example.com")

	resetSvc := NewResetService(&pinlessBackend{Backend: backend})
	err := resetSvc.ResetWithPin(context.Background(), "remote@example.com", "4711", "newpassword99")
	assert.ErrorIs(t, err, util.ErrPinResetNotLocal)
}
