package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveProgressClampsInput(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewProgressService(backend)
	user := createTestUser(t, backend, "clamp@example.com")
	ctx := context.Background()

	require.NoError(t, svc.SaveProgress(ctx, user.ID, 1, 150, -10))

	detail, err := svc.GetProgressDetail(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, detail.Content)
	assert.Equal(t, 0, detail.Activities)
}

func TestContentNeverRegresses(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewProgressService(backend)
	user := createTestUser(t, backend, "merge@example.com")
	ctx := context.Background()

	require.NoError(t, svc.SaveProgress(ctx, user.ID, 3, 80, 40))
	// 旧设备回放低值：content 保持，activities 覆盖
	require.NoError(t, svc.SaveProgress(ctx, user.ID, 3, 60, 90))

	detail, err := svc.GetProgressDetail(ctx, user.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 80, detail.Content)
	assert.Equal(t, 90, detail.Activities)
}

func TestCombinedProgressWeighting(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewProgressService(backend)
	user := createTestUser(t, backend, "weights@example.com")
	ctx := context.Background()

	// 0.7*80 + 0.3*0 = 56
	require.NoError(t, svc.SaveProgress(ctx, user.ID, 5, 80, 0))
	combined, err := svc.GetProgress(ctx, user.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 56, combined)

	// 0.7*80 + 0.3*60 = 74
	require.NoError(t, svc.SaveProgress(ctx, user.ID, 5, 80, 60))
	combined, err = svc.GetProgress(ctx, user.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 74, combined)

	// 双满分压在 100
	require.NoError(t, svc.SaveProgress(ctx, user.ID, 5, 100, 100))
	combined, err = svc.GetProgress(ctx, user.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 100, combined)
}

func TestGetProgressAbsentTopicIsZero(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewProgressService(backend)
	user := createTestUser(t, backend, "absent@example.com")

	combined, err := svc.GetProgress(context.Background(), user.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, combined)
}

func TestGetProgressMap(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewProgressService(backend)
	user := createTestUser(t, backend, "map@example.com")
	other := createTestUser(t, backend, "other@example.com")
	ctx := context.Background()

	require.NoError(t, svc.SaveProgress(ctx, user.ID, 1, 100, 100))
	require.NoError(t, svc.SaveProgress(ctx, user.ID, 2, 50, 0))
	require.NoError(t, svc.SaveProgress(ctx, other.ID, 1, 10, 10))

	progress, err := svc.GetProgressMap(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 100, 2: 35}, progress)
}

func TestClearAllProgressWipesEverything(t *testing.T) {
	backend := newTestBackend(t)
	progressSvc := NewProgressService(backend)
	scoreSvc := NewScoreService(backend)
	achievementSvc := NewAchievementService(backend)
	activitySvc := NewActivityService(backend)
	user := createTestUser(t, backend, "reset@example.com")
	ctx := context.Background()

	require.NoError(t, progressSvc.SaveProgress(ctx, user.ID, 1, 80, 60))
	_, err := scoreSvc.SaveScore(ctx, user.ID, ScoreInput{TopicID: 1, Score: 8, Total: 10, Passed: true})
	require.NoError(t, err)
	require.NoError(t, achievementSvc.Unlock(ctx, user.ID, "first-quiz"))
	_, err = activitySvc.Touch(ctx, user.ID, time.Now())
	require.NoError(t, err)

	require.NoError(t, progressSvc.ClearAllProgress(ctx, user.ID))

	progress, err := progressSvc.GetProgressMap(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, progress)

	scores, err := scoreSvc.GetScores(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, scores)

	achievements, err := achievementSvc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, achievements)

	streak, err := activitySvc.GetStreak(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)

	// 清空后同一 (user, topic) 键必须可以重建
	require.NoError(t, progressSvc.SaveProgress(ctx, user.ID, 1, 10, 0))
	combined, err := progressSvc.GetProgress(ctx, user.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, combined)
}
