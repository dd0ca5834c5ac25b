package service

import (
	"context"
	"testing"
	"time"

	"mathquest_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstActivityStartsAtZero(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewActivityService(backend)
	user := createTestUser(t, backend, "streak0@example.com")

	streak, err := svc.Touch(context.Background(), user.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}

func TestConsecutiveDayIncrementsStreak(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewActivityService(backend)
	user := createTestUser(t, backend, "streak1@example.com")
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	yesterday := model.DateOf(now.AddDate(0, 0, -1))
	require.NoError(t, backend.Activity().Upsert(ctx, user.ID, yesterday, 4))

	streak, err := svc.Touch(ctx, user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 5, streak)
}

func TestBrokenStreakResetsToOne(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewActivityService(backend)
	user := createTestUser(t, backend, "streak2@example.com")
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.Local)
	threeDaysAgo := model.DateOf(now.AddDate(0, 0, -3))
	require.NoError(t, backend.Activity().Upsert(ctx, user.ID, threeDaysAgo, 9))

	streak, err := svc.Touch(ctx, user.ID, now)
	require.NoError(t, err)
	assert.Equal(t, 1, streak)
}

func TestSameDayTouchIsIdempotent(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewActivityService(backend)
	user := createTestUser(t, backend, "streak3@example.com")
	ctx := context.Background()

	now := time.Date(2026, 3, 15, 8, 0, 0, 0, time.Local)
	yesterday := model.DateOf(now.AddDate(0, 0, -1))
	require.NoError(t, backend.Activity().Upsert(ctx, user.ID, yesterday, 2))

	first, err := svc.Touch(ctx, user.ID, now)
	require.NoError(t, err)
	second, err := svc.Touch(ctx, user.ID, now.Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 3, first)
	assert.Equal(t, 3, second)
}

func TestMidnightBoundaryCountsAsConsecutive(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewActivityService(backend)
	user := createTestUser(t, backend, "streak4@example.com")
	ctx := context.Background()

	// 23:59 与次日 00:01 相隔两分钟，但属于相邻两个日历日
	lateNight := time.Date(2026, 3, 14, 23, 59, 0, 0, time.Local)
	earlyMorning := time.Date(2026, 3, 15, 0, 1, 0, 0, time.Local)

	first, err := svc.Touch(ctx, user.ID, lateNight)
	require.NoError(t, err)
	assert.Equal(t, 0, first)

	second, err := svc.Touch(ctx, user.ID, earlyMorning)
	require.NoError(t, err)
	assert.Equal(t, 1, second)
}

func TestGetStreakWithoutRecord(t *testing.T) {
	backend := newTestBackend(t)
	svc := NewActivityService(backend)
	user := createTestUser(t, backend, "streak5@example.com")

	streak, err := svc.GetStreak(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, streak)
}
