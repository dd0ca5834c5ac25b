package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0, ClampPercent(-5))
	assert.Equal(t, 0, ClampPercent(0))
	assert.Equal(t, 73, ClampPercent(73))
	assert.Equal(t, 100, ClampPercent(100))
	assert.Equal(t, 100, ClampPercent(250))
}

func TestCombinedProgress(t *testing.T) {
	assert.Equal(t, 0, CombinedProgress(0, 0))
	assert.Equal(t, 56, CombinedProgress(80, 0))
	assert.Equal(t, 74, CombinedProgress(80, 60))
	assert.Equal(t, 100, CombinedProgress(100, 100))
	// 0.7*55 + 0.3*33 = 48.4 → 48
	assert.Equal(t, 48, CombinedProgress(55, 33))
	// 0.7*55 + 0.3*45 = 52.0
	assert.Equal(t, 52, CombinedProgress(55, 45))
}

func TestAttemptPercent(t *testing.T) {
	assert.Equal(t, 50, AttemptPercent(5, 10))
	assert.Equal(t, 100, AttemptPercent(10, 10))
	assert.Equal(t, 0, AttemptPercent(0, 10))
	// 1/3 → 33.33 → 33
	assert.Equal(t, 33, AttemptPercent(1, 3))
	// total 非法时按 1 处理，不崩
	assert.Equal(t, 0, AttemptPercent(0, 0))
}

func TestDateOf(t *testing.T) {
	assert.Equal(t, "2026-03-14", DateOf(time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC)))
	assert.Equal(t, "2026-03-15", DateOf(time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)))
}
