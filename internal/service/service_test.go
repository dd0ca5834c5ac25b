package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mathquest_backend/internal/config"
	"mathquest_backend/internal/model"
	"mathquest_backend/internal/repository"
	"mathquest_backend/pkg/database"
	"mathquest_backend/pkg/logger"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestBackend 每个测试一个独立的 sqlite 文件库，结构与生产一致
func newTestBackend(t *testing.T) repository.Backend {
	t.Helper()
	logger.Log = zap.NewNop()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return repository.NewGormBackend(db)
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-test-secret-test-secret",
			ExpireTime: time.Hour,
		},
		Admin: config.AdminConfig{
			Emails: []string{"admin@mathquest.local"},
		},
	}
}

func newTestAuthService(backend repository.Backend) *AuthService {
	return NewAuthService(backend, NewSessionService(nil), testConfig())
}

func createTestUser(t *testing.T, backend repository.Backend, email string) *model.User {
	t.Helper()
	user, _, err := newTestAuthService(backend).Register(context.Background(), RegisterInput{
		Name:     "Test User",
		Email:    email,
		Password: "password1234",
	})
	require.NoError(t, err)
	return user
}
