package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormBackend 嵌入式关系库实现，默认 sqlite，服务器部署可切 mysql
type GormBackend struct {
	db *gorm.DB

	users        *GormUserRepository
	progress     *GormProgressRepository
	achievements *GormAchievementRepository
	scores       *GormScoreRepository
	activity     *GormActivityRepository
	resets       *GormResetRepository
}

func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{
		db:           db,
		users:        NewGormUserRepository(db),
		progress:     NewGormProgressRepository(db),
		achievements: NewGormAchievementRepository(db),
		scores:       NewGormScoreRepository(db),
		activity:     NewGormActivityRepository(db),
		resets:       NewGormResetRepository(db),
	}
}

func (b *GormBackend) Users() UserRepository               { return b.users }
func (b *GormBackend) Progress() ProgressRepository        { return b.progress }
func (b *GormBackend) Achievements() AchievementRepository { return b.achievements }
func (b *GormBackend) Scores() ScoreRepository             { return b.scores }
func (b *GormBackend) Activity() ActivityRepository        { return b.activity }
func (b *GormBackend) Resets() ResetRepository             { return b.resets }

func (b *GormBackend) SupportsPinReset() bool { return true }

func (b *GormBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
