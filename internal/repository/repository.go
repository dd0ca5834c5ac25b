package repository

import (
	"context"
	"errors"
	"time"

	"mathquest_backend/internal/model"
)

// 两个存储实现共享的哨兵错误，适配层负责把驱动错误翻译过来
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByIdentifier 按邮箱或学号查找，找回密码入口使用
	FindByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	List(ctx context.Context) ([]model.User, error)
}

type ProgressRepository interface {
	// Merge 原子化的读改写：content 取新旧最大值，activities 以本次写入为准
	Merge(ctx context.Context, userID uint, topicID, content, activities int) error
	Get(ctx context.Context, userID uint, topicID int) (*model.TopicProgress, error)
	List(ctx context.Context, userID uint) ([]model.TopicProgress, error)
	DeleteAll(ctx context.Context, userID uint) error
}

type AchievementRepository interface {
	// Unlock 幂等插入，重复解锁保持原 unlockedAt
	Unlock(ctx context.Context, userID uint, achievementID string, at time.Time) error
	List(ctx context.Context, userID uint) ([]model.Achievement, error)
	DeleteAll(ctx context.Context, userID uint) error
}

type ScoreRepository interface {
	Create(ctx context.Context, score *model.Score) error
	// ListByUser 按完成时间倒序，最多 limit 条；topicID 为 nil 时不过滤专题
	ListByUser(ctx context.Context, userID uint, topicID *int, limit int) ([]model.Score, error)
	// FindByID 带逐题明细
	FindByID(ctx context.Context, userID, scoreID uint) (*model.Score, error)
	DeleteAll(ctx context.Context, userID uint) error
}

type ActivityRepository interface {
	Get(ctx context.Context, userID uint) (*model.ActivityMeta, error)
	Upsert(ctx context.Context, userID uint, lastActivityDate string, streak int) error
	Delete(ctx context.Context, userID uint) error
}

type ResetRepository interface {
	Create(ctx context.Context, req *model.PasswordResetRequest) error
	ListPending(ctx context.Context) ([]model.PasswordResetRequest, error)
	FindByID(ctx context.Context, id uint) (*model.PasswordResetRequest, error)
	Complete(ctx context.Context, id uint, at time.Time) error
}

// Backend 平台双实现的统一入口：嵌入式关系库（离线/原生端）与远程文档库（Web 端）
// 进程启动时按部署目标选定一次，业务层只看接口
type Backend interface {
	Users() UserRepository
	Progress() ProgressRepository
	Achievements() AchievementRepository
	Scores() ScoreRepository
	Activity() ActivityRepository
	Resets() ResetRepository

	// SupportsPinReset 只有嵌入式实现存 PIN 哈希，支持本地找回密码
	SupportsPinReset() bool
	Ping(ctx context.Context) error
}
