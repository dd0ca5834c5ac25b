package model

import "time"

// Achievement 用户已解锁的成就，解锁操作幂等，首次解锁时间保持不变
type Achievement struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID        uint      `gorm:"index:idx_user_achievement,unique;not null" json:"-"`
	AchievementID string    `gorm:"index:idx_user_achievement,unique;size:64;not null" json:"id"`
	UnlockedAt    time.Time `gorm:"not null" json:"unlockedAt"`
}

func (Achievement) TableName() string {
	return "achievements"
}
