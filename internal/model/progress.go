package model

import (
	"math"
	"time"
)

// 综合进度的加权比例：阅读 70%，练习 30%
const (
	ContentWeight  = 0.70
	ActivityWeight = 0.30
)

// TopicProgress 每个用户每个专题一条记录，content 单调合并，activities 以最新写入为准
// 不走软删除：清空进度后同键重建必须真正复用 (user_id, topic_id) 唯一索引
type TopicProgress struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index:idx_user_topic,unique;not null" json:"userId"`
	TopicID    int       `gorm:"index:idx_user_topic,unique;not null" json:"topicId"`
	Content    int       `gorm:"default:0" json:"content"`
	Activities int       `gorm:"default:0" json:"activities"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (TopicProgress) TableName() string {
	return "topic_progress"
}

// ProgressDetail 未加权的双轴进度
type ProgressDetail struct {
	Content    int `json:"content"`
	Activities int `json:"activities"`
}

// ClampPercent 所有进度写入前统一压进 [0,100]
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// CombinedProgress 派生值，从不落库
func CombinedProgress(content, activities int) int {
	blended := float64(content)*ContentWeight + float64(activities)*ActivityWeight
	if blended < 0 {
		blended = 0
	}
	if blended > 100 {
		blended = 100
	}
	return int(math.Round(blended))
}

// AttemptPercent 单次测验得分换算为百分比，total 非法时按 1 处理避免除零
func AttemptPercent(score, total int) int {
	if total <= 0 {
		total = 1
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
