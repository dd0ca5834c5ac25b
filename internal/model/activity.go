package model

import "time"

// DateLayout 活跃日期按日历天存储，避免跨时区的小时差歧义
const DateLayout = "2006-01-02"

// ActivityMeta 每个用户一条，原地覆盖，不走软删除
type ActivityMeta struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID uint `gorm:"uniqueIndex;not null" json:"-"`
	// LastActivityDate 形如 2006-01-02 的日历日期，空串表示从未活跃
	LastActivityDate string    `gorm:"size:10" json:"lastActivityDate"`
	Streak           int       `gorm:"default:0" json:"streak"`
	UpdatedAt        time.Time `json:"-"`
}

func (ActivityMeta) TableName() string {
	return "activity_meta"
}

// DateOf 取日历日期部分
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}
