package model

import "time"

type ResetStatus string

const (
	ResetPending   ResetStatus = "pending"
	ResetCompleted ResetStatus = "completed"
)

// PasswordResetRequest 学生发起、管理员完成的带外重置队列
// 即使 identifier 未匹配到账号也要落一条记录，便于人工处理和审计
type PasswordResetRequest struct {
	BaseModel
	Identifier  string      `gorm:"size:100;not null" json:"identifier"`
	UserID      *uint       `gorm:"index" json:"userId,omitempty"`
	Status      ResetStatus `gorm:"size:20;default:'pending';index" json:"status"`
	RequestedAt time.Time   `gorm:"not null" json:"requestedAt"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
}

func (PasswordResetRequest) TableName() string {
	return "password_reset_requests"
}
