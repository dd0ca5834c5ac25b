package model

import (
	"strings"
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"Name"`
	Email    string   `gorm:"size:100;unique;not null" json:"Email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'student'" json:"Role"`
	Language string   `gorm:"size:10;default:'en'" json:"Language"`
	Avatar   string   `gorm:"size:255" json:"avatar"`
	// StudentNo 学号，作为找回密码时的备用标识
	StudentNo string `gorm:"size:32;index" json:"StudentNo"`
	// RecoveryPinHash 嵌入式部署下的找回密码 PIN 哈希（无邮件通道）
	RecoveryPinHash string    `gorm:"size:100" json:"-"`
	EmailVerified   bool      `gorm:"default:false" json:"EmailVerified"`
	Disabled        bool      `gorm:"default:false" json:"Disabled"`
	LastLogin       time.Time `json:"LastLogin"`
}

func (User) TableName() string {
	return "users"
}

// IsPlaceholderEmail 无真实邮箱通道的占位域名账号，豁免邮箱验证门禁
func (u *User) IsPlaceholderEmail() bool {
	return strings.HasSuffix(strings.ToLower(u.Email), "@mathquest.local")
}
