package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表（手机号即登录身份）
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                // 主键
	Mobile       string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"mobile"` // 手机号
	FullName     string         `gorm:"type:varchar(120);default:''" json:"full_name"`       // 姓名
	Email        string         `gorm:"type:varchar(200);default:''" json:"email"`           // 邮箱（可选）
	Locale       string         `gorm:"type:varchar(20);default:'en-US'" json:"locale"`      // 语言偏好
	Status       string         `gorm:"type:varchar(20);default:'active'" json:"status"`     // 账号状态
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"`                         // Token 版本（用于全量失效）
	LastLoginAt  *time.Time     `json:"last_login_at"`                                       // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                             // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                          // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                      // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
