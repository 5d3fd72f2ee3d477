package models

import (
	"time"

	"gorm.io/gorm"
)

// Address 用户收货地址
type Address struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                     // 主键
	UserID    uint           `gorm:"not null;index:idx_addresses_user_default" json:"user_id"` // 用户ID
	Label     string         `gorm:"type:varchar(40);default:''" json:"label"`                 // 标签（Home / Work）
	FullName  string         `gorm:"type:varchar(120);not null" json:"full_name"`              // 收货人
	Mobile    string         `gorm:"type:varchar(20);not null" json:"mobile"`                  // 联系电话
	Street    string         `gorm:"type:varchar(255);not null" json:"street"`                 // 街道门牌
	Area      string         `gorm:"type:varchar(120);default:''" json:"area"`                 // 区域
	City      string         `gorm:"type:varchar(80);not null" json:"city"`                    // 城市
	State     string         `gorm:"type:varchar(80);not null" json:"state"`                   // 邦/省
	Pincode   string         `gorm:"type:varchar(12);not null" json:"pincode"`                 // 邮编
	Country   string         `gorm:"type:varchar(60);not null;default:'India'" json:"country"` // 国家
	Latitude  *float64       `json:"latitude,omitempty"`                                       // 纬度
	Longitude *float64       `json:"longitude,omitempty"`                                      // 经度
	IsDefault bool           `gorm:"not null;index:idx_addresses_user_default" json:"is_default"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"` // 创建时间
	UpdatedAt time.Time      `json:"updated_at"`              // 更新时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`          // 软删除时间
}

// TableName 指定表名
func (Address) TableName() string {
	return "addresses"
}
