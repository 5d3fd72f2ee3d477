package models

import "time"

// Cart 购物车，每个用户同一时刻仅有一个 active 购物车
type Cart struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                                    // 主键
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_carts_user_active,where:status = 'active'" json:"user_id"` // 用户ID
	Status    string    `gorm:"type:varchar(20);not null;index" json:"status"`                                           // active / checked_out
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                                                 // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                                              // 更新时间
}

// TableName 指定表名
func (Cart) TableName() string {
	return "carts"
}
