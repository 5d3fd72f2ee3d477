package models

import "time"

// StockMovement 库存流水（只追加）
type StockMovement struct {
	ID         uint      `gorm:"primarykey" json:"id"`                        // 主键
	VariantID  uint      `gorm:"not null;index" json:"variant_id"`            // 规格ID
	OrderID    *uint     `gorm:"index" json:"order_id,omitempty"`             // 关联订单
	AdminID    *uint     `gorm:"index" json:"admin_id,omitempty"`             // 操作管理员
	Kind       string    `gorm:"type:varchar(20);not null;index" json:"kind"` // deduct / restore / adjust
	Delta      int       `gorm:"not null" json:"delta"`                       // 变动量（扣减为负）
	StockAfter int       `gorm:"not null" json:"stock_after"`                 // 变动后库存
	Reason     string    `gorm:"type:varchar(255);default:''" json:"reason"`  // 备注
	CreatedAt  time.Time `gorm:"index" json:"created_at"`                     // 创建时间
}

// TableName 指定表名
func (StockMovement) TableName() string {
	return "stock_movements"
}
