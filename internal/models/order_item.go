package models

import "time"

// OrderItem 订单项快照，创建后不再修改
type OrderItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID      uint      `gorm:"index;not null" json:"order_id"`                          // 订单ID
	VariantID    uint      `gorm:"index;not null" json:"variant_id"`                        // 规格ID
	ProductID    uint      `gorm:"index;not null" json:"product_id"`                        // 商品ID
	ProductName  string    `gorm:"type:varchar(200);not null" json:"product_name"`          // 商品名快照
	VariantLabel string    `gorm:"type:varchar(30);not null" json:"variant_label"`          // 规格名快照
	UnitPrice    Money     `gorm:"type:decimal(12,2);not null;default:0" json:"unit_price"` // 单价快照
	Quantity     int       `gorm:"not null" json:"quantity"`                                // 数量
	ItemTotal    Money     `gorm:"type:decimal(20,2);not null;default:0" json:"item_total"` // 小计
	CreatedAt    time.Time `json:"created_at"`                                              // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
