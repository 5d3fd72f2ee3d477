package models

import "time"

// CartItem 购物车项，同一购物车内同一规格只保留一行
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                  // 主键
	CartID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_items_cart_variant" json:"cart_id"` // 购物车ID
	VariantID uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_variant" json:"variant_id"`    // 规格ID
	Quantity  int       `gorm:"not null" json:"quantity"`                                              // 数量
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                               // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                                            // 更新时间

	Variant *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"` // 关联规格
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
