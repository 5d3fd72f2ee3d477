package models

import (
	"time"

	"gorm.io/gorm"
)

// ProductVariant 商品规格（500g / 1kg / 5kg），价格与库存的唯一来源
type ProductVariant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                               // 主键
	ProductID   uint           `gorm:"not null;index" json:"product_id"`                                   // 商品ID
	Label       string         `gorm:"type:varchar(30);not null" json:"label"`                             // 展示名
	Value       float64        `gorm:"not null;default:0" json:"value"`                                    // 计量值
	Unit        string         `gorm:"type:varchar(10);not null" json:"unit"`                              // 计量单位
	PriceAmount Money          `gorm:"type:decimal(12,2);not null;default:0" json:"price"`                 // 单价
	Stock       int            `gorm:"not null;default:0;check:chk_variant_stock,stock >= 0" json:"stock"` // 可用库存
	IsActive    bool           `gorm:"not null;index" json:"is_active"`                                    // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                            // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                         // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                                     // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (ProductVariant) TableName() string {
	return "product_variants"
}

// ProductName 返回关联商品名，未预加载时为空
func (v *ProductVariant) ProductName() string {
	if v == nil || v.Product == nil {
		return ""
	}
	return v.Product.Name
}
