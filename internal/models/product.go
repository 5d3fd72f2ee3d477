package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表（价格与库存在规格维度）
type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`                       // 主键
	Name        string         `gorm:"type:varchar(200);not null" json:"name"`     // 商品名
	Description string         `gorm:"type:varchar(2000)" json:"description"`      // 描述
	Category    string         `gorm:"type:varchar(80);index" json:"category"`     // 分类
	ImageURL    string         `gorm:"type:varchar(500)" json:"image_url"`         // 主图
	IsActive    bool           `gorm:"not null;index" json:"is_active"`            // 是否上架
	SortOrder   int            `gorm:"not null;default:0;index" json:"sort_order"` // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间

	Variants []ProductVariant `gorm:"foreignKey:ProductID" json:"variants,omitempty"` // 规格列表
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
