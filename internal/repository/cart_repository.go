package repository

import (
	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	GetActiveByUser(userID uint) (*models.Cart, error)
	CreateCart(cart *models.Cart) error
	MarkCheckedOut(cartID uint) (int64, error)
	ListItems(cartID uint) ([]models.CartItem, error)
	GetItem(itemID uint) (*models.CartItem, error)
	GetItemByVariant(cartID, variantID uint) (*models.CartItem, error)
	CreateItem(item *models.CartItem) error
	UpdateItemQuantity(itemID uint, quantity int) error
	DeleteItem(itemID uint) error
	ClearItems(cartID uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// GetActiveByUser 获取用户当前 active 购物车
func (r *GormCartRepository) GetActiveByUser(userID uint) (*models.Cart, error) {
	return firstOrNil[models.Cart](r.db.Where("user_id = ? AND status = ?", userID, constants.CartStatusActive))
}

// CreateCart 创建购物车
func (r *GormCartRepository) CreateCart(cart *models.Cart) error {
	return r.db.Create(cart).Error
}

// MarkCheckedOut 将 active 购物车置为已结算，返回影响行数
func (r *GormCartRepository) MarkCheckedOut(cartID uint) (int64, error) {
	result := r.db.Model(&models.Cart{}).
		Where("id = ? AND status = ?", cartID, constants.CartStatusActive).
		Update("status", constants.CartStatusCheckedOut)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListItems 获取购物车项（含规格与商品）
func (r *GormCartRepository) ListItems(cartID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.
		Preload("Variant", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Variant.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem 根据 ID 获取购物车项
func (r *GormCartRepository) GetItem(itemID uint) (*models.CartItem, error) {
	return firstOrNil[models.CartItem](r.db, itemID)
}

// GetItemByVariant 获取购物车内某规格的行
func (r *GormCartRepository) GetItemByVariant(cartID, variantID uint) (*models.CartItem, error) {
	return firstOrNil[models.CartItem](r.db.Where("cart_id = ? AND variant_id = ?", cartID, variantID))
}

// CreateItem 新增购物车项
func (r *GormCartRepository) CreateItem(item *models.CartItem) error {
	return r.db.Create(item).Error
}

// UpdateItemQuantity 更新购物车项数量
func (r *GormCartRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", quantity).Error
}

// DeleteItem 删除购物车项
func (r *GormCartRepository) DeleteItem(itemID uint) error {
	return r.db.Delete(&models.CartItem{}, itemID).Error
}

// ClearItems 清空购物车
func (r *GormCartRepository) ClearItems(cartID uint) error {
	return r.db.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
