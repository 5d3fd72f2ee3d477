package repository

import (
	"errors"
	"sort"

	"github.com/brundhavanam/grocery/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductVariantRepository 商品规格与库存数据访问接口
type ProductVariantRepository interface {
	GetByID(id uint) (*models.ProductVariant, error)
	GetActiveByID(id uint) (*models.ProductVariant, error)
	ListByIDs(ids []uint) ([]models.ProductVariant, error)
	ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error)
	Create(variant *models.ProductVariant) error
	UpdateFields(id uint, updates map[string]interface{}) error
	LockByIDs(ids []uint) ([]models.ProductVariant, error)
	DecrementStock(id uint, quantity int) (int64, error)
	IncrementStock(id uint, quantity int) (int64, error)
	CreateMovements(movements []models.StockMovement) error
	ListMovements(filter StockMovementFilter) ([]models.StockMovement, int64, error)
	WithTx(tx *gorm.DB) ProductVariantRepository
}

// GormProductVariantRepository GORM 实现
type GormProductVariantRepository struct {
	db *gorm.DB
}

// NewProductVariantRepository 创建规格仓库
func NewProductVariantRepository(db *gorm.DB) *GormProductVariantRepository {
	return &GormProductVariantRepository{db: db}
}

// WithTx 绑定事务
func (r *GormProductVariantRepository) WithTx(tx *gorm.DB) ProductVariantRepository {
	if tx == nil {
		return r
	}
	return &GormProductVariantRepository{db: tx}
}

// GetByID 获取规格（含商品）
func (r *GormProductVariantRepository) GetByID(id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	if err := r.db.Preload("Product").First(&variant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// GetActiveByID 获取可售规格：规格与所属商品均为启用状态
func (r *GormProductVariantRepository) GetActiveByID(id uint) (*models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.db.Preload("Product").
		Joins("JOIN products ON products.id = product_variants.product_id AND products.deleted_at IS NULL").
		Where("product_variants.id = ? AND product_variants.is_active = ? AND products.is_active = ?", id, true, true).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &variant, nil
}

// ListByIDs 批量获取规格（含商品）
func (r *GormProductVariantRepository) ListByIDs(ids []uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if len(ids) == 0 {
		return variants, nil
	}
	if err := r.db.Preload("Product").Where("id IN ?", ids).Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// ListByProduct 获取商品的规格列表
func (r *GormProductVariantRepository) ListByProduct(productID uint, onlyActive bool) ([]models.ProductVariant, error) {
	if productID == 0 {
		return nil, errors.New("invalid product id")
	}
	query := r.db.Where("product_id = ?", productID)
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	var variants []models.ProductVariant
	if err := query.Order("price_amount asc, id asc").Find(&variants).Error; err != nil {
		return nil, err
	}
	return variants, nil
}

// Create 创建规格
func (r *GormProductVariantRepository) Create(variant *models.ProductVariant) error {
	return r.db.Create(variant).Error
}

// UpdateFields 更新规格字段（库存字段只允许经由库存账本修改）
func (r *GormProductVariantRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	delete(updates, "stock")
	return r.db.Model(&models.ProductVariant{}).Where("id = ?", id).Updates(updates).Error
}

// LockByIDs 按 ID 升序逐行加排他锁（SELECT ... FOR UPDATE），返回顺序与加锁顺序一致
func (r *GormProductVariantRepository) LockByIDs(ids []uint) ([]models.ProductVariant, error) {
	sorted := uniqueSortedIDs(ids)
	locked := make([]models.ProductVariant, 0, len(sorted))
	for _, id := range sorted {
		var variant models.ProductVariant
		err := r.db.Unscoped().
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
			Where("id = ?", id).
			First(&variant).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		locked = append(locked, variant)
	}
	return locked, nil
}

// DecrementStock 条件扣减库存，库存不足时影响行数为 0
func (r *GormProductVariantRepository) DecrementStock(id uint, quantity int) (int64, error) {
	if id == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Unscoped().Model(&models.ProductVariant{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// IncrementStock 回补库存
func (r *GormProductVariantRepository) IncrementStock(id uint, quantity int) (int64, error) {
	if id == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock increment params")
	}
	result := r.db.Unscoped().Model(&models.ProductVariant{}).
		Where("id = ?", id).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CreateMovements 写入库存流水
func (r *GormProductVariantRepository) CreateMovements(movements []models.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.Create(&movements).Error
}

// ListMovements 查询库存流水
func (r *GormProductVariantRepository) ListMovements(filter StockMovementFilter) ([]models.StockMovement, int64, error) {
	query := r.db.Model(&models.StockMovement{})
	if filter.VariantID != 0 {
		query = query.Where("variant_id = ?", filter.VariantID)
	}
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}
	query, total, err := countThenPage(query, filter.Page, filter.PageSize)
	if err != nil {
		return nil, 0, err
	}
	var movements []models.StockMovement
	if err := query.Order("id desc").Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

func uniqueSortedIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
