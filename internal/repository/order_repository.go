package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository 订单及其明细的读写
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndUser(id uint, userID uint) (*models.Order, error)
	LockByID(id uint) (*models.Order, error)
	ListByUser(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	ListExpiredIDs(before time.Time, limit int) ([]uint, error)
	WithTx(tx *gorm.DB) OrderRepository
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx tx 为 nil 时沿用当前连接
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func preloadItems(query *gorm.DB) *gorm.DB {
	return query.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") })
}

// Create 先写订单头，再批量写明细并回填 OrderID
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Items").Create(order).Error; err != nil {
		return err
	}
	if len(items) > 0 {
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	return firstOrNil[models.Order](preloadItems(r.db), id)
}

// GetByIDAndUser 订单不属于该用户时返回 nil
func (r *GormOrderRepository) GetByIDAndUser(id uint, userID uint) (*models.Order, error) {
	return firstOrNil[models.Order](preloadItems(r.db).Where("user_id = ?", userID), id)
}

// LockByID SELECT ... FOR UPDATE 读取订单头，明细单独查询
func (r *GormOrderRepository) LockByID(id uint) (*models.Order, error) {
	order, err := firstOrNil[models.Order](r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
	if err != nil || order == nil {
		return order, err
	}
	if err := r.db.Where("order_id = ?", id).Order("id asc").Find(&order.Items).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormOrderRepository) ListByUser(filter OrderListFilter) ([]models.Order, int64, error) {
	if filter.UserID == 0 {
		return nil, 0, errors.New("order list: user id required")
	}
	return r.list(filter)
}

func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	return r.list(filter)
}

// list 新订单在前，每个订单带明细
func (r *GormOrderRepository) list(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	query = whereIfSet(query, "user_id", filter.UserID)
	query = whereIfSet(query, "status", strings.TrimSpace(filter.Status))
	query = whereIfSet(query, "order_no", strings.TrimSpace(filter.OrderNo))
	query = whereTimeRange(query, "created_at", filter.CreatedFrom, filter.CreatedTo)

	query, total, err := countThenPage(query, filter.Page, filter.PageSize)
	if err != nil {
		return nil, 0, err
	}
	orders := make([]models.Order, 0)
	if err := preloadItems(query).Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus status 与 updates 中的其余列一并写入
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	columns := make(map[string]interface{}, len(updates)+1)
	for column, value := range updates {
		columns[column] = value
	}
	columns["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(columns).Error
}

// ListExpiredIDs 已过支付期限、尚未扣库存的 created 订单
func (r *GormOrderRepository) ListExpiredIDs(before time.Time, limit int) ([]uint, error) {
	if limit <= 0 {
		limit = 100
	}
	ids := make([]uint, 0, limit)
	err := r.db.Model(&models.Order{}).
		Where("status = ?", constants.OrderStatusCreated).
		Where("stock_deducted = ?", false).
		Where("expires_at IS NOT NULL AND expires_at <= ?", before).
		Order("id asc").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}
