package repository

import (
	"time"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 仪表盘只读聚合，区间均为 [startAt, endAt)
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error)
	GetStockStats(lowStockThreshold int) (DashboardStockStatsRow, error)
	GetTopVariants(startAt, endAt time.Time, limit int) ([]DashboardVariantRankingRow, error)
}

// DashboardOverviewRow 区间内订单、支付与用户计数
type DashboardOverviewRow struct {
	OrdersTotal      int64
	PendingOrders    int64
	ConfirmedOrders  int64
	DeliveredOrders  int64
	CancelledOrders  int64
	GMVConfirmed     float64
	PaymentsSuccess  int64
	PaymentsPending  int64
	PaymentsFailed   int64
	NewUsers         int64
	ActiveProducts   int64
	ExpiredUnhandled int64
}

// DashboardOrderTrendRow 某一天的订单数，Day 为 YYYY-MM-DD
type DashboardOrderTrendRow struct {
	Day             string
	OrdersTotal     int64
	OrdersConfirmed int64
	OrdersCancelled int64
}

// DashboardStockStatsRow 只统计启用中的规格
type DashboardStockStatsRow struct {
	ActiveVariants     int64
	OutOfStockVariants int64
	LowStockVariants   int64
	UnitsOnHand        int64
}

type DashboardVariantRankingRow struct {
	VariantID    uint
	ProductName  string
	VariantLabel string
	Orders       int64
	Quantity     int64
	Amount       float64
}

type GormDashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// 已扣库存的订单状态，GMV 与销量只算这些
var deductedStatuses = []string{
	constants.OrderStatusConfirmed,
	constants.OrderStatusShipped,
	constants.OrderStatusDelivered,
}

var awaitingStatuses = []string{
	constants.OrderStatusCreated,
	constants.OrderStatusPaid,
	constants.OrderStatusCODConfirmed,
}

const dashboardDayExpr = "CAST(date(created_at) AS TEXT)"

func createdWithin(query *gorm.DB, column string, startAt, endAt time.Time) *gorm.DB {
	return query.Where(column+" >= ? AND "+column+" < ?", startAt, endAt)
}

func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	var out DashboardOverviewRow

	var orders struct {
		Total     int64
		Pending   int64
		Confirmed int64
		Delivered int64
		Cancelled int64
		GMV       float64
	}
	err := createdWithin(r.db.Model(&models.Order{}), "created_at", startAt, endAt).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS confirmed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS delivered,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled,
			COALESCE(SUM(CASE WHEN status IN ? THEN total_amount ELSE 0 END), 0) AS gmv`,
			awaitingStatuses, deductedStatuses, constants.OrderStatusDelivered, constants.OrderStatusCancelled, deductedStatuses).
		Scan(&orders).Error
	if err != nil {
		return out, err
	}
	out.OrdersTotal, out.PendingOrders, out.ConfirmedOrders = orders.Total, orders.Pending, orders.Confirmed
	out.DeliveredOrders, out.CancelledOrders, out.GMVConfirmed = orders.Delivered, orders.Cancelled, orders.GMV

	var payments []struct {
		Status string
		N      int64
	}
	if err := createdWithin(r.db.Model(&models.Payment{}), "created_at", startAt, endAt).
		Select("status, COUNT(*) AS n").Group("status").Scan(&payments).Error; err != nil {
		return out, err
	}
	for _, p := range payments {
		switch p.Status {
		case constants.PaymentStatusSuccess:
			out.PaymentsSuccess = p.N
		case constants.PaymentStatusPending:
			out.PaymentsPending = p.N
		case constants.PaymentStatusFailed:
			out.PaymentsFailed = p.N
		}
	}

	if err := createdWithin(r.db.Model(&models.User{}), "created_at", startAt, endAt).Count(&out.NewUsers).Error; err != nil {
		return out, err
	}
	if err := r.db.Model(&models.Product{}).Where("is_active = ?", true).Count(&out.ActiveProducts).Error; err != nil {
		return out, err
	}
	// 已过期但还没被清理任务取消的订单
	err = r.db.Model(&models.Order{}).
		Where("status = ? AND stock_deducted = ?", constants.OrderStatusCreated, false).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Count(&out.ExpiredUnhandled).Error
	return out, err
}

// GetOrderTrends 按下单日期分组，没有订单的日期不返回
func (r *GormDashboardRepository) GetOrderTrends(startAt, endAt time.Time) ([]DashboardOrderTrendRow, error) {
	rows := make([]DashboardOrderTrendRow, 0)
	err := createdWithin(r.db.Model(&models.Order{}), "created_at", startAt, endAt).
		Select(dashboardDayExpr+` AS day,
			COUNT(*) AS orders_total,
			COALESCE(SUM(CASE WHEN status IN ? THEN 1 ELSE 0 END), 0) AS orders_confirmed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS orders_cancelled`,
			deductedStatuses, constants.OrderStatusCancelled).
		Group(dashboardDayExpr).
		Order("day asc").
		Scan(&rows).Error
	return rows, err
}

func (r *GormDashboardRepository) GetStockStats(lowStockThreshold int) (DashboardStockStatsRow, error) {
	var out DashboardStockStatsRow
	err := r.db.Model(&models.ProductVariant{}).
		Where("is_active = ?", true).
		Select(`COUNT(*) AS active_variants,
			COALESCE(SUM(CASE WHEN stock <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_variants,
			COALESCE(SUM(CASE WHEN stock > 0 AND stock <= ? THEN 1 ELSE 0 END), 0) AS low_stock_variants,
			COALESCE(SUM(stock), 0) AS units_on_hand`, lowStockThreshold).
		Scan(&out).Error
	return out, err
}

// GetTopVariants 已扣库存订单中按销量、金额排序的规格
func (r *GormDashboardRepository) GetTopVariants(startAt, endAt time.Time, limit int) ([]DashboardVariantRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	rows := make([]DashboardVariantRankingRow, 0, limit)
	err := r.db.Table("order_items AS oi").
		Joins("JOIN orders AS o ON o.id = oi.order_id").
		Select(`oi.variant_id AS variant_id,
			oi.product_name AS product_name,
			oi.variant_label AS variant_label,
			COUNT(DISTINCT oi.order_id) AS orders,
			COALESCE(SUM(oi.quantity), 0) AS quantity,
			COALESCE(SUM(oi.item_total), 0) AS amount`).
		Where("o.created_at >= ? AND o.created_at < ?", startAt, endAt).
		Where("o.status IN ?", deductedStatuses).
		Group("oi.variant_id, oi.product_name, oi.variant_label").
		Order("quantity DESC, amount DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
