package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/cache"
	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	dashboardCacheTTL      = 45 * time.Second
	dashboardCustomMaxDays = 90
	dashboardDefaultRange  = "7d"
	dashboardCustomRange   = "custom"
)

// 预设区间对应的自然日天数（含今天）
var dashboardPresetDays = map[string]int{
	"today": 1,
	"7d":    7,
	"30d":   30,
}

// DashboardService 后台首页：订单漏斗、库存水位与支付概况
type DashboardService struct {
	repo     repository.DashboardRepository
	cfg      config.DashboardConfig
	currency string
	now      func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(repo repository.DashboardRepository, cfg config.DashboardConfig, currency string) *DashboardService {
	if cfg.TopVariantsLimit <= 0 {
		cfg.TopVariantsLimit = 5
	}
	return &DashboardService{
		repo:     repo,
		cfg:      cfg,
		currency: strings.ToUpper(strings.TrimSpace(currency)),
		now:      time.Now,
	}
}

// DashboardQueryInput 仪表盘查询参数
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// DashboardPeriod 响应中回显的统计区间
type DashboardPeriod struct {
	Range    string `json:"range"`
	From     string `json:"from"`
	To       string `json:"to"`
	Timezone string `json:"timezone"`
}

// DashboardOverviewResponse 总览
type DashboardOverviewResponse struct {
	DashboardPeriod
	Currency string           `json:"currency,omitempty"`
	KPI      DashboardKPI     `json:"kpi"`
	Stock    DashboardStock   `json:"stock"`
	Alerts   []DashboardAlert `json:"alerts"`
}

// DashboardKPI 订单与支付指标，金额与比率均为两位小数字符串
type DashboardKPI struct {
	OrdersTotal        int64  `json:"orders_total"`
	PendingOrders      int64  `json:"pending_orders"`
	ConfirmedOrders    int64  `json:"confirmed_orders"`
	DeliveredOrders    int64  `json:"delivered_orders"`
	CancelledOrders    int64  `json:"cancelled_orders"`
	GMVConfirmed       string `json:"gmv_confirmed"`
	PaymentsSuccess    int64  `json:"payments_success"`
	PaymentsPending    int64  `json:"payments_pending"`
	PaymentsFailed     int64  `json:"payments_failed"`
	ConfirmationRate   string `json:"confirmation_rate"`
	CancellationRate   string `json:"cancellation_rate"`
	NewUsers           int64  `json:"new_users"`
	ActiveProducts     int64  `json:"active_products"`
	ExpiredUnprocessed int64  `json:"expired_unprocessed"`
}

// DashboardStock 启用规格的库存水位
type DashboardStock struct {
	ActiveVariants     int64 `json:"active_variants"`
	OutOfStockVariants int64 `json:"out_of_stock_variants"`
	LowStockVariants   int64 `json:"low_stock_variants"`
	LowStockThreshold  int   `json:"low_stock_threshold"`
	UnitsOnHand        int64 `json:"units_on_hand"`
}

// DashboardAlert 首页告警
type DashboardAlert struct {
	Type  string `json:"type"`
	Level string `json:"level"` // warning / error
	Value int64  `json:"value"`
}

// DashboardTrendResponse 按天趋势
type DashboardTrendResponse struct {
	DashboardPeriod
	Points []DashboardTrendPoint `json:"points"`
}

// DashboardTrendPoint 单日订单数
type DashboardTrendPoint struct {
	Date            string `json:"date"`
	OrdersTotal     int64  `json:"orders_total"`
	OrdersConfirmed int64  `json:"orders_confirmed"`
	OrdersCancelled int64  `json:"orders_cancelled"`
}

// DashboardRankingsResponse 热销规格
type DashboardRankingsResponse struct {
	DashboardPeriod
	TopVariants []DashboardVariantRanking `json:"top_variants"`
}

// DashboardVariantRanking 规格销量，仅统计已扣库存的订单
type DashboardVariantRanking struct {
	VariantID    uint   `json:"variant_id"`
	ProductName  string `json:"product_name"`
	VariantLabel string `json:"variant_label"`
	Orders       int64  `json:"orders"`
	Quantity     int64  `json:"quantity"`
	Amount       string `json:"amount"`
}

type dashboardWindow struct {
	rangeKey string
	startAt  time.Time
	endAt    time.Time // 开区间
	timezone string
}

func (w dashboardWindow) period() DashboardPeriod {
	return DashboardPeriod{
		Range:    w.rangeKey,
		From:     w.startAt.Format(time.RFC3339),
		To:       w.endAt.Add(-time.Second).Format(time.RFC3339),
		Timezone: w.timezone,
	}
}

func (w dashboardWindow) cacheKey(kind string, extra int) string {
	return fmt.Sprintf("dashboard:%s:%s:%d:%d:%s:%d", kind, w.rangeKey, w.startAt.Unix(), w.endAt.Unix(), w.timezone, extra)
}

// cachedDashboard 解析区间、读缓存，未命中时计算并回写
func cachedDashboard[T any](ctx context.Context, s *DashboardService, input DashboardQueryInput, kind string, extra int, build func(dashboardWindow) (*T, error)) (*T, error) {
	window, err := resolveDashboardWindow(input, s.now())
	if err != nil {
		return nil, err
	}
	key := window.cacheKey(kind, extra)
	if !input.ForceRefresh {
		var cached T
		if hit, cacheErr := cache.GetJSON(ctx, key, &cached); cacheErr == nil && hit {
			return &cached, nil
		}
	}
	result, err := build(window)
	if err != nil {
		return nil, err
	}
	_ = cache.SetJSON(ctx, key, result, dashboardCacheTTL)
	return result, nil
}

// GetOverview 订单、支付与库存总览及告警
func (s *DashboardService) GetOverview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardOverviewResponse{}, nil
	}
	return cachedDashboard(ctx, s, input, "overview", s.cfg.LowStockThreshold, func(window dashboardWindow) (*DashboardOverviewResponse, error) {
		orders, err := s.repo.GetOverview(window.startAt, window.endAt)
		if err != nil {
			return nil, err
		}
		stock, err := s.repo.GetStockStats(s.cfg.LowStockThreshold)
		if err != nil {
			return nil, err
		}
		return &DashboardOverviewResponse{
			DashboardPeriod: window.period(),
			Currency:        s.currency,
			KPI:             buildDashboardKPI(orders),
			Stock: DashboardStock{
				ActiveVariants:     stock.ActiveVariants,
				OutOfStockVariants: stock.OutOfStockVariants,
				LowStockVariants:   stock.LowStockVariants,
				LowStockThreshold:  s.cfg.LowStockThreshold,
				UnitsOnHand:        stock.UnitsOnHand,
			},
			Alerts: buildDashboardAlerts(orders, stock, s.cfg),
		}, nil
	})
}

// GetTrends 区间内每日订单数，无订单的日期补零
func (s *DashboardService) GetTrends(ctx context.Context, input DashboardQueryInput) (*DashboardTrendResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardTrendResponse{}, nil
	}
	return cachedDashboard(ctx, s, input, "trends", 0, func(window dashboardWindow) (*DashboardTrendResponse, error) {
		rows, err := s.repo.GetOrderTrends(window.startAt, window.endAt)
		if err != nil {
			return nil, err
		}
		return &DashboardTrendResponse{
			DashboardPeriod: window.period(),
			Points:          fillTrendDays(window, rows),
		}, nil
	})
}

// GetRankings 热销规格排行
func (s *DashboardService) GetRankings(ctx context.Context, input DashboardQueryInput) (*DashboardRankingsResponse, error) {
	if s == nil || s.repo == nil {
		return &DashboardRankingsResponse{}, nil
	}
	return cachedDashboard(ctx, s, input, "rankings", s.cfg.TopVariantsLimit, func(window dashboardWindow) (*DashboardRankingsResponse, error) {
		rows, err := s.repo.GetTopVariants(window.startAt, window.endAt, s.cfg.TopVariantsLimit)
		if err != nil {
			return nil, err
		}
		variants := make([]DashboardVariantRanking, 0, len(rows))
		for _, row := range rows {
			name := strings.TrimSpace(row.ProductName)
			if name == "" {
				name = "-"
			}
			variants = append(variants, DashboardVariantRanking{
				VariantID:    row.VariantID,
				ProductName:  name,
				VariantLabel: strings.TrimSpace(row.VariantLabel),
				Orders:       row.Orders,
				Quantity:     row.Quantity,
				Amount:       formatAmount(row.Amount),
			})
		}
		return &DashboardRankingsResponse{DashboardPeriod: window.period(), TopVariants: variants}, nil
	})
}

func buildDashboardKPI(row repository.DashboardOverviewRow) DashboardKPI {
	return DashboardKPI{
		OrdersTotal:        row.OrdersTotal,
		PendingOrders:      row.PendingOrders,
		ConfirmedOrders:    row.ConfirmedOrders,
		DeliveredOrders:    row.DeliveredOrders,
		CancelledOrders:    row.CancelledOrders,
		GMVConfirmed:       formatAmount(row.GMVConfirmed),
		PaymentsSuccess:    row.PaymentsSuccess,
		PaymentsPending:    row.PaymentsPending,
		PaymentsFailed:     row.PaymentsFailed,
		ConfirmationRate:   percentOf(row.ConfirmedOrders, row.OrdersTotal),
		CancellationRate:   percentOf(row.CancelledOrders, row.OrdersTotal),
		NewUsers:           row.NewUsers,
		ActiveProducts:     row.ActiveProducts,
		ExpiredUnprocessed: row.ExpiredUnhandled,
	}
}

func fillTrendDays(window dashboardWindow, rows []repository.DashboardOrderTrendRow) []DashboardTrendPoint {
	byDay := make(map[string]repository.DashboardOrderTrendRow, len(rows))
	for _, row := range rows {
		byDay[strings.TrimSpace(row.Day)] = row
	}
	start := window.startAt
	points := make([]DashboardTrendPoint, 0)
	for day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()); day.Before(window.endAt); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		row := byDay[key]
		points = append(points, DashboardTrendPoint{
			Date:            key,
			OrdersTotal:     row.OrdersTotal,
			OrdersConfirmed: row.OrdersConfirmed,
			OrdersCancelled: row.OrdersCancelled,
		})
	}
	return points
}

// resolveDashboardWindow 预设区间按 tz 的自然日对齐；custom 为 [from, to] 闭区间且不超过 90 天
func resolveDashboardWindow(input DashboardQueryInput, now time.Time) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = dashboardDefaultRange
	}
	location, timezone := dashboardLocation(input.Timezone)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	if days, ok := dashboardPresetDays[rangeKey]; ok {
		local := now.In(location)
		tomorrow := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, location).AddDate(0, 0, 1)
		window.startAt = tomorrow.AddDate(0, 0, -days)
		window.endAt = tomorrow
		return window, nil
	}
	if rangeKey != dashboardCustomRange || input.From == nil || input.To == nil {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	startAt, endAt := input.From.In(location), input.To.In(location)
	if endAt.Before(startAt) || endAt.Sub(startAt) > dashboardCustomMaxDays*24*time.Hour {
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}
	window.startAt = startAt
	window.endAt = endAt.Add(time.Second)
	return window, nil
}

// dashboardLocation 无法识别的时区回退到本地时区
func dashboardLocation(raw string) (*time.Location, string) {
	name := strings.TrimSpace(raw)
	if name != "" {
		if location, err := time.LoadLocation(name); err == nil {
			return location, name
		}
	}
	return time.Local, time.Local.String()
}

func formatAmount(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

func percentOf(part, total int64) string {
	if total <= 0 {
		return "0.00"
	}
	return decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(total)).StringFixed(2)
}

func buildDashboardAlerts(orders repository.DashboardOverviewRow, stock repository.DashboardStockStatsRow, cfg config.DashboardConfig) []DashboardAlert {
	candidates := []struct {
		alert DashboardAlert
		min   int
	}{
		{DashboardAlert{Type: "out_of_stock_variants", Level: "error", Value: stock.OutOfStockVariants}, cfg.OutOfStockAlertMin},
		{DashboardAlert{Type: "low_stock_variants", Level: "warning", Value: stock.LowStockVariants}, 1},
		{DashboardAlert{Type: "pending_orders", Level: "warning", Value: orders.PendingOrders}, cfg.PendingOrdersAlertMin},
		{DashboardAlert{Type: "expired_unprocessed_orders", Level: "warning", Value: orders.ExpiredUnhandled}, cfg.ExpiredUnhandledAlert},
	}
	alerts := make([]DashboardAlert, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.min > 0 && candidate.alert.Value >= int64(candidate.min) {
			alerts = append(alerts, candidate.alert)
		}
	}
	return alerts
}
