package service

import (
	"context"
	"testing"
	"time"

	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/stretchr/testify/require"
)

func TestResolveDashboardWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

	window, err := resolveDashboardWindow(DashboardQueryInput{Timezone: "UTC"}, now)
	require.NoError(t, err)
	require.Equal(t, "7d", window.rangeKey)
	require.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), window.startAt)
	require.Equal(t, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC), window.endAt)

	window, err = resolveDashboardWindow(DashboardQueryInput{Range: "TODAY", Timezone: "Asia/Kolkata"}, now)
	require.NoError(t, err)
	require.Equal(t, "Asia/Kolkata", window.timezone)
	require.Equal(t, 24*time.Hour, window.endAt.Sub(window.startAt))

	window, err = resolveDashboardWindow(DashboardQueryInput{Range: "30d", Timezone: "Not/AZone"}, now)
	require.NoError(t, err)
	require.Equal(t, time.Local.String(), window.timezone)

	from := now.AddDate(0, 0, -3)
	window, err = resolveDashboardWindow(DashboardQueryInput{Range: "custom", From: &from, To: &now, Timezone: "UTC"}, now)
	require.NoError(t, err)
	require.Equal(t, now.Add(time.Second), window.endAt)

	tooEarly := now.AddDate(0, 0, -91)
	cases := []DashboardQueryInput{
		{Range: "custom"},
		{Range: "custom", From: &now, To: &from},
		{Range: "custom", From: &tooEarly, To: &now},
		{Range: "yearly"},
	}
	for _, input := range cases {
		_, err := resolveDashboardWindow(input, now)
		require.ErrorIs(t, err, ErrDashboardRangeInvalid, "range=%s", input.Range)
	}
}

func TestDashboardOverviewAndRankings(t *testing.T) {
	f := setupOrderFixture(t)
	rice := f.seedVariant(t, "Rice", "1kg", "60.00", 20)
	dal := f.seedVariant(t, "Toor Dal", "500g", "85.00", 3)
	f.seedVariant(t, "Paneer", "200g", "90.00", 0)

	confirmed := f.placeOrder(t, 1, StockLine{VariantID: rice.ID, Quantity: 2})
	_, err := f.orders.Confirm(confirmed.ID)
	require.NoError(t, err)
	f.placeOrder(t, 2, StockLine{VariantID: dal.ID, Quantity: 1})
	cancelled := f.placeOrder(t, 3, StockLine{VariantID: rice.ID, Quantity: 1})
	_, err = f.orders.CancelOrder(cancelled.ID)
	require.NoError(t, err)

	svc := NewDashboardService(repository.NewDashboardRepository(f.db), config.DashboardConfig{
		LowStockThreshold:  10,
		OutOfStockAlertMin: 1,
		TopVariantsLimit:   5,
	}, "inr")
	ctx := context.Background()
	input := DashboardQueryInput{Range: "7d", ForceRefresh: true}

	overview, err := svc.GetOverview(ctx, input)
	require.NoError(t, err)
	require.Equal(t, "INR", overview.Currency)
	require.Equal(t, int64(3), overview.KPI.OrdersTotal)
	require.Equal(t, int64(1), overview.KPI.PendingOrders)
	require.Equal(t, int64(1), overview.KPI.ConfirmedOrders)
	require.Equal(t, int64(1), overview.KPI.CancelledOrders)
	require.Equal(t, "120.00", overview.KPI.GMVConfirmed)
	require.Equal(t, "33.33", overview.KPI.ConfirmationRate)
	require.Equal(t, int64(3), overview.Stock.ActiveVariants)
	require.Equal(t, int64(1), overview.Stock.OutOfStockVariants)
	require.Equal(t, int64(1), overview.Stock.LowStockVariants)
	require.Equal(t, int64(18+3), overview.Stock.UnitsOnHand)

	alertTypes := make([]string, 0, len(overview.Alerts))
	for _, alert := range overview.Alerts {
		alertTypes = append(alertTypes, alert.Type)
	}
	require.Contains(t, alertTypes, "out_of_stock_variants")
	require.Contains(t, alertTypes, "low_stock_variants")
	require.NotContains(t, alertTypes, "pending_orders")

	rankings, err := svc.GetRankings(ctx, input)
	require.NoError(t, err)
	require.Len(t, rankings.TopVariants, 1)
	require.Equal(t, rice.ID, rankings.TopVariants[0].VariantID)
	require.Equal(t, int64(2), rankings.TopVariants[0].Quantity)
	require.Equal(t, "120.00", rankings.TopVariants[0].Amount)

	trends, err := svc.GetTrends(ctx, input)
	require.NoError(t, err)
	require.Len(t, trends.Points, 7)
	var total, confirmedTotal int64
	for _, point := range trends.Points {
		total += point.OrdersTotal
		confirmedTotal += point.OrdersConfirmed
	}
	require.Equal(t, int64(3), total)
	require.Equal(t, int64(1), confirmedTotal)
}

func TestDashboardServiceNilRepo(t *testing.T) {
	var svc *DashboardService
	overview, err := svc.GetOverview(context.Background(), DashboardQueryInput{})
	require.NoError(t, err)
	require.NotNil(t, overview)
}
