package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersAccumulate(t *testing.T) {
	r := Init("grocery_test")
	t.Cleanup(func() { Init("") })

	OrderTransition("created", "paid")
	OrderTransition("created", "paid")
	StockMovement("deduct", -3)
	StockMovement("restore", 0)
	InsufficientStock()
	PaymentCallback("recorded")

	require.Equal(t, 2.0, testutil.ToFloat64(r.orderTransitions.WithLabelValues("created", "paid")))
	require.Equal(t, 3.0, testutil.ToFloat64(r.stockMovements.WithLabelValues("deduct")))
	require.Equal(t, 0.0, testutil.ToFloat64(r.stockMovements.WithLabelValues("restore")))
	require.Equal(t, 1.0, testutil.ToFloat64(r.insufficientStock))
	require.Equal(t, 1.0, testutil.ToFloat64(r.paymentCallbacks.WithLabelValues("recorded")))
}

func TestHandlerExposesNamespace(t *testing.T) {
	r := Init("grocery_handler")
	t.Cleanup(func() { Init("") })
	HTTPRequest(http.MethodGet, "/api/v1/products", http.StatusOK, 15*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "grocery_handler_http_request_duration_seconds"))
}

func TestHelpersNoopWithoutRegistry(t *testing.T) {
	mu.Lock()
	current = nil
	mu.Unlock()
	t.Cleanup(func() { Init("") })

	OrderTransition("created", "cancelled")
	HTTPRequest(http.MethodGet, "", http.StatusOK, time.Millisecond)
	require.Nil(t, Default())
}
