package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "grocery"

// Registry 业务指标集合
type Registry struct {
	reg *prometheus.Registry

	orderTransitions  *prometheus.CounterVec
	stockMovements    *prometheus.CounterVec
	insufficientStock prometheus.Counter
	paymentCallbacks  *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

var (
	mu      sync.RWMutex
	current *Registry
)

// New 创建指标集合，namespace 为空时使用 grocery
func New(namespace string) *Registry {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = defaultNamespace
	}
	r := &Registry{reg: prometheus.NewRegistry()}
	r.orderTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_transitions_total",
		Help:      "Order status transitions.",
	}, []string{"from", "to"})
	r.stockMovements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_movements_total",
		Help:      "Units moved through the inventory ledger.",
	}, []string{"kind"})
	r.insufficientStock = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "insufficient_stock_total",
		Help:      "Order confirmations rejected for insufficient stock.",
	})
	r.paymentCallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_callbacks_total",
		Help:      "Simulated payment callbacks by result.",
	}, []string{"result"})
	r.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	r.reg.MustRegister(
		r.orderTransitions,
		r.stockMovements,
		r.insufficientStock,
		r.paymentCallbacks,
		r.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Init 初始化全局指标集合
func Init(namespace string) *Registry {
	r := New(namespace)
	mu.Lock()
	current = r
	mu.Unlock()
	return r
}

// Default 返回全局指标集合，未初始化时返回 nil
func Default() *Registry {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Handler 返回 /metrics 处理器
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer 暴露底层采集器，便于测试读取
func (r *Registry) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.reg
}

// OrderTransition 记录订单状态流转
func OrderTransition(from, to string) {
	if r := Default(); r != nil {
		r.orderTransitions.WithLabelValues(from, to).Inc()
	}
}

// StockMovement 记录库存变动件数
func StockMovement(kind string, units int) {
	if units < 0 {
		units = -units
	}
	if r := Default(); r != nil && units > 0 {
		r.stockMovements.WithLabelValues(kind).Add(float64(units))
	}
}

// InsufficientStock 记录一次库存不足
func InsufficientStock() {
	if r := Default(); r != nil {
		r.insufficientStock.Inc()
	}
}

// PaymentCallback 记录支付回调结果
func PaymentCallback(result string) {
	if r := Default(); r != nil {
		r.paymentCallbacks.WithLabelValues(result).Inc()
	}
}

// HTTPRequest 记录 HTTP 请求耗时
func HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if r := Default(); r != nil {
		if route == "" {
			route = "unmatched"
		}
		r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
	}
}
