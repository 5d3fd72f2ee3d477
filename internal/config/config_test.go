package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, yaml string) *Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	cfg.normalize()
	return &cfg
}

func TestDefaults(t *testing.T) {
	cfg := loadFrom(t, "")

	require.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	require.Equal(t, 15, cfg.Server.ShutdownTimeoutSeconds)
	require.Equal(t, "INR", cfg.Order.Currency)
	require.Equal(t, 30, cfg.Order.PaymentExpireMinutes)
	require.Equal(t, 6, cfg.Security.OTP.Length)
	require.True(t, cfg.Security.Idempotency.Enabled)
	require.Greater(t, cfg.Queue.Queues["critical"], cfg.Queue.Queues["default"])
	require.Equal(t, "/metrics", cfg.Metrics.Path)
	require.Equal(t, 5, cfg.Dashboard.TopVariantsLimit)
}

func TestNormalizeRepairsInvalidValues(t *testing.T) {
	cfg := loadFrom(t, `
server:
  host: 127.0.0.1
  port: "9000"
  shutdown_timeout_seconds: -1
order:
  payment_expire_minutes: -5
  max_item_quantity: 0
  currency: "  "
security:
  otp:
    length: 12
    max_attempts: 0
metrics:
  path: ""
dashboard:
  low_stock_threshold: -3
  top_variants_limit: 500
`)

	require.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	require.Equal(t, 15, cfg.Server.ShutdownTimeoutSeconds)
	require.Equal(t, 0, cfg.Order.PaymentExpireMinutes)
	require.Equal(t, 50, cfg.Order.MaxItemQuantity)
	require.Equal(t, "INR", cfg.Order.Currency)
	require.Equal(t, 6, cfg.Security.OTP.Length)
	require.Equal(t, 5, cfg.Security.OTP.MaxAttempts)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
	require.Equal(t, 0, cfg.Dashboard.LowStockThreshold)
	require.Equal(t, 5, cfg.Dashboard.TopVariantsLimit)
}

func TestLogConfigToLoggerOptions(t *testing.T) {
	cfg := loadFrom(t, "log:\n  level: warn\n  max_backups: 3\n")
	opts := cfg.Log.ToLoggerOptions()
	require.Equal(t, "warn", opts.Level)
	require.Equal(t, 3, opts.MaxBackups)
	require.Equal(t, "grocery.log", opts.Filename)
	require.True(t, opts.Compress)
}
