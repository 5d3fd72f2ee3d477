package router

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/cache"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/i18n"
	"github.com/brundhavanam/grocery/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimitKeyFunc 从请求中取出限流维度
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口内最多 MaxRequests 次；BlockSeconds>0 时超限后封禁这么久
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	BlockSeconds  int
	MessageKey    string
}

func (r RateLimitRule) window() time.Duration { return time.Duration(r.WindowSeconds) * time.Second }
func (r RateLimitRule) block() time.Duration  { return time.Duration(r.BlockSeconds) * time.Second }

// windowCounter 记一次命中，返回窗口内累计次数与剩余秒数
type windowCounter interface {
	hit(ctx context.Context, key string, rule RateLimitRule) (count, ttl int64, err error)
}

// KEYS[1]=计数键 ARGV: 窗口秒数, 上限, 封禁秒数
var fixedWindowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
elseif n == tonumber(ARGV[2]) + 1 and tonumber(ARGV[3]) > 0 then
	redis.call("EXPIRE", KEYS[1], ARGV[3])
end
return {n, redis.call("TTL", KEYS[1])}
`)

type redisCounter struct{ client *redis.Client }

func (rc redisCounter) hit(ctx context.Context, key string, rule RateLimitRule) (int64, int64, error) {
	reply, err := fixedWindowScript.Run(ctx, rc.client, []string{cache.Key(key)}, rule.WindowSeconds, rule.MaxRequests, rule.BlockSeconds).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(reply) != 2 {
		return 0, 0, fmt.Errorf("rate limit: unexpected reply %v", reply)
	}
	return reply[0], reply[1], nil
}

type memoryCounter struct{ store *memoryStore }

func (mc memoryCounter) hit(_ context.Context, key string, rule RateLimitRule) (int64, int64, error) {
	count, ttl := mc.store.incr(key, rule.window())
	if count == int64(rule.MaxRequests)+1 && rule.BlockSeconds > 0 {
		mc.store.extend(key, rule.block())
		ttl = int64(rule.BlockSeconds)
	}
	return count, ttl, nil
}

// RateLimitMiddleware 按规则限流；client 为 nil 时使用进程内计数
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	var counter windowCounter = memoryCounter{store: newMemoryStore()}
	if client != nil {
		counter = redisCounter{client: client}
	}
	return rateLimit(counter, rule, keyFunc)
}

func rateLimit(counter windowCounter, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	messageKey := cmp.Or(strings.TrimSpace(rule.MessageKey), "error.rate_limited")
	return func(c *gin.Context) {
		count, ttl, err := counter.hit(c.Request.Context(), limitKey(c, rule.Prefix, keyFunc), rule)
		if err != nil {
			logger.Errorw("rate_limit_unavailable", "rule", rule.Prefix, "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.rate_limit_unavailable"))
			c.Abort()
			return
		}
		if count <= int64(rule.MaxRequests) {
			c.Next()
			return
		}
		wait := max(int(ttl), 1)
		if ttl < 1 {
			wait = max(rule.WindowSeconds, 1)
		}
		logger.Warnw("rate_limit_blocked", "rule", rule.Prefix, "count", count, "wait_seconds", wait)
		response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), messageKey, wait))
		c.Abort()
	}
}

func limitKey(c *gin.Context, prefix string, keyFunc RateLimitKeyFunc) string {
	subject := ""
	if keyFunc != nil {
		subject = strings.TrimSpace(keyFunc(c))
	}
	subject = cmp.Or(subject, c.ClientIP())
	if prefix == "" {
		return subject
	}
	return "ratelimit:" + prefix + ":" + subject
}

// KeyByIP 按来源 IP
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// KeyByJSONField 按请求体中的字段（小写），缺失时按 IP
func KeyByJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		return cmp.Or(strings.ToLower(peekJSONField(c, field)), c.ClientIP())
	}
}

// KeyByIPAndJSONField 字段|IP 组合维度
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(peekJSONField(c, field))
		if value == "" {
			return c.ClientIP()
		}
		return value + "|" + c.ClientIP()
	}
}

// peekJSONField 读取顶层字符串字段并把请求体放回，供后续 handler 绑定
func peekJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var fields map[string]json.RawMessage
	if json.Unmarshal(body, &fields) != nil {
		return ""
	}
	var value string
	if raw, ok := fields[field]; !ok || json.Unmarshal(raw, &value) != nil {
		return ""
	}
	return strings.TrimSpace(value)
}
