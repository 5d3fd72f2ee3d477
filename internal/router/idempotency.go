package router

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/cache"
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/i18n"

	"github.com/gin-gonic/gin"
)

const (
	idempotencyHeader     = "Idempotency-Key"
	defaultIdempotencyTTL = 24 * time.Hour
	maxIdempotencyKeyLen  = 128
)

type idempotencyRecord struct {
	Status      int    `json:"status"`
	Body        string `json:"body"`
	ContentType string `json:"content_type,omitempty"`
	RequestHash string `json:"request_hash"`
}

type idempotencyStore interface {
	load(ctx context.Context, key string) (*idempotencyRecord, bool, error)
	save(ctx context.Context, key string, record *idempotencyRecord, ttl time.Duration) error
}

type redisIdempotencyStore struct{}

func (redisIdempotencyStore) load(ctx context.Context, key string) (*idempotencyRecord, bool, error) {
	var record idempotencyRecord
	hit, err := cache.GetJSON(ctx, key, &record)
	if err != nil || !hit {
		return nil, false, err
	}
	return &record, true, nil
}

func (redisIdempotencyStore) save(ctx context.Context, key string, record *idempotencyRecord, ttl time.Duration) error {
	_, err := cache.SetNXJSON(ctx, key, record, ttl)
	return err
}

type memoryIdempotencyStore struct {
	store *memoryStore
}

func (m memoryIdempotencyStore) load(_ context.Context, key string) (*idempotencyRecord, bool, error) {
	raw, ok := m.store.get(key)
	if !ok {
		return nil, false, nil
	}
	var record idempotencyRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, err
	}
	return &record, true, nil
}

func (m memoryIdempotencyStore) save(_ context.Context, key string, record *idempotencyRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	m.store.setNX(key, payload, ttl)
	return nil
}

// IdempotencyMiddleware 按 Idempotency-Key 重放首个响应；同一 key 携带不同请求体返回冲突。
// 未携带该请求头时直接放行。
func IdempotencyMiddleware(ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	var store idempotencyStore = memoryIdempotencyStore{store: newMemoryStore()}
	if cache.Enabled() {
		store = redisIdempotencyStore{}
	}
	return idempotencyMiddleware(store, ttl)
}

func idempotencyMiddleware(store idempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempotencyKey := strings.TrimSpace(c.GetHeader(idempotencyHeader))
		if idempotencyKey == "" {
			c.Next()
			return
		}
		if len(idempotencyKey) > maxIdempotencyKeyLen {
			response.Error(c, response.CodeBadRequest, i18n.T(i18n.ResolveLocale(c), "error.bad_request"))
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, response.CodeBadRequest, i18n.T(i18n.ResolveLocale(c), "error.bad_request"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		requestHash := hashBody(body)
		key := fmt.Sprintf("idempotency:%s:%s", buildIdempotencyScope(c), idempotencyKey)
		log := handlershared.RequestLog(c)

		record, hit, err := store.load(c.Request.Context(), key)
		if err != nil {
			log.Warnw("idempotency_load_failed", "error", err)
		}
		if hit {
			if record.RequestHash != requestHash {
				response.Error(c, response.CodeConflict, i18n.T(i18n.ResolveLocale(c), "error.idempotency_conflict"))
				c.Abort()
				return
			}
			log.Infow("idempotency_replayed", "path", c.FullPath())
			writeStoredResponse(c, record)
			c.Abort()
			return
		}

		capture := &responseCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		if !shouldPersistResponse(capture.body.Bytes()) {
			return
		}
		record = &idempotencyRecord{
			Status:      c.Writer.Status(),
			Body:        base64.StdEncoding.EncodeToString(capture.body.Bytes()),
			ContentType: c.Writer.Header().Get("Content-Type"),
			RequestHash: requestHash,
		}
		if err := store.save(c.Request.Context(), key, record, ttl); err != nil {
			log.Warnw("idempotency_persist_failed", "error", err)
		}
	}
}

// buildIdempotencyScope 幂等作用域：用户 + 方法 + 路径
func buildIdempotencyScope(c *gin.Context) string {
	userID := ""
	if value, ok := c.Get(handlershared.ContextUserID); ok {
		userID = fmt.Sprint(value)
	}
	return strings.Join([]string{userID, c.Request.Method, c.Request.URL.Path}, "|")
}

// shouldPersistResponse 服务端内部错误与限流结果不缓存，允许客户端重试
func shouldPersistResponse(body []byte) bool {
	var envelope struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return false
	}
	return envelope.StatusCode != response.CodeInternal && envelope.StatusCode != response.CodeTooManyRequests
}

func writeStoredResponse(c *gin.Context, record *idempotencyRecord) {
	decoded, err := base64.StdEncoding.DecodeString(record.Body)
	if err != nil {
		response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.internal"))
		return
	}
	contentType := record.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	c.Header("Idempotent-Replayed", "true")
	c.Data(record.Status, contentType, decoded)
}

func hashBody(payload []byte) string {
	sum := sha256.Sum256(payload)
	return base64.StdEncoding.EncodeToString(sum[:])
}

type responseCapture struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseCapture) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseCapture) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
