package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/brundhavanam/grocery/internal/http/response"

	"github.com/gin-gonic/gin"
)

func TestKeyByIPAndJSONField(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"mobile":" 98765 43210 "}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.RemoteAddr = "1.2.3.4:5678"

	key := KeyByIPAndJSONField("mobile")(c)
	if key != "98765 43210|1.2.3.4" {
		t.Fatalf("key want 98765 43210|1.2.3.4 got %s", key)
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "98765 43210") {
		t.Fatalf("request body should be restored after reading field")
	}
}

func TestKeyByJSONFieldFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"code":"123456"}`))
	c.Request.RemoteAddr = "5.6.7.8:1000"
	if key := KeyByJSONField("mobile")(c); key != "5.6.7.8" {
		t.Fatalf("key want 5.6.7.8 got %s", key)
	}

	c.Request = httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(`{"mobile":"9876543210"}`))
	if key := KeyByJSONField("mobile")(c); key != "9876543210" {
		t.Fatalf("key want 9876543210 got %s", key)
	}
}

func TestRateLimitMiddlewareMemoryFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rule := RateLimitRule{Prefix: "otp_send", WindowSeconds: 60, MaxRequests: 2, BlockSeconds: 300}
	r := gin.New()
	r.POST("/otp", RateLimitMiddleware(nil, rule, KeyByJSONField("mobile")), func(c *gin.Context) {
		response.Success(c, nil)
	})

	send := func(mobile string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/otp", strings.NewReader(`{"mobile":"`+mobile+`"}`))
		r.ServeHTTP(w, req)
		return decodeStatusCode(t, w)
	}

	for i := 0; i < 2; i++ {
		if code := send("9876543210"); code != response.CodeOK {
			t.Fatalf("request %d status_code want 0 got %d", i+1, code)
		}
	}
	if code := send("9876543210"); code != response.CodeTooManyRequests {
		t.Fatalf("third request status_code want 429 got %d", code)
	}
	if code := send("9123456780"); code != response.CodeOK {
		t.Fatalf("other mobile should not be limited, got %d", code)
	}
}

func TestRateLimitMiddlewareDisabledRule(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RateLimitMiddleware(nil, RateLimitRule{WindowSeconds: 0, MaxRequests: 1}, KeyByIP))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if !strings.Contains(w.Body.String(), `"ok":true`) {
			t.Fatalf("expected handler response body, got %s", w.Body.String())
		}
	}
}

func TestMemoryStoreBlockExtendsWindow(t *testing.T) {
	store := newMemoryStore()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	count, ttl := store.incr("k", time.Minute)
	if count != 1 || ttl != 60 {
		t.Fatalf("first incr want (1,60) got (%d,%d)", count, ttl)
	}
	store.extend("k", 10*time.Minute)
	now = now.Add(2 * time.Minute)
	count, ttl = store.incr("k", time.Minute)
	if count != 2 || ttl != 480 {
		t.Fatalf("blocked incr want (2,480) got (%d,%d)", count, ttl)
	}
	now = now.Add(9 * time.Minute)
	if count, _ = store.incr("k", time.Minute); count != 1 {
		t.Fatalf("expired key should restart at 1, got %d", count)
	}
}

type failingCounter struct{}

func (failingCounter) hit(context.Context, string, RateLimitRule) (int64, int64, error) {
	return 0, 0, errors.New("redis down")
}

func TestRateLimitCounterFailureIsInternalError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/login", rateLimit(failingCounter{}, RateLimitRule{Prefix: "admin_login", WindowSeconds: 60, MaxRequests: 5}, KeyByIP), func(c *gin.Context) {
		response.Success(c, nil)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if code := decodeStatusCode(t, w); code != response.CodeInternal {
		t.Fatalf("status_code want %d got %d", response.CodeInternal, code)
	}
}

func TestMemoryCounterAppliesBlock(t *testing.T) {
	store := newMemoryStore()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	counter := memoryCounter{store: store}
	rule := RateLimitRule{WindowSeconds: 60, MaxRequests: 1, BlockSeconds: 600}

	if count, ttl, _ := counter.hit(context.Background(), "k", rule); count != 1 || ttl != 60 {
		t.Fatalf("first hit want (1,60) got (%d,%d)", count, ttl)
	}
	if count, ttl, _ := counter.hit(context.Background(), "k", rule); count != 2 || ttl != 600 {
		t.Fatalf("over-limit hit should start block, got (%d,%d)", count, ttl)
	}
}

func TestLimitKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "9.9.9.9:80"

	if got := limitKey(c, "otp_send", func(*gin.Context) string { return "  " }); got != "ratelimit:otp_send:9.9.9.9" {
		t.Fatalf("blank subject should fall back to ip, got %s", got)
	}
	if got := limitKey(c, "", KeyByIP); got != "9.9.9.9" {
		t.Fatalf("empty prefix should keep bare subject, got %s", got)
	}
}
