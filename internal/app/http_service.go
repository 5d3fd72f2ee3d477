package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/brundhavanam/grocery/internal/config"
)

// HTTPService gin 引擎的 HTTP 监听
type HTTPService struct {
	server *http.Server
	bound  chan string
}

// NewHTTPService 按 server 配置创建监听服务
func NewHTTPService(cfg config.ServerConfig, handler http.Handler) *HTTPService {
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
	}
	if cfg.ReadHeaderTimeoutSeconds > 0 {
		server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		server.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}
	return &HTTPService{server: server, bound: make(chan string, 1)}
}

// Name 服务名称
func (s *HTTPService) Name() string { return "http" }

// Start 监听并阻塞，Stop 调用后返回 nil
func (s *HTTPService) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("http server not initialized")
	}
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		return err
	}
	s.bound <- listener.Addr().String()
	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop 等待进行中的请求结束
func (s *HTTPService) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// BoundAddr 返回实际监听地址（端口为 0 时由系统分配）
func (s *HTTPService) BoundAddr(ctx context.Context) (string, error) {
	select {
	case addr := <-s.bound:
		s.bound <- addr
		return addr, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
