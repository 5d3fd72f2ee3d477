package app

import (
	"errors"
	"time"

	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/metrics"
	"github.com/brundhavanam/grocery/internal/provider"
	"github.com/brundhavanam/grocery/internal/router"
	"github.com/brundhavanam/grocery/internal/worker"

	"go.uber.org/zap"
)

// BuildRunner 按启动模式组装服务：api 只起 HTTP，worker 只起队列消费与过期扫描
func BuildRunner(cfg *config.Config, mode string, log *zap.SugaredLogger) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cfg.Metrics.Enabled {
		metrics.Init(cfg.Metrics.Namespace)
	}

	container, err := provider.NewContainer(cfg)
	if err != nil {
		return nil, err
	}
	services, err := buildServices(cfg, mode, container, log)
	if err != nil {
		container.Close()
		return nil, err
	}

	runner := NewRunner(services...)
	runner.OnShutdown(container.Close)
	return runner, nil
}

func buildServices(cfg *config.Config, mode string, container *provider.Container, log *zap.SugaredLogger) ([]Service, error) {
	var services []Service
	if servesHTTP(mode) {
		services = append(services, NewHTTPService(cfg.Server, router.SetupRouter(cfg, container)))
	}
	if runsWorkers(mode) {
		if cfg.Queue.Enabled {
			consumer, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				return nil, err
			}
			services = append(services, consumer)
		} else {
			log.Warnw("app_worker_skip_queue_disabled", "mode", mode)
		}
		// 队列关闭时过期订单仍由扫描兜底
		if cfg.Order.ExpireSweepSeconds > 0 {
			interval := time.Duration(cfg.Order.ExpireSweepSeconds) * time.Second
			services = append(services, worker.NewSweeper(container.OrderService, interval, cfg.Order.ExpireSweepBatch))
		}
	}
	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}
	return services, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return err
	}
	runner, err := BuildRunner(opts.Config, opts.Mode, opts.Logger)
	if err != nil {
		return err
	}
	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithSignals(runner, opts)
}
