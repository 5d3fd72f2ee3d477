package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// ParseMode 校验启动模式，空值视为 all
func ParseMode(raw string) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "":
		return ModeAll, nil
	case ModeAll, ModeAPI, ModeWorker:
		return mode, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want all, api or worker)", raw)
	}
}

func servesHTTP(mode string) bool {
	return mode == ModeAll || mode == ModeAPI
}

func runsWorkers(mode string) bool {
	return mode == ModeAll || mode == ModeWorker
}

// Options 应用启动选项
type Options struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Signals []os.Signal
	Mode    string
}

// shutdownTimeout 优雅停机等待时长
func (o Options) shutdownTimeout() time.Duration {
	if o.Config == nil || o.Config.Server.ShutdownTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(o.Config.Server.ShutdownTimeoutSeconds) * time.Second
}

func (o Options) withDefaults() (Options, error) {
	if o.Config == nil {
		return o, fmt.Errorf("config is nil")
	}
	if o.Logger == nil {
		o.Logger = logger.S()
	}
	mode, err := ParseMode(o.Mode)
	if err != nil {
		return o, err
	}
	o.Mode = mode
	return o, nil
}
