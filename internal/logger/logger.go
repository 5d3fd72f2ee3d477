package logger

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志级别与滚动文件参数
type Options struct {
	Level      string
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Stdout     bool // 非 debug 模式下同时输出到标准输出
}

// L 进程级 logger，Init 之前为 nil
var L *zap.Logger

var (
	stdoutOnce sync.Once
	stdoutLog  *zap.Logger
)

// Init 构建 logger 并替换 zap 全局实例
func Init(mode string, options Options) *zap.Logger {
	if L = New(mode, options); L == nil {
		L = stdoutLogger()
	}
	zap.ReplaceGlobals(L)
	return L
}

// New debug 模式输出彩色控制台，否则 JSON 写入 lumberjack 滚动文件
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level := resolveLevel(options.Level, debug)
	stdout := zapcore.Lock(os.Stdout)

	if debug {
		enc := encoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return wrap(zapcore.NewCore(zapcore.NewConsoleEncoder(enc), stdout, level))
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig())
	sink, err := openRotatingSink(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: file sink unavailable, writing to stdout: %v\n", err)
		return wrap(zapcore.NewCore(encoder, stdout, level))
	}
	core := zapcore.NewCore(encoder, sink, level)
	if options.Stdout {
		core = zapcore.NewTee(core, zapcore.NewCore(encoder, stdout, level))
	}
	return wrap(core)
}

func current() *zap.Logger {
	if L == nil {
		return stdoutLogger()
	}
	return L
}

// S 当前 logger 的 sugared 形式
func S() *zap.SugaredLogger { return current().Sugar() }

// SW 附带固定字段的 sugared logger
func SW(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return S()
	}
	return S().With(kv...)
}

// StdLogger 供 asynq 等只接受标准库 logger 的组件使用
func StdLogger() *log.Logger { return zap.NewStdLog(current()) }

func Debugw(message string, kv ...interface{}) { helper().Debugw(message, kv...) }
func Infow(message string, kv ...interface{})  { helper().Infow(message, kv...) }
func Warnw(message string, kv ...interface{})  { helper().Warnw(message, kv...) }
func Errorw(message string, kv ...interface{}) { helper().Errorw(message, kv...) }

// helper 包级函数多一层调用，caller 需跳过一帧
func helper() *zap.SugaredLogger {
	return current().WithOptions(zap.AddCallerSkip(1)).Sugar()
}

func wrap(core zapcore.Core) *zap.Logger {
	return zap.New(core, zap.AddCaller())
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey, cfg.MessageKey = "time", "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

// resolveLevel debug 模式固定为 debug，无法解析时为 info
func resolveLevel(raw string, debug bool) zap.AtomicLevel {
	if debug {
		return zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	level := zap.InfoLevel
	if raw = strings.TrimSpace(raw); raw != "" {
		if parsed, err := zapcore.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}
	return zap.NewAtomicLevelAt(level)
}

func stdoutLogger() *zap.Logger {
	stdoutOnce.Do(func() {
		stdoutLog = wrap(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig()),
			zapcore.Lock(os.Stdout),
			zap.NewAtomicLevelAt(zap.InfoLevel),
		))
	})
	return stdoutLog
}
