package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 定义日志初始化配置
// Level 支持 debug/info/warn/error，Environment 支持 prod/dev 等
// WithSource 控制是否记录源码位置
// File 非空时写入滚动日志文件，否则输出到 stderr（stdout 留给命令结果）
type Config struct {
	Level       string
	Environment string
	WithSource  bool
	File        string
}

var (
	global *slog.Logger
	once   sync.Once
)

func levelFromString(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.New("invalid log level: " + level)
	}
}

func outputFor(cfg Config) io.Writer {
	if cfg.File == "" {
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	}
}

// New 根据配置创建新的 slog.Logger，不设置全局实例
func New(cfg Config) (*slog.Logger, error) {
	return NewWithWriter(cfg, outputFor(cfg))
}

// NewWithWriter 使用指定 writer 创建 logger，便于测试捕获输出
func NewWithWriter(cfg Config, w io.Writer) (*slog.Logger, error) {
	lvl, err := levelFromString(cfg.Level)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl, AddSource: cfg.WithSource}
	var handler slog.Handler
	if strings.ToLower(cfg.Environment) == "prod" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(handler), nil
}

// Init 初始化全局日志实例，重复调用将返回首次创建的 logger
func Init(cfg Config) (*slog.Logger, error) {
	var initErr error
	once.Do(func() {
		global, initErr = New(cfg)
	})
	return global, initErr
}

// L 返回全局 logger；未初始化时回退到丢弃输出的 logger，库代码可安全调用
func L() *slog.Logger {
	if global == nil {
		return discard
	}
	return global
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// LogAPICall 记录一次后端调用的结构化日志
// outcome: ok/network/timeout/http_status/unauthorized/envelope
// status: HTTP 状态码，未收到响应时为 0
// errMsg: 失败时的分类消息（可选）
func LogAPICall(logger *slog.Logger, rid, method, path string, status int, durationMs int64, outcome, errMsg string) {
	attrs := []slog.Attr{
		slog.String("rid", rid),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Int64("latency_ms", durationMs),
		slog.String("outcome", outcome),
	}

	if errMsg != "" {
		attrs = append(attrs, slog.String("error", errMsg))
		logger.LogAttrs(context.Background(), slog.LevelWarn, "api_call_failed", attrs...)
	} else {
		logger.LogAttrs(context.Background(), slog.LevelDebug, "api_call", attrs...)
	}
}
