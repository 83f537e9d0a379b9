package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cardmart-next/internal/config"
	"github.com/cardmart-next/internal/logger"

	"go.uber.org/zap"
)

// 启动模式：api 只提供 HTTP 接口，worker 只消费订单事件，all 两者同进程运行
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

const defaultShutdownTimeout = 10 * time.Second

// Options 应用启动选项
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}

// parseMode 校验启动模式，返回需要启动的 API / Worker 组合
func parseMode(mode string) (withAPI, withWorker bool, err error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeAll:
		return true, true, nil
	case ModeAPI:
		return true, false, nil
	case ModeWorker:
		return false, true, nil
	default:
		return false, false, fmt.Errorf("unknown mode %q (want %s, %s or %s)", mode, ModeAll, ModeAPI, ModeWorker)
	}
}
