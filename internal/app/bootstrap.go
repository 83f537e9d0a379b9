package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cardmart-next/internal/cache"
	"github.com/cardmart-next/internal/config"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/provider"
	"github.com/cardmart-next/internal/router"
	"github.com/cardmart-next/internal/worker"
)

const redisPingTimeout = 3 * time.Second

// BuildRunner 按模式组装 API 与 Worker，运行器结束时由它关闭容器持有的连接
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	withAPI, withWorker, err := parseMode(mode)
	if err != nil {
		return nil, err
	}
	if withWorker && !withAPI && !cfg.Queue.Enabled {
		return nil, errors.New("worker mode requires queue.enabled")
	}

	container := provider.NewContainer(cfg)
	checkRedis()

	var services []Service
	if withAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(cfg.Server.Host+":"+cfg.Server.Port, engine))
	}
	if withWorker {
		if cfg.Queue.Enabled {
			workerService, err := worker.NewService(&cfg.Queue, worker.NewConsumer(container))
			if err != nil {
				_ = container.Close()
				return nil, fmt.Errorf("init worker failed: %w", err)
			}
			services = append(services, workerService)
		} else {
			// all 模式下队列关闭时订单事件只记录日志，不启动消费者
			logger.Warnw("app_worker_skipped", "reason", "queue_disabled")
		}
	}

	runner := NewRunner(services...)
	runner.OnShutdown("container", container.Close)
	return runner, nil
}

// checkRedis 启动时探测 Redis，失败只告警：限流与鉴权快照会降级为直连数据库
func checkRedis() {
	if !cache.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := cache.Ping(ctx); err != nil {
		logger.Warnw("app_redis_unreachable", "error", err)
	}
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Host+":"+opts.Config.Server.Port,
		"mode", opts.Mode,
		"services", runner.ServiceNames(),
	)
	return RunWithOptions(runner, opts)
}
