package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
)

// Service 可启停的长驻服务（HTTP 接口、队列消费者）
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type shutdownHook struct {
	name string
	fn   func() error
}

// Runner 服务运行器：任一服务退出即整体停机，服务按启动的逆序停止，最后执行关闭钩子
type Runner struct {
	services []Service
	hooks    []shutdownHook
}

// NewRunner 创建服务运行器
func NewRunner(services ...Service) *Runner {
	kept := make([]Service, 0, len(services))
	for _, svc := range services {
		if svc != nil {
			kept = append(kept, svc)
		}
	}
	return &Runner{services: kept}
}

// OnShutdown 注册停机钩子，所有服务停止后按注册逆序执行
func (r *Runner) OnShutdown(name string, fn func() error) {
	if r == nil || fn == nil {
		return
	}
	r.hooks = append(r.hooks, shutdownHook{name: name, fn: fn})
}

// ServiceNames 返回已注册服务名称
func (r *Runner) ServiceNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.services))
	for _, svc := range r.services {
		names = append(names, svc.Name())
	}
	return names
}

// RunWithOptions 运行服务并处理系统信号
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 启动全部服务并阻塞到收到信号或任一服务退出
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type exit struct {
		name string
		err  error
	}
	exitCh := make(chan exit, len(r.services))
	for _, svc := range r.services {
		go func(svc Service) {
			log.Infow("service_start", "service", svc.Name())
			err := svc.Start(ctx)
			log.Infow("service_exit", "service", svc.Name(), "error", err)
			exitCh <- exit{name: svc.Name(), err: err}
		}(svc)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Infow("service_shutdown_signal")
	case first := <-exitCh:
		runErr = first.err
		if runErr == nil {
			// 服务无错误提前退出同样触发整体停机
			log.Warnw("service_exited_early", "service", first.name)
		}
	}
	cancel()

	if stopTimeout <= 0 {
		stopTimeout = defaultShutdownTimeout
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	r.shutdown(stopCtx, log)

	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func (r *Runner) shutdown(ctx context.Context, log *zap.SugaredLogger) {
	for i := len(r.services) - 1; i >= 0; i-- {
		svc := r.services[i]
		if err := svc.Stop(ctx); err != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
	for i := len(r.hooks) - 1; i >= 0; i-- {
		hook := r.hooks[i]
		if err := hook.fn(); err != nil {
			log.Errorw("shutdown_hook_failed", "hook", hook.name, "error", err)
			continue
		}
		log.Infow("shutdown_hook_done", "hook", hook.name)
	}
}
