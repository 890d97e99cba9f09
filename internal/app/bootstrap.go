package app

import (
	"context"
	"errors"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/logger"
	"github.com/kitchen-cart/internal/provider"
	"github.com/kitchen-cart/internal/router"
	"github.com/kitchen-cart/internal/telemetry"
	"github.com/kitchen-cart/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if !isKnownMode(mode) {
		return nil, nil, errors.New("unknown mode: " + mode)
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		// 首次加载失败不阻止启动，可通过 /api/v1/session/reload 重试
		if err := container.Session.Load(context.Background()); err != nil {
			logger.Warnw("app_initial_session_load_failed", "error", err)
		}
		engine := router.SetupRouter(cfg, container)
		httpService := NewHTTPService(cfg.Server.Addr(), engine, "/health", cfg.Metrics.Path)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		switch {
		case err == nil:
			services = append(services, workerService)
		case errors.Is(err, worker.ErrNothingToRun) && mode == ModeAll:
			logger.Infow("app_worker_skipped", "reason", err.Error())
		default:
			container.Close()
			return nil, nil, err
		}
	}

	if len(services) == 0 {
		container.Close()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	shutdownTracing, err := telemetry.InitTracing(context.Background(), opts.Config.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			opts.Logger.Warnw("app_tracing_shutdown_failed", "error", err)
		}
	}()

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	opts.Logger.Infow("app_start", "addr", opts.Config.Server.Addr(), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}

func isKnownMode(mode string) bool {
	switch mode {
	case ModeAll, ModeAPI, ModeWorker:
		return true
	default:
		return false
	}
}
