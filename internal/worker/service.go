package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/constants"
	"github.com/kitchen-cart/internal/logger"
	"github.com/kitchen-cart/internal/queue"

	"github.com/hibiken/asynq"
)

// ErrNothingToRun 队列与定时备份均未启用
var ErrNothingToRun = errors.New("worker has nothing to run: queue and scheduled backups are disabled")

// Service 异步队列与定时备份服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
	interval time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewService 创建 worker 服务；队列关闭时仅运行定时备份
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	s := &Service{
		name:     "worker",
		consumer: consumer,
		stopCh:   make(chan struct{}),
	}
	if consumer.Container != nil && consumer.BackupService.Enabled() {
		s.interval = consumer.BackupService.Interval()
	}
	if cfg != nil && cfg.Enabled {
		opt, serverCfg, err := queue.BuildServerConfig(cfg)
		if err != nil {
			return nil, err
		}
		s.server = asynq.NewServer(opt, serverCfg)
		s.mux = asynq.NewServeMux()
		consumer.Register(s.mux)
	}
	if s.server == nil && s.interval <= 0 {
		return nil, ErrNothingToRun
	}
	return s, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("worker not initialized")
	}
	if s.interval > 0 {
		go s.runBackupLoop(ctx)
	}
	if s.server == nil {
		select {
		case <-ctx.Done():
		case <-s.stopCh:
		}
		return nil
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	_ = ctx
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	if s.server != nil {
		s.server.Shutdown()
	}
	return nil
}

func (s *Service) runBackupLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.interval <= 0 {
		return
	}
	logger.Infow("worker_backup_schedule_started", "interval", s.interval.String())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			_ = s.consumer.runBackup(ctx, constants.BackupReasonSchedule)
		}
	}
}
