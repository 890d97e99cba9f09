package worker

import (
	"context"
	"errors"
	"time"

	"github.com/kitchen-cart/internal/logger"
	"github.com/kitchen-cart/internal/provider"
	"github.com/kitchen-cart/internal/queue"
	"github.com/kitchen-cart/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDocumentBackup, c.handleDocumentBackup)
}

func (c *Consumer) handleDocumentBackup(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || task == nil {
		logger.Debugw("worker_document_backup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseDocumentBackupPayload(task)
	if err != nil {
		logger.Warnw("worker_document_backup_unmarshal_failed", "error", err)
		// 载荷损坏重试无意义
		return asynq.SkipRetry
	}
	taskID, _ := asynq.GetTaskID(ctx)
	fields := []interface{}{"task_id", taskID, "reason", payload.Reason}
	if !payload.RequestedAt.IsZero() {
		fields = append(fields, "queued_for", time.Since(payload.RequestedAt))
	}
	logger.Debugw("worker_document_backup_received", fields...)
	return c.runBackup(ctx, payload.Reason)
}

func (c *Consumer) runBackup(ctx context.Context, reason string) error {
	if c == nil || c.Container == nil || c.BackupService == nil {
		return nil
	}
	path, err := c.BackupService.Run(ctx, reason)
	if err != nil {
		if errors.Is(err, service.ErrBackupDisabled) {
			logger.Debugw("worker_document_backup_skip_disabled", "reason", reason)
			return nil
		}
		logger.Warnw("worker_document_backup_failed", "reason", reason, "error", err)
		return err
	}
	logger.Debugw("worker_document_backup_done", "reason", reason, "path", path)
	return nil
}
