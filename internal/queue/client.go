package queue

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/constants"
	"github.com/kitchen-cart/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 默认队列名称
	DefaultQueue = constants.QueueDefault

	defaultConcurrency = 2
	// 窗口内重复的备份任务只保留一个，连续 PUT 不会堆积备份
	backupUniqueWindow = 10 * time.Second
	backupMaxRetry     = 3
)

// Client 队列生产端；未启用时所有投递都是空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端，cfg 为空或未启用时返回禁用的客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	if _, err := normalizeQueues(cfg.Queues); err != nil {
		return nil, err
	}
	return &Client{client: asynq.NewClient(redisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueDocumentBackup 投递文档备份任务，重复任务视为成功
func (c *Client) EnqueueDocumentBackup(ctx context.Context, payload DocumentBackupPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewDocumentBackupTask(payload)
	if err != nil {
		return err
	}
	options := append([]asynq.Option{
		asynq.Queue(DefaultQueue),
		asynq.Unique(backupUniqueWindow),
		asynq.MaxRetry(backupMaxRetry),
	}, opts...)
	info, err := c.client.EnqueueContext(ctx, task, options...)
	if errors.Is(err, asynq.ErrDuplicateTask) {
		logger.Debugw("queue_backup_deduplicated", "reason", payload.Reason)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Debugw("queue_backup_enqueued", "task_id", info.ID, "reason", payload.Reason)
	return nil
}

// BuildServerConfig 生成消费端配置，日志接入 zap
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config, error) {
	concurrency := defaultConcurrency
	var weights map[string]int
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		weights = cfg.Queues
	}
	queues, err := normalizeQueues(weights)
	if err != nil {
		return asynq.RedisClientOpt{}, asynq.Config{}, err
	}
	return redisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      logger.S(),
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Warnw("queue_task_failed",
				"type", task.Type(),
				"retried", retried,
				"max_retry", maxRetry,
				"error", err,
			)
		}),
	}, nil
}

// normalizeQueues 去掉空名与非正权重，空配置回落到默认队列
func normalizeQueues(raw map[string]int) (map[string]int, error) {
	if len(raw) == 0 {
		return map[string]int{DefaultQueue: 1}, nil
	}
	queues := make(map[string]int, len(raw))
	for name, weight := range raw {
		name = strings.TrimSpace(name)
		if name == "" || weight <= 0 {
			continue
		}
		queues[name] = weight
	}
	if len(queues) == 0 {
		return nil, fmt.Errorf("queue config has no valid queue weights: %v", raw)
	}
	if _, ok := queues[DefaultQueue]; !ok {
		return nil, fmt.Errorf("queue config must include %q", DefaultQueue)
	}
	return queues, nil
}

func redisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host := "127.0.0.1"
	port := 6379
	opt := asynq.RedisClientOpt{}
	if cfg != nil {
		if h := strings.TrimSpace(cfg.Host); h != "" {
			host = h
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		opt.Password = cfg.Password
		opt.DB = cfg.DB
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	return opt
}
