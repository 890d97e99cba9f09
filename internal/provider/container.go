package provider

import (
	"fmt"
	"strings"

	"github.com/kitchen-cart/internal/cache"
	"github.com/kitchen-cart/internal/client"
	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/constants"
	"github.com/kitchen-cart/internal/logger"
	"github.com/kitchen-cart/internal/metrics"
	"github.com/kitchen-cart/internal/models"
	"github.com/kitchen-cart/internal/queue"
	"github.com/kitchen-cart/internal/repository"
	"github.com/kitchen-cart/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Registry    *prometheus.Registry
	Metrics     *metrics.DocumentMetrics
	HTTPMetrics *metrics.HTTPMetrics

	// Repositories
	DocumentRepo repository.DocumentRepository
	DraftStore   service.DraftStore

	// Services
	DocumentService *service.DocumentService
	DocumentClient  service.DocumentClient
	BackupService   *service.BackupService
	Session         *service.Session
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initMetrics()

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initMetrics() {
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.NewDocumentMetrics(c.Registry)
	c.HTTPMetrics = metrics.NewHTTPMetrics(c.Registry)
}

func (c *Container) initRepositories() {
	storage := c.Config.Storage
	switch normalizeDriver(storage.Driver) {
	case constants.StorageDriverSQLite, constants.StorageDriverPostgres:
		if models.DB == nil {
			logger.Errorw("provider_document_db_unavailable",
				"driver", storage.Driver,
				"fallback", constants.StorageDriverFile,
				"path", storage.FilePath,
			)
			c.DocumentRepo = repository.NewFileDocumentRepository(storage.FilePath)
			break
		}
		c.DocumentRepo = repository.NewGormDocumentRepository(models.DB, storage.DocumentKey)
	default:
		c.DocumentRepo = repository.NewFileDocumentRepository(storage.FilePath)
	}

	draft := c.Config.Draft
	switch strings.ToLower(strings.TrimSpace(draft.Backend)) {
	case constants.DraftBackendRedis:
		if !cache.Enabled() {
			logger.Warnw("provider_draft_redis_disabled", "fallback", constants.DraftBackendFile, "path", draft.FilePath)
			c.DraftStore = cache.NewFileDraftCache(draft.FilePath)
			break
		}
		c.DraftStore = cache.NewRedisDraftCache(draft.Key)
	default:
		c.DraftStore = cache.NewFileDraftCache(draft.FilePath)
	}
}

func (c *Container) initServices() {
	c.DocumentService = service.NewDocumentService(c.DocumentRepo, c.QueueClient, c.Metrics)
	c.BackupService = service.NewBackupService(c.DocumentService, c.Config.Backup, c.Metrics)

	if endpoint := strings.TrimSpace(c.Config.Session.Endpoint); endpoint != "" {
		itemsClient := client.NewItemsClient(endpoint, c.Config.Session.Timeout())
		logger.Infow("provider_session_remote_endpoint", "endpoint", itemsClient.Endpoint())
		c.DocumentClient = itemsClient
	} else {
		c.DocumentClient = service.NewLocalDocumentClient(c.DocumentService)
	}
	c.Session = service.NewSession(c.DocumentClient, c.DraftStore, nil)
}

// InitDatabase 数据库驱动下初始化连接并迁移文档表，file 驱动直接返回
func InitDatabase(cfg *config.Config) error {
	if !UsesDatabase(cfg) {
		return nil
	}
	storage := cfg.Storage
	if err := models.InitDB(normalizeDriver(storage.Driver), storage.DSN, models.DBPoolConfig{
		MaxOpenConns:           storage.Pool.MaxOpenConns,
		MaxIdleConns:           storage.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: storage.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: storage.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return fmt.Errorf("数据库初始化失败: %w", err)
	}
	if err := models.AutoMigrate(models.DB); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	return nil
}

// UsesDatabase 存储驱动是否为数据库
func UsesDatabase(cfg *config.Config) bool {
	if cfg == nil {
		return false
	}
	switch normalizeDriver(cfg.Storage.Driver) {
	case constants.StorageDriverSQLite, constants.StorageDriverPostgres:
		return true
	default:
		return false
	}
}

// Close 释放容器持有的连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", constants.StorageDriverFile:
		return constants.StorageDriverFile
	case "postgresql", constants.StorageDriverPostgres:
		return constants.StorageDriverPostgres
	case constants.StorageDriverSQLite:
		return constants.StorageDriverSQLite
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}
