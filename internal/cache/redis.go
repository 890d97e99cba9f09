package cache

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kitchen-cart/internal/config"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisHost   = "127.0.0.1"
	defaultRedisPort   = 6379
	defaultRedisPrefix = "kc"
	redisDialTimeout   = 3 * time.Second
	redisIOTimeout     = 2 * time.Second
)

// 进程内共享的 Redis 连接；未启用时所有操作都是空操作
var (
	mu          sync.RWMutex
	redisClient *redis.Client
	redisPrefix = defaultRedisPrefix
)

// InitRedis 按配置创建客户端，cfg 为空或未启用时关闭缓存
// 仅建立连接池，不做连通性检查，由 /health 负责探测。
func InitRedis(cfg *config.RedisConfig) error {
	mu.Lock()
	defer mu.Unlock()

	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = defaultRedisHost
	}
	port := cfg.Port
	if port <= 0 {
		port = defaultRedisPort
	}
	redisPrefix = strings.TrimSpace(cfg.Prefix)
	if redisPrefix == "" {
		redisPrefix = defaultRedisPrefix
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:         net.JoinHostPort(host, strconv.Itoa(port)),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  redisDialTimeout,
		ReadTimeout:  redisIOTimeout,
		WriteTimeout: redisIOTimeout,
	})
	return nil
}

// Close 关闭连接并禁用缓存
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if redisClient == nil {
		return nil
	}
	err := redisClient.Close()
	redisClient = nil
	return err
}

// Enabled 判断缓存是否启用
func Enabled() bool {
	return Client() != nil
}

// Client 获取 Redis 客户端，未启用时为 nil
func Client() *redis.Client {
	mu.RLock()
	defer mu.RUnlock()
	return redisClient
}

// Key 为业务键加上全局前缀
func Key(key string) string {
	mu.RLock()
	prefix := redisPrefix
	mu.RUnlock()
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return prefix
	}
	return prefix + ":" + trimmed
}

// Ping 检查连接，未启用时返回 nil
func Ping(ctx context.Context) error {
	client := Client()
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}

// GetBytes 读取原始内容，键不存在时 hit=false
func GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	client := Client()
	if client == nil {
		return nil, false, nil
	}
	val, err := client.Get(ctx, Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// SetBytes 写入原始内容，ttl<=0 表示不过期
func SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	client := Client()
	if client == nil {
		return nil
	}
	if ttl < 0 {
		ttl = 0
	}
	return client.Set(ctx, Key(key), value, ttl).Err()
}
