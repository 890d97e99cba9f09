package router

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/http/response"
	"github.com/kitchen-cart/internal/i18n"
	"github.com/kitchen-cart/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRateLimitPrefix  = "kc"
	rateLimitedMessageKey   = "error.rate_limited"
	rateLimitUnavailableKey = "error.rate_limit_unavailable"
	rateLimitEvalTimeout    = 500 * time.Millisecond
)

// RateLimitKeyFunc 从请求中取限流维度
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 固定窗口限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

func (r RateLimitRule) enabled() bool {
	return r.WindowSeconds > 0 && r.MaxRequests > 0
}

func (r RateLimitRule) key(subject string) string {
	if r.Prefix == "" {
		return subject
	}
	return r.Prefix + ":" + subject
}

// INCR 与首次 EXPIRE 原子执行，返回 {count, ttl}
var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// rateDecision 单次计数结果
type rateDecision struct {
	count      int64
	retryAfter int
}

func (d rateDecision) remaining(limit int) int {
	left := int64(limit) - d.count
	if left < 0 {
		return 0
	}
	return int(left)
}

func evalRateLimit(ctx context.Context, client *redis.Client, rule RateLimitRule, subject string) (rateDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, rateLimitEvalTimeout)
	defer cancel()
	values, err := rateLimitScript.Run(ctx, client, []string{rule.key(subject)}, rule.WindowSeconds).Int64Slice()
	if err != nil {
		return rateDecision{}, err
	}
	if len(values) < 2 {
		return rateDecision{}, fmt.Errorf("unexpected rate limit reply: %v", values)
	}
	return rateDecision{
		count:      values[0],
		retryAfter: retryAfterSeconds(values[1], rule.WindowSeconds),
	}, nil
}

// NewWriteRateLimitRule 写入类接口共用的限流规则
func NewWriteRateLimitRule(cfg *config.Config) RateLimitRule {
	prefix := strings.TrimSpace(cfg.Redis.Prefix)
	if prefix == "" {
		prefix = defaultRateLimitPrefix
	}
	return RateLimitRule{
		Prefix:        prefix + ":rate:write",
		WindowSeconds: cfg.RateLimit.WindowSeconds,
		MaxRequests:   cfg.RateLimit.MaxRequests,
		MessageKey:    rateLimitedMessageKey,
	}
}

// RateLimitMiddleware 基于 Redis 的固定窗口限流；client 为空或规则无效时放行
// Redis 出错时拒绝请求，不做降级放行。
func RateLimitMiddleware(client *redis.Client, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	if keyFunc == nil {
		keyFunc = KeyByIP
	}
	msgKey := strings.TrimSpace(rule.MessageKey)
	if msgKey == "" {
		msgKey = rateLimitedMessageKey
	}
	return func(c *gin.Context) {
		if client == nil || !rule.enabled() {
			c.Next()
			return
		}

		subject := strings.TrimSpace(keyFunc(c))
		if subject == "" {
			subject = c.ClientIP()
		}
		decision, err := evalRateLimit(c.Request.Context(), client, rule, subject)
		if err != nil {
			logger.Warnw("rate_limit_eval_failed", "key", rule.key(subject), "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), rateLimitUnavailableKey))
			c.Abort()
			return
		}

		header := c.Writer.Header()
		header.Set("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		header.Set("X-RateLimit-Remaining", strconv.Itoa(decision.remaining(rule.MaxRequests)))
		if decision.count > int64(rule.MaxRequests) {
			header.Set("Retry-After", strconv.Itoa(decision.retryAfter))
			logger.Infow("rate_limit_rejected",
				"key", rule.key(subject),
				"count", decision.count,
				"retry_after", decision.retryAfter,
			)
			response.Error(c, response.CodeTooManyRequests, i18n.Sprintf(i18n.ResolveLocale(c), msgKey, decision.retryAfter))
			c.Abort()
			return
		}
		c.Next()
	}
}

// KeyByIP 按客户端 IP 限流
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

func retryAfterSeconds(ttlSeconds int64, windowSeconds int) int {
	wait := int(ttlSeconds)
	if wait < 1 {
		wait = windowSeconds
	}
	if wait < 1 {
		wait = 1
	}
	return wait
}
