package router

import (
	"strings"

	"github.com/kitchen-cart/internal/cache"
	"github.com/kitchen-cart/internal/config"
	adminhandlers "github.com/kitchen-cart/internal/http/handlers/admin"
	publichandlers "github.com/kitchen-cart/internal/http/handlers/public"
	"github.com/kitchen-cart/internal/logger"
	"github.com/kitchen-cart/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按前台/后台分组）
	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)
	writeLimit := RateLimitMiddleware(cache.Client(), NewWriteRateLimitRule(cfg), KeyByIP)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log, c.HTTPMetrics))
	r.Use(CORSMiddleware(cfg.CORS))

	// 持久化端点
	api := r.Group("/api")
	{
		api.GET("/items", publicHandler.GetItems)
		api.PUT("/items", writeLimit, publicHandler.PutItems)
	}

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/session", publicHandler.GetSession)
		apiV1.POST("/session/reload", publicHandler.ReloadSession)

		catalog := apiV1.Group("/catalog")
		{
			catalog.GET("/items", publicHandler.SearchCatalog)
			catalog.GET("/categories", publicHandler.GroupCatalog)
		}

		cart := apiV1.Group("/cart")
		{
			cart.GET("", publicHandler.GetCart)
			cart.POST("/items", writeLimit, publicHandler.AddCartItem)
			cart.PATCH("/items/:id", writeLimit, publicHandler.UpdateCartItem)
			cart.DELETE("/items/:id", writeLimit, publicHandler.RemoveCartItem)
			cart.POST("/extra-items", writeLimit, publicHandler.AddExtraCartItem)
			cart.POST("/history/:id", writeLimit, publicHandler.QuickAddFromHistory)
			cart.POST("/publish", writeLimit, publicHandler.PublishCart)
		}

		published := apiV1.Group("/published-carts")
		{
			published.GET("", publicHandler.ListPublishedCarts)
			published.PUT("/:id", writeLimit, publicHandler.UpdatePublishedCart)
			published.DELETE("/:id", writeLimit, publicHandler.DeletePublishedCart)
			published.POST("/:id/copy", writeLimit, publicHandler.CopyPublishedCart)
		}

		extra := apiV1.Group("/extra-items")
		{
			extra.GET("", publicHandler.ListExtraItems)
			extra.PUT("/:id", writeLimit, publicHandler.UpdateExtraItem)
			extra.DELETE("/:id", writeLimit, publicHandler.DeleteExtraItem)
		}

		// 维护接口
		admin := apiV1.Group("/admin")
		{
			admin.GET("/backups", adminHandler.ListBackups)
			admin.POST("/backups", adminHandler.CreateBackup)
		}
	}

	// 健康检查
	r.GET("/health", func(ctx *gin.Context) {
		payload := gin.H{"status": "ok", "session_loaded": c.Session.Loaded()}
		if cache.Enabled() {
			if err := cache.Ping(ctx.Request.Context()); err != nil {
				logger.Warnw("health_redis_ping_failed", "error", err)
				payload["redis"] = "down"
			} else {
				payload["redis"] = "up"
			}
		}
		ctx.JSON(200, payload)
	})

	if cfg.Metrics.Enabled && c.Registry != nil {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
	}

	return r
}
