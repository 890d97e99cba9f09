package app

import (
	"os"
	"strings"
	"time"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/logger"

	"go.uber.org/zap"
)

// 启动模式
const (
	ModeAll    = "all"    // HTTP 与后台任务同进程
	ModeAPI    = "api"    // 仅 HTTP
	ModeWorker = "worker" // 仅队列消费与定时备份
)

// Options 应用启动选项
// Signals 为空时仅在服务自行退出时返回。
type Options struct {
	Config          *config.Config
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
	Mode            string
}

// normalizeOptions 补齐默认参数
func normalizeOptions(opts Options) Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultStopTimeout
	}
	opts.Mode = strings.ToLower(strings.TrimSpace(opts.Mode))
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	return opts
}
