package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/kitchen-cart/internal/config"
	"github.com/kitchen-cart/internal/logger"
	"github.com/kitchen-cart/internal/provider"

	"github.com/joho/godotenv"
)

func main() {
	var (
		file  string
		force bool
	)
	flag.StringVar(&file, "file", "./data/items.seed.json", "要导入的 JSON 文档")
	flag.BoolVar(&force, "force", false, "存储中已有文档时仍然覆盖")
	flag.Parse()

	// 本地开发时从 .env 注入环境变量，文件不存在时忽略
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if err := provider.InitDatabase(cfg); err != nil {
		stdLog.Fatalf("%v", err)
	}

	body, err := os.ReadFile(file)
	if err != nil {
		stdLog.Fatalf("Failed to read seed file %s: %v", file, err)
	}

	container := provider.NewContainer(cfg)
	defer container.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if !force {
		if _, err := container.DocumentService.Retrieve(ctx); err == nil {
			stdLog.Printf("Document already exists in %s storage, use -force to overwrite", cfg.Storage.Driver)
			return
		}
	}
	if err := container.DocumentService.Replace(ctx, body); err != nil {
		stdLog.Fatalf("Failed to import document: %v", err)
	}
	logger.Infow("seed_document_imported", "file", file, "driver", cfg.Storage.Driver, "bytes", len(body))
	stdLog.Printf("Imported %s into %s storage", file, cfg.Storage.Driver)
}
