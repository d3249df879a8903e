package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jengzang/records-heatmap/internal/api"
	"github.com/jengzang/records-heatmap/internal/config"
	"github.com/jengzang/records-heatmap/internal/database"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (HEATMAP_* env vars override it)")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if cfg.CatalogPath == "" {
		log.Fatal("catalog_path is required to serve the run catalog")
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.CatalogPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化路由
	router := api.SetupRouter(ctx, cfg, database.GetDB())

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		stop()
		database.Close()
		log.Fatal("Failed to start server:", err)
	}
}
