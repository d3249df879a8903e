package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jengzang/records-heatmap/internal/config"
	"github.com/jengzang/records-heatmap/internal/database"
	"github.com/jengzang/records-heatmap/internal/repository"
	"github.com/jengzang/records-heatmap/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (HEATMAP_* env vars override it)")
	flag.Parse()

	os.Exit(run(*configPath))
}

// run renders once and returns the process exit code. Deferred cleanup,
// including the catalog close, runs before the caller exits.
func run(configPath string) int {
	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var catalog *service.CatalogService
	if cfg.CatalogPath != "" {
		if err := database.Init(database.Config{Path: cfg.CatalogPath}); err != nil {
			log.Printf("Failed to initialize catalog: %v", err)
			return 1
		}
		defer func() {
			if err := database.Close(); err != nil {
				log.Printf("Failed to close catalog: %v", err)
			}
		}()
		catalog = service.NewCatalogService(repository.NewRunRepository(database.GetDB()))
	}

	report, err := service.NewRenderService(cfg, catalog).Render(ctx)
	if err != nil {
		log.Printf("Render failed: %v", err)
		return 1
	}
	if report.Result.Skipped() > 0 || len(report.Result.Rejected) > 0 {
		log.Printf("Completed with %d skipped records and %d rejected levels",
			report.Result.Skipped(), len(report.Result.Rejected))
	}
	return 0
}
