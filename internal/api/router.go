package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/records-heatmap/internal/config"
	"github.com/jengzang/records-heatmap/internal/handler"
	"github.com/jengzang/records-heatmap/internal/middleware"
	"github.com/jengzang/records-heatmap/internal/repository"
	"github.com/jengzang/records-heatmap/internal/service"
)

// SetupRouter 设置路由. Background work started for the router stops with ctx.
func SetupRouter(ctx context.Context, cfg *config.Config, db *sql.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Heatmap catalog API is running",
		})
	})

	runHandler := handler.NewRunHandler(service.NewCatalogService(repository.NewRunRepository(db)))

	api := r.Group("/api/v1")
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
		go limiter.Run(ctx)
		api.Use(middleware.RateLimit(limiter))
	}
	if cfg.JWTSecret != "" {
		api.Use(middleware.Auth(cfg.JWTSecret))
	}
	{
		runs := api.Group("/runs")
		{
			runs.GET("", runHandler.ListRuns)
			runs.GET("/:id", runHandler.GetRun)
			runs.GET("/:id/levels", runHandler.GetLevels)
			runs.GET("/:id/issues", runHandler.GetIssues)
		}
	}

	return r
}
