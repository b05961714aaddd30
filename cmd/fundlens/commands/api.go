package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhenwei/fundlens/internal/api"
	"github.com/zhenwei/fundlens/internal/api/handlers"
	"github.com/zhenwei/fundlens/internal/estimate"
	"github.com/zhenwei/fundlens/internal/external/eastmoney"
	"github.com/zhenwei/fundlens/internal/external/tencent"
	"github.com/zhenwei/fundlens/internal/holdings"
	"github.com/zhenwei/fundlens/internal/holdsync"
	"github.com/zhenwei/fundlens/internal/market"
	"github.com/zhenwei/fundlens/internal/quotes"
	"github.com/zhenwei/fundlens/internal/scheduler"
	"github.com/zhenwei/fundlens/internal/scheduler/jobs"
	"github.com/zhenwei/fundlens/internal/sector"
	"github.com/zhenwei/fundlens/internal/store"
	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/database"
	"github.com/zhenwei/fundlens/pkg/httputil"
	"github.com/zhenwei/fundlens/pkg/logger"
	"github.com/zhenwei/fundlens/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "启动 API 服务器",
	Long: `启动 REST API 服务器。

这个命令会:
- 启动 HTTP API 服务器
- 注册持仓定时同步任务
- 提供估值 WebSocket 推送

Endpoints:
  GET  /health                       - Health check
  GET  /api/market/status            - 交易时段状态
  GET  /api/funds/{code}/estimate    - 盘中估值
  POST /api/funds/estimates          - 批量估值
  GET  /ws/estimates                 - 估值实时推送

Example:
  go run ./cmd/fundlens api
  go run ./cmd/fundlens api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 服务器端口 (默认读配置)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fundlens API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	log.Info("Connected to database")

	// 4. Connect to Redis (optional, degrades to pass-through)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 5. Create HTTP client
	httpClient := httputil.New(cfg, log)

	// 6. Create external API clients
	emClient := eastmoney.NewClient(cfg, httpClient, log)
	tcClient := tencent.NewClient(cfg, httpClient, log)

	// 7. Create estimation pipeline
	holdingsCache := holdings.NewCache(emClient, cfg.Estimate.HoldingsTTL, log)
	quoteAggregator := quotes.NewAggregator(emClient, cfg.Estimate.BatchSize, cfg.Estimate.QuoteTimeout, log)
	calendar := market.NewCalendar()
	estimator := estimate.NewEstimator(holdingsCache, quoteAggregator, calendar, log)

	// 8. Create repositories
	holdingsRepo := store.NewHoldingsRepository(db.Pool)
	sectorRepo := store.NewSectorRepository(db.Pool)
	portfolioRepo := store.NewPortfolioRepository(db.Pool)

	// 9. Create domain services
	classifier := sector.NewClassifier()
	syncService := holdsync.NewService(emClient, holdingsRepo, sectorRepo, classifier, quoteAggregator, cfg.Sync.Delay, log)
	flowService := sector.NewFlowService(emClient, classifier, redis.NewCache(redisClient, "fundlens"), log)

	// 10. Schedule the nightly holdings sync
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewHoldingsSyncJob(syncService, cfg.Sync.FundCodes, portfolioRepo, cfg.Sync.Schedule, log)); err != nil {
		return fmt.Errorf("register sync job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 11. Create handlers and router
	marketHandler := handlers.NewMarketHandler(calendar, tcClient, flowService, log)
	fundsHandler := handlers.NewFundsHandler(estimator, syncService, tcClient, flowService, log)
	portfolioHandler := handlers.NewPortfolioHandler(portfolioRepo, log)
	streamHandler := handlers.NewStreamHandler(estimator, log)

	router := api.NewRouter(marketHandler, fundsHandler, portfolioHandler, streamHandler, log)

	// 12. Create server
	server := api.New(cfg, log, router)

	// 13. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
