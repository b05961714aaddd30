package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhenwei/fundlens/internal/market"
	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/database"
	"github.com/zhenwei/fundlens/pkg/redis"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "系统状态检查",
	Long: `检查各依赖的连接状态和当前交易时段。

检查项:
- PostgreSQL 连接与连接池状态
- Redis 连接 (未启用时跳过)
- A股交易日历状态

Example:
  go run ./cmd/fundlens status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fundlens Status ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Database
	fmt.Println("\n🗄  PostgreSQL")
	db, err := database.New(cfg)
	if err != nil {
		fmt.Printf("  ❌ %v\n", err)
	} else {
		defer db.Close()
		health, err := db.HealthCheck(cmd.Context())
		if err != nil {
			fmt.Printf("  ❌ %v\n", err)
		} else {
			fmt.Printf("  ✅ healthy (response %v)\n", health.ResponseTime)
			fmt.Printf("     conns: %d total, %d idle\n", health.Stats.TotalConns, health.Stats.IdleConns)
		}
	}

	// Redis
	fmt.Println("\n📦 Redis")
	redisClient, err := redis.New(cfg)
	switch {
	case err != nil:
		fmt.Printf("  ❌ %v\n", err)
	case !redisClient.Enabled():
		fmt.Println("  ⏸  disabled (REDIS_ENABLED=false)")
	default:
		defer redisClient.Close()
		fmt.Println("  ✅ connected")
	}

	// Trading calendar
	fmt.Println("\n📅 Market")
	state := market.NewCalendar().TradingState(time.Now())
	if state.IsSessionOpen {
		fmt.Println("  🟢 交易时段进行中")
	} else if state.IsTradingDay {
		fmt.Printf("  🟡 交易日，当前休市 (%s)\n", state.Reason)
	} else {
		fmt.Printf("  🔴 非交易日 (%s)\n", state.Reason)
	}
	fmt.Printf("     交易时间: %s\n", state.TradingHours)
	if state.NextTradingDay != "" {
		fmt.Printf("     下一交易日: %s\n", state.NextTradingDay)
	}

	fmt.Println()
	return nil
}
