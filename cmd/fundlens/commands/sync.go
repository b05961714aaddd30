package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhenwei/fundlens/internal/external/eastmoney"
	"github.com/zhenwei/fundlens/internal/holdsync"
	"github.com/zhenwei/fundlens/internal/quotes"
	"github.com/zhenwei/fundlens/internal/sector"
	"github.com/zhenwei/fundlens/internal/store"
	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/database"
	"github.com/zhenwei/fundlens/pkg/httputil"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync [fund_code...]",
	Short: "同步基金持仓",
	Long: `抓取基金最新披露的前十大重仓股并落库。

不带参数时同步配置里的基金列表 (SYNC_FUND_CODES)。
每只基金落库后会根据持仓推导所属板块。

Example:
  go run ./cmd/fundlens sync
  go run ./cmd/fundlens sync 161725 005827`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fundlens Holdings Sync ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	httpClient := httputil.New(cfg, log)
	emClient := eastmoney.NewClient(cfg, httpClient, log)

	service := holdsync.NewService(
		emClient,
		store.NewHoldingsRepository(db.Pool),
		store.NewSectorRepository(db.Pool),
		sector.NewClassifier(),
		quotes.NewAggregator(emClient, cfg.Estimate.BatchSize, cfg.Estimate.QuoteTimeout, log),
		cfg.Sync.Delay,
		log,
	)

	fundCodes := args
	if len(fundCodes) == 0 {
		fundCodes = cfg.Sync.FundCodes
	}
	if len(fundCodes) == 0 {
		return fmt.Errorf("no fund codes: pass them as arguments or set SYNC_FUND_CODES")
	}

	fmt.Printf("Syncing %d funds...\n\n", len(fundCodes))

	results := service.SyncFunds(cmd.Context(), fundCodes)

	failed := 0
	for _, code := range fundCodes {
		if err := results[code]; err != nil {
			failed++
			fmt.Printf("  ❌ %s: %v\n", code, err)
		} else {
			fmt.Printf("  ✅ %s\n", code)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d/%d funds failed", failed, len(fundCodes))
	}

	fmt.Printf("\n✅ All %d funds synced\n", len(fundCodes))
	return nil
}
