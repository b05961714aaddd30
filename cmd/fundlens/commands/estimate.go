package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/zhenwei/fundlens/internal/estimate"
	"github.com/zhenwei/fundlens/internal/external/eastmoney"
	"github.com/zhenwei/fundlens/internal/holdings"
	"github.com/zhenwei/fundlens/internal/market"
	"github.com/zhenwei/fundlens/internal/quotes"
	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/httputil"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// estimateCmd represents the estimate command
var estimateCmd = &cobra.Command{
	Use:   "estimate [fund_code...]",
	Short: "盘中估值",
	Long: `对给定基金做一次盘中估值并打印结果。

估值基于最新披露的前十大重仓股和实时行情。
非交易时段会提示估值不可用。

Example:
  go run ./cmd/fundlens estimate 161725
  go run ./cmd/fundlens estimate 161725 005827 110022`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEstimate,
}

var (
	estimateForce bool
)

func init() {
	rootCmd.AddCommand(estimateCmd)

	// Flags
	estimateCmd.Flags().BoolVar(&estimateForce, "force", false, "忽略交易时段检查")
}

// openGate bypasses the session check for offline inspection
type openGate struct{}

func (openGate) IsSessionOpen(t time.Time) bool { return true }

func runEstimate(cmd *cobra.Command, args []string) error {
	fmt.Println("=== fundlens Estimate ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	httpClient := httputil.New(cfg, log)
	emClient := eastmoney.NewClient(cfg, httpClient, log)

	holdingsCache := holdings.NewCache(emClient, cfg.Estimate.HoldingsTTL, log)
	quoteAggregator := quotes.NewAggregator(emClient, cfg.Estimate.BatchSize, cfg.Estimate.QuoteTimeout, log)

	var gate estimate.SessionGate = market.NewCalendar()
	if estimateForce {
		gate = openGate{}
	}

	estimator := estimate.NewEstimator(holdingsCache, quoteAggregator, gate, log)

	results := estimator.EstimateMany(cmd.Context(), args)

	codes := make([]string, 0, len(results))
	for code := range results {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		res := results[code]
		fmt.Printf("\n📊 %s\n", code)

		switch {
		case res.Err != nil:
			fmt.Printf("  ❌ %v\n", res.Err)
		case res.Estimate == nil:
			fmt.Println("  ⏸  估值不可用 (非交易时段或无持仓数据)")
		default:
			printEstimate(res.Estimate)
		}
	}

	return nil
}

func printEstimate(est *estimate.ValuationEstimate) {
	fmt.Printf("  估算涨跌: %+.2f%% (调整前 %+.2f%%)\n", est.AdjustedChangePercent, est.BaseChangePercent)
	fmt.Printf("  置信度:   %.0f%% (持仓覆盖 %.2f%%)\n", est.Confidence, est.CoveredWeightPercent)

	if len(est.Contributions) > 0 {
		fmt.Println("  主要贡献:")
		for _, c := range est.Contributions {
			fmt.Printf("    %-8s %-10s 权重 %5.2f%%  涨跌 %+6.2f%%  贡献 %+.4f\n",
				c.StockCode, c.StockName, c.Weight, c.ChangePercent, c.Contribution)
		}
	}
}
