package estimate

import (
	"context"
	"math"
	"time"

	"github.com/zhenwei/fundlens/internal/holdings"
	"github.com/zhenwei/fundlens/internal/quotes"
)

const (
	// topHoldingsCount is how many disclosed holdings drive the estimate
	topHoldingsCount = 10

	// reportedContributions caps the contribution list in the output
	reportedContributions = 5

	// adjustmentFactor scales the base estimate: the top-10 holdings
	// under-represent the fund's total exposure, 净值变化一般大于前十重仓贡献
	adjustmentFactor = 1.2

	confidenceMin = 60.0
	confidenceMax = 95.0
)

// Contribution is one holding's share of the estimated change
type Contribution struct {
	StockCode     string  `json:"stock_code"`
	StockName     string  `json:"stock_name"`
	Weight        float64 `json:"weight"`
	ChangePercent float64 `json:"change_percent"`
	Contribution  float64 `json:"contribution"`
}

// ValuationEstimate is an intraday approximation of a fund's change,
// computed fresh on every call and never cached
type ValuationEstimate struct {
	FundCode              string         `json:"fund_code"`
	EstimatedAt           time.Time      `json:"estimated_at"`
	BaseChangePercent     float64        `json:"base_change_percent"`
	AdjustedChangePercent float64        `json:"adjusted_change_percent"`
	Confidence            float64        `json:"confidence"`
	CoveredWeightPercent  float64        `json:"covered_weight_percent"`
	Contributions         []Contribution `json:"contributions"`
}

// HoldingsSource is what the estimator needs from the holdings cache
type HoldingsSource interface {
	TopHoldings(ctx context.Context, fundCode string, topN int) ([]holdings.HoldingWeight, error)
}

// QuoteSource is what the estimator needs from the quote aggregator
type QuoteSource interface {
	Fetch(ctx context.Context, stockCodes []string) map[string]quotes.Quote
}

// SessionGate answers whether the market is currently trading
type SessionGate interface {
	IsSessionOpen(t time.Time) bool
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
