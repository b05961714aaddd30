package holdings

import (
	"context"
	"time"
)

// HoldingWeight is one disclosed position of a fund, ranked by weight
type HoldingWeight struct {
	StockCode string  `json:"stock_code"`
	StockName string  `json:"stock_name"`
	Weight    float64 `json:"weight"` // 占净值比例, percent in [0,100]
}

// Provider fetches a fund's most recent disclosed holdings snapshot.
// Returning an empty slice means the provider is reachable but has no
// data for this fund; an error means the provider itself is unavailable.
type Provider interface {
	FetchTopHoldings(ctx context.Context, fundCode string) (quarter string, holdings []HoldingWeight, err error)
}

// Entry is one cached holdings snapshot for a fund. Entries are
// replaced wholesale on refresh, never mutated in place.
type Entry struct {
	FundCode  string          `json:"fund_code"`
	Quarter   string          `json:"quarter"`
	Holdings  []HoldingWeight `json:"holdings"` // descending by weight
	FetchedAt time.Time       `json:"fetched_at"`
}
