package quotes

import (
	"context"
	"time"
)

// Quote is one stock's realtime snapshot from the quote provider
type Quote struct {
	StockCode     string    `json:"stock_code"`
	StockName     string    `json:"stock_name"`
	Price         float64   `json:"price"`
	ChangePercent float64   `json:"change_percent"` // 当日涨跌幅, percent
	ObservedAt    time.Time `json:"observed_at"`
}

// Provider fetches realtime quotes for a batch of stock codes.
// Implementations may return fewer quotes than requested (suspended
// stocks, unknown codes); the aggregator treats those as absent.
type Provider interface {
	FetchQuotes(ctx context.Context, stockCodes []string) (map[string]Quote, error)
}
