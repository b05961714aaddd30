package holdsync

import (
	"context"
	"time"

	"github.com/zhenwei/fundlens/internal/holdings"
	"github.com/zhenwei/fundlens/internal/quotes"
	"github.com/zhenwei/fundlens/internal/sector"
	"github.com/zhenwei/fundlens/internal/store"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// SnapshotStore is the persistence the sync service needs
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, fundCode, quarter string, held []holdings.HoldingWeight) error
	LatestSnapshot(ctx context.Context, fundCode string) (*store.HoldingsSnapshot, error)
}

// AssignmentStore persists derived sector assignments
type AssignmentStore interface {
	SaveAssignment(ctx context.Context, a sector.Assignment) error
}

// QuoteSource prices the holdings for display
type QuoteSource interface {
	Fetch(ctx context.Context, stockCodes []string) map[string]quotes.Quote
}

// Service pulls disclosed holdings from the provider, persists them,
// and derives a sector assignment from the fresh snapshot
// ⭐ SSOT: 持仓同步流程只在这里
type Service struct {
	provider   holdings.Provider
	snapshots  SnapshotStore
	sectors    AssignmentStore
	classifier *sector.Classifier
	quotes     QuoteSource
	delay      time.Duration
	logger     *logger.Logger
}

// NewService wires the sync service
func NewService(
	provider holdings.Provider,
	snapshots SnapshotStore,
	sectors AssignmentStore,
	classifier *sector.Classifier,
	quoteSource QuoteSource,
	delay time.Duration,
	log *logger.Logger,
) *Service {
	return &Service{
		provider:   provider,
		snapshots:  snapshots,
		sectors:    sectors,
		classifier: classifier,
		quotes:     quoteSource,
		delay:      delay,
		logger:     log,
	}
}

// SyncFund fetches and persists one fund's latest disclosure, then
// derives its sector from the holdings. Returns false when the
// provider has no disclosure for the fund.
func (s *Service) SyncFund(ctx context.Context, fundCode string) (bool, error) {
	quarter, held, err := s.provider.FetchTopHoldings(ctx, fundCode)
	if err != nil {
		return false, err
	}
	if len(held) == 0 {
		s.logger.WithField("fund_code", fundCode).Warn("No disclosure to sync")
		return false, nil
	}

	if err := s.snapshots.SaveSnapshot(ctx, fundCode, quarter, held); err != nil {
		return false, err
	}

	if assignment, ok := s.classifier.ClassifyByHoldings(fundCode, "", held); ok {
		if err := s.sectors.SaveAssignment(ctx, assignment); err != nil {
			// Holdings landed; a failed assignment write is not fatal
			s.logger.WithError(err).WithField("fund_code", fundCode).Warn("Sector assignment save failed")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"fund_code": fundCode,
		"quarter":   quarter,
		"count":     len(held),
	}).Info("Synced fund holdings")

	return true, nil
}

// SyncFunds syncs several funds sequentially with a politeness delay
// between provider calls. A per-fund failure does not stop the rest.
func (s *Service) SyncFunds(ctx context.Context, fundCodes []string) map[string]error {
	results := make(map[string]error, len(fundCodes))

	for i, code := range fundCodes {
		if i > 0 && s.delay > 0 {
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				results[code] = ctx.Err()
				continue
			}
		}

		_, err := s.SyncFund(ctx, code)
		results[code] = err
		if err != nil {
			s.logger.WithError(err).WithField("fund_code", code).Error("Fund sync failed")
		}
	}

	return results
}

// PricedHolding is one persisted holding with its live quote attached
type PricedHolding struct {
	holdings.HoldingWeight
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change_percent"`
	HasQuote      bool    `json:"has_quote"`
}

// HoldingsWithQuotes returns the newest persisted snapshot with live
// quotes merged in, truncated to topN rows. Missing quotes leave
// HasQuote false instead of failing the whole view.
func (s *Service) HoldingsWithQuotes(ctx context.Context, fundCode string, topN int) (*store.HoldingsSnapshot, []PricedHolding, error) {
	snap, err := s.snapshots.LatestSnapshot(ctx, fundCode)
	if err != nil {
		return nil, nil, err
	}
	if snap == nil {
		return nil, nil, nil
	}

	held := snap.Holdings
	if topN > 0 && topN < len(held) {
		held = held[:topN]
	}

	codes := make([]string, 0, len(held))
	for _, h := range held {
		codes = append(codes, h.StockCode)
	}
	priced := s.quotes.Fetch(ctx, codes)

	out := make([]PricedHolding, 0, len(held))
	for _, h := range held {
		row := PricedHolding{HoldingWeight: h}
		if q, ok := priced[h.StockCode]; ok {
			row.Price = q.Price
			row.ChangePercent = q.ChangePercent
			row.HasQuote = true
		}
		out = append(out, row)
	}

	return snap, out, nil
}
