package estimate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zhenwei/fundlens/pkg/logger"
)

// Estimator computes live valuation estimates from cached holdings and
// realtime quotes. It holds no cross-call state.
// ⭐ SSOT: 净值估算只在这里
type Estimator struct {
	holdings HoldingsSource
	quotes   QuoteSource
	gate     SessionGate
	logger   *logger.Logger

	now func() time.Time // injectable clock for tests
}

// NewEstimator wires the estimator to its three collaborators
func NewEstimator(h HoldingsSource, q QuoteSource, gate SessionGate, log *logger.Logger) *Estimator {
	return &Estimator{
		holdings: h,
		quotes:   q,
		gate:     gate,
		logger:   log,
		now:      time.Now,
	}
}

// Estimate computes the live valuation estimate for one fund.
// A nil estimate with a nil error means "no estimate right now": market
// closed, no disclosed holdings, or no holding resolved a quote. Errors
// are reserved for provider-layer failures.
func (e *Estimator) Estimate(ctx context.Context, fundCode string) (*ValuationEstimate, error) {
	at := e.now()

	if !e.gate.IsSessionOpen(at) {
		return nil, nil
	}

	held, err := e.holdings.TopHoldings(ctx, fundCode, topHoldingsCount)
	if err != nil {
		return nil, err
	}
	if len(held) == 0 {
		return nil, nil
	}

	codes := make([]string, 0, len(held))
	for _, h := range held {
		codes = append(codes, h.StockCode)
	}
	priced := e.quotes.Fetch(ctx, codes)

	var base, covered float64
	contributions := make([]Contribution, 0, len(held))
	for _, h := range held {
		q, ok := priced[h.StockCode]
		if !ok {
			continue
		}
		contribution := q.ChangePercent * h.Weight / 100
		base += contribution
		covered += h.Weight
		contributions = append(contributions, Contribution{
			StockCode:     h.StockCode,
			StockName:     h.StockName,
			Weight:        h.Weight,
			ChangePercent: q.ChangePercent,
			Contribution:  contribution,
		})
	}

	if covered == 0 {
		e.logger.WithField("fund_code", fundCode).Debug("No holding resolved a quote, estimate absent")
		return nil, nil
	}

	// Report the largest positions only, descending by weight
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Weight > contributions[j].Weight
	})
	if len(contributions) > reportedContributions {
		contributions = contributions[:reportedContributions]
	}
	for i := range contributions {
		contributions[i].Weight = round2(contributions[i].Weight)
		contributions[i].ChangePercent = round2(contributions[i].ChangePercent)
		contributions[i].Contribution = round4(contributions[i].Contribution)
	}

	confidence := covered * 1.2
	if confidence < confidenceMin {
		confidence = confidenceMin
	}
	if confidence > confidenceMax {
		confidence = confidenceMax
	}

	return &ValuationEstimate{
		FundCode:              fundCode,
		EstimatedAt:           at,
		BaseChangePercent:     round2(base),
		AdjustedChangePercent: round2(base * adjustmentFactor),
		Confidence:            round2(confidence),
		CoveredWeightPercent:  round2(covered),
		Contributions:         contributions,
	}, nil
}

// Result pairs one fund's estimate with its per-fund error
type Result struct {
	Estimate *ValuationEstimate `json:"estimate,omitempty"`
	Err      error              `json:"-"`
}

// EstimateMany runs Estimate concurrently for each fund. A failure for
// one fund lands in its own Result and never aborts the siblings.
func (e *Estimator) EstimateMany(ctx context.Context, fundCodes []string) map[string]Result {
	results := make(map[string]Result, len(fundCodes))
	if len(fundCodes) == 0 {
		return results
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	seen := make(map[string]bool, len(fundCodes))
	for _, code := range fundCodes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		wg.Add(1)
		go func(code string) {
			defer wg.Done()

			est, err := e.Estimate(ctx, code)
			if err != nil {
				e.logger.WithError(err).WithField("fund_code", code).Warn("Estimate failed")
			}

			mu.Lock()
			results[code] = Result{Estimate: est, Err: err}
			mu.Unlock()
		}(code)
	}

	wg.Wait()
	return results
}
