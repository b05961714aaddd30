package quotes

import (
	"context"
	"sync"
	"time"

	"github.com/zhenwei/fundlens/pkg/logger"
)

const (
	// DefaultBatchSize is how many stock codes go into one provider call
	DefaultBatchSize = 10

	// DefaultBatchTimeout bounds each provider call independently, so
	// one slow batch cannot stall the rest.
	DefaultBatchTimeout = 10 * time.Second
)

// Aggregator fans quote requests out to the provider in fixed-size
// batches, one goroutine per batch, and merges whatever comes back.
// Partial failure is expected during session hours; a failed batch just
// leaves its codes absent from the result.
// ⭐ SSOT: 行情批量抓取只在这里
type Aggregator struct {
	provider  Provider
	batchSize int
	timeout   time.Duration
	logger    *logger.Logger
}

// NewAggregator creates a quote aggregator over the given provider
func NewAggregator(provider Provider, batchSize int, timeout time.Duration, log *logger.Logger) *Aggregator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if timeout <= 0 {
		timeout = DefaultBatchTimeout
	}
	return &Aggregator{
		provider:  provider,
		batchSize: batchSize,
		timeout:   timeout,
		logger:    log,
	}
}

// Fetch returns quotes for the requested codes, keyed by stock code.
// Duplicates in the input are collapsed. Codes whose batch failed or
// timed out are simply missing from the map; Fetch itself never fails.
func (a *Aggregator) Fetch(ctx context.Context, stockCodes []string) map[string]Quote {
	codes := dedupe(stockCodes)
	if len(codes) == 0 {
		return map[string]Quote{}
	}

	batches := split(codes, a.batchSize)

	var wg sync.WaitGroup
	var mu sync.Mutex
	merged := make(map[string]Quote, len(codes))

	for _, batch := range batches {
		wg.Add(1)
		go func(batch []string) {
			defer wg.Done()

			batchCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			got, err := a.provider.FetchQuotes(batchCtx, batch)
			if err != nil {
				a.logger.WithError(err).WithFields(map[string]interface{}{
					"batch_size": len(batch),
					"first_code": batch[0],
				}).Warn("Quote batch failed, codes left absent")
				return
			}

			mu.Lock()
			for code, q := range got {
				merged[code] = q
			}
			mu.Unlock()
		}(batch)
	}

	wg.Wait()

	if len(merged) < len(codes) {
		a.logger.WithFields(map[string]interface{}{
			"requested": len(codes),
			"received":  len(merged),
		}).Debug("Quote coverage incomplete")
	}

	return merged
}

// dedupe removes duplicate codes preserving first-seen order
func dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// split chunks codes into batches of at most size elements
func split(codes []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(codes); start += size {
		end := start + size
		if end > len(codes) {
			end = len(codes)
		}
		batches = append(batches, codes[start:end])
	}
	return batches
}
