package holdings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/logger"
)

type fakeProvider struct {
	quarter  string
	holdings []HoldingWeight
	err      error
	calls    int
}

func (p *fakeProvider) FetchTopHoldings(ctx context.Context, fundCode string) (string, []HoldingWeight, error) {
	p.calls++
	if p.err != nil {
		return "", nil, p.err
	}
	return p.quarter, p.holdings, nil
}

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

func sampleHoldings() []HoldingWeight {
	return []HoldingWeight{
		{StockCode: "600519", StockName: "贵州茅台", Weight: 9.5},
		{StockCode: "000858", StockName: "五粮液", Weight: 8.2},
		{StockCode: "000568", StockName: "泸州老窖", Weight: 6.1},
	}
}

func TestTopHoldingsServesFreshEntryWithoutRefetch(t *testing.T) {
	provider := &fakeProvider{quarter: "2024Q2", holdings: sampleHoldings()}
	cache := NewCache(provider, 5*time.Minute, testLogger())

	clock := time.Date(2024, 10, 9, 10, 0, 0, 0, time.Local)
	cache.now = func() time.Time { return clock }

	first, err := cache.TopHoldings(context.Background(), "161725", 10)
	if err != nil {
		t.Fatalf("TopHoldings failed: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("got %d holdings, want 3", len(first))
	}

	// Provider changes its answer; within TTL the cache must not notice
	provider.holdings = []HoldingWeight{{StockCode: "300750", StockName: "宁德时代", Weight: 7.0}}
	clock = clock.Add(4 * time.Minute)

	second, err := cache.TopHoldings(context.Background(), "161725", 10)
	if err != nil {
		t.Fatalf("TopHoldings failed: %v", err)
	}
	if len(second) != 3 || second[0].StockCode != "600519" {
		t.Errorf("cached result changed within TTL: %+v", second)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}

	// Past TTL the new response wins
	clock = clock.Add(2 * time.Minute)
	third, err := cache.TopHoldings(context.Background(), "161725", 10)
	if err != nil {
		t.Fatalf("TopHoldings failed: %v", err)
	}
	if len(third) != 1 || third[0].StockCode != "300750" {
		t.Errorf("expected refreshed holdings after TTL, got %+v", third)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}

func TestTopHoldingsTruncates(t *testing.T) {
	provider := &fakeProvider{quarter: "2024Q2", holdings: sampleHoldings()}
	cache := NewCache(provider, 5*time.Minute, testLogger())

	got, err := cache.TopHoldings(context.Background(), "161725", 2)
	if err != nil {
		t.Fatalf("TopHoldings failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d holdings, want 2", len(got))
	}
	if got[0].StockCode != "600519" || got[1].StockCode != "000858" {
		t.Errorf("truncation kept wrong rows: %+v", got)
	}
}

func TestTopHoldingsServesStaleOnEmptyProviderResult(t *testing.T) {
	provider := &fakeProvider{quarter: "2024Q1", holdings: sampleHoldings()}
	cache := NewCache(provider, 5*time.Minute, testLogger())

	clock := time.Date(2024, 10, 9, 10, 0, 0, 0, time.Local)
	cache.now = func() time.Time { return clock }

	if _, err := cache.TopHoldings(context.Background(), "005827", 10); err != nil {
		t.Fatalf("TopHoldings failed: %v", err)
	}

	// Entry expires, provider now has nothing: stale data is still served
	provider.holdings = nil
	clock = clock.Add(10 * time.Minute)

	got, err := cache.TopHoldings(context.Background(), "005827", 10)
	if err != nil {
		t.Fatalf("TopHoldings failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("expected stale holdings to be served, got %+v", got)
	}
}

func TestTopHoldingsEmptyWhenNoDataAnywhere(t *testing.T) {
	provider := &fakeProvider{quarter: "2024Q2"}
	cache := NewCache(provider, 5*time.Minute, testLogger())

	got, err := cache.TopHoldings(context.Background(), "999999", 10)
	if err != nil {
		t.Fatalf("TopHoldings failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
	if cache.Len() != 0 {
		t.Errorf("empty result must not create a cache entry")
	}
}

func TestTopHoldingsPropagatesProviderError(t *testing.T) {
	wantErr := errors.New("upstream unavailable")
	provider := &fakeProvider{err: wantErr}
	cache := NewCache(provider, 5*time.Minute, testLogger())

	if _, err := cache.TopHoldings(context.Background(), "161725", 10); !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want %v", err, wantErr)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	provider := &fakeProvider{quarter: "2024Q2", holdings: sampleHoldings()}
	cache := NewCache(provider, 5*time.Minute, testLogger())

	if _, err := cache.TopHoldings(context.Background(), "161725", 10); err != nil {
		t.Fatalf("TopHoldings failed: %v", err)
	}
	cache.Invalidate("161725")
	if _, err := cache.TopHoldings(context.Background(), "161725", 10); err != nil {
		t.Fatalf("TopHoldings failed: %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2", provider.calls)
	}
}
