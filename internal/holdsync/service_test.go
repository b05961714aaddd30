package holdsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/zhenwei/fundlens/internal/holdings"
	"github.com/zhenwei/fundlens/internal/quotes"
	"github.com/zhenwei/fundlens/internal/sector"
	"github.com/zhenwei/fundlens/internal/store"
	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/logger"
)

type fakeProvider struct {
	byFund map[string][]holdings.HoldingWeight
	err    error
}

func (p *fakeProvider) FetchTopHoldings(ctx context.Context, fundCode string) (string, []holdings.HoldingWeight, error) {
	if p.err != nil {
		return "", nil, p.err
	}
	return "2024年2季度", p.byFund[fundCode], nil
}

type memSnapshotStore struct {
	snapshots map[string]*store.HoldingsSnapshot
}

func (m *memSnapshotStore) SaveSnapshot(ctx context.Context, fundCode, quarter string, held []holdings.HoldingWeight) error {
	if m.snapshots == nil {
		m.snapshots = make(map[string]*store.HoldingsSnapshot)
	}
	m.snapshots[fundCode] = &store.HoldingsSnapshot{
		FundCode:  fundCode,
		Quarter:   quarter,
		Holdings:  held,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (m *memSnapshotStore) LatestSnapshot(ctx context.Context, fundCode string) (*store.HoldingsSnapshot, error) {
	return m.snapshots[fundCode], nil
}

type memAssignmentStore struct {
	saved map[string]sector.Assignment
}

func (m *memAssignmentStore) SaveAssignment(ctx context.Context, a sector.Assignment) error {
	if m.saved == nil {
		m.saved = make(map[string]sector.Assignment)
	}
	m.saved[a.FundCode] = a
	return nil
}

type fakeQuotes struct {
	quotes map[string]quotes.Quote
}

func (f *fakeQuotes) Fetch(ctx context.Context, codes []string) map[string]quotes.Quote {
	out := make(map[string]quotes.Quote)
	for _, c := range codes {
		if q, ok := f.quotes[c]; ok {
			out[c] = q
		}
	}
	return out
}

func newTestService(p *fakeProvider, snaps *memSnapshotStore, assigns *memAssignmentStore, q *fakeQuotes) *Service {
	log := logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
	return NewService(p, snaps, assigns, sector.NewClassifier(), q, 0, log)
}

func liquorHoldings() []holdings.HoldingWeight {
	return []holdings.HoldingWeight{
		{StockCode: "600519", StockName: "贵州茅台", Weight: 9.5},
		{StockCode: "000858", StockName: "五粮液", Weight: 8.2},
	}
}

func TestSyncFundPersistsAndClassifies(t *testing.T) {
	snaps := &memSnapshotStore{}
	assigns := &memAssignmentStore{}
	svc := newTestService(
		&fakeProvider{byFund: map[string][]holdings.HoldingWeight{"161725": liquorHoldings()}},
		snaps, assigns, &fakeQuotes{},
	)

	ok, err := svc.SyncFund(context.Background(), "161725")
	if err != nil {
		t.Fatalf("SyncFund failed: %v", err)
	}
	if !ok {
		t.Fatal("expected sync to report success")
	}

	snap := snaps.snapshots["161725"]
	if snap == nil || snap.Quarter != "2024年2季度" || len(snap.Holdings) != 2 {
		t.Errorf("persisted snapshot = %+v", snap)
	}

	a, found := assigns.saved["161725"]
	if !found {
		t.Fatal("expected a derived sector assignment")
	}
	if a.SectorCode != "BK0438" || a.DerivedFrom != sector.DerivedHoldings {
		t.Errorf("assignment = %+v", a)
	}
}

func TestSyncFundNoDisclosure(t *testing.T) {
	snaps := &memSnapshotStore{}
	svc := newTestService(&fakeProvider{byFund: map[string][]holdings.HoldingWeight{}}, snaps, &memAssignmentStore{}, &fakeQuotes{})

	ok, err := svc.SyncFund(context.Background(), "999999")
	if err != nil {
		t.Fatalf("SyncFund failed: %v", err)
	}
	if ok {
		t.Error("expected no-disclosure to report false")
	}
	if len(snaps.snapshots) != 0 {
		t.Error("nothing should be persisted without a disclosure")
	}
}

func TestSyncFundsIsolatesFailures(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	svc := newTestService(provider, &memSnapshotStore{}, &memAssignmentStore{}, &fakeQuotes{})

	results := svc.SyncFunds(context.Background(), []string{"161725", "005827"})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for code, err := range results {
		if err == nil {
			t.Errorf("%s: expected the provider error", code)
		}
	}
}

func TestHoldingsWithQuotes(t *testing.T) {
	snaps := &memSnapshotStore{}
	_ = snaps.SaveSnapshot(context.Background(), "161725", "2024年2季度", liquorHoldings())

	svc := newTestService(&fakeProvider{}, snaps, &memAssignmentStore{}, &fakeQuotes{quotes: map[string]quotes.Quote{
		"600519": {StockCode: "600519", Price: 1520.5, ChangePercent: 2.01},
	}})

	snap, rows, err := svc.HoldingsWithQuotes(context.Background(), "161725", 5)
	if err != nil {
		t.Fatalf("HoldingsWithQuotes failed: %v", err)
	}
	if snap == nil || snap.Quarter != "2024年2季度" {
		t.Fatalf("snapshot = %+v", snap)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if !rows[0].HasQuote || rows[0].Price != 1520.5 {
		t.Errorf("priced row = %+v", rows[0])
	}
	if rows[1].HasQuote {
		t.Errorf("unquoted row must keep HasQuote false: %+v", rows[1])
	}
}

func TestHoldingsWithQuotesUnknownFund(t *testing.T) {
	svc := newTestService(&fakeProvider{}, &memSnapshotStore{}, &memAssignmentStore{}, &fakeQuotes{})

	snap, rows, err := svc.HoldingsWithQuotes(context.Background(), "424242", 5)
	if err != nil {
		t.Fatalf("HoldingsWithQuotes failed: %v", err)
	}
	if snap != nil || rows != nil {
		t.Errorf("expected empty result, got %+v / %+v", snap, rows)
	}
}
