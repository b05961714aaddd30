package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/zhenwei/fundlens/internal/estimate"
	"github.com/zhenwei/fundlens/internal/external/eastmoney"
	"github.com/zhenwei/fundlens/internal/external/tencent"
	"github.com/zhenwei/fundlens/internal/holdings"
	"github.com/zhenwei/fundlens/internal/market"
	"github.com/zhenwei/fundlens/internal/quotes"
	"github.com/zhenwei/fundlens/internal/sector"
	"github.com/zhenwei/fundlens/pkg/config"
	"github.com/zhenwei/fundlens/pkg/logger"
	"github.com/zhenwei/fundlens/pkg/redis"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "test", LogLevel: "error", LogFormat: "json"})
}

type fakeIndexSource struct {
	indices []tencent.MarketIndex
	err     error
}

func (f *fakeIndexSource) FetchIndices(ctx context.Context) ([]tencent.MarketIndex, error) {
	return f.indices, f.err
}

type fakeFundSource struct {
	snap  *tencent.FundSnapshot
	lines []tencent.KLinePoint
	err   error
}

func (f *fakeFundSource) FetchFund(ctx context.Context, fundCode string) (*tencent.FundSnapshot, error) {
	return f.snap, f.err
}

func (f *fakeFundSource) FetchKLine(ctx context.Context, fundCode, period string) ([]tencent.KLinePoint, error) {
	return f.lines, f.err
}

type fakeFlowSource struct {
	flows []eastmoney.SectorFlow
	err   error
}

func (f *fakeFlowSource) FetchSectorFlows(ctx context.Context, pageSize int) ([]eastmoney.SectorFlow, error) {
	return f.flows, f.err
}

type fakeHoldingsSource struct {
	held []holdings.HoldingWeight
	err  error
}

func (f *fakeHoldingsSource) TopHoldings(ctx context.Context, fundCode string, topN int) ([]holdings.HoldingWeight, error) {
	return f.held, f.err
}

type fakeQuoteSource struct {
	quotes map[string]quotes.Quote
}

func (f *fakeQuoteSource) Fetch(ctx context.Context, stockCodes []string) map[string]quotes.Quote {
	return f.quotes
}

type fakeGate struct{ open bool }

func (g *fakeGate) IsSessionOpen(t time.Time) bool { return g.open }

func newTestFlowService(source sector.FlowSource) *sector.FlowService {
	client, _ := redis.New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	cache := redis.NewCache(client, "fundlens")
	return sector.NewFlowService(source, sector.NewClassifier(), cache, testLogger())
}

func TestGetStatus(t *testing.T) {
	h := NewMarketHandler(market.NewCalendar(), &fakeIndexSource{}, nil, testLogger())

	req := httptest.NewRequest("GET", "/api/market/status", nil)
	rec := httptest.NewRecorder()
	h.GetStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var state market.TradingState
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.CheckedAt.IsZero() {
		t.Error("expected checked_at to be set")
	}
}

func TestGetIndices(t *testing.T) {
	src := &fakeIndexSource{indices: []tencent.MarketIndex{
		{Symbol: "sh000001", Name: "上证指数", Value: 3281.45},
		{Symbol: "sz399001", Name: "深证成指", Value: 10234.11},
	}}
	h := NewMarketHandler(market.NewCalendar(), src, nil, testLogger())

	req := httptest.NewRequest("GET", "/api/market/indices", nil)
	rec := httptest.NewRecorder()
	h.GetIndices(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Total != 2 {
		t.Errorf("expected 2 indices, got %d", body.Total)
	}
}

func TestGetIndicesUpstreamError(t *testing.T) {
	src := &fakeIndexSource{err: errors.New("timeout")}
	h := NewMarketHandler(market.NewCalendar(), src, nil, testLogger())

	req := httptest.NewRequest("GET", "/api/market/indices", nil)
	rec := httptest.NewRecorder()
	h.GetIndices(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

func TestGetSectorFlowNotFound(t *testing.T) {
	flows := newTestFlowService(&fakeFlowSource{flows: []eastmoney.SectorFlow{
		{Code: "BK0438", Name: "食品饮料", MainInflow: 12.5},
	}})
	h := NewMarketHandler(market.NewCalendar(), &fakeIndexSource{}, flows, testLogger())

	req := httptest.NewRequest("GET", "/api/market/sectors/BK9999", nil)
	req = mux.SetURLVars(req, map[string]string{"code": "BK9999"})
	rec := httptest.NewRecorder()
	h.GetSectorFlow(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func newTestEstimator(open bool) *estimate.Estimator {
	held := []holdings.HoldingWeight{
		{StockCode: "600519", StockName: "贵州茅台", Weight: 8.5},
		{StockCode: "000858", StockName: "五粮液", Weight: 6.2},
	}
	q := map[string]quotes.Quote{
		"600519": {StockCode: "600519", StockName: "贵州茅台", Price: 1500.0, ChangePercent: 1.2},
		"000858": {StockCode: "000858", StockName: "五粮液", Price: 140.0, ChangePercent: -0.8},
	}
	return estimate.NewEstimator(
		&fakeHoldingsSource{held: held},
		&fakeQuoteSource{quotes: q},
		&fakeGate{open: open},
		testLogger(),
	)
}

func TestEstimateAvailable(t *testing.T) {
	h := NewFundsHandler(newTestEstimator(true), nil, &fakeFundSource{}, nil, testLogger())

	req := httptest.NewRequest("GET", "/api/funds/161725/estimate", nil)
	req = mux.SetURLVars(req, map[string]string{"code": "161725"})
	rec := httptest.NewRecorder()
	h.Estimate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		FundCode  string `json:"fund_code"`
		Available bool   `json:"available"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Available {
		t.Error("expected estimate to be available during the session")
	}
	if body.FundCode != "161725" {
		t.Errorf("expected fund_code 161725, got %s", body.FundCode)
	}
}

func TestEstimateClosedMarket(t *testing.T) {
	h := NewFundsHandler(newTestEstimator(false), nil, &fakeFundSource{}, nil, testLogger())

	req := httptest.NewRequest("GET", "/api/funds/161725/estimate", nil)
	req = mux.SetURLVars(req, map[string]string{"code": "161725"})
	rec := httptest.NewRecorder()
	h.Estimate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Available {
		t.Error("expected estimate to be absent when the session is closed")
	}
}

func TestEstimateManyValidation(t *testing.T) {
	h := NewFundsHandler(newTestEstimator(true), nil, &fakeFundSource{}, nil, testLogger())

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", "{not json"},
		{"empty codes", `{"fund_codes":[]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/funds/estimates", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			h.EstimateMany(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestEstimateMany(t *testing.T) {
	h := NewFundsHandler(newTestEstimator(true), nil, &fakeFundSource{}, nil, testLogger())

	body := bytes.NewBufferString(`{"fund_codes":["161725","005827"]}`)
	req := httptest.NewRequest("POST", "/api/funds/estimates", body)
	rec := httptest.NewRecorder()
	h.EstimateMany(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out map[string]struct {
		Available bool `json:"available"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out))
	}
	for code, res := range out {
		if !res.Available {
			t.Errorf("expected %s to be available", code)
		}
	}
}

func TestGetRealtimeNotFound(t *testing.T) {
	h := NewFundsHandler(newTestEstimator(true), nil, &fakeFundSource{snap: nil}, nil, testLogger())

	req := httptest.NewRequest("GET", "/api/funds/999999/realtime", nil)
	req = mux.SetURLVars(req, map[string]string{"code": "999999"})
	rec := httptest.NewRecorder()
	h.GetRealtime(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetHistoryDefaultPeriod(t *testing.T) {
	src := &fakeFundSource{lines: []tencent.KLinePoint{
		{Date: "2024-10-08", Close: 0.842},
	}}
	h := NewFundsHandler(newTestEstimator(true), nil, src, nil, testLogger())

	req := httptest.NewRequest("GET", "/api/funds/161725/history", nil)
	req = mux.SetURLVars(req, map[string]string{"code": "161725"})
	rec := httptest.NewRecorder()
	h.GetHistory(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Period string `json:"period"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Period != "1m" {
		t.Errorf("expected default period 1m, got %s", body.Period)
	}
}

func TestPortfolioUpsertValidation(t *testing.T) {
	h := NewPortfolioHandler(nil, testLogger())

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", "{oops"},
		{"missing fund_code", `{"shares":100}`},
		{"non-positive shares", `{"fund_code":"161725","shares":0}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/portfolio/holdings", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			h.UpsertHolding(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRecordTransactionValidation(t *testing.T) {
	h := NewPortfolioHandler(nil, testLogger())

	body := bytes.NewBufferString(`{"fund_code":"161725","type":"hold","shares":100,"price":0.84}`)
	req := httptest.NewRequest("POST", "/api/portfolio/transactions", body)
	rec := httptest.NewRecorder()
	h.RecordTransaction(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown transaction type, got %d", rec.Code)
	}
}
