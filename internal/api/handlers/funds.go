package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zhenwei/fundlens/internal/estimate"
	"github.com/zhenwei/fundlens/internal/external/tencent"
	"github.com/zhenwei/fundlens/internal/holdsync"
	"github.com/zhenwei/fundlens/internal/sector"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// FundSource provides fund net-value snapshots and candles
type FundSource interface {
	FetchFund(ctx context.Context, fundCode string) (*tencent.FundSnapshot, error)
	FetchKLine(ctx context.Context, fundCode, period string) ([]tencent.KLinePoint, error)
}

// FundsHandler handles fund-level API endpoints
// ⭐ SSOT: 基金类 API 处理只在这个结构
type FundsHandler struct {
	estimator *estimate.Estimator
	sync      *holdsync.Service
	funds     FundSource
	flows     *sector.FlowService
	logger    *logger.Logger
}

// NewFundsHandler creates a new funds handler
func NewFundsHandler(
	est *estimate.Estimator,
	syncService *holdsync.Service,
	funds FundSource,
	flows *sector.FlowService,
	log *logger.Logger,
) *FundsHandler {
	return &FundsHandler{
		estimator: est,
		sync:      syncService,
		funds:     funds,
		flows:     flows,
		logger:    log,
	}
}

// Estimate returns a fund's live valuation estimate
// GET /api/funds/{code}/estimate
func (h *FundsHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	est, err := h.estimator.Estimate(r.Context(), code)
	if err != nil {
		h.logger.WithError(err).WithField("fund_code", code).Error("Estimate failed")
		respondError(w, http.StatusBadGateway, "Failed to compute estimate")
		return
	}
	if est == nil {
		// Closed market or no usable data right now
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"fund_code": code,
			"available": false,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fund_code": code,
		"available": true,
		"estimate":  est,
	})
}

// EstimateManyRequest is the batch estimate request body
type EstimateManyRequest struct {
	FundCodes []string `json:"fund_codes"`
}

// EstimateMany returns live estimates for several funds at once
// POST /api/funds/estimates
func (h *FundsHandler) EstimateMany(w http.ResponseWriter, r *http.Request) {
	var req EstimateManyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.FundCodes) == 0 {
		respondError(w, http.StatusBadRequest, "fund_codes is required")
		return
	}

	results := h.estimator.EstimateMany(r.Context(), req.FundCodes)

	out := make(map[string]interface{}, len(results))
	for code, res := range results {
		switch {
		case res.Err != nil:
			out[code] = map[string]interface{}{"available": false, "error": res.Err.Error()}
		case res.Estimate == nil:
			out[code] = map[string]interface{}{"available": false}
		default:
			out[code] = map[string]interface{}{"available": true, "estimate": res.Estimate}
		}
	}

	respondJSON(w, http.StatusOK, out)
}

// GetRealtime returns a fund's published net-value snapshot
// GET /api/funds/{code}/realtime
func (h *FundsHandler) GetRealtime(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	snap, err := h.funds.FetchFund(r.Context(), code)
	if err != nil {
		h.logger.WithError(err).WithField("fund_code", code).Error("Realtime fetch failed")
		respondError(w, http.StatusBadGateway, "Failed to fetch fund snapshot")
		return
	}
	if snap == nil {
		respondError(w, http.StatusNotFound, "Fund not found")
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// GetHoldings returns the persisted disclosure with live quotes merged
// GET /api/funds/{code}/holdings?top=5
func (h *FundsHandler) GetHoldings(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	topN := 5
	if v := r.URL.Query().Get("top"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			topN = n
		}
	}

	snap, rows, err := h.sync.HoldingsWithQuotes(r.Context(), code, topN)
	if err != nil {
		h.logger.WithError(err).WithField("fund_code", code).Error("Holdings fetch failed")
		respondError(w, http.StatusInternalServerError, "Failed to load holdings")
		return
	}
	if snap == nil {
		respondError(w, http.StatusNotFound, "No holdings synced for this fund")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fund_code": snap.FundCode,
		"quarter":   snap.Quarter,
		"holdings":  rows,
	})
}

// GetHistory returns a fund's candle history
// GET /api/funds/{code}/history?period=1m
func (h *FundsHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1m"
	}

	points, err := h.funds.FetchKLine(r.Context(), code, period)
	if err != nil {
		h.logger.WithError(err).WithField("fund_code", code).Error("KLine fetch failed")
		respondError(w, http.StatusBadGateway, "Failed to fetch fund history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fund_code": code,
		"period":    period,
		"data":      points,
	})
}

// GetSectorFlow returns the money flow of the fund's sector
// GET /api/funds/{code}/sector-flow?name=...
func (h *FundsHandler) GetSectorFlow(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	name := r.URL.Query().Get("name")

	flow, err := h.flows.FundFlow(r.Context(), code, name)
	if err != nil {
		h.logger.WithError(err).WithField("fund_code", code).Error("Fund flow fetch failed")
		respondError(w, http.StatusBadGateway, "Failed to fetch fund sector flow")
		return
	}

	respondJSON(w, http.StatusOK, flow)
}

// Sync triggers an on-demand holdings sync for one fund
// POST /api/funds/{code}/sync
func (h *FundsHandler) Sync(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	synced, err := h.sync.SyncFund(r.Context(), code)
	if err != nil {
		h.logger.WithError(err).WithField("fund_code", code).Error("On-demand sync failed")
		respondError(w, http.StatusBadGateway, "Holdings sync failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"fund_code": code,
		"synced":    synced,
	})
}
