package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/zhenwei/fundlens/internal/external/tencent"
	"github.com/zhenwei/fundlens/internal/market"
	"github.com/zhenwei/fundlens/internal/sector"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// IndexSource provides exchange index snapshots
type IndexSource interface {
	FetchIndices(ctx context.Context) ([]tencent.MarketIndex, error)
}

// MarketHandler handles market-level API endpoints
// ⭐ SSOT: 市场类 API 处理只在这个结构
type MarketHandler struct {
	calendar *market.Calendar
	indices  IndexSource
	flows    *sector.FlowService
	logger   *logger.Logger
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(cal *market.Calendar, indices IndexSource, flows *sector.FlowService, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		calendar: cal,
		indices:  indices,
		flows:    flows,
		logger:   log,
	}
}

// GetStatus returns the trading calendar state for right now
// GET /api/market/status
func (h *MarketHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.calendar.TradingState(time.Now()))
}

// GetIndices returns the benchmark index snapshots
// GET /api/market/indices
func (h *MarketHandler) GetIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := h.indices.FetchIndices(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch indices")
		respondError(w, http.StatusBadGateway, "Failed to fetch market indices")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  indices,
		"total": len(indices),
	})
}

// GetSectorFlows returns all sectors ranked by main net inflow
// GET /api/market/sectors
func (h *MarketHandler) GetSectorFlows(w http.ResponseWriter, r *http.Request) {
	flows, err := h.flows.ListFlows(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch sector flows")
		respondError(w, http.StatusBadGateway, "Failed to fetch sector flows")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  flows,
		"total": len(flows),
	})
}

// GetTopSectorFlows returns the sectors with the largest inflow
// GET /api/market/sectors/top?limit=5
func (h *MarketHandler) GetTopSectorFlows(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	flows, err := h.flows.TopFlows(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch top sector flows")
		respondError(w, http.StatusBadGateway, "Failed to fetch sector flows")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  flows,
		"total": len(flows),
	})
}

// GetSectorFlow returns one sector's flow snapshot
// GET /api/market/sectors/{code}
func (h *MarketHandler) GetSectorFlow(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	flow, err := h.flows.FlowFor(r.Context(), code)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch sector flow")
		respondError(w, http.StatusBadGateway, "Failed to fetch sector flow")
		return
	}
	if flow == nil {
		respondError(w, http.StatusNotFound, "Sector not found")
		return
	}

	respondJSON(w, http.StatusOK, flow)
}
