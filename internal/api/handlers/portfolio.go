package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/zhenwei/fundlens/internal/store"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// PortfolioHandler handles the user's positions, favorites and
// transaction history
// ⭐ SSOT: 组合类 API 处理只在这个结构
type PortfolioHandler struct {
	repo   *store.PortfolioRepository
	logger *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(repo *store.PortfolioRepository, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{repo: repo, logger: log}
}

// ListHoldings returns all positions
// GET /api/portfolio/holdings
func (h *PortfolioHandler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListHoldings(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list holdings")
		respondError(w, http.StatusInternalServerError, "Failed to load portfolio")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  list,
		"total": len(list),
	})
}

// UpsertHoldingRequest is the create/update position body
type UpsertHoldingRequest struct {
	FundCode  string  `json:"fund_code"`
	FundName  string  `json:"fund_name"`
	Shares    float64 `json:"shares"`
	CostPrice float64 `json:"cost_price"`
}

// UpsertHolding creates or replaces a position
// POST /api/portfolio/holdings
func (h *PortfolioHandler) UpsertHolding(w http.ResponseWriter, r *http.Request) {
	var req UpsertHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FundCode == "" || req.Shares <= 0 {
		respondError(w, http.StatusBadRequest, "fund_code and positive shares are required")
		return
	}

	err := h.repo.UpsertHolding(r.Context(), store.UserHolding{
		FundCode:  req.FundCode,
		FundName:  req.FundName,
		Shares:    req.Shares,
		CostPrice: req.CostPrice,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to upsert holding")
		respondError(w, http.StatusInternalServerError, "Failed to save position")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteHolding removes a position
// DELETE /api/portfolio/holdings/{code}
func (h *PortfolioHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.repo.DeleteHolding(r.Context(), code); err != nil {
		h.logger.WithError(err).Error("Failed to delete holding")
		respondError(w, http.StatusInternalServerError, "Failed to delete position")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListFavorites returns the watchlist
// GET /api/portfolio/favorites
func (h *PortfolioHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListFavorites(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list favorites")
		respondError(w, http.StatusInternalServerError, "Failed to load favorites")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  list,
		"total": len(list),
	})
}

// AddFavoriteRequest is the watchlist body
type AddFavoriteRequest struct {
	FundCode string `json:"fund_code"`
	FundName string `json:"fund_name"`
}

// AddFavorite watchlists a fund
// POST /api/portfolio/favorites
func (h *PortfolioHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FundCode == "" {
		respondError(w, http.StatusBadRequest, "fund_code is required")
		return
	}

	if err := h.repo.AddFavorite(r.Context(), req.FundCode, req.FundName); err != nil {
		h.logger.WithError(err).Error("Failed to add favorite")
		respondError(w, http.StatusInternalServerError, "Failed to save favorite")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RemoveFavorite drops a fund from the watchlist
// DELETE /api/portfolio/favorites/{code}
func (h *PortfolioHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.repo.RemoveFavorite(r.Context(), code); err != nil {
		h.logger.WithError(err).Error("Failed to remove favorite")
		respondError(w, http.StatusInternalServerError, "Failed to remove favorite")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RecordTransactionRequest is the transaction body
type RecordTransactionRequest struct {
	FundCode string  `json:"fund_code"`
	Type     string  `json:"type"`
	Shares   float64 `json:"shares"`
	Price    float64 `json:"price"`
}

// RecordTransaction appends a buy or sell record
// POST /api/portfolio/transactions
func (h *PortfolioHandler) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var req RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.FundCode == "" || (req.Type != "buy" && req.Type != "sell") || req.Shares <= 0 {
		respondError(w, http.StatusBadRequest, "fund_code, type (buy/sell) and positive shares are required")
		return
	}

	err := h.repo.RecordTransaction(r.Context(), store.Transaction{
		FundCode: req.FundCode,
		Type:     req.Type,
		Shares:   req.Shares,
		Price:    req.Price,
		Amount:   req.Shares * req.Price,
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to record transaction")
		respondError(w, http.StatusInternalServerError, "Failed to save transaction")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListTransactions returns a fund's transaction history
// GET /api/portfolio/transactions/{code}?limit=50
func (h *PortfolioHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	list, err := h.repo.ListTransactions(r.Context(), code, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list transactions")
		respondError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"data":  list,
		"total": len(list),
	})
}
