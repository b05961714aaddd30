package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/zhenwei/fundlens/internal/api/handlers"
	"github.com/zhenwei/fundlens/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 路由配置只在这个函数
func NewRouter(
	market *handlers.MarketHandler,
	funds *handlers.FundsHandler,
	portfolio *handlers.PortfolioHandler,
	stream *handlers.StreamHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Market endpoints
	api.HandleFunc("/market/status", market.GetStatus).Methods("GET")
	api.HandleFunc("/market/indices", market.GetIndices).Methods("GET")
	api.HandleFunc("/market/sectors", market.GetSectorFlows).Methods("GET")
	api.HandleFunc("/market/sectors/top", market.GetTopSectorFlows).Methods("GET")
	api.HandleFunc("/market/sectors/{code}", market.GetSectorFlow).Methods("GET")

	// Fund endpoints
	api.HandleFunc("/funds/estimates", funds.EstimateMany).Methods("POST")
	api.HandleFunc("/funds/{code}/estimate", funds.Estimate).Methods("GET")
	api.HandleFunc("/funds/{code}/realtime", funds.GetRealtime).Methods("GET")
	api.HandleFunc("/funds/{code}/holdings", funds.GetHoldings).Methods("GET")
	api.HandleFunc("/funds/{code}/history", funds.GetHistory).Methods("GET")
	api.HandleFunc("/funds/{code}/sector-flow", funds.GetSectorFlow).Methods("GET")
	api.HandleFunc("/funds/{code}/sync", funds.Sync).Methods("POST")

	// Portfolio endpoints
	api.HandleFunc("/portfolio/holdings", portfolio.ListHoldings).Methods("GET")
	api.HandleFunc("/portfolio/holdings", portfolio.UpsertHolding).Methods("POST")
	api.HandleFunc("/portfolio/holdings/{code}", portfolio.DeleteHolding).Methods("DELETE")
	api.HandleFunc("/portfolio/favorites", portfolio.ListFavorites).Methods("GET")
	api.HandleFunc("/portfolio/favorites", portfolio.AddFavorite).Methods("POST")
	api.HandleFunc("/portfolio/favorites/{code}", portfolio.RemoveFavorite).Methods("DELETE")
	api.HandleFunc("/portfolio/transactions", portfolio.RecordTransaction).Methods("POST")
	api.HandleFunc("/portfolio/transactions/{code}", portfolio.ListTransactions).Methods("GET")

	// Live estimate stream
	r.HandleFunc("/ws/estimates", stream.Serve)

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "fundlens-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
