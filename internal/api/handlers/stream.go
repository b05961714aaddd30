package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zhenwei/fundlens/internal/estimate"
	"github.com/zhenwei/fundlens/pkg/logger"
)

const (
	// 估算推送间隔；盘中行情本身按批抓取，更快没有意义
	pushInterval = 15 * time.Second

	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second

	maxStreamFunds = 20
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamHandler pushes live valuation estimates over a WebSocket.
// Clients send a subscribe message and receive an estimate batch on
// each tick until they disconnect.
// ⭐ SSOT: 估值实时推送只在这个结构
type StreamHandler struct {
	estimator *estimate.Estimator
	logger    *logger.Logger
}

// NewStreamHandler creates a new estimate stream handler
func NewStreamHandler(est *estimate.Estimator, log *logger.Logger) *StreamHandler {
	return &StreamHandler{estimator: est, logger: log}
}

// subscribeMessage is what the client sends to choose its funds.
// Sending it again replaces the previous subscription.
type subscribeMessage struct {
	FundCodes []string `json:"fund_codes"`
}

type streamPayload struct {
	Type      string                     `json:"type"`
	Timestamp time.Time                  `json:"timestamp"`
	Estimates map[string]*streamEstimate `json:"estimates"`
}

type streamEstimate struct {
	Available bool                        `json:"available"`
	Error     string                      `json:"error,omitempty"`
	Estimate  *estimate.ValuationEstimate `json:"estimate,omitempty"`
}

// Serve upgrades the connection and runs the push loop
// GET /ws/estimates
func (h *StreamHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	var mu sync.Mutex
	var codes []string

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})

	// Read loop: subscribe messages and connection teardown
	go func() {
		defer close(done)
		for {
			var msg subscribeMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			conn.SetReadDeadline(time.Now().Add(pongWait))

			if len(msg.FundCodes) > maxStreamFunds {
				msg.FundCodes = msg.FundCodes[:maxStreamFunds]
			}

			mu.Lock()
			codes = msg.FundCodes
			mu.Unlock()

			h.logger.WithField("count", len(msg.FundCodes)).Debug("Stream subscription updated")
		}
	}()

	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			mu.Lock()
			snapshot := make([]string, len(codes))
			copy(snapshot, codes)
			mu.Unlock()

			if len(snapshot) == 0 {
				continue
			}

			payload := h.buildPayload(r, snapshot)

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(payload); err != nil {
				h.logger.WithError(err).Debug("Stream write failed, closing")
				return
			}
		}
	}
}

func (h *StreamHandler) buildPayload(r *http.Request, codes []string) streamPayload {
	results := h.estimator.EstimateMany(r.Context(), codes)

	out := make(map[string]*streamEstimate, len(results))
	for code, res := range results {
		switch {
		case res.Err != nil:
			out[code] = &streamEstimate{Available: false, Error: res.Err.Error()}
		case res.Estimate == nil:
			out[code] = &streamEstimate{Available: false}
		default:
			out[code] = &streamEstimate{Available: true, Estimate: res.Estimate}
		}
	}

	return streamPayload{
		Type:      "estimates",
		Timestamp: time.Now(),
		Estimates: out,
	}
}
