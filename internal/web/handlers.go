package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/camuig/shuumulator/internal/report"
	"github.com/camuig/shuumulator/internal/storage"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 1000
)

type OpenPosition struct {
	PositionID uint            `json:"position_id"`
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Buy        decimal.Decimal `json:"buy"`
	BoughtAt   time.Time       `json:"bought_at"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	rep, err := report.Build(r.Context(), s.store, s.userID)
	if errors.Is(err, report.ErrNoTrades) {
		http.Error(w, "no completed trades", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("build report", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	if err := report.Render(w, rep); err != nil {
		s.logger.Error("render report", "error", err)
	}
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	positions, err := s.store.OpenPositions(r.Context(), s.userID)
	if err != nil {
		s.logger.Error("fetch open positions", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	stocks, err := s.store.ListStocks(r.Context())
	if err != nil {
		s.logger.Error("list stocks", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	names := make(map[uint][2]string, len(stocks))
	for _, st := range stocks {
		names[st.ID] = [2]string{st.Code, st.Name}
	}

	result := make([]OpenPosition, 0, len(positions))
	for _, p := range positions {
		n := names[p.StockID]
		result = append(result, OpenPosition{
			PositionID: p.ID,
			Code:       n[0],
			Name:       n[1],
			Buy:        p.Buy,
			BoughtAt:   p.BoughtAt.UTC(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("encode positions", "error", err)
	}
}

// handleStockLogs returns the most recent price observations of one stock,
// newest first. The optional limit query parameter caps the result.
func (s *Server) handleStockLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	stockID, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || stockID == 0 {
		http.Error(w, "invalid stock id", http.StatusBadRequest)
		return
	}

	limit := defaultLogLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxLogLimit)
	}

	logs, err := s.store.RecentStockLogs(r.Context(), uint(stockID), limit)
	if err != nil {
		s.logger.Error("fetch stock logs", "stock_id", stockID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if logs == nil {
		logs = []storage.StockLog{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(logs); err != nil {
		s.logger.Error("encode stock logs", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
