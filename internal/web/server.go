package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/camuig/shuumulator/internal/logger"
	"github.com/camuig/shuumulator/internal/report"
	"github.com/camuig/shuumulator/internal/storage"
)

type Store interface {
	report.Source
	OpenPositions(ctx context.Context, userID uint) ([]storage.Position, error)
	ListStocks(ctx context.Context) ([]storage.Stock, error)
	RecentStockLogs(ctx context.Context, stockID uint, limit int) ([]storage.StockLog, error)
}

type Server struct {
	httpServer *http.Server
	store      Store
	userID     uint
	port       int
	logger     *logger.Logger
}

func NewServer(store Store, userID uint, port int, log *logger.Logger) *Server {
	s := &Server{
		store:  store,
		userID: userID,
		port:   port,
		logger: log,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/report", s.handleReport)
	mux.HandleFunc("/positions", s.handlePositions)
	mux.HandleFunc("/stocks/{id}/logs", s.handleStockLogs)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) Start() error {
	s.logger.Info("web server starting", "port", s.port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
