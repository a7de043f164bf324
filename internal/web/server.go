package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vitos/market_viewer/internal/domain"
	"github.com/vitos/market_viewer/internal/usecase"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	router     *http.ServeMux
	server     *http.Server
	board      *usecase.Board
	exchanges  []domain.ExchangeID
	gatherer   prometheus.Gatherer
	templates  *template.Template
	staleAfter time.Duration
	timeNow    func() time.Time // For testing
	logger     *zap.Logger
}

// NewServer serves the board over HTTP. Health turns unhealthy once the
// board has not been refreshed for staleAfter.
func NewServer(
	port int,
	board *usecase.Board,
	exchanges []domain.ExchangeID,
	gatherer prometheus.Gatherer,
	staleAfter time.Duration,
	logger *zap.Logger,
) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router:     http.NewServeMux(),
		board:      board,
		exchanges:  exchanges,
		gatherer:   gatherer,
		templates:  tmpl,
		staleAfter: staleAfter,
		timeNow:    time.Now,
		logger:     logger,
	}
	s.routes()
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() {
	// Dashboard
	s.router.HandleFunc("GET /{$}", s.handleDashboard)

	// Prices
	s.router.HandleFunc("GET /api/prices", s.handlePricesJSON)
	s.router.HandleFunc("GET /ws", s.handleStream)

	// Ops
	s.router.HandleFunc("GET /healthz", s.handleHealth)
	if s.gatherer != nil {
		s.router.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
