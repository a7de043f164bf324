package web

import (
	"net/http"
	"time"

	"github.com/vitos/market_viewer/internal/view"
	"go.uber.org/zap"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := view.Build(s.board.Latest(), s.exchanges)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("Template error", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.board.Latest()
	if snap.UpdatedAt.IsZero() {
		http.Error(w, "waiting for first poll", http.StatusServiceUnavailable)
		return
	}
	if s.staleAfter > 0 {
		if age := s.timeNow().Sub(snap.UpdatedAt); age > s.staleAfter {
			http.Error(w, "prices are stale: last update "+age.Truncate(time.Second).String()+" ago", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
