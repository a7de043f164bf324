package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func (s *Server) handlePricesJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.board.Latest()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.Error("Failed to encode prices", zap.Error(err))
	}
}
