package api

import (
	"net/http"

	"github.com/vytor/wordbox/internal/models"
)

type statsResponse struct {
	*models.CardStats
	SuccessRate float64 `json:"success_rate"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, err := s.sched.Stats(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{CardStats: stats, SuccessRate: stats.SuccessRate()})
}
