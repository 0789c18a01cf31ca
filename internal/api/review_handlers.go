package api

import (
	"net/http"

	"github.com/vytor/wordbox/internal/calendar"
	"github.com/vytor/wordbox/internal/leitner"
	"github.com/vytor/wordbox/internal/logger"
)

type reviewRequest struct {
	Success *bool `json:"success" validate:"required"`
}

type outcomeResponse struct {
	Kind       leitner.OutcomeKind `json:"kind"`
	Position   int                 `json:"position"`
	Word       string              `json:"word"`
	Box        int                 `json:"box"`
	Attempts   int                 `json:"attempts"`
	NextReview string              `json:"next_review,omitempty"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req reviewRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.sched.Review(r.Context(), *req.Success)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := outcomeResponse{
		Kind:     out.Kind,
		Position: out.Position,
		Word:     out.Word,
		Box:      out.Box,
		Attempts: out.Attempts,
	}
	if !out.NextReview.IsZero() {
		resp.NextReview = calendar.Format(out.NextReview)
	}
	log.Debug("review of %q: %s", out.Word, out.Kind)

	writeJSON(w, http.StatusOK, map[string]any{
		"outcome": resp,
		"cursor":  s.cursorState(),
	})
}
