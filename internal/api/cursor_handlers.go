package api

import (
	"net/http"
)

type cursorResponse struct {
	Cursor   int           `json:"cursor"`
	Length   int           `json:"length"`
	DueCount int           `json:"due_count"`
	Card     *cardResponse `json:"card"`
}

type moveRequest struct {
	Delta *int `json:"delta" validate:"required"`
}

// cursorState must be called with s.mu held.
func (s *Server) cursorState() cursorResponse {
	resp := cursorResponse{
		Cursor:   s.sched.Cursor(),
		Length:   s.sched.Len(),
		DueCount: s.sched.DueCount(),
	}
	if v, ok := s.sched.Current(); ok {
		c := s.cardResponse(v)
		resp.Card = &c
	}
	return resp
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.cursorState())
}

func (s *Server) handleMoveCursor(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.MoveBy(*req.Delta)
	writeJSON(w, http.StatusOK, s.cursorState())
}

// handleNextDue scans forward to the next due card. The response's card.due
// tells whether one was found.
func (s *Server) handleNextDue(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sched.AdvanceToDue()
	writeJSON(w, http.StatusOK, s.cursorState())
}
