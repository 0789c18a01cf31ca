package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/wordbox/internal/calendar"
	"github.com/vytor/wordbox/internal/errors"
	"github.com/vytor/wordbox/internal/leitner"
	"github.com/vytor/wordbox/internal/logger"
)

type cardResponse struct {
	Position   int    `json:"position"`
	Word       string `json:"word"`
	Box        int    `json:"box"`
	Symbol     string `json:"symbol"`
	NextReview string `json:"next_review"`
	Relative   string `json:"relative"`
	Due        bool   `json:"due"`
}

func (s *Server) cardResponse(v leitner.CardView) cardResponse {
	return cardResponse{
		Position:   v.Position,
		Word:       v.Word,
		Box:        v.Box,
		Symbol:     leitner.BoxSymbol(v.Box),
		NextReview: calendar.Format(v.NextReview),
		Relative:   leitner.RelativeDate(v.NextReview, s.sched.Today()),
		Due:        s.sched.IsDue(v.Position),
	}
}

type addCardRequest struct {
	Word       string `json:"word" validate:"required,max=200"`
	Definition string `json:"definition" validate:"required,max=4000"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := make([]cardResponse, 0, s.sched.Len())
	for i := 0; i < s.sched.Len(); i++ {
		v, _ := s.sched.Card(i)
		cards = append(cards, s.cardResponse(v))
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards})
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req addCardRequest
	if err := s.decode(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sched.Add(r.Context(), req.Word, req.Definition); err != nil {
		handleError(w, r, err)
		return
	}

	v, _ := s.sched.Card(s.sched.Len() - 1)
	log.Info("card %q added at position %d", v.Word, v.Position)
	writeJSON(w, http.StatusCreated, s.cardResponse(v))
}

func (s *Server) handleDefinition(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	posStr := chi.URLParam(r, "pos")
	pos, err := strconv.Atoi(posStr)
	if err != nil {
		log.Warn("invalid position: %s", posStr)
		handleError(w, r, errors.NewBadRequestError("invalid position"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	def, err := s.sched.LookupDefinition(r.Context(), pos)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"position": pos, "definition": def})
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body: " + err.Error())
	}
	return validationError(s.validate.Struct(dst))
}
