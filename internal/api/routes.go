package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const requestTimeout = 10 * time.Second

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(securityHeadersMiddleware)
	r.Use(timeoutMiddleware(requestTimeout))

	r.Get("/health", s.handleHealth)
	r.Get("/cards", s.handleListCards)
	r.Post("/cards", s.handleAddCard)
	r.Get("/cards/{pos}/definition", s.handleDefinition)
	r.Get("/cursor", s.handleCursor)
	r.Post("/cursor/move", s.handleMoveCursor)
	r.Post("/cursor/next-due", s.handleNextDue)
	r.Post("/review", s.handleReview)
	r.Get("/stats", s.handleStats)
	return r
}
