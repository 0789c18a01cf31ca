// Package api exposes a scheduler over a small JSON HTTP API.
package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/vytor/wordbox/internal/errors"
	"github.com/vytor/wordbox/internal/leitner"
	"github.com/vytor/wordbox/internal/logger"
)

// Server serializes every request through one mutex since the scheduler
// itself is not safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	sched    *leitner.Scheduler
	validate *validator.Validate
	log      *logger.Logger
}

func NewServer(sched *leitner.Scheduler, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{
		sched:    sched,
		validate: v,
		log:      log.WithPrefix("api"),
	}
}

// validationError turns the first failed constraint into a VALIDATION_ERROR.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.NewBadRequestError(err.Error())
	}
	fe := verrs[0]
	reason := fe.Tag()
	if fe.Param() != "" {
		reason = fmt.Sprintf("%s=%s", fe.Tag(), fe.Param())
	}
	return errors.NewValidationError(fe.Field(), "failed "+reason)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
