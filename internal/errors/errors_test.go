package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordbox/internal/errors"
)

func TestAppError_MessageAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.NewWriteFailedError("add card", cause)

	assert.Equal(t, "WRITE_FAILED: add card failed (disk full)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestIs_FindsCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load: %w", errors.NewMalformedDateError("2024-13-45", nil))

	assert.True(t, errors.Is(err, errors.ErrCodeMalformedDate))
	assert.False(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.False(t, errors.Is(stderrors.New("plain"), errors.ErrCodeInternal))
}

func TestAs(t *testing.T) {
	_, ok := errors.As(stderrors.New("plain"))
	assert.False(t, ok)

	appErr, ok := errors.As(fmt.Errorf("wrapped: %w", errors.NewCursorOutOfRangeError(3, 2)))
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCursorOutOfRange, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "cursor 3 out of range for 2 cards", appErr.Message)
}

func TestConstructors_Status(t *testing.T) {
	tests := []struct {
		name   string
		err    *errors.AppError
		code   string
		status int
	}{
		{"not found", errors.NewNotFoundError("card", 4), errors.ErrCodeNotFound, http.StatusNotFound},
		{"validation", errors.NewValidationError("word", "required"), errors.ErrCodeValidation, http.StatusBadRequest},
		{"bad request", errors.NewBadRequestError("bad delta"), errors.ErrCodeBadRequest, http.StatusBadRequest},
		{"internal", errors.NewInternalError(nil), errors.ErrCodeInternal, http.StatusInternalServerError},
		{"store", errors.NewStoreUnavailableError("x.db", nil), errors.ErrCodeStoreUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}
