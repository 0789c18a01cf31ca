package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vytor/wordbox/internal/db"
	"github.com/vytor/wordbox/internal/logger"
)

// NewTestDB creates a SQLite database in a temporary directory with all
// migrations applied. The file is removed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := logger.NewContext(context.Background(), logger.Discard())
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	return database.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Clock is a settable time source for scheduler tests.
type Clock struct {
	Current time.Time
}

// NewClock returns a clock fixed at noon local time on the given day.
func NewClock(year int, month time.Month, day int) *Clock {
	return &Clock{Current: time.Date(year, month, day, 12, 0, 0, 0, time.Local)}
}

func (c *Clock) Now() time.Time { return c.Current }

// Advance moves the clock forward by whole days.
func (c *Clock) Advance(days int) {
	c.Current = c.Current.AddDate(0, 0, days)
}

// InsertCard writes a raw card row, bypassing the repository.
func InsertCard(t *testing.T, database *sql.DB, word, definition string, box int, nextReview string, attempts int) {
	t.Helper()
	_, err := database.Exec(`
		INSERT INTO cards (word, definition, box, next_review, attempts)
		VALUES (?, ?, ?, ?, ?)
	`, word, definition, box, nextReview, attempts)
	require.NoError(t, err)
}
