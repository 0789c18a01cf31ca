package db_test

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordbox/internal/db"
	"github.com/vytor/wordbox/internal/errors"
)

func tableExists(t *testing.T, database *db.DB, name string) bool {
	t.Helper()
	var got string
	err := database.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&got)
	if stderrors.Is(err, sql.ErrNoRows) {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cards.db")

	database, err := db.Open(context.Background(), path)
	require.NoError(t, err)
	defer database.Close()

	assert.True(t, tableExists(t, database, "cards"))
	assert.True(t, tableExists(t, database, "review_history"))
	assert.True(t, tableExists(t, database, "schema_migrations"))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cards.db")

	first, err := db.Open(ctx, path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO cards (word, definition, next_review) VALUES ('foo', 'bar', '2024-01-02')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	var count, migrations int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&count))
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&migrations))
	assert.Equal(t, 1, count)
	assert.Equal(t, 2, migrations)
}

func TestOpen_UnavailableStore(t *testing.T) {
	// A regular file where the parent directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := db.Open(context.Background(), filepath.Join(blocker, "cards.db"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeStoreUnavailable))
}

func TestTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	defer database.Close()

	boom := stderrors.New("boom")
	err = db.Tx(ctx, database.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO cards (word, definition) VALUES ('a', 'b')`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&count))
	assert.Zero(t, count)
}
