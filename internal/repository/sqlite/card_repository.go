package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/wordbox/internal/calendar"
	"github.com/vytor/wordbox/internal/db"
	apperrors "github.com/vytor/wordbox/internal/errors"
	"github.com/vytor/wordbox/internal/logger"
	"github.com/vytor/wordbox/internal/models"
	"github.com/vytor/wordbox/internal/repository"
)

// next_review is declared DATE; the driver would coerce it to time.Time and
// silently zero unparsable text, so it is always read through a CAST.
var cardColumns = []string{"id", "word", "definition", "box", "CAST(next_review AS TEXT)", "attempts"}

type cardRepository struct {
	db *sql.DB // nil when bound to a transaction
	q  querier
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db, q: db}
}

func (r *cardRepository) WithTx(ctx context.Context, fn func(repository.CardRepository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return db.Tx(ctx, r.db, func(tx *sql.Tx) error {
		return fn(&cardRepository{q: tx})
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (models.Card, error) {
	var c models.Card
	var nextReview string
	if err := row.Scan(&c.ID, &c.Word, &c.Definition, &c.Box, &nextReview, &c.Attempts); err != nil {
		return c, err
	}
	d, err := calendar.Parse(nextReview)
	if err != nil {
		return c, apperrors.NewMalformedDateError(nextReview, err)
	}
	c.NextReview = d
	c.Definition = strings.ReplaceAll(c.Definition, "\r", "\n")
	return c, nil
}

func (r *cardRepository) List(ctx context.Context) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards")

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").OrderBy("id ASC").ToSql()
	if err != nil {
		log.Error("failed to build list query: %v", err)
		return nil, err
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	c, err := scanCard(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: word=%s", c.Word)

	res, err := r.q.ExecContext(ctx, `
INSERT INTO cards (word, definition, box, next_review, attempts)
VALUES (?, ?, ?, ?, ?)
`, c.Word, c.Definition, c.Box, calendar.Format(c.NextReview), c.Attempts)
	if err != nil {
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) UpdateSchedule(ctx context.Context, id int64, box int, nextReview time.Time, attempts int) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card schedule: id=%d, box=%d, next_review=%s, attempts=%d", id, box, calendar.Format(nextReview), attempts)

	res, err := r.q.ExecContext(ctx, `
UPDATE cards
SET box = ?, next_review = ?, attempts = ?
WHERE id = ?
`, box, calendar.Format(nextReview), attempts, id)
	if err != nil {
		log.Error("failed to update card: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError("card", id)
	}
	return nil
}

// Delete removes the card and shifts every higher id down by one. The shift
// goes through negative ids so the primary key never collides mid-update.
func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	res, err := r.q.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError("card", id)
	}

	if _, err := r.q.ExecContext(ctx, `UPDATE cards SET id = -id WHERE id > ?`, id); err != nil {
		log.Error("failed to detach trailing ids: %v", err)
		return err
	}
	if _, err := r.q.ExecContext(ctx, `UPDATE cards SET id = -id - 1 WHERE id < 0`); err != nil {
		log.Error("failed to renumber trailing ids: %v", err)
		return err
	}
	return nil
}

// Compact renumbers ids to 1..n in current id order and reports how many rows moved.
func (r *cardRepository) Compact(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("compacting card ids")

	rows, err := r.q.QueryContext(ctx, `SELECT id FROM cards ORDER BY id ASC`)
	if err != nil {
		log.Error("failed to query card ids: %v", err)
		return 0, err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return 0, err
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	moved := 0
	var maxAbs int64
	for i, id := range ids {
		if id != int64(i+1) {
			moved++
		}
		maxAbs = max(maxAbs, id, -id)
	}
	if moved == 0 {
		return 0, nil
	}

	// Shift every id below -maxAbs so no detached id can meet an existing one,
	// whatever the sign of the ids another writer left behind.
	shift := 2*maxAbs + 1
	if _, err := r.q.ExecContext(ctx, `UPDATE cards SET id = id - ?`, shift); err != nil {
		log.Error("failed to detach ids: %v", err)
		return 0, err
	}
	for i, id := range ids {
		if _, err := r.q.ExecContext(ctx, `UPDATE cards SET id = ? WHERE id = ?`, i+1, id-shift); err != nil {
			log.Error("failed to renumber card %d: %v", id, err)
			return 0, err
		}
	}
	log.Info("compacted %d card ids", moved)
	return moved, nil
}

func (r *cardRepository) InsertReviewEvent(ctx context.Context, e models.ReviewEvent) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting review event: word=%s, box=%d->%d, success=%t", e.Word, e.BoxBefore, e.BoxAfter, e.Success)

	_, err := r.q.ExecContext(ctx, `
INSERT INTO review_history (session_id, word, box_before, box_after, attempts_after, success, graduated, reviewed_on)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, e.SessionID, e.Word, e.BoxBefore, e.BoxAfter, e.AttemptsAfter, boolToInt(e.Success), boolToInt(e.Graduated), calendar.Format(e.ReviewedOn))
	if err != nil {
		log.Error("failed to insert review event: %v", err)
	}
	return err
}

func (r *cardRepository) Stats(ctx context.Context, today time.Time) (*models.CardStats, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	day := calendar.Format(today)
	log.Debug("computing card stats: today=%s", day)

	stats := &models.CardStats{CardsByBox: make(map[int]int)}

	boxQuery, args, err := sqlBuilder.Select("box", "COUNT(*)").From("cards").GroupBy("box").OrderBy("box").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.q.QueryContext(ctx, boxQuery, args...)
	if err != nil {
		log.Error("failed to query box counts: %v", err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var box, count int
		if err := rows.Scan(&box, &count); err != nil {
			log.Error("failed to scan box count: %v", err)
			return nil, err
		}
		stats.CardsByBox[box] = count
		stats.TotalCards += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dueQuery, args, err := sqlBuilder.Select("COUNT(*)").From("cards").
		Where(squirrel.LtOrEq{"CAST(next_review AS TEXT)": day}).ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.q.QueryRowContext(ctx, dueQuery, args...).Scan(&stats.CardsDue); err != nil {
		log.Error("failed to count due cards: %v", err)
		return nil, err
	}

	historyQuery, args, err := sqlBuilder.Select("COUNT(*)").
		Column("COALESCE(SUM(success), 0)").
		Column("COALESCE(SUM(graduated), 0)").
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN CAST(reviewed_on AS TEXT) = ? THEN 1 ELSE 0 END), 0)", day)).
		From("review_history").ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.q.QueryRowContext(ctx, historyQuery, args...).Scan(
		&stats.TotalReviews,
		&stats.Successes,
		&stats.Graduated,
		&stats.ReviewsToday,
	); err != nil {
		log.Error("failed to summarize review history: %v", err)
		return nil, err
	}

	return stats, nil
}
