package repository

import (
	"context"
	"time"

	"github.com/vytor/wordbox/internal/models"
)

// CardRepository handles card data access.
//
// Card ids are positional: the card loaded at index i has id i+1. Delete and
// Compact renumber the remaining rows so this holds after every commit.
type CardRepository interface {
	List(ctx context.Context) ([]models.Card, error)
	Get(ctx context.Context, id int64) (*models.Card, error)
	Insert(ctx context.Context, card models.Card) (int64, error)
	UpdateSchedule(ctx context.Context, id int64, box int, nextReview time.Time, attempts int) error
	Delete(ctx context.Context, id int64) error
	Compact(ctx context.Context) (int, error)
	InsertReviewEvent(ctx context.Context, event models.ReviewEvent) error
	Stats(ctx context.Context, today time.Time) (*models.CardStats, error)
	// WithTx runs fn against a repository bound to a single transaction.
	WithTx(ctx context.Context, fn func(CardRepository) error) error
}
