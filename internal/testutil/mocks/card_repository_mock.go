package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/wordbox/internal/models"
	"github.com/vytor/wordbox/internal/repository"
)

// MockCardRepository is a mock implementation of repository.CardRepository.
// WithTx records the call and then runs fn against the mock itself.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) List(ctx context.Context) ([]models.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Card), args.Error(1)
}

func (m *MockCardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Card), args.Error(1)
}

func (m *MockCardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	args := m.Called(ctx, card)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) UpdateSchedule(ctx context.Context, id int64, box int, nextReview time.Time, attempts int) error {
	args := m.Called(ctx, id, box, nextReview, attempts)
	return args.Error(0)
}

func (m *MockCardRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) Compact(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockCardRepository) InsertReviewEvent(ctx context.Context, event models.ReviewEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCardRepository) Stats(ctx context.Context, today time.Time) (*models.CardStats, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CardStats), args.Error(1)
}

func (m *MockCardRepository) WithTx(ctx context.Context, fn func(repository.CardRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}
