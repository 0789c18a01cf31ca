// Package leitner implements the five-box spaced-repetition scheduler.
//
// A Scheduler keeps three index-aligned sequences (words, due dates, boxes)
// mirroring the cards table in id order: position i is the card with id i+1.
// Every mutation is written to the store in one transaction first and only
// mirrored in memory after it commits. A Scheduler is not safe for
// concurrent use.
package leitner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/wordbox/internal/calendar"
	apperrors "github.com/vytor/wordbox/internal/errors"
	"github.com/vytor/wordbox/internal/logger"
	"github.com/vytor/wordbox/internal/models"
	"github.com/vytor/wordbox/internal/repository"
)

// NotFound is returned by Definition when a position has no stored card.
const NotFound = "Not found!"

// Scheduler owns the card collection and the review cursor.
type Scheduler struct {
	repo      repository.CardRepository
	now       func() time.Time
	log       *logger.Logger
	sessionID string

	words    []string
	dueDates []time.Time
	boxes    []int
	cursor   int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source used to decide what "today" is.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scheduler) {
		s.log = l
	}
}

// WithSessionID overrides the generated id stamped on review history rows.
func WithSessionID(id string) Option {
	return func(s *Scheduler) {
		s.sessionID = id
	}
}

// New loads every card from repo into memory with the cursor at 0.
// A store that cannot be read is fatal, as is any malformed review date.
func New(ctx context.Context, repo repository.CardRepository, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		repo:      repo,
		now:       time.Now,
		log:       logger.FromContext(ctx).WithPrefix("scheduler"),
		sessionID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithField("session", s.sessionID[:min(8, len(s.sessionID))])

	cards, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	s.words = make([]string, 0, len(cards))
	s.dueDates = make([]time.Time, 0, len(cards))
	s.boxes = make([]int, 0, len(cards))
	for _, c := range cards {
		s.words = append(s.words, c.Word)
		s.dueDates = append(s.dueDates, c.NextReview)
		s.boxes = append(s.boxes, c.Box)
	}

	s.log.Debug("loaded %d cards, %d due today", len(cards), s.DueCount())
	return s, nil
}

// load lists the cards, compacting ids first if the store has gaps left by
// another writer.
func (s *Scheduler) load(ctx context.Context) ([]models.Card, error) {
	cards, err := s.repo.List(ctx)
	if err != nil {
		return nil, loadError(err)
	}
	if positional(cards) {
		return cards, nil
	}

	s.log.Warn("card ids are not contiguous, compacting")
	err = s.repo.WithTx(ctx, func(tx repository.CardRepository) error {
		if _, err := tx.Compact(ctx); err != nil {
			return err
		}
		cards, err = tx.List(ctx)
		return err
	})
	if err != nil {
		return nil, loadError(err)
	}
	return cards, nil
}

func loadError(err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.NewStoreUnavailableError("cards", err)
}

func positional(cards []models.Card) bool {
	for i, c := range cards {
		if c.ID != int64(i+1) {
			return false
		}
	}
	return true
}

// SessionID identifies this scheduler's reviews in the history table.
func (s *Scheduler) SessionID() string {
	return s.sessionID
}

// Today is the current calendar day according to the scheduler's clock.
func (s *Scheduler) Today() time.Time {
	return calendar.Today(s.now())
}

// Len returns the number of cards in the collection.
func (s *Scheduler) Len() int {
	return len(s.words)
}

// Cursor returns the position of the card under review. It is 0 when the
// collection is empty.
func (s *Scheduler) Cursor() int {
	return s.cursor
}

// Words returns a copy of the word sequence.
func (s *Scheduler) Words() []string {
	return append([]string(nil), s.words...)
}

// DueDates returns a copy of the due-date sequence.
func (s *Scheduler) DueDates() []time.Time {
	return append([]time.Time(nil), s.dueDates...)
}

// Boxes returns a copy of the box sequence.
func (s *Scheduler) Boxes() []int {
	return append([]int(nil), s.boxes...)
}

// CardView is the cached state of one position, for display.
type CardView struct {
	Position   int       `json:"position"`
	Word       string    `json:"word"`
	Box        int       `json:"box"`
	NextReview time.Time `json:"next_review"`
}

// Card returns the cached state at position i.
func (s *Scheduler) Card(i int) (CardView, bool) {
	if i < 0 || i >= len(s.words) {
		return CardView{}, false
	}
	return CardView{Position: i, Word: s.words[i], Box: s.boxes[i], NextReview: s.dueDates[i]}, true
}

// Current returns the card under the cursor.
func (s *Scheduler) Current() (CardView, bool) {
	return s.Card(s.cursor)
}

// IsDue reports whether the card at position i is due on or before today.
func (s *Scheduler) IsDue(i int) bool {
	if i < 0 || i >= len(s.dueDates) {
		return false
	}
	return !s.dueDates[i].After(s.Today())
}

// DueCount returns how many cached cards are due today.
func (s *Scheduler) DueCount() int {
	today := s.Today()
	n := 0
	for _, d := range s.dueDates {
		if !d.After(today) {
			n++
		}
	}
	return n
}

// MoveBy shifts the cursor by delta, clamped to the collection. It is a
// no-op on an empty collection.
func (s *Scheduler) MoveBy(delta int) {
	if len(s.words) == 0 {
		return
	}
	s.cursor = max(0, min(s.cursor+delta, len(s.words)-1))
}

// AdvanceToDue scans forward from the cursor, without wrapping, to the first
// due card, stopping on the last card if none is found. It reports whether
// the card under the cursor is due.
func (s *Scheduler) AdvanceToDue() bool {
	if len(s.words) == 0 {
		return false
	}
	today := s.Today()
	for s.cursor < len(s.words)-1 && s.dueDates[s.cursor].After(today) {
		s.cursor++
	}
	return !s.dueDates[s.cursor].After(today)
}

// Add stores a new card in box 1, due tomorrow, and appends it to the
// in-memory sequences. Duplicate words are allowed.
func (s *Scheduler) Add(ctx context.Context, word, definition string) error {
	if word == "" {
		return apperrors.NewValidationError("word", "must not be empty")
	}
	if definition == "" {
		return apperrors.NewValidationError("definition", "must not be empty")
	}

	card := models.Card{
		Word:       word,
		Definition: definition,
		Box:        MinBox,
		NextReview: calendar.AddDays(s.Today(), 1),
	}
	want := int64(len(s.words) + 1)

	err := s.repo.WithTx(ctx, func(tx repository.CardRepository) error {
		id, err := tx.Insert(ctx, card)
		if err != nil {
			return err
		}
		if id != want {
			return apperrors.NewInternalError(fmt.Errorf("card stored with id %d, expected %d", id, want))
		}
		return nil
	})
	if err != nil {
		s.log.Error("failed to add card %q: %v", word, err)
		return apperrors.NewWriteFailedError("add card", err)
	}

	s.words = append(s.words, card.Word)
	s.dueDates = append(s.dueDates, card.NextReview)
	s.boxes = append(s.boxes, card.Box)
	s.log.Debug("added card %q at position %d", word, want-1)
	return nil
}

// Definition returns the stored definition of the card at pos, or NotFound.
// It always reads the store rather than the cache.
func (s *Scheduler) Definition(ctx context.Context, pos int) string {
	def, err := s.LookupDefinition(ctx, pos)
	if err != nil {
		if !apperrors.Is(err, apperrors.ErrCodeNotFound) {
			s.log.Warn("definition lookup failed for position %d: %v", pos, err)
		}
		return NotFound
	}
	return def
}

// LookupDefinition is Definition with the failure reason exposed.
func (s *Scheduler) LookupDefinition(ctx context.Context, pos int) (string, error) {
	if pos < 0 {
		return NotFound, apperrors.NewNotFoundError("card at position", pos)
	}
	card, err := s.repo.Get(ctx, int64(pos)+1)
	if err != nil {
		return NotFound, err
	}
	if card == nil {
		return NotFound, apperrors.NewNotFoundError("card at position", pos)
	}
	return card.Definition, nil
}

// OutcomeKind describes what a review did.
type OutcomeKind string

const (
	// OutcomeSkipped means the stored card was not due; nothing changed.
	OutcomeSkipped   OutcomeKind = "skipped"
	OutcomePromoted  OutcomeKind = "promoted"
	OutcomeDemoted   OutcomeKind = "demoted"
	OutcomeRetained  OutcomeKind = "retained"
	OutcomeGraduated OutcomeKind = "graduated"
)

func outcomeKind(k StepKind) OutcomeKind {
	switch k {
	case Promoted:
		return OutcomePromoted
	case Demoted:
		return OutcomeDemoted
	case Graduated:
		return OutcomeGraduated
	default:
		return OutcomeRetained
	}
}

// Outcome reports the state of the reviewed card after Review.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	Position   int         `json:"position"`
	Word       string      `json:"word"`
	Box        int         `json:"box"`
	Attempts   int         `json:"attempts"`
	NextReview time.Time   `json:"next_review"`
}

// Review applies a review outcome to the card under the cursor.
//
// The card's box, attempts and due date are re-read from the store. A card
// that is not yet due is left untouched. Every other outcome reschedules the
// card by the interval of its new box, including a failure that keeps the
// box. A success from the last box removes the card and the cursor moves
// back if it fell off the end.
func (s *Scheduler) Review(ctx context.Context, success bool) (Outcome, error) {
	if s.cursor < 0 || s.cursor >= len(s.words) {
		return Outcome{}, apperrors.NewCursorOutOfRangeError(s.cursor, len(s.words))
	}

	pos := s.cursor
	id := int64(pos + 1)
	today := s.Today()
	log := s.log.WithFields(map[string]any{"position": pos, "success": success})

	var out Outcome
	err := s.repo.WithTx(ctx, func(tx repository.CardRepository) error {
		card, err := tx.Get(ctx, id)
		if err != nil {
			return err
		}
		if card == nil {
			return apperrors.NewNotFoundError("card", id)
		}
		if card.Word != s.words[pos] {
			log.Warn("cached word %q differs from stored %q", s.words[pos], card.Word)
		}

		out = Outcome{
			Kind:       OutcomeSkipped,
			Position:   pos,
			Word:       card.Word,
			Box:        card.Box,
			Attempts:   card.Attempts,
			NextReview: card.NextReview,
		}
		if card.NextReview.After(today) {
			return nil
		}
		if !ValidBox(card.Box) {
			return apperrors.NewInternalError(fmt.Errorf("card %d stored in box %d", id, card.Box))
		}

		step := ApplyReview(card.Box, card.Attempts, success)
		out.Kind = outcomeKind(step.Kind)
		out.Box = step.Box
		out.Attempts = step.Attempts

		switch step.Kind {
		case Graduated:
			if err := tx.Delete(ctx, id); err != nil {
				return err
			}
			out.NextReview = time.Time{}
		default:
			out.NextReview = calendar.AddDays(today, Interval(step.Box))
			if err := tx.UpdateSchedule(ctx, id, step.Box, out.NextReview, step.Attempts); err != nil {
				return err
			}
		}

		return tx.InsertReviewEvent(ctx, models.ReviewEvent{
			SessionID:     s.sessionID,
			Word:          card.Word,
			BoxBefore:     card.Box,
			BoxAfter:      step.Box,
			AttemptsAfter: step.Attempts,
			Success:       success,
			Graduated:     step.Kind == Graduated,
			ReviewedOn:    today,
		})
	})
	if err != nil {
		log.Error("review failed: %v", err)
		if _, ok := apperrors.As(err); ok {
			return Outcome{}, err
		}
		return Outcome{}, apperrors.NewWriteFailedError("review card", err)
	}

	switch out.Kind {
	case OutcomeSkipped:
		log.Debug("card %q not due until %s, skipped", out.Word, calendar.Format(out.NextReview))
	case OutcomeGraduated:
		s.remove(pos)
		log.Debug("card %q graduated", out.Word)
	default:
		s.dueDates[pos] = out.NextReview
		s.boxes[pos] = out.Box
		log.Debug("card %q %s to box %d, next review %s", out.Word, out.Kind, out.Box, calendar.Format(out.NextReview))
	}
	return out, nil
}

func (s *Scheduler) remove(pos int) {
	s.words = append(s.words[:pos], s.words[pos+1:]...)
	s.dueDates = append(s.dueDates[:pos], s.dueDates[pos+1:]...)
	s.boxes = append(s.boxes[:pos], s.boxes[pos+1:]...)
	if s.cursor >= len(s.words) {
		s.cursor = max(0, len(s.words)-1)
	}
}

// Stats summarizes the stored cards and review history as of today.
func (s *Scheduler) Stats(ctx context.Context) (*models.CardStats, error) {
	stats, err := s.repo.Stats(ctx, s.Today())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return stats, nil
}
