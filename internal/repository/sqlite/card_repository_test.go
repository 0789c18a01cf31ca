package sqlite_test

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/wordbox/internal/calendar"
	"github.com/vytor/wordbox/internal/errors"
	"github.com/vytor/wordbox/internal/models"
	"github.com/vytor/wordbox/internal/repository"
	"github.com/vytor/wordbox/internal/repository/sqlite"
	"github.com/vytor/wordbox/internal/testutil"
)

type CardRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.CardRepository
	ctx  context.Context
}

func (s *CardRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewCardRepository(s.db)
	s.ctx = context.Background()
}

func (s *CardRepositorySuite) TearDownTest() {
	testutil.MustClose(s.T(), s.db)
}

func (s *CardRepositorySuite) date(v string) time.Time {
	d, err := calendar.Parse(v)
	s.Require().NoError(err)
	return d
}

func (s *CardRepositorySuite) ids() []int64 {
	rows, err := s.db.Query(`SELECT id FROM cards ORDER BY id`)
	s.Require().NoError(err)
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		s.Require().NoError(rows.Scan(&id))
		ids = append(ids, id)
	}
	return ids
}

func (s *CardRepositorySuite) TestInsertAndGet() {
	id, err := s.repo.Insert(s.ctx, models.Card{
		Word:       "foo",
		Definition: "bar",
		Box:        1,
		NextReview: s.date("2024-05-07"),
	})
	s.Require().NoError(err)
	s.Assert().Equal(int64(1), id)

	card, err := s.repo.Get(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Assert().Equal("foo", card.Word)
	s.Assert().Equal("bar", card.Definition)
	s.Assert().Equal(1, card.Box)
	s.Assert().Equal(0, card.Attempts)
	s.Assert().Equal("2024-05-07", calendar.Format(card.NextReview))

	var stored string
	s.Require().NoError(s.db.QueryRow(`SELECT next_review FROM cards WHERE id = 1`).Scan(&stored))
	s.Assert().Contains(stored, "2024-05-07")
}

func (s *CardRepositorySuite) TestGet_NotFound() {
	card, err := s.repo.Get(s.ctx, 42)
	s.Require().NoError(err)
	s.Assert().Nil(card)
}

func (s *CardRepositorySuite) TestGet_NormalizesCarriageReturns() {
	testutil.InsertCard(s.T(), s.db, "crlf", "line one\rline two", 1, "2024-05-07", 0)

	card, err := s.repo.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(card)
	s.Assert().Equal("line one\nline two", card.Definition)
}

func (s *CardRepositorySuite) TestList_PreservesOrder() {
	testutil.InsertCard(s.T(), s.db, "alpha", "a", 2, "2024-05-01", 0)
	testutil.InsertCard(s.T(), s.db, "beta", "b", 1, "2024-05-09", 1)
	testutil.InsertCard(s.T(), s.db, "gamma", "c", 5, "2024-04-30", 0)

	cards, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	for i, want := range []string{"alpha", "beta", "gamma"} {
		s.Assert().Equal(want, cards[i].Word)
		s.Assert().Equal(int64(i+1), cards[i].ID)
	}
	s.Assert().Equal(1, cards[1].Attempts)
}

func (s *CardRepositorySuite) TestList_MalformedDate() {
	testutil.InsertCard(s.T(), s.db, "good", "a", 1, "2024-05-01", 0)
	testutil.InsertCard(s.T(), s.db, "bad", "b", 1, "05/01/2024", 0)

	_, err := s.repo.List(s.ctx)
	s.Require().Error(err)
	s.Assert().True(errors.Is(err, errors.ErrCodeMalformedDate))
}

func (s *CardRepositorySuite) TestUpdateSchedule() {
	testutil.InsertCard(s.T(), s.db, "foo", "bar", 3, "2024-05-06", 1)

	err := s.repo.UpdateSchedule(s.ctx, 1, 2, s.date("2024-05-08"), 0)
	s.Require().NoError(err)

	card, err := s.repo.Get(s.ctx, 1)
	s.Require().NoError(err)
	s.Assert().Equal(2, card.Box)
	s.Assert().Equal(0, card.Attempts)
	s.Assert().Equal("2024-05-08", calendar.Format(card.NextReview))
}

func (s *CardRepositorySuite) TestUpdateSchedule_MissingCard() {
	err := s.repo.UpdateSchedule(s.ctx, 9, 2, s.date("2024-05-08"), 0)
	s.Assert().True(errors.Is(err, errors.ErrCodeNotFound))
}

func (s *CardRepositorySuite) TestDelete_CompactsTrailingIds() {
	for _, w := range []string{"a", "b", "c", "d"} {
		testutil.InsertCard(s.T(), s.db, w, w, 1, "2024-05-06", 0)
	}

	s.Require().NoError(s.repo.Delete(s.ctx, 2))
	s.Assert().Equal([]int64{1, 2, 3}, s.ids())

	cards, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal("c", cards[1].Word)
	s.Assert().Equal("d", cards[2].Word)

	// The next insert takes the next positional id.
	id, err := s.repo.Insert(s.ctx, models.Card{Word: "e", Definition: "e", Box: 1, NextReview: s.date("2024-05-07")})
	s.Require().NoError(err)
	s.Assert().Equal(int64(4), id)
}

func (s *CardRepositorySuite) TestDelete_Last() {
	testutil.InsertCard(s.T(), s.db, "a", "a", 5, "2024-05-06", 0)
	s.Require().NoError(s.repo.Delete(s.ctx, 1))
	s.Assert().Empty(s.ids())
}

func (s *CardRepositorySuite) TestDelete_MissingCard() {
	err := s.repo.Delete(s.ctx, 3)
	s.Assert().True(errors.Is(err, errors.ErrCodeNotFound))
}

func (s *CardRepositorySuite) TestCompact() {
	for _, w := range []string{"a", "b", "c"} {
		testutil.InsertCard(s.T(), s.db, w, w, 1, "2024-05-06", 0)
	}
	_, err := s.db.Exec(`UPDATE cards SET id = 10 WHERE id = 2`)
	s.Require().NoError(err)
	_, err = s.db.Exec(`DELETE FROM cards WHERE id = 1`)
	s.Require().NoError(err)

	moved, err := s.repo.Compact(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(2, moved)
	s.Assert().Equal([]int64{1, 2}, s.ids())

	cards, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal("c", cards[0].Word)
	s.Assert().Equal("b", cards[1].Word)

	moved, err = s.repo.Compact(s.ctx)
	s.Require().NoError(err)
	s.Assert().Zero(moved)
}

func (s *CardRepositorySuite) TestCompact_NonPositiveIds() {
	for _, w := range []string{"a", "b", "c"} {
		testutil.InsertCard(s.T(), s.db, w, w, 1, "2024-05-06", 0)
	}
	// Another writer left ids -2, 0 and 2, so negating would collide.
	for _, stmt := range []string{
		`UPDATE cards SET id = 0 WHERE id = 2`,
		`UPDATE cards SET id = -2 WHERE id = 1`,
		`UPDATE cards SET id = 2 WHERE id = 3`,
	} {
		_, err := s.db.Exec(stmt)
		s.Require().NoError(err)
	}

	moved, err := s.repo.Compact(s.ctx)
	s.Require().NoError(err)
	s.Assert().Equal(3, moved)
	s.Assert().Equal([]int64{1, 2, 3}, s.ids())

	cards, err := s.repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(cards, 3)
	s.Assert().Equal("a", cards[0].Word)
	s.Assert().Equal("b", cards[1].Word)
	s.Assert().Equal("c", cards[2].Word)
}

func (s *CardRepositorySuite) TestWithTx_RollsBack() {
	boom := stderrors.New("boom")
	err := s.repo.WithTx(s.ctx, func(tx repository.CardRepository) error {
		if _, err := tx.Insert(s.ctx, models.Card{Word: "x", Definition: "y", Box: 1, NextReview: s.date("2024-05-07")}); err != nil {
			return err
		}
		return boom
	})
	s.Assert().ErrorIs(err, boom)
	s.Assert().Empty(s.ids())
}

func (s *CardRepositorySuite) TestWithTx_Commits() {
	err := s.repo.WithTx(s.ctx, func(tx repository.CardRepository) error {
		_, err := tx.Insert(s.ctx, models.Card{Word: "x", Definition: "y", Box: 1, NextReview: s.date("2024-05-07")})
		return err
	})
	s.Require().NoError(err)
	s.Assert().Equal([]int64{1}, s.ids())
}

func (s *CardRepositorySuite) TestStats() {
	testutil.InsertCard(s.T(), s.db, "a", "a", 1, "2024-05-05", 0)
	testutil.InsertCard(s.T(), s.db, "b", "b", 1, "2024-05-06", 0)
	testutil.InsertCard(s.T(), s.db, "c", "c", 3, "2024-05-07", 0)

	today := s.date("2024-05-06")
	s.Require().NoError(s.repo.InsertReviewEvent(s.ctx, models.ReviewEvent{
		SessionID: "s1", Word: "a", BoxBefore: 1, BoxAfter: 2, Success: true, ReviewedOn: today,
	}))
	s.Require().NoError(s.repo.InsertReviewEvent(s.ctx, models.ReviewEvent{
		SessionID: "s1", Word: "z", BoxBefore: 5, BoxAfter: 6, Success: true, Graduated: true, ReviewedOn: s.date("2024-05-01"),
	}))
	s.Require().NoError(s.repo.InsertReviewEvent(s.ctx, models.ReviewEvent{
		SessionID: "s1", Word: "b", BoxBefore: 1, BoxAfter: 1, AttemptsAfter: 1, ReviewedOn: today,
	}))

	stats, err := s.repo.Stats(s.ctx, today)
	s.Require().NoError(err)
	s.Assert().Equal(3, stats.TotalCards)
	s.Assert().Equal(map[int]int{1: 2, 3: 1}, stats.CardsByBox)
	s.Assert().Equal(2, stats.CardsDue)
	s.Assert().Equal(3, stats.TotalReviews)
	s.Assert().Equal(2, stats.Successes)
	s.Assert().Equal(1, stats.Graduated)
	s.Assert().Equal(2, stats.ReviewsToday)
	s.Assert().Equal(66.7, stats.SuccessRate())
}

func TestCardRepositorySuite(t *testing.T) {
	suite.Run(t, new(CardRepositorySuite))
}
