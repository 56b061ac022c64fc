package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	decks    *MockDeckRepository
	cards    *MockCardRepository
	progress *MockProgressRepository
	sqlMock  sqlmock.Sqlmock
	logs     *logger.TestLogBuffer
	service  service.DeckService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, logs := logger.NewTestLogger()
	f := &fixture{
		decks:    &MockDeckRepository{},
		cards:    &MockCardRepository{db: db},
		progress: &MockProgressRepository{},
		sqlMock:  sqlMock,
		logs:     logs,
	}
	f.service, err = service.NewDeckService(f.decks, f.cards, f.progress, log)
	require.NoError(t, err)

	t.Cleanup(func() {
		f.decks.AssertExpectations(t)
		f.cards.AssertExpectations(t)
		f.progress.AssertExpectations(t)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
	return f
}

func newDeck(t *testing.T, userID uuid.UUID) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck(userID, "Capitals", "European capitals")
	require.NoError(t, err)
	return deck
}

func TestNewDeckService(t *testing.T) {
	_, err := service.NewDeckService(nil, &MockCardRepository{}, &MockProgressRepository{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.NewDeckService(&MockDeckRepository{}, nil, &MockProgressRepository{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.NewDeckService(&MockDeckRepository{}, &MockCardRepository{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	svc, err := service.NewDeckService(&MockDeckRepository{}, &MockCardRepository{}, &MockProgressRepository{}, nil)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestCreateDeck(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		f.decks.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Deck) bool {
			return d.UserID == userID && d.Name == "Capitals"
		})).Return(nil)

		deck, err := f.service.CreateDeck(ctx, userID, "Capitals", "")
		require.NoError(t, err)
		assert.Equal(t, userID, deck.UserID)
		assert.NotEqual(t, uuid.Nil, deck.ID)
	})

	t.Run("invalid name", func(t *testing.T) {
		f := newFixture(t)

		deck, err := f.service.CreateDeck(ctx, uuid.New(), "  ", "")
		assert.Nil(t, deck)
		assert.ErrorIs(t, err, domain.ErrDeckNameEmpty)
		f.decks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		f := newFixture(t)
		dbErr := errors.New("connection refused")
		f.decks.On("Create", mock.Anything, mock.Anything).Return(dbErr)

		_, err := f.service.CreateDeck(ctx, uuid.New(), "Capitals", "")
		assert.ErrorIs(t, err, dbErr)

		var serviceErr *service.ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "create_deck", serviceErr.Op)
	})
}

func TestAddCards(t *testing.T) {
	ctx := context.Background()
	inputs := []service.CardInput{
		{Front: "France", Back: "Paris"},
		{Front: "Spain", Back: "Madrid"},
	}

	t.Run("creates cards and initial progress in one transaction", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		deck := newDeck(t, userID)

		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		f.sqlMock.ExpectBegin()
		f.cards.On("CreateMultiple", mock.Anything, mock.MatchedBy(func(cards []*domain.Card) bool {
			return len(cards) == 2 && cards[0].Front == "France" && cards[1].Back == "Madrid"
		})).Return(nil)
		f.progress.On("SaveBatch", mock.Anything, mock.MatchedBy(func(progress []*domain.Progress) bool {
			if len(progress) != 2 {
				return false
			}
			for _, p := range progress {
				if p.DeckID != deck.ID || p.Repetitions != 0 || p.EaseFactor != domain.DefaultEaseFactor {
					return false
				}
			}
			return true
		})).Return(nil)
		f.sqlMock.ExpectCommit()

		cards, err := f.service.AddCards(ctx, deck.ID, userID, inputs)
		require.NoError(t, err)
		require.Len(t, cards, 2)

		saved := f.progress.Calls[0].Arguments.Get(1).([]*domain.Progress)
		assert.Equal(t, cards[0].ID, saved[0].CardID)
		assert.Equal(t, cards[1].ID, saved[1].CardID)
	})

	t.Run("progress failure rolls back", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		deck := newDeck(t, userID)
		dbErr := errors.New("unique violation")

		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		f.sqlMock.ExpectBegin()
		f.cards.On("CreateMultiple", mock.Anything, mock.Anything).Return(nil)
		f.progress.On("SaveBatch", mock.Anything, mock.Anything).Return(dbErr)
		f.sqlMock.ExpectRollback()

		cards, err := f.service.AddCards(ctx, deck.ID, userID, inputs)
		assert.Nil(t, cards)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("invalid card content", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		deck := newDeck(t, userID)
		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)

		_, err := f.service.AddCards(ctx, deck.ID, userID, []service.CardInput{{Front: "France"}})
		assert.ErrorIs(t, err, domain.ErrCardBackEmpty)
	})

	t.Run("no inputs", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		deck := newDeck(t, userID)
		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)

		cards, err := f.service.AddCards(ctx, deck.ID, userID, nil)
		require.NoError(t, err)
		assert.Empty(t, cards)
	})

	t.Run("deck owned by another user", func(t *testing.T) {
		f := newFixture(t)
		deck := newDeck(t, uuid.New())
		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)

		_, err := f.service.AddCards(ctx, deck.ID, uuid.New(), inputs)
		assert.ErrorIs(t, err, service.ErrDeckNotOwned)
	})

	t.Run("deck not found", func(t *testing.T) {
		f := newFixture(t)
		deckID := uuid.New()
		f.decks.On("GetByID", mock.Anything, deckID).Return(nil, store.ErrDeckNotFound)

		_, err := f.service.AddCards(ctx, deckID, uuid.New(), inputs)
		assert.ErrorIs(t, err, service.ErrDeckNotFound)
	})
}

func TestDeleteDeck(t *testing.T) {
	ctx := context.Background()

	t.Run("removes everything", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		deck := newDeck(t, userID)

		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		f.progress.On("DeleteByDeckID", mock.Anything, deck.ID).Return(int64(4), nil)
		f.cards.On("DeleteByDeckID", mock.Anything, deck.ID).Return(int64(4), nil)
		f.decks.On("Delete", mock.Anything, deck.ID).Return(nil)

		report, err := f.service.DeleteDeck(ctx, deck.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, deck.ID, report.DeckID)
		assert.Equal(t, []service.DeletionOutcome{
			{Resource: service.ResourceProgress, Count: 4},
			{Resource: service.ResourceCards, Count: 4},
			{Resource: service.ResourceDeck, Count: 1},
		}, report.Outcomes)
		assert.NoError(t, report.Err())
	})

	t.Run("progress is removed before cards", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		deck := newDeck(t, userID)
		var order []string

		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		f.progress.On("DeleteByDeckID", mock.Anything, deck.ID).Return(int64(1), nil).
			Run(func(mock.Arguments) { order = append(order, service.ResourceProgress) })
		f.cards.On("DeleteByDeckID", mock.Anything, deck.ID).Return(int64(1), nil).
			Run(func(mock.Arguments) { order = append(order, service.ResourceCards) })
		f.decks.On("Delete", mock.Anything, deck.ID).Return(nil).
			Run(func(mock.Arguments) { order = append(order, service.ResourceDeck) })

		_, err := f.service.DeleteDeck(ctx, deck.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, []string{service.ResourceProgress, service.ResourceCards, service.ResourceDeck}, order)
	})

	t.Run("secondary failure does not block the deck delete", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		deck := newDeck(t, userID)
		progressErr := errors.New("statement timeout")

		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		f.progress.On("DeleteByDeckID", mock.Anything, deck.ID).Return(int64(0), progressErr)
		f.cards.On("DeleteByDeckID", mock.Anything, deck.ID).Return(int64(2), nil)
		f.decks.On("Delete", mock.Anything, deck.ID).Return(nil)

		report, err := f.service.DeleteDeck(ctx, deck.ID, userID)
		require.NoError(t, err)

		failed := report.Failed()
		require.Len(t, failed, 1)
		assert.Equal(t, service.ResourceProgress, failed[0].Resource)
		assert.ErrorIs(t, report.Err(), progressErr)
		assert.NotEmpty(t, f.logs.EntriesWithMessage("best-effort delete failed"))
	})

	t.Run("deck delete failure is returned", func(t *testing.T) {
		f := newFixture(t)
		userID := uuid.New()
		deck := newDeck(t, userID)
		dbErr := errors.New("connection reset")

		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)
		f.progress.On("DeleteByDeckID", mock.Anything, deck.ID).Return(int64(0), nil)
		f.cards.On("DeleteByDeckID", mock.Anything, deck.ID).Return(int64(0), nil)
		f.decks.On("Delete", mock.Anything, deck.ID).Return(dbErr)

		report, err := f.service.DeleteDeck(ctx, deck.ID, userID)
		assert.Nil(t, report)
		assert.ErrorIs(t, err, dbErr)
	})

	t.Run("not owned", func(t *testing.T) {
		f := newFixture(t)
		deck := newDeck(t, uuid.New())
		f.decks.On("GetByID", mock.Anything, deck.ID).Return(deck, nil)

		report, err := f.service.DeleteDeck(ctx, deck.ID, uuid.New())
		assert.Nil(t, report)
		assert.ErrorIs(t, err, service.ErrDeckNotOwned)
		f.decks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
