package deck_stats_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	args := m.Called(ctx, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) FindByCardAndDeck(
	ctx context.Context,
	cardID, deckID uuid.UUID,
) (*domain.Progress, error) {
	args := m.Called(ctx, cardID, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Progress), args.Error(1)
}

func (m *MockProgressRepository) FindDueCards(
	ctx context.Context,
	before time.Time,
	deckID *uuid.UUID,
) ([]*domain.Progress, error) {
	args := m.Called(ctx, before, deckID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Progress), args.Error(1)
}
