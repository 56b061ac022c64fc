package card_review_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCardRepository is a mock implementation of the CardRepository interface
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

// MockProgressRepository is a mock implementation of the ProgressRepository interface
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

func (m *MockProgressRepository) Save(ctx context.Context, progress *domain.Progress) error {
	return m.Called(ctx, progress).Error(0)
}

func (m *MockProgressRepository) Update(ctx context.Context, progress *domain.Progress) error {
	return m.Called(ctx, progress).Error(0)
}

// MockSRSService is a mock implementation of the srs.Service interface
type MockSRSService struct {
	mock.Mock
}

func (m *MockSRSService) CalculateNextReview(
	progress *domain.Progress,
	difficulty domain.Difficulty,
	now time.Time,
) (*domain.Progress, error) {
	args := m.Called(progress, difficulty, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Progress), args.Error(1)
}
