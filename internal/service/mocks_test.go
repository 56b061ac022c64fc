package service_test

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockDeckRepository struct {
	mock.Mock
}

func (m *MockDeckRepository) Create(ctx context.Context, deck *domain.Deck) error {
	return m.Called(ctx, deck).Error(0)
}

func (m *MockDeckRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deck), args.Error(1)
}

func (m *MockDeckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockCardRepository returns itself from WithTx so expectations cover both
// transactional and plain calls.
type MockCardRepository struct {
	mock.Mock
	db *sql.DB
}

func (m *MockCardRepository) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	return m.Called(ctx, cards).Error(0)
}

func (m *MockCardRepository) DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCardRepository) WithTx(tx *sql.Tx) service.CardRepository {
	return m
}

func (m *MockCardRepository) DB() *sql.DB {
	return m.db
}

type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) SaveBatch(ctx context.Context, progress []*domain.Progress) error {
	return m.Called(ctx, progress).Error(0)
}

func (m *MockProgressRepository) DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error) {
	args := m.Called(ctx, deckID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProgressRepository) WithTx(tx *sql.Tx) service.ProgressRepository {
	return m
}
