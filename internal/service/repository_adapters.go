package service

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/store"
)

// DeckRepository defines the deck operations used by DeckService.
type DeckRepository interface {
	Create(ctx context.Context, deck *domain.Deck) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CardRepository defines the card operations used by DeckService.
type CardRepository interface {
	// CreateMultiple saves multiple cards to the store
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// DeleteByDeckID removes every card in a deck
	DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) CardRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// ProgressRepository defines the progress operations used by DeckService.
type ProgressRepository interface {
	SaveBatch(ctx context.Context, progress []*domain.Progress) error
	DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error)
	WithTx(tx *sql.Tx) ProgressRepository
}

// NewCardRepositoryAdapter creates a new adapter that allows a store.CardStore
// to be used where a CardRepository is expected.
func NewCardRepositoryAdapter(cardStore store.CardStore, db *sql.DB) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: cardStore,
		db:        db,
	}
}

type cardRepositoryAdapter struct {
	cardStore store.CardStore
	db        *sql.DB
}

// CreateMultiple implements CardRepository.CreateMultiple
func (a *cardRepositoryAdapter) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	return a.cardStore.CreateMultiple(ctx, cards)
}

// DeleteByDeckID implements CardRepository.DeleteByDeckID
func (a *cardRepositoryAdapter) DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error) {
	return a.cardStore.DeleteByDeckID(ctx, deckID)
}

// WithTx implements CardRepository.WithTx
func (a *cardRepositoryAdapter) WithTx(tx *sql.Tx) CardRepository {
	return &cardRepositoryAdapter{
		cardStore: a.cardStore.WithTxCardStore(tx),
		db:        a.db,
	}
}

// DB implements CardRepository.DB
func (a *cardRepositoryAdapter) DB() *sql.DB {
	return a.db
}

// NewProgressRepositoryAdapter creates a new adapter that allows a
// store.ProgressStore to be used where a ProgressRepository is expected.
func NewProgressRepositoryAdapter(progressStore store.ProgressStore) ProgressRepository {
	return &progressRepositoryAdapter{progressStore: progressStore}
}

type progressRepositoryAdapter struct {
	progressStore store.ProgressStore
}

func (a *progressRepositoryAdapter) SaveBatch(ctx context.Context, progress []*domain.Progress) error {
	return a.progressStore.SaveBatch(ctx, progress)
}

func (a *progressRepositoryAdapter) DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error) {
	return a.progressStore.DeleteByDeckID(ctx, deckID)
}

func (a *progressRepositoryAdapter) WithTx(tx *sql.Tx) ProgressRepository {
	return &progressRepositoryAdapter{progressStore: a.progressStore.WithTx(tx)}
}

var (
	_ CardRepository     = (*cardRepositoryAdapter)(nil)
	_ ProgressRepository = (*progressRepositoryAdapter)(nil)
	_ DeckRepository     = (store.DeckStore)(nil)
)
