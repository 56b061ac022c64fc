package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// CreateMultiple saves multiple cards to the store.
	// Returns validation errors if any card data is invalid.
	CreateMultiple(ctx context.Context, cards []*domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetByIDs retrieves all cards whose IDs are in ids.
	// Missing cards are omitted from the result rather than reported as errors.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error)

	// ListByDeck returns every card in a deck, oldest first.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// DeleteByDeckID removes every card in a deck and returns how many were removed.
	DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error)

	// WithTxCardStore returns a new CardStore instance that uses the provided transaction.
	WithTxCardStore(tx *sql.Tx) CardStore
}
