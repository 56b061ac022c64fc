package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// ProgressStore defines the interface for spaced repetition progress persistence.
// At most one progress record exists per (card, deck) pair; implementations
// enforce this at the storage level and report violations as ErrDuplicate.
type ProgressStore interface {
	// FindByCardAndDeck retrieves the progress for a card within a deck.
	// Returns ErrProgressNotFound if no record exists.
	FindByCardAndDeck(ctx context.Context, cardID, deckID uuid.UUID) (*domain.Progress, error)

	// FindDueCards returns progress records whose next review is at or before
	// the given time, optionally restricted to one deck.
	FindDueCards(ctx context.Context, before time.Time, deckID *uuid.UUID) ([]*domain.Progress, error)

	// Save inserts a new progress record.
	// Returns ErrDuplicate if the (card, deck) pair already has progress.
	Save(ctx context.Context, progress *domain.Progress) error

	// SaveBatch inserts several progress records at once.
	SaveBatch(ctx context.Context, progress []*domain.Progress) error

	// Update persists the scheduling fields of an existing record.
	// Returns ErrProgressNotFound if the record does not exist.
	Update(ctx context.Context, progress *domain.Progress) error

	// DeleteByDeckID removes every progress record in a deck and returns how
	// many were removed.
	DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error)

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
