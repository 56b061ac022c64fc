package card_review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/store"
)

// CardRepository is the card lookup port used by the review workflow.
type CardRepository interface {
	// GetByID retrieves a card by its unique ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetByIDs retrieves the cards that exist among ids.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error)
}

// ProgressRepository is the progress persistence port used by the review workflow.
type ProgressRepository interface {
	FindByCardAndDeck(ctx context.Context, cardID, deckID uuid.UUID) (*domain.Progress, error)
	FindDueCards(ctx context.Context, before time.Time, deckID *uuid.UUID) ([]*domain.Progress, error)
	Save(ctx context.Context, progress *domain.Progress) error
	Update(ctx context.Context, progress *domain.Progress) error
}

// NewCardRepositoryAdapter creates a new adapter that allows a store.CardStore
// to be used where a CardRepository is expected.
func NewCardRepositoryAdapter(cardStore store.CardStore) CardRepository {
	return &cardRepositoryAdapter{cardStore: cardStore}
}

type cardRepositoryAdapter struct {
	cardStore store.CardStore
}

// GetByID implements CardRepository.GetByID
func (a *cardRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return a.cardStore.GetByID(ctx, id)
}

// GetByIDs implements CardRepository.GetByIDs
func (a *cardRepositoryAdapter) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error) {
	return a.cardStore.GetByIDs(ctx, ids)
}

// NewProgressRepositoryAdapter creates a new adapter that allows a store.ProgressStore
// to be used where a ProgressRepository is expected.
func NewProgressRepositoryAdapter(progressStore store.ProgressStore) ProgressRepository {
	return &progressRepositoryAdapter{progressStore: progressStore}
}

type progressRepositoryAdapter struct {
	progressStore store.ProgressStore
}

// FindByCardAndDeck implements ProgressRepository.FindByCardAndDeck
func (a *progressRepositoryAdapter) FindByCardAndDeck(
	ctx context.Context,
	cardID, deckID uuid.UUID,
) (*domain.Progress, error) {
	return a.progressStore.FindByCardAndDeck(ctx, cardID, deckID)
}

// FindDueCards implements ProgressRepository.FindDueCards
func (a *progressRepositoryAdapter) FindDueCards(
	ctx context.Context,
	before time.Time,
	deckID *uuid.UUID,
) ([]*domain.Progress, error) {
	return a.progressStore.FindDueCards(ctx, before, deckID)
}

// Save implements ProgressRepository.Save
func (a *progressRepositoryAdapter) Save(ctx context.Context, progress *domain.Progress) error {
	return a.progressStore.Save(ctx, progress)
}

// Update implements ProgressRepository.Update
func (a *progressRepositoryAdapter) Update(ctx context.Context, progress *domain.Progress) error {
	return a.progressStore.Update(ctx, progress)
}
