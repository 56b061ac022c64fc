package deck_stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/store"
)

// DeckRepository loads decks.
type DeckRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error)
}

// CardRepository lists the cards of a deck.
type CardRepository interface {
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)
}

// ProgressRepository reads review progress. Only read operations are used.
type ProgressRepository interface {
	FindByCardAndDeck(ctx context.Context, cardID, deckID uuid.UUID) (*domain.Progress, error)
	FindDueCards(ctx context.Context, before time.Time, deckID *uuid.UUID) ([]*domain.Progress, error)
}

// Repositories bundles the store-backed ports used by the stats service.
type Repositories struct {
	Decks    DeckRepository
	Cards    CardRepository
	Progress ProgressRepository
}

// NewRepositories adapts the stores to the stats service ports.
func NewRepositories(decks store.DeckStore, cards store.CardStore, progress store.ProgressStore) Repositories {
	return Repositories{
		Decks:    &deckRepositoryAdapter{decks: decks},
		Cards:    &cardRepositoryAdapter{cards: cards},
		Progress: &progressRepositoryAdapter{progress: progress},
	}
}

type deckRepositoryAdapter struct {
	decks store.DeckStore
}

func (a *deckRepositoryAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	return a.decks.GetByID(ctx, id)
}

type cardRepositoryAdapter struct {
	cards store.CardStore
}

func (a *cardRepositoryAdapter) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	return a.cards.ListByDeck(ctx, deckID)
}

type progressRepositoryAdapter struct {
	progress store.ProgressStore
}

func (a *progressRepositoryAdapter) FindByCardAndDeck(
	ctx context.Context,
	cardID, deckID uuid.UUID,
) (*domain.Progress, error) {
	return a.progress.FindByCardAndDeck(ctx, cardID, deckID)
}

func (a *progressRepositoryAdapter) FindDueCards(
	ctx context.Context,
	before time.Time,
	deckID *uuid.UUID,
) ([]*domain.Progress, error) {
	return a.progress.FindDueCards(ctx, before, deckID)
}
