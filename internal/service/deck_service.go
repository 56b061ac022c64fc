package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

const deckServiceName = "deck"

// CardInput is the content of a card to be added to a deck.
type CardInput struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// DeckService manages decks and their cards.
type DeckService interface {
	// CreateDeck creates an empty deck owned by userID.
	CreateDeck(ctx context.Context, userID uuid.UUID, name, description string) (*domain.Deck, error)

	// AddCards creates cards in a deck together with their initial progress
	// records in a single transaction.
	AddCards(ctx context.Context, deckID, userID uuid.UUID, inputs []CardInput) ([]*domain.Card, error)

	// DeleteDeck removes a deck. Progress and then cards are removed on a
	// best-effort basis before the deck itself; their failures are recorded
	// in the report and do not stop the deck deletion.
	DeleteDeck(ctx context.Context, deckID, userID uuid.UUID) (*DeletionReport, error)
}

type deckServiceImpl struct {
	deckRepo     DeckRepository
	cardRepo     CardRepository
	progressRepo ProgressRepository
	logger       *slog.Logger
}

var _ DeckService = (*deckServiceImpl)(nil)

// NewDeckService creates a new DeckService.
// It returns an error if any of the required dependencies are nil.
func NewDeckService(
	deckRepo DeckRepository,
	cardRepo CardRepository,
	progressRepo ProgressRepository,
	logger *slog.Logger,
) (DeckService, error) {
	if deckRepo == nil {
		return nil, domain.NewValidationError("deckRepo", "cannot be nil", domain.ErrValidation)
	}
	if cardRepo == nil {
		return nil, domain.NewValidationError("cardRepo", "cannot be nil", domain.ErrValidation)
	}
	if progressRepo == nil {
		return nil, domain.NewValidationError("progressRepo", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		deckRepo:     deckRepo,
		cardRepo:     cardRepo,
		progressRepo: progressRepo,
		logger:       logger.With(slog.String("component", "deck_service")),
	}, nil
}

// CreateDeck implements DeckService.CreateDeck
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	userID uuid.UUID,
	name, description string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := domain.NewDeck(userID, name, description)
	if err != nil {
		log.Debug("invalid deck", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.deckRepo.Create(ctx, deck); err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError(deckServiceName, "create_deck", err)
	}

	log.Info("deck created",
		slog.String("deck_id", deck.ID.String()),
		slog.String("user_id", userID.String()))
	return deck, nil
}

// AddCards implements DeckService.AddCards
func (s *deckServiceImpl) AddCards(
	ctx context.Context,
	deckID, userID uuid.UUID,
	inputs []CardInput,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("deck_id", deckID.String()))

	if _, err := s.ownedDeck(ctx, deckID, userID); err != nil {
		return nil, err
	}

	if len(inputs) == 0 {
		log.Debug("no cards to add")
		return []*domain.Card{}, nil
	}

	cards := make([]*domain.Card, 0, len(inputs))
	progress := make([]*domain.Progress, 0, len(inputs))
	for _, in := range inputs {
		card, err := domain.NewCard(deckID, userID, in.Front, in.Back)
		if err != nil {
			return nil, err
		}
		p, err := domain.NewProgress(card.ID, deckID)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
		progress = append(progress, p)
	}

	err := store.RunInTransaction(ctx, s.cardRepo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		if err := s.cardRepo.WithTx(tx).CreateMultiple(ctx, cards); err != nil {
			log.Error("failed to create cards in transaction", slog.String("error", err.Error()))
			return NewServiceError(deckServiceName, "add_cards", err)
		}
		if err := s.progressRepo.WithTx(tx).SaveBatch(ctx, progress); err != nil {
			log.Error("failed to create progress in transaction", slog.String("error", err.Error()))
			return NewServiceError(deckServiceName, "add_cards", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("cards added", slog.Int("card_count", len(cards)))
	return cards, nil
}

// DeleteDeck implements DeckService.DeleteDeck
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, deckID, userID uuid.UUID) (*DeletionReport, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("deck_id", deckID.String()))

	if _, err := s.ownedDeck(ctx, deckID, userID); err != nil {
		return nil, err
	}

	report := &DeletionReport{DeckID: deckID}
	secondary := []struct {
		resource string
		del      func(context.Context, uuid.UUID) (int64, error)
	}{
		{ResourceProgress, s.progressRepo.DeleteByDeckID},
		{ResourceCards, s.cardRepo.DeleteByDeckID},
	}

	// Progress goes first: deleting cards cascades into the same progress
	// rows, and running both at once can deadlock.
	for _, step := range secondary {
		n, err := step.del(ctx, deckID)
		if err != nil {
			log.Warn("best-effort delete failed",
				slog.String("resource", step.resource),
				slog.String("error", err.Error()))
		}
		report.Outcomes = append(report.Outcomes, DeletionOutcome{Resource: step.resource, Count: n, Err: err})
	}

	if err := s.deckRepo.Delete(ctx, deckID); err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		log.Error("failed to delete deck", slog.String("error", err.Error()))
		return nil, NewServiceError(deckServiceName, "delete_deck", err)
	}
	report.Outcomes = append(report.Outcomes, DeletionOutcome{Resource: ResourceDeck, Count: 1})

	log.Info("deck deleted", slog.Int("failed_steps", len(report.Failed())))
	return report, nil
}

// ownedDeck loads a deck and checks that userID owns it.
func (s *deckServiceImpl) ownedDeck(ctx context.Context, deckID, userID uuid.UUID) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.deckRepo.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("deck not found", slog.String("deck_id", deckID.String()))
			return nil, ErrDeckNotFound
		}
		log.Error("failed to get deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, NewServiceError(deckServiceName, "get_deck", err)
	}

	if !deck.OwnedBy(userID) {
		log.Warn("deck owned by another user",
			slog.String("deck_id", deckID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrDeckNotOwned
	}
	return deck, nil
}
