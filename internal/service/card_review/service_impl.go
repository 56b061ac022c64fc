package card_review

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/domain/srs"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

// Verify interface compliance at compile time
var _ CardReviewService = (*cardReviewServiceImpl)(nil)

// Option configures a CardReviewService.
type Option func(*cardReviewServiceImpl)

// WithClock replaces time.Now as the source of the review timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *cardReviewServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

type cardReviewServiceImpl struct {
	cardRepo     CardRepository
	progressRepo ProgressRepository
	srsService   srs.Service
	logger       *slog.Logger
	now          func() time.Time
}

// NewCardReviewService creates a new CardReviewService implementation.
func NewCardReviewService(
	cardRepo CardRepository,
	progressRepo ProgressRepository,
	srsService srs.Service,
	logger *slog.Logger,
	opts ...Option,
) CardReviewService {
	if cardRepo == nil {
		panic("cardRepo cannot be nil")
	}
	if progressRepo == nil {
		panic("progressRepo cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &cardReviewServiceImpl{
		cardRepo:     cardRepo,
		progressRepo: progressRepo,
		srsService:   srsService,
		logger:       logger.With(slog.String("component", "card_review_service")),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReviewCard implements CardReviewService.ReviewCard.
func (s *cardReviewServiceImpl) ReviewCard(
	ctx context.Context,
	cardID, deckID uuid.UUID,
	difficulty domain.Difficulty,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("card_id", cardID.String()),
		slog.String("deck_id", deckID.String()))

	log.Debug("processing review", slog.String("difficulty", string(difficulty)))

	if !difficulty.IsValid() {
		log.Warn("invalid review difficulty", slog.String("difficulty", string(difficulty)))
		return nil, fmt.Errorf("%w: %q", ErrInvalidDifficulty, string(difficulty))
	}

	if _, err := s.cardRepo.GetByID(ctx, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			log.Warn("card not found for review")
			return nil, ErrCardNotFound
		}
		log.Error("failed to get card", slog.String("error", err.Error()))
		return nil, NewReviewCardError("failed to get card", err)
	}

	progress, err := s.progressRepo.FindByCardAndDeck(ctx, cardID, deckID)
	if err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			log.Warn("progress not found for review")
			return nil, ErrProgressNotFound
		}
		log.Error("failed to get progress", slog.String("error", err.Error()))
		return nil, NewReviewCardError("failed to get progress", err)
	}

	updated, err := s.srsService.CalculateNextReview(progress, difficulty, s.now().UTC())
	if err != nil {
		log.Warn("scheduler rejected review", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.progressRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, store.ErrProgressNotFound) {
			log.Warn("progress disappeared before update")
			return nil, ErrProgressNotFound
		}
		log.Error("failed to update progress", slog.String("error", err.Error()))
		return nil, NewReviewCardError("failed to update progress", err)
	}

	log.Debug("review recorded",
		slog.String("difficulty", string(difficulty)),
		slog.Int("repetitions", updated.Repetitions),
		slog.Int("interval", updated.Interval),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Time("next_review", updated.NextReview))

	return &ReviewResult{Progress: updated, NextReview: updated.NextReview}, nil
}

// InitializeProgress implements CardReviewService.InitializeProgress.
func (s *cardReviewServiceImpl) InitializeProgress(
	ctx context.Context,
	cardID, deckID uuid.UUID,
) (*InitializeResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("card_id", cardID.String()),
		slog.String("deck_id", deckID.String()))

	existing, err := s.progressRepo.FindByCardAndDeck(ctx, cardID, deckID)
	if err == nil {
		log.Debug("progress already initialized")
		return &InitializeResult{Progress: existing, IsNew: false}, nil
	}
	if !errors.Is(err, store.ErrProgressNotFound) {
		log.Error("failed to look up progress", slog.String("error", err.Error()))
		return nil, NewInitializeProgressError("failed to look up progress", err)
	}

	progress, err := domain.NewProgress(cardID, deckID)
	if err != nil {
		log.Warn("invalid progress identifiers", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.progressRepo.Save(ctx, progress); err != nil {
		if !store.IsDuplicateError(err) {
			log.Error("failed to save progress", slog.String("error", err.Error()))
			return nil, NewInitializeProgressError("failed to save progress", err)
		}

		// Another caller created the record between our read and write.
		log.Debug("progress created concurrently, re-reading")
		winner, err := s.progressRepo.FindByCardAndDeck(ctx, cardID, deckID)
		if err != nil {
			log.Error("failed to re-read progress", slog.String("error", err.Error()))
			return nil, NewInitializeProgressError("failed to re-read progress", err)
		}
		return &InitializeResult{Progress: winner, IsNew: false}, nil
	}

	log.Debug("progress initialized", slog.String("progress_id", progress.ID.String()))
	return &InitializeResult{Progress: progress, IsNew: true}, nil
}

// FindDueCards implements CardReviewService.FindDueCards.
func (s *cardReviewServiceImpl) FindDueCards(ctx context.Context, query DueCardsQuery) ([]DueCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	at := query.At
	if at.IsZero() {
		at = s.now()
	}
	at = at.UTC()

	attrs := []any{slog.Time("at", at)}
	if query.DeckID != nil {
		attrs = append(attrs, slog.String("deck_id", query.DeckID.String()))
	}
	log = log.With(attrs...)

	due, err := s.progressRepo.FindDueCards(ctx, at, query.DeckID)
	if err != nil {
		log.Error("failed to find due progress", slog.String("error", err.Error()))
		return nil, NewFindDueCardsError("failed to find due progress", err)
	}
	due = slices.DeleteFunc(due, func(p *domain.Progress) bool { return !p.IsDue(at) })
	if len(due) == 0 {
		log.Debug("no cards due")
		return []DueCard{}, nil
	}

	ids := make([]uuid.UUID, 0, len(due))
	seen := make(map[uuid.UUID]struct{}, len(due))
	for _, p := range due {
		if _, ok := seen[p.CardID]; ok {
			continue
		}
		seen[p.CardID] = struct{}{}
		ids = append(ids, p.CardID)
	}

	cards, err := s.cardRepo.GetByIDs(ctx, ids)
	if err != nil {
		log.Error("failed to load due cards", slog.String("error", err.Error()))
		return nil, NewFindDueCardsError("failed to load due cards", err)
	}

	byID := make(map[uuid.UUID]*domain.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	result := make([]DueCard, 0, len(due))
	for _, p := range due {
		card, ok := byID[p.CardID]
		if !ok {
			log.Debug("skipping progress for missing card",
				slog.String("card_id", p.CardID.String()),
				slog.String("progress_id", p.ID.String()))
			continue
		}
		result = append(result, DueCard{Card: card, Progress: p})
	}

	slices.SortStableFunc(result, func(a, b DueCard) int {
		return cmp.Compare(b.Progress.Interval, a.Progress.Interval)
	})

	log.Debug("found due cards",
		slog.Int("progress_count", len(due)),
		slog.Int("card_count", len(result)))
	return result, nil
}
