package deck_stats

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the per-card progress lookups when no limit is configured.
const DefaultConcurrency = 8

var _ DeckStatsService = (*deckStatsServiceImpl)(nil)

// Option configures a DeckStatsService.
type Option func(*deckStatsServiceImpl)

// WithConcurrency sets the maximum number of progress lookups in flight.
// Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(s *deckStatsServiceImpl) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithClock replaces time.Now as the reference for "today".
func WithClock(now func() time.Time) Option {
	return func(s *deckStatsServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

type deckStatsServiceImpl struct {
	repos       Repositories
	logger      *slog.Logger
	concurrency int
	now         func() time.Time
}

// NewDeckStatsService creates a new DeckStatsService implementation.
func NewDeckStatsService(repos Repositories, logger *slog.Logger, opts ...Option) DeckStatsService {
	if repos.Decks == nil {
		panic("deck repository cannot be nil")
	}
	if repos.Cards == nil {
		panic("card repository cannot be nil")
	}
	if repos.Progress == nil {
		panic("progress repository cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &deckStatsServiceImpl{
		repos:       repos,
		logger:      logger.With(slog.String("component", "deck_stats_service")),
		concurrency: DefaultConcurrency,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindDeckStats implements DeckStatsService.FindDeckStats.
func (s *deckStatsServiceImpl) FindDeckStats(ctx context.Context, deckID, userID uuid.UUID) (*DeckStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("deck_id", deckID.String()),
		slog.String("user_id", userID.String()))

	deck, err := s.repos.Decks.GetByID(ctx, deckID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("deck not found")
			return nil, ErrDeckNotFound
		}
		log.Error("failed to get deck", slog.String("error", err.Error()))
		return nil, NewFindDeckStatsError("failed to get deck", err)
	}
	if !deck.OwnedBy(userID) {
		log.Warn("deck owned by another user", slog.String("owner_id", deck.UserID.String()))
		return nil, ErrDeckNotOwned
	}

	cards, err := s.repos.Cards.ListByDeck(ctx, deckID)
	if err != nil {
		log.Error("failed to list cards", slog.String("error", err.Error()))
		return nil, NewFindDeckStatsError("failed to list cards", err)
	}

	progress, err := s.loadProgress(ctx, deckID, cards)
	if err != nil {
		log.Error("failed to load progress", slog.String("error", err.Error()))
		return nil, NewFindDeckStatsError("failed to load progress", err)
	}

	now := s.now().UTC()
	due, err := s.repos.Progress.FindDueCards(ctx, now, &deckID)
	if err != nil {
		log.Error("failed to count due cards", slog.String("error", err.Error()))
		return nil, NewFindDeckStatsError("failed to count due cards", err)
	}

	stats := &DeckStats{
		Deck:        deck,
		Cards:       countCards(progress),
		Performance: summarise(progress),
		Forecast:    forecast(len(due), now),
	}
	stats.Cards.Due = len(due)

	log.Debug("deck stats computed",
		slog.Int("total", stats.Cards.Total),
		slog.Int("new", stats.Cards.New),
		slog.Int("learning", stats.Cards.Learning),
		slog.Int("mature", stats.Cards.Mature),
		slog.Int("due", stats.Cards.Due))
	return stats, nil
}

// loadProgress fetches the progress of every card concurrently. The result
// is index-aligned with cards; a nil entry means the card has no progress.
func (s *deckStatsServiceImpl) loadProgress(
	ctx context.Context,
	deckID uuid.UUID,
	cards []*domain.Card,
) ([]*domain.Progress, error) {
	results := make([]*domain.Progress, len(cards))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, card := range cards {
		i, card := i, card // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			p, err := s.repos.Progress.FindByCardAndDeck(gctx, card.ID, deckID)
			if err != nil {
				if errors.Is(err, store.ErrProgressNotFound) {
					return nil
				}
				return err
			}
			results[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func countCards(progress []*domain.Progress) CardCounts {
	counts := CardCounts{Total: len(progress)}
	for _, p := range progress {
		switch {
		case p == nil:
			counts.New++
		case p.IsMature(domain.MatureRepetitionThreshold):
			counts.Mature++
		default:
			counts.Learning++
		}
	}
	return counts
}

func summarise(progress []*domain.Progress) Performance {
	var reviewed int
	var easeSum float64
	for _, p := range progress {
		if p == nil {
			continue
		}
		reviewed++
		easeSum += p.EaseFactor
	}

	perf := Performance{AverageEaseFactor: domain.DefaultEaseFactor}
	if reviewed > 0 {
		perf.AverageEaseFactor = easeSum / float64(reviewed)
	}
	if len(progress) > 0 {
		perf.SuccessRate = float64(reviewed) / float64(len(progress)) * 100
	}
	return perf
}

// forecast projects today's due count over ForecastDays days. Day zero is
// the actual count; later days decay by ten percentage points per day from 70%.
func forecast(dueToday int, now time.Time) []ForecastDay {
	today := now.UTC()
	days := make([]ForecastDay, ForecastDays)
	for i := range days {
		count := dueToday
		if i > 0 {
			projected := math.Floor(float64(dueToday) * (0.7 - float64(i)*0.1))
			count = max(0, int(projected))
		}
		days[i] = ForecastDay{
			Date:  today.AddDate(0, 0, i).Format(ForecastDateLayout),
			Count: count,
		}
	}
	return days
}
