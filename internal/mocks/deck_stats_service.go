package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/service/deck_stats"
)

// MockDeckStatsService implements deck_stats.DeckStatsService for testing
type MockDeckStatsService struct {
	FindDeckStatsFn func(ctx context.Context, deckID, userID uuid.UUID) (*deck_stats.DeckStats, error)

	Stats *deck_stats.DeckStats
	Err   error

	mu    sync.Mutex
	calls int
}

var _ deck_stats.DeckStatsService = (*MockDeckStatsService)(nil)

// FindDeckStats implements the deck_stats.DeckStatsService interface
func (m *MockDeckStatsService) FindDeckStats(
	ctx context.Context,
	deckID, userID uuid.UUID,
) (*deck_stats.DeckStats, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.FindDeckStatsFn != nil {
		return m.FindDeckStatsFn(ctx, deckID, userID)
	}
	return m.Stats, m.Err
}

// Calls returns how many times FindDeckStats was called.
func (m *MockDeckStatsService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
