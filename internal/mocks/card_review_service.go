package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/service/card_review"
)

// ReviewCall records the arguments of one ReviewCard call.
type ReviewCall struct {
	CardID     uuid.UUID
	DeckID     uuid.UUID
	Difficulty domain.Difficulty
}

// MockCardReviewService implements card_review.CardReviewService for testing
type MockCardReviewService struct {
	ReviewCardFn         func(ctx context.Context, cardID, deckID uuid.UUID, difficulty domain.Difficulty) (*card_review.ReviewResult, error)
	InitializeProgressFn func(ctx context.Context, cardID, deckID uuid.UUID) (*card_review.InitializeResult, error)
	FindDueCardsFn       func(ctx context.Context, query card_review.DueCardsQuery) ([]card_review.DueCard, error)

	// Default response values
	ReviewResult     *card_review.ReviewResult
	InitializeResult *card_review.InitializeResult
	DueCards         []card_review.DueCard
	Err              error

	mu           sync.Mutex
	reviewCalls  []ReviewCall
	initCalls    [][2]uuid.UUID
	dueCardCalls []card_review.DueCardsQuery
}

var _ card_review.CardReviewService = (*MockCardReviewService)(nil)

// ReviewCard implements the card_review.CardReviewService interface
func (m *MockCardReviewService) ReviewCard(
	ctx context.Context,
	cardID, deckID uuid.UUID,
	difficulty domain.Difficulty,
) (*card_review.ReviewResult, error) {
	m.mu.Lock()
	m.reviewCalls = append(m.reviewCalls, ReviewCall{CardID: cardID, DeckID: deckID, Difficulty: difficulty})
	m.mu.Unlock()

	if m.ReviewCardFn != nil {
		return m.ReviewCardFn(ctx, cardID, deckID, difficulty)
	}
	return m.ReviewResult, m.Err
}

// InitializeProgress implements the card_review.CardReviewService interface
func (m *MockCardReviewService) InitializeProgress(
	ctx context.Context,
	cardID, deckID uuid.UUID,
) (*card_review.InitializeResult, error) {
	m.mu.Lock()
	m.initCalls = append(m.initCalls, [2]uuid.UUID{cardID, deckID})
	m.mu.Unlock()

	if m.InitializeProgressFn != nil {
		return m.InitializeProgressFn(ctx, cardID, deckID)
	}
	return m.InitializeResult, m.Err
}

// FindDueCards implements the card_review.CardReviewService interface
func (m *MockCardReviewService) FindDueCards(
	ctx context.Context,
	query card_review.DueCardsQuery,
) ([]card_review.DueCard, error) {
	m.mu.Lock()
	m.dueCardCalls = append(m.dueCardCalls, query)
	m.mu.Unlock()

	if m.FindDueCardsFn != nil {
		return m.FindDueCardsFn(ctx, query)
	}
	return m.DueCards, m.Err
}

// ReviewCalls returns the arguments of every ReviewCard call so far.
func (m *MockCardReviewService) ReviewCalls() []ReviewCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ReviewCall(nil), m.reviewCalls...)
}

// InitializeCalls returns the (card, deck) pairs passed to InitializeProgress.
func (m *MockCardReviewService) InitializeCalls() [][2]uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][2]uuid.UUID(nil), m.initCalls...)
}

// DueCardsCalls returns the queries passed to FindDueCards.
func (m *MockCardReviewService) DueCardsCalls() []card_review.DueCardsQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]card_review.DueCardsQuery(nil), m.dueCardCalls...)
}
