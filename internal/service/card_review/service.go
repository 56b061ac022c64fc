package card_review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// ReviewResult is the outcome of a single card review.
type ReviewResult struct {
	Progress   *domain.Progress `json:"progress"`
	NextReview time.Time        `json:"next_review"`
}

// InitializeResult is the outcome of InitializeProgress.
// IsNew is true only when this call created the record.
type InitializeResult struct {
	Progress *domain.Progress `json:"progress"`
	IsNew    bool             `json:"is_new"`
}

// DueCardsQuery selects the cards to return from FindDueCards.
type DueCardsQuery struct {
	// At is the cutoff; progress due at or before it is returned.
	// The zero value means now.
	At time.Time
	// DeckID restricts the query to one deck when non-nil.
	DeckID *uuid.UUID
}

// DueCard pairs a due card with its review progress.
type DueCard struct {
	Card     *domain.Card     `json:"card"`
	Progress *domain.Progress `json:"progress"`
}

// CardReviewService runs the review workflow for flashcards scheduled by
// the SM-2 algorithm.
type CardReviewService interface {
	// ReviewCard records a rating for a card within a deck and reschedules it.
	//
	// Returns:
	//   - ErrInvalidDifficulty when difficulty is not one of again, hard, normal, easy
	//   - ErrCardNotFound when the card does not exist
	//   - ErrProgressNotFound when the card has no progress in the deck
	//   - a *ServiceError wrapping any storage failure
	ReviewCard(
		ctx context.Context,
		cardID, deckID uuid.UUID,
		difficulty domain.Difficulty,
	) (*ReviewResult, error)

	// InitializeProgress returns the progress for a (card, deck) pair,
	// creating it with default scheduling if it does not exist yet.
	// Calling it repeatedly, or concurrently, never creates a second record.
	InitializeProgress(ctx context.Context, cardID, deckID uuid.UUID) (*InitializeResult, error)

	// FindDueCards returns the cards due for review, longest interval first.
	// Progress whose card no longer exists is skipped.
	FindDueCards(ctx context.Context, query DueCardsQuery) ([]DueCard, error)
}

// Common error types for CardReviewService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrProgressNotFound indicates that the card has no progress in the deck.
	ErrProgressNotFound = errors.New("progress not found")

	// ErrInvalidDifficulty is returned for ratings outside the supported set.
	ErrInvalidDifficulty = domain.ErrInvalidDifficulty
)

// ServiceError wraps errors from the card review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "review_card")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewReviewCardError returns a new ServiceError for the review_card operation.
func NewReviewCardError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "review_card", Message: message, Err: err}
}

// NewInitializeProgressError returns a new ServiceError for the initialize_progress operation.
func NewInitializeProgressError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "initialize_progress", Message: message, Err: err}
}

// NewFindDueCardsError returns a new ServiceError for the find_due_cards operation.
func NewFindDueCardsError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "find_due_cards", Message: message, Err: err}
}
