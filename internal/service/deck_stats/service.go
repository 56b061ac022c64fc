// Package deck_stats aggregates per-deck learning statistics and a short
// review-load forecast.
package deck_stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
)

// ForecastDays is the number of entries in DeckStats.Forecast, starting today.
const ForecastDays = 7

// ForecastDateLayout formats ForecastDay.Date.
const ForecastDateLayout = "2006-01-02"

// CardCounts buckets the cards of a deck. New, Learning and Mature always
// sum to Total; Due overlaps the learning and mature buckets.
type CardCounts struct {
	Total    int `json:"total"`
	New      int `json:"new"`
	Learning int `json:"learning"`
	Mature   int `json:"mature"`
	Due      int `json:"due"`
}

// Performance summarises review progress across a deck.
type Performance struct {
	// SuccessRate is the percentage of cards that have progress.
	SuccessRate       float64 `json:"success_rate"`
	AverageEaseFactor float64 `json:"average_ease_factor"`
	// CurrentStreak is not tracked yet and is always zero.
	CurrentStreak int `json:"current_streak"`
}

// ForecastDay is the projected number of reviews on one day.
type ForecastDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DeckStats is the result of FindDeckStats.
type DeckStats struct {
	Deck        *domain.Deck  `json:"deck"`
	Cards       CardCounts    `json:"cards"`
	Performance Performance   `json:"performance"`
	Forecast    []ForecastDay `json:"forecast"`
}

// DeckStatsService computes statistics for a user's deck.
type DeckStatsService interface {
	// FindDeckStats returns bucket counts, performance and forecast for a deck.
	//
	// Returns ErrDeckNotFound if the deck does not exist and ErrDeckNotOwned
	// if it belongs to a different user.
	FindDeckStats(ctx context.Context, deckID, userID uuid.UUID) (*DeckStats, error)
}

var (
	// ErrDeckNotFound indicates that the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckNotOwned indicates that the deck belongs to another user.
	ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")
)

// ServiceError wraps storage failures from the deck stats service.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
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

// NewFindDeckStatsError returns a new ServiceError for the find_deck_stats operation.
func NewFindDeckStatsError(message string, err error) *ServiceError {
	return &ServiceError{Operation: "find_deck_stats", Message: message, Err: err}
}
