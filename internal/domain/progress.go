package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultEaseFactor is the ease factor every new progress record starts with.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the lowest ease factor a progress record may carry.
	MinEaseFactor = 1.3

	// MatureRepetitionThreshold is the number of consecutive successful
	// reviews after which a card counts as mature.
	MatureRepetitionThreshold = 3
)

// Common validation errors for Progress
var (
	ErrProgressIDsRequired    = errors.New("cardId and deckId are required for progress")
	ErrEmptyProgressID        = errors.New("progress ID cannot be empty")
	ErrInvalidInterval        = errors.New("interval must be greater than or equal to 0")
	ErrInvalidRepetitions     = errors.New("repetitions must be greater than or equal to 0")
	ErrEaseFactorBelowMinimum = errors.New("ease factor must be at least 1.3")
)

// Progress tracks the spaced repetition state of one card within one deck.
// Instances are replaced rather than edited: use ApplyScheduling to obtain
// the next state.
type Progress struct {
	ID           uuid.UUID `json:"id"`
	CardID       uuid.UUID `json:"card_id"`
	DeckID       uuid.UUID `json:"deck_id"`
	Repetitions  int       `json:"repetitions"` // Consecutive successful reviews
	Interval     int       `json:"interval"`    // Days until the next review
	EaseFactor   float64   `json:"ease_factor"`
	NextReview   time.Time `json:"next_review"`
	LastReviewed time.Time `json:"last_reviewed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Scheduling is the outcome of a scheduler run, applied to a Progress with
// ApplyScheduling.
type Scheduling struct {
	Repetitions int
	Interval    int
	EaseFactor  float64
	NextReview  time.Time
}

// NewProgress creates a progress record with default scheduling values.
// The card is due immediately.
func NewProgress(cardID, deckID uuid.UUID) (*Progress, error) {
	if cardID == uuid.Nil || deckID == uuid.Nil {
		return nil, ErrProgressIDsRequired
	}

	now := time.Now().UTC()
	progress := &Progress{
		ID:           uuid.New(),
		CardID:       cardID,
		DeckID:       deckID,
		Repetitions:  0,
		Interval:     0,
		EaseFactor:   DefaultEaseFactor,
		NextReview:   now,
		LastReviewed: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the Progress has valid data.
func (p *Progress) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProgressID
	}

	if p.CardID == uuid.Nil || p.DeckID == uuid.Nil {
		return ErrProgressIDsRequired
	}

	if p.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	if p.Interval < 0 {
		return ErrInvalidInterval
	}

	if p.EaseFactor < MinEaseFactor {
		return ErrEaseFactorBelowMinimum
	}

	return nil
}

// ApplyScheduling returns a copy of p carrying the given scheduling state.
// The receiver is left untouched. The ease factor is never allowed below
// MinEaseFactor and negative values are clamped to zero.
func (p *Progress) ApplyScheduling(s Scheduling, now time.Time) *Progress {
	next := *p

	next.Repetitions = max(s.Repetitions, 0)
	next.Interval = max(s.Interval, 0)
	next.EaseFactor = max(s.EaseFactor, MinEaseFactor)
	next.NextReview = s.NextReview
	next.LastReviewed = now
	next.UpdatedAt = now

	return &next
}

// IsDue reports whether the card should be shown at the given time.
func (p *Progress) IsDue(at time.Time) bool {
	return !p.NextReview.After(at)
}

// IsMature reports whether the card has reached the given repetition threshold.
func (p *Progress) IsMature(threshold int) bool {
	return p.Repetitions >= threshold
}
