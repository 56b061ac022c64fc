package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// Common errors
var (
	ErrNilProgress       = errors.New("progress cannot be nil")
	ErrInvalidDifficulty = fmt.Errorf("srs: %w", domain.ErrInvalidDifficulty)
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// CalculateNextReview computes the progress state that follows a review.
	// The given progress is not modified.
	CalculateNextReview(
		progress *domain.Progress,
		difficulty domain.Difficulty,
		now time.Time,
	) (*domain.Progress, error)
}

// defaultService is the standard implementation of the Service interface.
// It holds only read-only parameters and is safe for concurrent use.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface
func (s *defaultService) CalculateNextReview(
	progress *domain.Progress,
	difficulty domain.Difficulty,
	now time.Time,
) (*domain.Progress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	quality, err := difficulty.Quality()
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDifficulty, string(difficulty))
	}

	return calculateNextProgress(progress, quality, now, s.params), nil
}
