package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewProgress(t *testing.T) {
	t.Parallel()
	cardID := uuid.New()
	deckID := uuid.New()

	progress, err := NewProgress(cardID, deckID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if progress.ID == uuid.Nil {
		t.Error("Expected a generated progress ID")
	}

	if progress.CardID != cardID || progress.DeckID != deckID {
		t.Errorf("Expected card %s / deck %s, got %s / %s",
			cardID, deckID, progress.CardID, progress.DeckID)
	}

	if progress.Repetitions != 0 {
		t.Errorf("Expected repetitions 0, got %d", progress.Repetitions)
	}

	if progress.Interval != 0 {
		t.Errorf("Expected interval 0, got %d", progress.Interval)
	}

	if progress.EaseFactor != 2.5 {
		t.Errorf("Expected ease factor 2.5, got %f", progress.EaseFactor)
	}

	now := time.Now().UTC()
	maxDiff := 2 * time.Second

	if now.Sub(progress.NextReview) > maxDiff || progress.NextReview.Sub(now) > maxDiff {
		t.Errorf("Expected NextReview to be close to now, got %v", progress.NextReview)
	}

	if !progress.LastReviewed.Equal(progress.CreatedAt) {
		t.Errorf("Expected LastReviewed to default to creation time, got %v", progress.LastReviewed)
	}

	if !progress.IsDue(now.Add(time.Second)) {
		t.Error("Expected a new progress record to be due immediately")
	}
}

func TestNewProgressRequiresIDs(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		cardID uuid.UUID
		deckID uuid.UUID
	}{
		{name: "missing card", cardID: uuid.Nil, deckID: uuid.New()},
		{name: "missing deck", cardID: uuid.New(), deckID: uuid.Nil},
		{name: "missing both", cardID: uuid.Nil, deckID: uuid.Nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			progress, err := NewProgress(tc.cardID, tc.deckID)
			if !errors.Is(err, ErrProgressIDsRequired) {
				t.Errorf("Expected error %v, got %v", ErrProgressIDsRequired, err)
			}
			if progress != nil {
				t.Error("Expected nil progress on error")
			}
		})
	}

	if ErrProgressIDsRequired.Error() != "cardId and deckId are required for progress" {
		t.Errorf("Unexpected error message: %s", ErrProgressIDsRequired.Error())
	}
}

func TestProgressValidate(t *testing.T) {
	t.Parallel()
	valid, err := NewProgress(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Failed to create progress: %v", err)
	}

	testCases := []struct {
		name     string
		mutate   func(p *Progress)
		expected error
	}{
		{name: "valid", mutate: func(p *Progress) {}, expected: nil},
		{name: "nil id", mutate: func(p *Progress) { p.ID = uuid.Nil }, expected: ErrEmptyProgressID},
		{name: "negative interval", mutate: func(p *Progress) { p.Interval = -1 }, expected: ErrInvalidInterval},
		{name: "negative repetitions", mutate: func(p *Progress) { p.Repetitions = -1 }, expected: ErrInvalidRepetitions},
		{name: "ease below floor", mutate: func(p *Progress) { p.EaseFactor = 1.29 }, expected: ErrEaseFactorBelowMinimum},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := *valid
			tc.mutate(&p)
			if err := p.Validate(); err != tc.expected {
				t.Errorf("Expected error %v, got %v", tc.expected, err)
			}
		})
	}
}

func TestApplySchedulingReturnsNewValue(t *testing.T) {
	t.Parallel()
	original, err := NewProgress(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Failed to create progress: %v", err)
	}
	snapshot := *original

	now := time.Now().UTC().Add(time.Hour)
	next := original.ApplyScheduling(Scheduling{
		Repetitions: 2,
		Interval:    6,
		EaseFactor:  1.1, // below the floor
		NextReview:  now.AddDate(0, 0, 6),
	}, now)

	if next == original {
		t.Fatal("ApplyScheduling returned the receiver, not a new value")
	}

	if *original != snapshot {
		t.Error("ApplyScheduling mutated the receiver")
	}

	if next.ID != original.ID || next.CardID != original.CardID || next.DeckID != original.DeckID {
		t.Error("Expected identity fields to be preserved")
	}

	if next.EaseFactor != MinEaseFactor {
		t.Errorf("Expected ease factor clamped to %f, got %f", MinEaseFactor, next.EaseFactor)
	}

	if next.Repetitions != 2 || next.Interval != 6 {
		t.Errorf("Expected repetitions 2 / interval 6, got %d / %d", next.Repetitions, next.Interval)
	}

	if !next.LastReviewed.Equal(now) || !next.UpdatedAt.Equal(now) {
		t.Errorf("Expected LastReviewed and UpdatedAt to be %v", now)
	}

	if !next.CreatedAt.Equal(original.CreatedAt) {
		t.Error("Expected CreatedAt to be preserved")
	}
}

func TestProgressIsMature(t *testing.T) {
	t.Parallel()
	p := &Progress{Repetitions: 2}
	if p.IsMature(MatureRepetitionThreshold) {
		t.Error("Expected 2 repetitions to be learning")
	}

	p.Repetitions = 3
	if !p.IsMature(MatureRepetitionThreshold) {
		t.Error("Expected 3 repetitions to be mature")
	}
}
