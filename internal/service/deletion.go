package service

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Resources removed alongside a deck.
const (
	ResourceProgress = "progress"
	ResourceCards    = "cards"
	ResourceDeck     = "deck"
)

// DeletionOutcome is the result of removing one kind of resource.
type DeletionOutcome struct {
	Resource string `json:"resource"`
	Count    int64  `json:"count"`
	Err      error  `json:"-"`
}

// DeletionReport lists the outcome of every step of a deck deletion.
type DeletionReport struct {
	DeckID   uuid.UUID         `json:"deck_id"`
	Outcomes []DeletionOutcome `json:"outcomes"`
}

// Failed returns the outcomes that carry an error.
func (r *DeletionReport) Failed() []DeletionOutcome {
	var failed []DeletionOutcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err combines every failed outcome into one error, or returns nil.
func (r *DeletionReport) Err() error {
	var err error
	for _, o := range r.Failed() {
		err = multierr.Append(err, fmt.Errorf("delete %s: %w", o.Resource, o.Err))
	}
	return err
}
