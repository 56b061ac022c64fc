package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	ErrDeckIDEmpty     = errors.New("deck ID cannot be empty")
	ErrDeckUserIDEmpty = errors.New("deck user ID cannot be empty")
	ErrDeckNameEmpty   = errors.New("deck name cannot be empty")
)

// Deck groups cards owned by a single user.
type Deck struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates a new Deck owned by userID.
func NewDeck(userID uuid.UUID, name, description string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.UserID == uuid.Nil {
		return ErrDeckUserIDEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	return nil
}

// OwnedBy reports whether the deck belongs to userID.
func (d *Deck) OwnedBy(userID uuid.UUID) bool {
	return d.UserID == userID
}
