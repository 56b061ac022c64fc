package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "deck not found", ErrDeckNotFound.Error())
	assert.Equal(t, "deck is owned by another user", ErrDeckNotOwned.Error())
	assert.False(t, errors.Is(ErrDeckNotFound, ErrDeckNotOwned))
}

func TestServiceError_Error(t *testing.T) {
	tests := []struct {
		name     string
		service  string
		op       string
		err      error
		expected string
	}{
		{
			name:     "with underlying error",
			service:  "deck",
			op:       "create_deck",
			err:      errors.New("database connection failed"),
			expected: "deck service create_deck operation failed: database connection failed",
		},
		{
			name:     "without underlying error",
			service:  "deck",
			op:       "delete_deck",
			err:      nil,
			expected: "deck service delete_deck operation failed",
		},
		{
			name:     "with sentinel error",
			service:  "deck",
			op:       "get_deck",
			err:      ErrDeckNotOwned,
			expected: "deck service get_deck operation failed: deck is owned by another user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewServiceError(tt.service, tt.op, tt.err).Error())
		})
	}
}

func TestServiceError_ErrorsIs(t *testing.T) {
	underlyingErr := errors.New("database connection failed")
	serviceErr := NewServiceError("deck", "add_cards", underlyingErr)

	assert.True(t, errors.Is(serviceErr, underlyingErr))
	assert.False(t, errors.Is(serviceErr, errors.New("different error")))

	var target *ServiceError
	wrapped := NewServiceError("outer", "wrap", serviceErr)
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "outer", target.Service)
}
