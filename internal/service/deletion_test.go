package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDeletionReport(t *testing.T) {
	t.Run("no failures", func(t *testing.T) {
		report := &DeletionReport{
			DeckID: uuid.New(),
			Outcomes: []DeletionOutcome{
				{Resource: ResourceProgress, Count: 3},
				{Resource: ResourceCards, Count: 3},
				{Resource: ResourceDeck, Count: 1},
			},
		}

		assert.Empty(t, report.Failed())
		assert.NoError(t, report.Err())
	})

	t.Run("combines failures", func(t *testing.T) {
		progressErr := errors.New("progress table locked")
		cardsErr := errors.New("connection reset")
		report := &DeletionReport{
			Outcomes: []DeletionOutcome{
				{Resource: ResourceProgress, Err: progressErr},
				{Resource: ResourceCards, Err: cardsErr},
				{Resource: ResourceDeck, Count: 1},
			},
		}

		failed := report.Failed()
		require.Len(t, failed, 2)
		assert.Equal(t, ResourceProgress, failed[0].Resource)
		assert.Equal(t, ResourceCards, failed[1].Resource)

		err := report.Err()
		require.Error(t, err)
		assert.ErrorIs(t, err, progressErr)
		assert.ErrorIs(t, err, cardsErr)
		assert.Len(t, multierr.Errors(err), 2)
		assert.Contains(t, err.Error(), "delete progress: progress table locked")
	})
}
