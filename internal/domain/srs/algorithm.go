package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-decks/internal/domain"
)

// calculateNewEaseFactor applies the classic SM-2 ease update for the given
// quality score (1-5).
//
// Higher quality raises the ease factor, lower quality lowers it. A quality
// of 4 leaves it unchanged. The result is clamped from below at
// params.MinEaseFactor; there is no upper bound.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	miss := float64(5 - quality)
	newEF := currentEF + (0.1 - miss*(0.08+miss*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateRepetitionsAndInterval determines the repetition count and the
// interval in days after a review.
//
// A failing quality resets the card to be relearned from scratch. Passing
// reviews use fixed intervals for the first two repetitions and then grow the
// previous interval by the previous ease factor.
func calculateRepetitionsAndInterval(
	repetitions int,
	interval int,
	easeFactor float64,
	quality int,
	params *Params,
) (int, int) {
	if quality < params.PassingQuality {
		return 0, params.LapseInterval
	}

	repetitions++

	switch repetitions {
	case 1:
		return repetitions, params.FirstInterval
	case 2:
		return repetitions, params.SecondInterval
	default:
		return repetitions, roundHalfUp(float64(interval) * easeFactor)
	}
}

// calculateNextReviewDate advances the UTC calendar date of now by interval
// days. AddDate on a UTC value increments the date rather than adding a
// multiple of 24h, so local DST transitions cannot skew the result.
func calculateNextReviewDate(interval int, now time.Time) time.Time {
	return now.UTC().AddDate(0, 0, interval)
}

// calculateNextProgress produces the progress state that follows a review
// with the given quality. The input is never modified.
func calculateNextProgress(
	progress *domain.Progress,
	quality int,
	now time.Time,
	params *Params,
) *domain.Progress {
	repetitions, interval := calculateRepetitionsAndInterval(
		progress.Repetitions,
		progress.Interval,
		progress.EaseFactor,
		quality,
		params,
	)

	now = now.UTC()

	return progress.ApplyScheduling(domain.Scheduling{
		Repetitions: repetitions,
		Interval:    interval,
		EaseFactor:  calculateNewEaseFactor(progress.EaseFactor, quality, params),
		NextReview:  calculateNextReviewDate(interval, now),
	}, now)
}

func roundHalfUp(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v + 0.5))
}
