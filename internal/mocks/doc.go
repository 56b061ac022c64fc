// Package mocks provides shared mock implementations of the service
// interfaces for tests outside the service packages.
//
// Each mock has one function field per interface method. A nil field falls
// back to the mock's default return values, and every call is recorded so
// tests can assert on the arguments:
//
//	reviews := &mocks.MockCardReviewService{
//	    ReviewCardFn: func(ctx context.Context, cardID, deckID uuid.UUID, d domain.Difficulty) (*card_review.ReviewResult, error) {
//	        return nil, card_review.ErrCardNotFound
//	    },
//	}
package mocks
