// Package card_review implements the review workflow: recording a rating
// for a card, lazily creating its scheduling record, and listing the cards
// that are due.
package card_review
