// Package service contains the deck management use cases: creating decks,
// adding cards together with their initial review progress, and deleting a
// deck with everything that belongs to it.
//
// Scheduling lives in the card_review subpackage and read-only statistics
// in deck_stats. All three depend on the ports in internal/store, never on
// a concrete storage implementation.
package service
