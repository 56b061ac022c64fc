// Package store defines the persistence ports for decks, cards and review
// progress. Implementations live under internal/platform; services depend
// only on these interfaces.
package store
