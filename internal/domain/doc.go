// Package domain defines decks, the cards they hold and the per-card
// review progress that spaced repetition scheduling works on, along with
// the four review difficulties and the validation rules each entity
// enforces at construction.
package domain
