package domain

import (
	"fmt"
	"strings"
)

// Difficulty is the rating a user gives a card after reviewing it.
type Difficulty string

// Possible difficulty values
const (
	DifficultyAgain  Difficulty = "again"
	DifficultyHard   Difficulty = "hard"
	DifficultyNormal Difficulty = "normal"
	DifficultyEasy   Difficulty = "easy"
)

// qualityByDifficulty maps each rating onto the SM-2 quality scale.
var qualityByDifficulty = map[Difficulty]int{
	DifficultyAgain:  1,
	DifficultyHard:   3,
	DifficultyNormal: 4,
	DifficultyEasy:   5,
}

// Difficulties returns every valid rating, from worst to best recall.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyAgain, DifficultyHard, DifficultyNormal, DifficultyEasy}
}

// ParseDifficulty converts user input into a Difficulty.
// Surrounding whitespace and letter case are ignored.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDifficulty, s)
	}
	return d, nil
}

// IsValid reports whether d is one of the recognized ratings.
func (d Difficulty) IsValid() bool {
	_, ok := qualityByDifficulty[d]
	return ok
}

// Quality returns the SM-2 quality score (1-5) for the rating.
func (d Difficulty) Quality() (int, error) {
	q, ok := qualityByDifficulty[d]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDifficulty, string(d))
	}
	return q, nil
}

// String returns the rating name.
func (d Difficulty) String() string {
	return string(d)
}

// UnmarshalText implements encoding.TextUnmarshaler so that JSON and flag
// input go through the same validation as ParseDifficulty.
func (d *Difficulty) UnmarshalText(text []byte) error {
	parsed, err := ParseDifficulty(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
