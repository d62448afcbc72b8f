package model

import (
	"slices"
	"time"

	kanerr "github.com/amterp/kanpad/internal/errors"
)

// DefaultCardTitle is the title given to freshly added cards.
const DefaultCardTitle = "New Card"

// Weight bounds. Board operations don't enforce these; edit surfaces do.
const (
	MinWeight = 0
	MaxWeight = 10
)

// Card is a single task on the board.
// Field names are part of the persisted format; renaming one breaks stored boards.
type Card struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Weight      int        `json:"weight" yaml:"weight"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Labels      []string   `json:"labels" yaml:"labels"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
}

// NewCard builds a card with the default title and zero weight.
func NewCard(id string, now time.Time) Card {
	return Card{
		ID:        id,
		Title:     DefaultCardTitle,
		Weight:    0,
		Labels:    []string{},
		CreatedAt: now.UTC(),
	}
}

// Clone returns a deep copy of the card.
func (c Card) Clone() Card {
	out := c
	if c.Labels != nil {
		out.Labels = slices.Clone(c.Labels)
	}
	if c.DueDate != nil {
		due := *c.DueDate
		out.DueDate = &due
	}
	return out
}

// ValidateWeight reports whether w is inside the 0..10 range.
func ValidateWeight(w int) error {
	if w < MinWeight || w > MaxWeight {
		return kanerr.InvalidField("weight", "must be between 0 and 10")
	}
	return nil
}
