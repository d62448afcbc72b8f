// Package editform stages title and weight edits for a single card until
// they are saved or cancelled.
package editform

import (
	"context"
	"errors"

	kanerr "github.com/amterp/kanpad/internal/errors"
	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/service"
)

// ErrNotOpen is returned by Save when no card is being edited.
var ErrNotOpen = errors.New("edit form is not open")

// CardUpdater applies a full card replacement.
// *service.BoardService satisfies it.
type CardUpdater interface {
	UpdateCard(ctx context.Context, card model.Card) (service.Mutation, error)
}

// Session is the state of an open form.
type Session struct {
	Card   model.Card // the card as it was when the form opened
	Title  string
	Weight int
}

// Controller is the edit form. It holds at most one session.
type Controller struct {
	updater CardUpdater
	session *Session
}

// New creates a closed form controller.
func New(updater CardUpdater) *Controller {
	return &Controller{updater: updater}
}

// Open starts editing card, staging its current title and weight.
// Opening while another card is being edited discards that session.
func (c *Controller) Open(card model.Card) {
	c.session = &Session{
		Card:   card.Clone(),
		Title:  card.Title,
		Weight: card.Weight,
	}
}

// IsOpen reports whether a card is being edited.
func (c *Controller) IsOpen() bool {
	return c.session != nil
}

// Session returns a copy of the open session.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// SetTitle stages a new title. Empty titles are allowed.
func (c *Controller) SetTitle(title string) {
	if c.session != nil {
		c.session.Title = title
	}
}

// SetWeight stages a new weight. Range checks happen on Save.
func (c *Controller) SetWeight(weight int) {
	if c.session != nil {
		c.session.Weight = weight
	}
}

// Save applies the staged title and weight over the card's other fields and
// closes the form. An out-of-range weight is a validation error and the form
// stays open with the staged values. A persistence error from the updater
// is returned after the form closes, since the board has still changed.
func (c *Controller) Save(ctx context.Context) (model.Card, error) {
	if c.session == nil {
		return model.Card{}, ErrNotOpen
	}
	if err := model.ValidateWeight(c.session.Weight); err != nil {
		return model.Card{}, err
	}

	updated := c.session.Card.Clone()
	updated.Title = c.session.Title
	updated.Weight = c.session.Weight

	m, err := c.updater.UpdateCard(ctx, updated)
	c.session = nil
	if m.Card != nil {
		updated = *m.Card
	}
	return updated, err
}

// Cancel discards the session without touching the board.
func (c *Controller) Cancel() {
	c.session = nil
}

// IsValidationError reports whether err came from staged values.
func IsValidationError(err error) bool {
	return kanerr.IsValidationError(err)
}
