package resolver

import (
	"fmt"
	"strconv"
	"strings"

	kanerr "github.com/amterp/kanpad/internal/errors"
	"github.com/amterp/kanpad/internal/model"
)

// minPrefixLen is the shortest ID prefix accepted as a card reference.
const minPrefixLen = 3

// CardRef locates a card on a board.
type CardRef struct {
	ListID string
	Index  int // position within the list
	Card   model.Card
}

// CardResolver handles card reference resolution.
type CardResolver struct {
	lists *ListResolver
}

// NewCardResolver creates a new card resolver.
func NewCardResolver() *CardResolver {
	return &CardResolver{lists: NewListResolver(nil)}
}

// Resolve finds a card by reference. Accepted forms, in order:
//   - the full card ID
//   - list:N, the Nth card (1-based) of a list given by ID, title or slug
//   - a unique ID prefix of at least three characters
func (r *CardResolver) Resolve(board model.Board, ref string) (CardRef, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return CardRef{}, kanerr.InvalidField("card", "reference must not be empty")
	}

	// Try direct ID lookup first
	if li, ci, ok := board.LocateCard(ref); ok {
		return refAt(board, li, ci), nil
	}

	if listRef, pos, ok := splitPositional(ref); ok {
		li, err := r.lists.index(board, listRef)
		if err != nil {
			return CardRef{}, err
		}
		cards := board.Lists[li].Cards
		if pos < 1 || pos > len(cards) {
			return CardRef{}, kanerr.CardNotFound(ref)
		}
		return refAt(board, li, pos-1), nil
	}

	// Fall back to prefix lookup
	if len(ref) < minPrefixLen {
		return CardRef{}, kanerr.CardNotFound(ref)
	}
	var matches []CardRef
	for li, l := range board.Lists {
		for ci, c := range l.Cards {
			if strings.HasPrefix(c.ID, ref) {
				matches = append(matches, refAt(board, li, ci))
			}
		}
	}
	switch len(matches) {
	case 0:
		return CardRef{}, kanerr.CardNotFound(ref)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.Card.ID
		}
		return CardRef{}, kanerr.InvalidField("card",
			fmt.Sprintf("%q is ambiguous; matches %s", ref, strings.Join(ids, ", ")))
	}
}

func refAt(board model.Board, li, ci int) CardRef {
	return CardRef{
		ListID: board.Lists[li].ID,
		Index:  ci,
		Card:   board.Lists[li].Cards[ci].Clone(),
	}
}

// splitPositional parses "list:N".
func splitPositional(ref string) (string, int, bool) {
	i := strings.LastIndex(ref, ":")
	if i <= 0 || i == len(ref)-1 {
		return "", 0, false
	}
	n, err := strconv.Atoi(ref[i+1:])
	if err != nil {
		return "", 0, false
	}
	return ref[:i], n, true
}
