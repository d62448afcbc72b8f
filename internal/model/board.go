package model

import "slices"

// Default list IDs.
const (
	ListTodo       = "todo"
	ListInProgress = "in-progress"
	ListDone       = "done"
)

// Board is an immutable snapshot of the whole kanban state.
// Operations below never modify the receiver; they return a new snapshot and
// report whether anything changed. A false result means the receiver is
// returned as-is (unknown list or card, nothing to do).
type Board struct {
	Lists []List `json:"lists" yaml:"lists"`
}

// List is a named column holding an ordered sequence of cards.
type List struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Cards []Card `json:"cards" yaml:"cards"`
}

// DefaultBoard returns the board used on first run.
func DefaultBoard() Board {
	return Board{
		Lists: []List{
			{ID: ListTodo, Title: "To Do", Cards: []Card{}},
			{ID: ListInProgress, Title: "In Progress", Cards: []Card{}},
			{ID: ListDone, Title: "Done", Cards: []Card{}},
		},
	}
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	if b.Lists == nil {
		return Board{}
	}
	out := Board{Lists: make([]List, len(b.Lists))}
	for i, l := range b.Lists {
		out.Lists[i] = l.clone()
	}
	return out
}

func (l List) clone() List {
	out := l
	if l.Cards != nil {
		out.Cards = make([]Card, len(l.Cards))
		for i, c := range l.Cards {
			out.Cards[i] = c.Clone()
		}
	}
	return out
}

// ListIndex returns the index of the list with the given ID, or -1 if not found.
func (b Board) ListIndex(listID string) int {
	for i, l := range b.Lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

// LocateCard returns the list and card index of the card with the given ID.
func (b Board) LocateCard(cardID string) (listIdx, cardIdx int, ok bool) {
	for i, l := range b.Lists {
		for j, c := range l.Cards {
			if c.ID == cardID {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}

// HasCard returns true if any list holds a card with the given ID.
func (b Board) HasCard(cardID string) bool {
	_, _, ok := b.LocateCard(cardID)
	return ok
}

// CardCount returns the number of cards across all lists.
func (b Board) CardCount() int {
	n := 0
	for _, l := range b.Lists {
		n += len(l.Cards)
	}
	return n
}

// MoveCard removes the card at srcIndex in srcList and inserts it at dstIndex
// in dstList. Both lists may be the same. dstIndex is read against the
// destination after removal; a negative or too large dstIndex appends.
// An unknown list or an out-of-range srcIndex leaves the board unchanged.
func (b Board) MoveCard(srcList string, srcIndex int, dstList string, dstIndex int) (Board, bool) {
	si := b.ListIndex(srcList)
	di := b.ListIndex(dstList)
	if si < 0 || di < 0 {
		return b, false
	}
	if srcIndex < 0 || srcIndex >= len(b.Lists[si].Cards) {
		return b, false
	}

	out := b.Clone()
	src := out.Lists[si].Cards
	card := src[srcIndex]
	out.Lists[si].Cards = slices.Delete(src, srcIndex, srcIndex+1)

	dest := out.Lists[di].Cards
	if dstIndex < 0 || dstIndex > len(dest) {
		dstIndex = len(dest)
	}
	if si == di && srcIndex == dstIndex {
		return b, false
	}
	out.Lists[di].Cards = slices.Insert(dest, dstIndex, card)
	return out, true
}

// AddCard appends card to the end of the given list.
func (b Board) AddCard(listID string, card Card) (Board, bool) {
	idx := b.ListIndex(listID)
	if idx < 0 {
		return b, false
	}
	out := b.Clone()
	out.Lists[idx].Cards = append(out.Lists[idx].Cards, card.Clone())
	return out, true
}

// UpdateCard replaces the card with the same ID wholesale, keeping only the
// original creation timestamp.
func (b Board) UpdateCard(updated Card) (Board, bool) {
	li, ci, ok := b.LocateCard(updated.ID)
	if !ok {
		return b, false
	}
	out := b.Clone()
	next := updated.Clone()
	next.CreatedAt = out.Lists[li].Cards[ci].CreatedAt
	out.Lists[li].Cards[ci] = next
	return out, true
}

// DeleteCard removes the card with the given ID from whichever list holds it.
func (b Board) DeleteCard(cardID string) (Board, bool) {
	li, ci, ok := b.LocateCard(cardID)
	if !ok {
		return b, false
	}
	out := b.Clone()
	out.Lists[li].Cards = slices.Delete(out.Lists[li].Cards, ci, ci+1)
	return out, true
}
