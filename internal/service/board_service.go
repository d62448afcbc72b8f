package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amterp/kanpad/internal/id"
	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/schema"
	"github.com/amterp/kanpad/internal/store"
)

// Storage keys.
const (
	BoardKey = "kanban-board"
	ThemeKey = "dark-mode"
)

// Mutation is the outcome of a board operation.
// Board is the snapshot after the operation and must be treated as read-only.
// Card is the card the operation touched, nil when nothing changed.
type Mutation struct {
	Board   model.Board `json:"board"`
	Changed bool        `json:"changed"`
	Card    *model.Card `json:"card,omitempty"`
}

// BoardService owns the current board snapshot. Every operation runs to
// completion under a mutex, persists the new snapshot when it changed, and
// notifies subscribers.
//
// Unknown lists, cards and indices are never errors: the operation reports
// Changed=false and leaves the snapshot alone. The only error is a failed
// save, in which case the in-memory snapshot has still advanced.
type BoardService struct {
	mu        sync.Mutex
	board     model.Board
	persisted *store.Persisted[model.Board]
	listeners []func(model.Board)
	logger    *log.Logger
	now       func() time.Time
	newID     func(taken func(string) bool) string
}

// BoardOption configures a BoardService.
type BoardOption func(*BoardService)

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) BoardOption {
	return func(s *BoardService) { s.now = now }
}

// WithIDGenerator overrides card ID generation.
func WithIDGenerator(gen func(taken func(string) bool) string) BoardOption {
	return func(s *BoardService) { s.newID = gen }
}

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) BoardOption {
	return func(s *BoardService) { s.logger = logger }
}

// NewBoardService creates a board service over kv. The snapshot starts as
// the default board until Load is called.
func NewBoardService(kv store.Store, opts ...BoardOption) *BoardService {
	s := &BoardService{
		board:  model.DefaultBoard(),
		logger: log.Default(),
		now:    time.Now,
		newID:  id.GenerateUnique,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.persisted = store.NewPersisted(kv, BoardKey, model.DefaultBoard,
		store.WithValidator(schema.ValidateBoard),
		store.WithLogger(s.logger),
	)
	return s
}

// Load reads the persisted board, falling back to the default board.
func (s *BoardService) Load(ctx context.Context) store.LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, status := s.persisted.Load(ctx)
	s.board = normalize(board)
	s.logger.Debug("board loaded", "status", status, "cards", s.board.CardCount())
	return status
}

// Snapshot returns a copy of the current board.
func (s *BoardService) Snapshot() model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// Subscribe registers fn to receive every new snapshot. Listeners run
// synchronously while the service is locked and must not call back into it.
func (s *BoardService) Subscribe(fn func(model.Board)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// MoveCard moves the card at srcIndex in srcList to dstIndex in dstList.
func (s *BoardService) MoveCard(ctx context.Context, srcList string, srcIndex int, dstList string, dstIndex int) (Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var moved *model.Card
	if li := s.board.ListIndex(srcList); li >= 0 && srcIndex >= 0 && srcIndex < len(s.board.Lists[li].Cards) {
		c := s.board.Lists[li].Cards[srcIndex]
		moved = &c
	}

	next, changed := s.board.MoveCard(srcList, srcIndex, dstList, dstIndex)
	return s.commit(ctx, next, changed, moved)
}

// AddCard appends a new default card to listID.
func (s *BoardService) AddCard(ctx context.Context, listID string) (Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.board.ListIndex(listID) < 0 {
		return s.unchanged(), nil
	}

	card := model.NewCard(s.newID(s.board.HasCard), s.now())
	next, changed := s.board.AddCard(listID, card)
	return s.commit(ctx, next, changed, &card)
}

// UpdateCard replaces the card with the same ID. The stored createdAt wins.
func (s *BoardService) UpdateCard(ctx context.Context, card model.Card) (Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := s.board.UpdateCard(card)
	if !changed || sameBoard(next, s.board) {
		return s.unchanged(), nil
	}

	li, ci, _ := next.LocateCard(card.ID)
	updated := next.Lists[li].Cards[ci]
	return s.commit(ctx, next, true, &updated)
}

// DeleteCard removes the card with the given ID.
func (s *BoardService) DeleteCard(ctx context.Context, cardID string) (Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed *model.Card
	if li, ci, ok := s.board.LocateCard(cardID); ok {
		c := s.board.Lists[li].Cards[ci]
		removed = &c
	}

	next, changed := s.board.DeleteCard(cardID)
	return s.commit(ctx, next, changed, removed)
}

// Reload re-reads the persisted board after an external write. Subscribers
// are notified only when the stored board differs from the snapshot. An
// unreadable or unavailable store leaves the snapshot untouched.
//
// The read happens under the lock so a mutation committed meanwhile cannot
// be replaced by the older stored board.
func (s *BoardService) Reload(ctx context.Context) (Mutation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	board, status := s.persisted.Load(ctx)

	switch status {
	case store.LoadedUnavailable:
		return s.unchanged(), fmt.Errorf("board storage unavailable")
	case store.LoadedRecovered:
		s.logger.Warn("ignoring unreadable board written externally", "key", BoardKey)
		return s.unchanged(), nil
	}

	board = normalize(board)
	if sameBoard(board, s.board) {
		return s.unchanged(), nil
	}
	s.board = board
	s.notify()
	return Mutation{Board: s.board, Changed: true}, nil
}

func (s *BoardService) unchanged() Mutation {
	return Mutation{Board: s.board}
}

// commit installs next as the current snapshot. Callers hold s.mu.
func (s *BoardService) commit(ctx context.Context, next model.Board, changed bool, card *model.Card) (Mutation, error) {
	if !changed {
		return s.unchanged(), nil
	}

	s.board = next
	s.notify()
	m := Mutation{Board: next, Changed: true, Card: card}

	if err := s.persisted.Save(ctx, next); err != nil {
		s.logger.Error("board not persisted; continuing in memory", "err", err)
		return m, err
	}
	return m, nil
}

func (s *BoardService) notify() {
	for _, fn := range s.listeners {
		fn(s.board)
	}
}

// normalize replaces null card and label slices from older or hand-edited
// files with empty ones.
func normalize(b model.Board) model.Board {
	for i := range b.Lists {
		if b.Lists[i].Cards == nil {
			b.Lists[i].Cards = []model.Card{}
		}
		for j := range b.Lists[i].Cards {
			if b.Lists[i].Cards[j].Labels == nil {
				b.Lists[i].Cards[j].Labels = []string{}
			}
		}
	}
	if b.Lists == nil {
		b.Lists = []model.List{}
	}
	return b
}

// sameBoard compares boards by their persisted form.
func sameBoard(a, b model.Board) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(aj, bj)
}
