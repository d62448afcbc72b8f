package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amterp/kanpad/internal/model"
)

// FixedTime is the creation time used by fixture cards.
var FixedTime = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

// TestCard returns a card with sensible test defaults.
func TestCard(id, title string) model.Card {
	c := model.NewCard(id, FixedTime)
	c.Title = title
	return c
}

// TestBoard returns the default board with the given cards in each list,
// keyed by list ID.
func TestBoard(cards map[string][]model.Card) model.Board {
	b := model.DefaultBoard()
	for i, l := range b.Lists {
		if cs, ok := cards[l.ID]; ok {
			b.Lists[i].Cards = cs
		}
	}
	return b
}

// TempKanpadDir creates a temporary project with an empty .kanpad/store
// directory and returns the project directory.
func TempKanpadDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".kanpad", "store"), 0755); err != nil {
		t.Fatalf("failed to create store dir: %v", err)
	}
	return dir
}

// WriteBoard stores board in a project created by TempKanpadDir, the way
// the file backend lays it out.
func WriteBoard(t *testing.T, projectDir string, board model.Board) {
	t.Helper()

	data, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal board: %v", err)
	}
	path := filepath.Join(projectDir, ".kanpad", "store", "kanban-board.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write board: %v", err)
	}
}
