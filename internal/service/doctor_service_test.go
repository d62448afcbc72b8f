package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/store"
)

func seedBoard(t *testing.T, kv store.Store, raw string) {
	t.Helper()
	if err := kv.Set(context.Background(), BoardKey, []byte(raw)); err != nil {
		t.Fatal(err)
	}
}

func issueCodes(r *DiagnosticReport) map[string]int {
	codes := make(map[string]int)
	for _, issue := range r.Issues {
		codes[issue.Code]++
	}
	return codes
}

const cardJSON = `{"id":%q,"title":"t","weight":%d,"labels":[],"createdAt":"2026-01-01T00:00:00Z"}`

func TestDoctor_EmptyStoreIsHealthy(t *testing.T) {
	report, err := NewDoctorService(store.NewMemoryStore(), "").Diagnose(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Issues) != 0 || report.Board.Stored {
		t.Errorf("expected clean report, got %+v", report)
	}
}

func TestDoctor_HealthyBoard(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	svc := newTestBoardService(kv)
	svc.Load(ctx)
	svc.AddCard(ctx, model.ListTodo)
	svc.AddCard(ctx, model.ListDone)

	report, err := NewDoctorService(kv, "").Diagnose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.HasErrors() || len(report.Issues) != 0 {
		t.Errorf("expected no issues, got %+v", report.Issues)
	}
	if report.Board.Lists != 3 || report.Board.Cards != 2 {
		t.Errorf("stats = %+v", report.Board)
	}
	if report.Board.UpdatedAt != nil {
		t.Errorf("memory store has no write times, got %v", report.Board.UpdatedAt)
	}
}

func TestDoctor_ReportsWriteTime(t *testing.T) {
	ctx := context.Background()
	kv, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	seedBoard(t, kv, `{"lists":[]}`)

	report, err := NewDoctorService(kv, "").Diagnose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Board.UpdatedAt == nil || report.Board.UpdatedAt.IsZero() {
		t.Errorf("UpdatedAt = %v, want the file's write time", report.Board.UpdatedAt)
	}
}

func TestDoctor_Findings(t *testing.T) {
	tests := []struct {
		name      string
		board     string
		wantCodes map[string]int
		wantErr   bool
	}{
		{
			name:      "malformed json",
			board:     `{"lists": [`,
			wantCodes: map[string]int{CodeMalformedBoard: 1},
			wantErr:   true,
		},
		{
			name:      "schema violation",
			board:     `{"lists": [{"id": "todo", "title": "To Do", "cards": [{"id": "a", "title": "t", "weight": "heavy", "createdAt": "2026-01-01T00:00:00Z"}]}]}`,
			wantCodes: map[string]int{CodeMalformedBoard: 1},
			wantErr:   true,
		},
		{
			name:      "duplicate list",
			board:     `{"lists": [{"id": "todo", "title": "A", "cards": []}, {"id": "todo", "title": "B", "cards": []}]}`,
			wantCodes: map[string]int{CodeDuplicateListID: 1},
			wantErr:   true,
		},
		{
			name: "duplicate card across lists",
			board: `{"lists": [{"id": "todo", "title": "A", "cards": [` + sprintfCard("x", 1) + `]}, {"id": "done", "title": "B", "cards": [` +
				sprintfCard("x", 2) + `]}]}`,
			wantCodes: map[string]int{CodeDuplicateCardID: 1},
			wantErr:   true,
		},
		{
			name:      "weight out of range",
			board:     `{"lists": [{"id": "todo", "title": "A", "cards": [` + sprintfCard("a", 11) + `,` + sprintfCard("b", -2) + `]}]}`,
			wantCodes: map[string]int{CodeWeightOutOfRange: 2},
			wantErr:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryStore()
			seedBoard(t, kv, tt.board)

			report, err := NewDoctorService(kv, "").Diagnose(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			codes := issueCodes(report)
			for code, n := range tt.wantCodes {
				if codes[code] != n {
					t.Errorf("code %s: got %d issues, want %d (all: %+v)", code, codes[code], n, report.Issues)
				}
			}
			if report.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors = %v, want %v", report.HasErrors(), tt.wantErr)
			}
		})
	}
}

func TestDoctor_CorruptBackupAndTheme(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	if err := kv.Set(ctx, store.CorruptKey(BoardKey), []byte("{")); err != nil {
		t.Fatal(err)
	}
	if err := kv.Set(ctx, ThemeKey, []byte(`"dark"`)); err != nil {
		t.Fatal(err)
	}

	report, err := NewDoctorService(kv, "").Diagnose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	codes := issueCodes(report)
	if codes[CodeCorruptBackup] != 1 || codes[CodeMalformedTheme] != 1 {
		t.Errorf("unexpected issues: %+v", report.Issues)
	}
	if report.HasErrors() {
		t.Error("leftovers should be warnings")
	}
}

func TestDoctor_GlobalConfig(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode string
	}{
		{"current schema", "kanpad_schema = \"config/1\"\n", ""},
		{"missing schema", "editor = \"vim\"\n", CodeGlobalSchemaOutdated},
		{"bad toml", "= nope", CodeMalformedGlobalConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			report, err := NewDoctorService(store.NewMemoryStore(), path).Diagnose(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			codes := issueCodes(report)
			if tt.wantCode == "" && len(report.Issues) != 0 {
				t.Errorf("expected no issues, got %+v", report.Issues)
			}
			if tt.wantCode != "" && codes[tt.wantCode] != 1 {
				t.Errorf("expected %s, got %+v", tt.wantCode, report.Issues)
			}
		})
	}
}

func TestDoctor_Fix(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	seedBoard(t, kv, `{"lists": [{"id": "todo", "title": "A", "cards": [`+sprintfCard("x", 15)+`]}, {"id": "done", "title": "B", "cards": [`+
		sprintfCard("x", 3)+`]}]}`)
	if err := kv.Set(ctx, ThemeKey, []byte("42")); err != nil {
		t.Fatal(err)
	}

	doctor := NewDoctorService(kv, "")
	report, err := doctor.Diagnose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Issues) != 3 {
		t.Fatalf("expected 3 issues before fixing, got %+v", report.Issues)
	}

	fixed, err := doctor.Fix(ctx, report)
	if err != nil {
		t.Fatalf("Fix failed: %v", err)
	}
	if len(fixed.Issues) != 0 {
		t.Errorf("expected all issues fixed, remaining: %+v", fixed.Issues)
	}
	if fixed.Summary.Fixed != 3 {
		t.Errorf("Fixed = %d, want 3", fixed.Summary.Fixed)
	}

	// The fixed board loads cleanly with both cards
	svc := newTestBoardService(kv)
	if status := svc.Load(ctx); status != store.LoadedStored {
		t.Errorf("status = %v", status)
	}
	b := svc.Snapshot()
	if b.CardCount() != 2 || b.Lists[0].Cards[0].Weight != model.MaxWeight {
		t.Errorf("unexpected board after fix: %+v", b)
	}
}

func sprintfCard(id string, weight int) string {
	return fmt.Sprintf(cardJSON, id, weight)
}
