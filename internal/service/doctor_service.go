package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	kanerr "github.com/amterp/kanpad/internal/errors"
	"github.com/amterp/kanpad/internal/id"
	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/schema"
	"github.com/amterp/kanpad/internal/store"
	"github.com/amterp/kanpad/internal/version"
)

// IssueSeverity indicates how critical an issue is.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// Issue codes for diagnostic results.
const (
	// Board integrity (errors)
	CodeMalformedBoard  = "MALFORMED_BOARD"
	CodeDuplicateListID = "DUPLICATE_LIST_ID"
	CodeDuplicateCardID = "DUPLICATE_CARD_ID"

	// Card values (warnings)
	CodeWeightOutOfRange = "WEIGHT_OUT_OF_RANGE"

	// Persistence leftovers (warnings)
	CodeCorruptBackup  = "CORRUPT_BACKUP"
	CodeMalformedTheme = "MALFORMED_THEME"

	// Global config (warnings)
	CodeMalformedGlobalConfig = "MALFORMED_GLOBAL_CONFIG"
	CodeGlobalSchemaOutdated  = "GLOBAL_SCHEMA_OUTDATED"
)

// Issue represents a single diagnostic finding.
type Issue struct {
	Severity  IssueSeverity `json:"severity"`
	Code      string        `json:"code"`
	List      string        `json:"list,omitempty"`
	CardID    string        `json:"card_id,omitempty"`
	Message   string        `json:"message"`
	Fixable   bool          `json:"fixable"`
	FixAction string        `json:"fix_action,omitempty"`
}

// BoardStats summarizes the stored board.
type BoardStats struct {
	Stored bool `json:"stored"`
	Lists  int  `json:"lists"`
	Cards  int  `json:"cards"`

	// UpdatedAt is set when the backend tracks write times.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ReportSummary summarizes the diagnostic results.
type ReportSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Fixed    int `json:"fixed"`
}

// DiagnosticReport contains all diagnostic results.
type DiagnosticReport struct {
	Board   BoardStats    `json:"board"`
	Issues  []Issue       `json:"issues"`
	Summary ReportSummary `json:"summary"`
}

// HasErrors returns true if there are any error-level issues.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

func (r *DiagnosticReport) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	if issue.Severity == SeverityError {
		r.Summary.Errors++
	} else {
		r.Summary.Warnings++
	}
}

// DoctorService inspects persisted state for problems the board operations
// would otherwise paper over.
type DoctorService struct {
	kv         store.Store
	configPath string
}

// NewDoctorService creates a diagnostic service. configPath may be empty to
// skip the global config check.
func NewDoctorService(kv store.Store, configPath string) *DoctorService {
	return &DoctorService{kv: kv, configPath: configPath}
}

// Diagnose reads the raw stored values and reports every issue found.
func (s *DoctorService) Diagnose(ctx context.Context) (*DiagnosticReport, error) {
	report := &DiagnosticReport{Issues: []Issue{}}

	s.checkGlobalConfig(report)

	if err := s.checkBoard(ctx, report); err != nil {
		return nil, err
	}
	if err := s.checkCorruptBackup(ctx, report); err != nil {
		return nil, err
	}
	if err := s.checkTheme(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *DoctorService) checkBoard(ctx context.Context, report *DiagnosticReport) error {
	data, err := s.kv.Get(ctx, BoardKey)
	if err != nil {
		if kanerr.IsNotFound(err) {
			return nil // Nothing stored yet is fine
		}
		return fmt.Errorf("failed to read board: %w", err)
	}
	report.Board.Stored = true
	if ts, ok := s.kv.(store.Timestamped); ok {
		if at, err := ts.UpdatedAt(ctx, BoardKey); err == nil {
			report.Board.UpdatedAt = &at
		}
	}

	if err := schema.ValidateBoard(data); err != nil {
		var ve *schema.ValidationError
		if !errors.As(err, &ve) {
			return err
		}
		for _, issue := range ve.Issues {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			report.add(Issue{
				Severity:  SeverityError,
				Code:      CodeMalformedBoard,
				Message:   msg,
				FixAction: "Edit or remove the stored board; kanpad falls back to an empty board",
			})
		}
		return nil
	}

	var board model.Board
	if err := json.Unmarshal(data, &board); err != nil {
		report.add(Issue{Severity: SeverityError, Code: CodeMalformedBoard, Message: err.Error()})
		return nil
	}
	report.Board.Lists = len(board.Lists)
	report.Board.Cards = board.CardCount()

	seenLists := make(map[string]bool)
	for _, l := range board.Lists {
		if seenLists[l.ID] {
			report.add(Issue{
				Severity: SeverityError,
				Code:     CodeDuplicateListID,
				List:     l.ID,
				Message:  fmt.Sprintf("List ID %q appears more than once", l.ID),
			})
		}
		seenLists[l.ID] = true
	}

	seenCards := make(map[string]bool)
	for _, l := range board.Lists {
		for _, c := range l.Cards {
			if seenCards[c.ID] {
				report.add(Issue{
					Severity:  SeverityError,
					Code:      CodeDuplicateCardID,
					List:      l.ID,
					CardID:    c.ID,
					Message:   fmt.Sprintf("Card ID %q appears more than once", c.ID),
					Fixable:   true,
					FixAction: "Assign a new ID to the later copy",
				})
			}
			seenCards[c.ID] = true

			if model.ValidateWeight(c.Weight) != nil {
				report.add(Issue{
					Severity:  SeverityWarning,
					Code:      CodeWeightOutOfRange,
					List:      l.ID,
					CardID:    c.ID,
					Message:   fmt.Sprintf("Card %q has weight %d, outside %d..%d", c.ID, c.Weight, model.MinWeight, model.MaxWeight),
					Fixable:   true,
					FixAction: "Clamp the weight into range",
				})
			}
		}
	}
	return nil
}

func (s *DoctorService) checkCorruptBackup(ctx context.Context, report *DiagnosticReport) error {
	_, err := s.kv.Get(ctx, store.CorruptKey(BoardKey))
	if kanerr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read board backup: %w", err)
	}
	report.add(Issue{
		Severity:  SeverityWarning,
		Code:      CodeCorruptBackup,
		Message:   fmt.Sprintf("An unreadable board was replaced by the default; its contents were kept under %q", store.CorruptKey(BoardKey)),
		FixAction: "Inspect the backup, then delete it",
	})
	return nil
}

func (s *DoctorService) checkTheme(ctx context.Context, report *DiagnosticReport) error {
	data, err := s.kv.Get(ctx, ThemeKey)
	if kanerr.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read theme: %w", err)
	}
	var dark bool
	if err := json.Unmarshal(data, &dark); err != nil {
		report.add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeMalformedTheme,
			Message:   fmt.Sprintf("Stored theme %q is not true or false", string(data)),
			Fixable:   true,
			FixAction: "Remove the stored theme so the terminal default applies",
		})
	}
	return nil
}

func (s *DoctorService) checkGlobalConfig(report *DiagnosticReport) {
	if s.configPath == "" {
		return
	}

	data, err := os.ReadFile(s.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return // No global config is fine
		}
		report.add(Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedGlobalConfig,
			Message:  fmt.Sprintf("Cannot read global config: %v", err),
		})
		return
	}

	var raw map[string]any
	if _, err := toml.Decode(string(data), &raw); err != nil {
		report.add(Issue{
			Severity: SeverityWarning,
			Code:     CodeMalformedGlobalConfig,
			Message:  fmt.Sprintf("Invalid TOML in global config: %v", err),
		})
		return
	}

	schemaStamp, _ := raw["kanpad_schema"].(string)
	if err := version.CheckConfigSchema(s.configPath, schemaStamp); err != nil {
		report.add(Issue{
			Severity:  SeverityWarning,
			Code:      CodeGlobalSchemaOutdated,
			Message:   err.Error(),
			FixAction: fmt.Sprintf("Set kanpad_schema = %q", version.CurrentConfigSchema()),
		})
	}
}

// Fix applies the deterministic fixes in report and re-diagnoses.
// The returned report lists what remains, with Summary.Fixed set.
func (s *DoctorService) Fix(ctx context.Context, report *DiagnosticReport) (*DiagnosticReport, error) {
	var fixBoard, fixTheme bool
	for _, issue := range report.Issues {
		if !issue.Fixable {
			continue
		}
		switch issue.Code {
		case CodeDuplicateCardID, CodeWeightOutOfRange:
			fixBoard = true
		case CodeMalformedTheme:
			fixTheme = true
		}
	}

	fixed := 0
	if fixBoard {
		n, err := s.fixBoard(ctx)
		if err != nil {
			return nil, err
		}
		fixed += n
	}
	if fixTheme {
		if err := s.kv.Delete(ctx, ThemeKey); err != nil {
			return nil, fmt.Errorf("failed to remove theme: %w", err)
		}
		fixed++
	}

	next, err := s.Diagnose(ctx)
	if err != nil {
		return nil, err
	}
	next.Summary.Fixed = fixed
	return next, nil
}

// fixBoard renames duplicate card IDs and clamps weights in one write.
func (s *DoctorService) fixBoard(ctx context.Context) (int, error) {
	data, err := s.kv.Get(ctx, BoardKey)
	if err != nil {
		return 0, fmt.Errorf("failed to read board: %w", err)
	}
	var board model.Board
	if err := json.Unmarshal(data, &board); err != nil {
		return 0, fmt.Errorf("board is malformed: %w", err)
	}

	fixed := 0
	seen := make(map[string]bool)
	taken := func(candidate string) bool { return seen[candidate] || board.HasCard(candidate) }
	for i := range board.Lists {
		for j := range board.Lists[i].Cards {
			c := &board.Lists[i].Cards[j]
			if seen[c.ID] {
				c.ID = id.GenerateUnique(taken)
				fixed++
			}
			seen[c.ID] = true

			switch {
			case c.Weight < model.MinWeight:
				c.Weight = model.MinWeight
				fixed++
			case c.Weight > model.MaxWeight:
				c.Weight = model.MaxWeight
				fixed++
			}
		}
	}

	if fixed == 0 {
		return 0, nil
	}
	out, err := json.MarshalIndent(board, "", "  ")
	if err != nil {
		return 0, err
	}
	if err := s.kv.Set(ctx, BoardKey, out); err != nil {
		return 0, fmt.Errorf("failed to save board: %w", err)
	}
	return fixed, nil
}
