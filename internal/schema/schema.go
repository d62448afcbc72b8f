// Package schema validates persisted board documents against an embedded
// JSON Schema before they are decoded.
package schema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	kanerr "github.com/amterp/kanpad/internal/errors"
)

const boardSchemaURL = "https://kanpad.local/schemas/board.json"

//go:embed board.schema.json
var boardSchemaJSON []byte

var (
	boardSchemaOnce sync.Once
	boardSchema     *jsonschema.Schema
	boardSchemaErr  error
)

// Issue is a single schema violation.
type Issue struct {
	Path    string // dotted instance path, empty for the document root
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		if issue.Path == "" {
			parts = append(parts, issue.Message)
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", issue.Path, issue.Message))
		}
	}
	return "board does not match schema: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return kanerr.ErrInvalidInput
}

func compiled() (*jsonschema.Schema, error) {
	boardSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(boardSchemaURL, bytes.NewReader(boardSchemaJSON)); err != nil {
			boardSchemaErr = fmt.Errorf("failed to load board schema: %w", err)
			return
		}
		boardSchema, boardSchemaErr = compiler.Compile(boardSchemaURL)
	})
	return boardSchema, boardSchemaErr
}

// ValidateBoard checks raw board JSON against the board schema.
// Malformed JSON and schema violations are both reported as *ValidationError.
func ValidateBoard(data []byte) error {
	s, err := compiled()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return &ValidationError{Issues: []Issue{{Message: fmt.Sprintf("malformed JSON: %v", err)}}}
	}

	if err := s.Validate(doc); err != nil {
		ve, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return err
		}
		result := &ValidationError{}
		collectIssues(result, ve)
		return result
	}
	return nil
}

func collectIssues(result *ValidationError, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Issues = append(result.Issues, Issue{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectIssues(result, cause)
	}
}

// pointerToPath turns "/lists/0/cards/2/weight" into "lists[0].cards[2].weight".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for i, seg := range strings.Split(ptr, "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		if isIndex(seg) {
			b.WriteString("[" + seg + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
