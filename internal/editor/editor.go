package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/amterp/kanpad/internal/model"
)

// Editor handles editor resolution and invocation.
type Editor struct {
	globalConfig *model.GlobalConfig
	getenv       func(string) string
}

// NewEditor creates a new Editor.
func NewEditor(globalConfig *model.GlobalConfig) *Editor {
	return &Editor{globalConfig: globalConfig, getenv: os.Getenv}
}

// Resolve returns the editor command to use.
// Order: global config (or KANPAD_EDITOR) > $VISUAL > $EDITOR > vi
func (e *Editor) Resolve() string {
	if e.globalConfig != nil && e.globalConfig.Editor != "" {
		return e.globalConfig.Editor
	}
	for _, name := range []string{"VISUAL", "EDITOR"} {
		if editor := e.getenv(name); editor != "" {
			return editor
		}
	}
	return "vi"
}

// Edit opens the editor on a temp file holding content and returns what the
// user saved. The editor command may carry arguments ("code --wait").
func (e *Editor) Edit(content string) (string, error) {
	tmpFile, err := os.CreateTemp("", "kanpad-card-*.md")
	if err != nil {
		return "", err
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.WriteString(content); err != nil {
		tmpFile.Close()
		return "", err
	}
	tmpFile.Close()

	parts := strings.Fields(e.Resolve())
	if len(parts) == 0 {
		return "", fmt.Errorf("no editor configured")
	}
	cmd := exec.Command(parts[0], append(parts[1:], tmpPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", parts[0], err)
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(edited), "\n"), nil
}
