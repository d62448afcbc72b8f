package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amterp/kanpad/internal/config"
	"github.com/amterp/kanpad/internal/model"
)

// ErrDataDirNotDirectory indicates storage.data_dir points at something other
// than a directory.
var ErrDataDirNotDirectory = errors.New("configured data_dir is not a directory")

// Source records how the data root was chosen.
type Source string

const (
	SourceConfig  Source = "config"  // storage.data_dir or KANPAD_DATA_DIR
	SourceProject Source = "project" // nearest ancestor .kanpad/
	SourceUser    Source = "user"    // per-user default under ~/.config/kanpad
)

// Result contains the discovered data root.
type Result struct {
	DataRoot    string // Absolute path holding kanpad data
	ProjectRoot string // Directory containing .kanpad/, empty unless Source is SourceProject
	Source      Source
}

// Discover resolves the data root starting from the working directory.
func Discover(globalCfg *model.GlobalConfig) (*Result, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return DiscoverFrom(cwd, globalCfg)
}

// DiscoverFrom resolves the data root starting from a given directory.
// Priority:
// 1. storage.data_dir from config (relative paths resolve against startDir)
// 2. Nearest directory at or above startDir containing .kanpad/
// 3. The per-user default data root
func DiscoverFrom(startDir string, globalCfg *model.GlobalConfig) (*Result, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if globalCfg != nil && globalCfg.Storage.DataDir != "" {
		dataDir := globalCfg.Storage.DataDir
		if !filepath.IsAbs(dataDir) {
			dataDir = filepath.Join(absStart, dataDir)
		}
		if info, err := os.Stat(dataDir); err == nil && !info.IsDir() {
			return nil, fmt.Errorf("%w: %s", ErrDataDirNotDirectory, dataDir)
		}
		return &Result{DataRoot: dataDir, Source: SourceConfig}, nil
	}

	if projectRoot := findProjectRoot(absStart); projectRoot != "" {
		return &Result{
			DataRoot:    filepath.Join(projectRoot, config.DefaultDataDir),
			ProjectRoot: projectRoot,
			Source:      SourceProject,
		}, nil
	}

	return &Result{DataRoot: config.DefaultDataRoot(), Source: SourceUser}, nil
}

func findProjectRoot(dir string) string {
	for {
		info, err := os.Stat(filepath.Join(dir, config.DefaultDataDir))
		if err == nil && info.IsDir() {
			return dir
		}

		// Move up to parent
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}
