package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/amterp/kanpad/internal/config"
	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/version"
)

// FileGlobalStore implements GlobalStore using a TOML file.
type FileGlobalStore struct {
	path string
}

// NewGlobalStore creates a global store at the default location.
func NewGlobalStore() *FileGlobalStore {
	return NewGlobalStoreAt(config.GlobalConfigPath())
}

// NewGlobalStoreAt creates a global store backed by the file at path.
func NewGlobalStoreAt(path string) *FileGlobalStore {
	return &FileGlobalStore{path: path}
}

// Path returns the config file location.
func (s *FileGlobalStore) Path() string {
	return s.path
}

// Load reads the global config from disk.
// Returns an empty config if the file doesn't exist.
func (s *FileGlobalStore) Load() (*model.GlobalConfig, error) {
	if s.path == "" {
		return &model.GlobalConfig{}, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &model.GlobalConfig{}, nil
		}
		return nil, err
	}

	var cfg model.GlobalConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", s.path, err)
	}

	// Strict version validation (only if file exists)
	if err := version.CheckConfigSchema(s.path, cfg.KanpadSchema); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the global config to disk.
func (s *FileGlobalStore) Save(cfg *model.GlobalConfig) error {
	// Stamp current schema version
	cfg.KanpadSchema = version.CurrentConfigSchema()

	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the global config file if it doesn't exist.
func (s *FileGlobalStore) EnsureExists() error {
	if s.path == "" {
		return nil
	}

	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return s.Save(&model.GlobalConfig{})
	}
	return nil
}
