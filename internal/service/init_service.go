package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amterp/kanpad/internal/config"
	kanerr "github.com/amterp/kanpad/internal/errors"
	"github.com/amterp/kanpad/internal/model"
	"github.com/amterp/kanpad/internal/schema"
	"github.com/amterp/kanpad/internal/store"
)

// InitService handles project initialization.
type InitService struct {
	globalStore store.GlobalStore
}

// NewInitService creates a new init service.
func NewInitService(globalStore store.GlobalStore) *InitService {
	return &InitService{globalStore: globalStore}
}

// Initialize creates a .kanpad data root in dir, seeds the default board
// into the configured backend when it holds none, and makes sure the global
// config file exists. It returns the new data root.
func (s *InitService) Initialize(ctx context.Context, dir string, storage model.StorageConfig) (string, error) {
	root := filepath.Join(dir, config.DefaultDataDir)
	if info, err := os.Stat(root); err == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("%s exists and is not a directory", root)
		}
		return "", kanerr.AlreadyExists("project", root)
	}

	if err := os.MkdirAll(root, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	kv, err := store.Open(ctx, storage, config.NewPaths(root))
	if err != nil {
		return "", err
	}
	defer kv.Close()

	board := store.NewPersisted(kv, BoardKey, model.DefaultBoard, store.WithValidator(schema.ValidateBoard))
	if existing, status := board.Load(ctx); status == store.LoadedDefault {
		if err := board.Save(ctx, existing); err != nil {
			return "", fmt.Errorf("failed to create default board: %w", err)
		}
	}

	if err := s.globalStore.EnsureExists(); err != nil {
		return "", fmt.Errorf("failed to create global config: %w", err)
	}
	return root, nil
}
