package store

import (
	"context"
	"fmt"

	"github.com/amterp/kanpad/internal/config"
	kanerr "github.com/amterp/kanpad/internal/errors"
	"github.com/amterp/kanpad/internal/model"
)

// Open creates the Store selected by cfg.Backend. File and sqlite backends
// live under paths; an empty backend means file.
func Open(ctx context.Context, cfg model.StorageConfig, paths *config.Paths) (Store, error) {
	switch cfg.Backend {
	case "", model.BackendFile:
		return NewFileStore(paths.StoreDir())
	case model.BackendSQLite:
		return OpenSQLite(paths.SQLitePath())
	case model.BackendS3:
		return OpenS3(ctx, cfg.S3)
	case model.BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, kanerr.InvalidField("storage.backend",
			fmt.Sprintf("unknown backend %q (expected file, sqlite, s3 or memory)", cfg.Backend))
	}
}
