package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	kanerr "github.com/amterp/kanpad/internal/errors"
	"github.com/amterp/kanpad/internal/model"
)

// Store is a flat key-value store holding whole serialized values.
// Get returns a not-found error (kanerr.IsNotFound) for a missing key;
// Delete of a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Timestamped is implemented by stores that know when a key was last
// written.
type Timestamped interface {
	UpdatedAt(ctx context.Context, key string) (time.Time, error)
}

// GlobalStore handles global config persistence.
type GlobalStore interface {
	Load() (*model.GlobalConfig, error)
	Save(config *model.GlobalConfig) error
	EnsureExists() error
	Path() string
}

// CorruptKey is where an unreadable value under key is backed up.
func CorruptKey(key string) string {
	return key + ".corrupt"
}

// checkKey rejects keys that cannot be mapped safely onto a file name or
// object key.
func checkKey(key string) error {
	switch {
	case key == "":
		return kanerr.InvalidField("key", "must not be empty")
	case strings.HasPrefix(key, "."):
		return kanerr.InvalidField("key", fmt.Sprintf("%q must not start with a dot", key))
	case strings.ContainsAny(key, `/\`):
		return kanerr.InvalidField("key", fmt.Sprintf("%q must not contain path separators", key))
	}
	return nil
}
