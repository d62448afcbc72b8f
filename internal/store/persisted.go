package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	kanerr "github.com/amterp/kanpad/internal/errors"
)

// LoadStatus tells a caller where a loaded value came from.
type LoadStatus int

const (
	// LoadedStored means the stored value was read and decoded.
	LoadedStored LoadStatus = iota
	// LoadedDefault means nothing was stored under the key.
	LoadedDefault
	// LoadedRecovered means the stored value was unreadable and the default
	// was used instead. The raw bytes were backed up under CorruptKey.
	LoadedRecovered
	// LoadedUnavailable means the backend could not be read.
	LoadedUnavailable
)

func (s LoadStatus) String() string {
	switch s {
	case LoadedStored:
		return "stored"
	case LoadedDefault:
		return "default"
	case LoadedRecovered:
		return "recovered"
	case LoadedUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

type persistedOptions struct {
	validate func([]byte) error
	logger   *log.Logger
}

// PersistedOption configures a Persisted value.
type PersistedOption func(*persistedOptions)

// WithValidator runs validate on the raw bytes before decoding. A failure is
// treated like malformed JSON.
func WithValidator(validate func([]byte) error) PersistedOption {
	return func(o *persistedOptions) { o.validate = validate }
}

// WithLogger sets the logger used for recovery warnings.
func WithLogger(logger *log.Logger) PersistedOption {
	return func(o *persistedOptions) { o.logger = logger }
}

// Persisted is a value of type T kept under a fixed key as JSON.
// Load never fails: every problem falls back to the default value.
type Persisted[T any] struct {
	store    Store
	key      string
	fallback func() T
	opts     persistedOptions
}

// NewPersisted binds a value to key in s. fallback builds a fresh default on
// every call so callers never share mutable state through it.
func NewPersisted[T any](s Store, key string, fallback func() T, opts ...PersistedOption) *Persisted[T] {
	o := persistedOptions{logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Persisted[T]{store: s, key: key, fallback: fallback, opts: o}
}

// Key returns the storage key.
func (p *Persisted[T]) Key() string {
	return p.key
}

// Load reads the stored value, or the default with a status explaining why.
func (p *Persisted[T]) Load(ctx context.Context) (T, LoadStatus) {
	data, err := p.store.Get(ctx, p.key)
	if err != nil {
		if kanerr.IsNotFound(err) {
			return p.fallback(), LoadedDefault
		}
		p.opts.logger.Warn("storage unavailable, using default", "key", p.key, "err", err)
		return p.fallback(), LoadedUnavailable
	}

	value, err := p.decode(data)
	if err != nil {
		p.backupCorrupt(ctx, data, err)
		return p.fallback(), LoadedRecovered
	}
	return value, LoadedStored
}

// Save serialises v and stores it under the key.
func (p *Persisted[T]) Save(ctx context.Context, v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", p.key, err)
	}
	if err := p.store.Set(ctx, p.key, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", p.key, err)
	}
	return nil
}

func (p *Persisted[T]) decode(data []byte) (T, error) {
	var value T
	if p.opts.validate != nil {
		if err := p.opts.validate(data); err != nil {
			return value, err
		}
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("malformed JSON: %w", err)
	}
	return value, nil
}

// backupCorrupt keeps a copy of unreadable bytes so a bad write can be inspected
// (kanpad doctor) instead of being silently overwritten.
func (p *Persisted[T]) backupCorrupt(ctx context.Context, data []byte, cause error) {
	backup := CorruptKey(p.key)
	if err := p.store.Set(ctx, backup, data); err != nil {
		p.opts.logger.Warn("stored value unreadable, using default; backup failed",
			"key", p.key, "err", cause, "backupErr", err)
		return
	}
	p.opts.logger.Warn("stored value unreadable, using default",
		"key", p.key, "err", cause, "backup", backup)
}
