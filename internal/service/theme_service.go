package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/amterp/kanpad/internal/store"
)

// ThemeService holds the dark-mode preference.
type ThemeService struct {
	mu        sync.Mutex
	dark      bool
	persisted *store.Persisted[bool]
	listeners []func(bool)
	logger    *log.Logger
}

// DetectDarkBackground reports whether the terminal has a dark background.
func DetectDarkBackground() bool {
	return lipgloss.HasDarkBackground()
}

// NewThemeService creates a theme service over kv. detect supplies the
// default when no preference is stored; nil means DetectDarkBackground.
func NewThemeService(kv store.Store, detect func() bool, logger *log.Logger) *ThemeService {
	if detect == nil {
		detect = DetectDarkBackground
	}
	if logger == nil {
		logger = log.Default()
	}
	return &ThemeService{
		persisted: store.NewPersisted(kv, ThemeKey, detect, store.WithLogger(logger)),
		logger:    logger,
	}
}

// Load reads the stored preference, falling back to the detected default.
func (s *ThemeService) Load(ctx context.Context) store.LoadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	dark, status := s.persisted.Load(ctx)
	s.dark = dark
	return status
}

// Dark reports whether dark mode is on.
func (s *ThemeService) Dark() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dark
}

// Subscribe registers fn to receive theme changes. Listeners run while the
// service is locked and must not call back into it.
func (s *ThemeService) Subscribe(fn func(bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Set stores the preference. It is persisted even when unchanged so that a
// detected default becomes explicit; subscribers hear only real changes.
// A save failure still updates the in-memory value.
func (s *ThemeService) Set(ctx context.Context, dark bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(ctx, dark)
}

// Toggle flips the preference and returns the new value.
func (s *ThemeService) Toggle(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := !s.dark
	return next, s.set(ctx, next)
}

// Reload re-reads the stored preference and reports whether it changed.
// The read happens under the lock, like every other operation.
func (s *ThemeService) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dark, status := s.persisted.Load(ctx)

	switch status {
	case store.LoadedUnavailable:
		return false, fmt.Errorf("theme storage unavailable")
	case store.LoadedRecovered:
		return false, nil
	}
	if dark == s.dark {
		return false, nil
	}
	s.dark = dark
	s.notify()
	return true, nil
}

func (s *ThemeService) set(ctx context.Context, dark bool) error {
	changed := dark != s.dark
	s.dark = dark
	if changed {
		s.notify()
	}
	if err := s.persisted.Save(ctx, dark); err != nil {
		s.logger.Error("theme not persisted; continuing in memory", "err", err)
		return err
	}
	return nil
}

func (s *ThemeService) notify() {
	for _, fn := range s.listeners {
		fn(s.dark)
	}
}
