package store

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type failingStore struct {
	*MemoryStore
	getErr error
	setErr error
}

func (f *failingStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *failingStore) Set(ctx context.Context, key string, data []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.MemoryStore.Set(ctx, key, data)
}

type prefs struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func defaultPrefs() prefs {
	return prefs{Name: "default", Items: []string{}}
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf), &buf
}

func TestPersisted_DefaultWhenAbsent(t *testing.T) {
	p := NewPersisted(NewMemoryStore(), "prefs", defaultPrefs)

	got, status := p.Load(context.Background())
	if status != LoadedDefault {
		t.Errorf("status = %v, want %v", status, LoadedDefault)
	}
	if got.Name != "default" {
		t.Errorf("Name = %q, want default", got.Name)
	}
}

func TestPersisted_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := NewPersisted(s, "prefs", defaultPrefs)

	if err := p.Save(ctx, prefs{Name: "mine", Items: []string{"a", "a"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A second handle over the same store sees the value
	got, status := NewPersisted(s, "prefs", defaultPrefs).Load(ctx)
	if status != LoadedStored {
		t.Errorf("status = %v, want %v", status, LoadedStored)
	}
	if got.Name != "mine" || len(got.Items) != 2 {
		t.Errorf("Load = %+v", got)
	}
}

func TestPersisted_FallbackIsFresh(t *testing.T) {
	p := NewPersisted(NewMemoryStore(), "prefs", defaultPrefs)
	a, _ := p.Load(context.Background())
	a.Items = append(a.Items, "leak")
	b, _ := p.Load(context.Background())
	if len(b.Items) != 0 {
		t.Errorf("default shared state between loads: %v", b.Items)
	}
}

func TestPersisted_MalformedIsRecoveredAndBackedUp(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "prefs", []byte(`{"name": `)); err != nil {
		t.Fatal(err)
	}
	logger, buf := quietLogger()
	p := NewPersisted(s, "prefs", defaultPrefs, WithLogger(logger))

	got, status := p.Load(ctx)
	if status != LoadedRecovered {
		t.Errorf("status = %v, want %v", status, LoadedRecovered)
	}
	if got.Name != "default" {
		t.Errorf("expected default value, got %+v", got)
	}

	backup, err := s.Get(ctx, "prefs.corrupt")
	if err != nil {
		t.Fatalf("expected backup under prefs.corrupt: %v", err)
	}
	if string(backup) != `{"name": ` {
		t.Errorf("backup = %q", backup)
	}
	if !strings.Contains(buf.String(), "unreadable") {
		t.Errorf("expected a warning to be logged, got %q", buf.String())
	}
}

func TestPersisted_ValidatorRejection(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "prefs", []byte(`{"name": "x"}`)); err != nil {
		t.Fatal(err)
	}
	logger, _ := quietLogger()
	validator := func([]byte) error { return errors.New("nope") }
	p := NewPersisted(s, "prefs", defaultPrefs, WithValidator(validator), WithLogger(logger))

	if _, status := p.Load(ctx); status != LoadedRecovered {
		t.Errorf("status = %v, want %v", status, LoadedRecovered)
	}
}

func TestPersisted_BackendUnavailable(t *testing.T) {
	logger, _ := quietLogger()
	s := &failingStore{MemoryStore: NewMemoryStore(), getErr: errors.New("disk on fire")}
	p := NewPersisted(s, "prefs", defaultPrefs, WithLogger(logger))

	got, status := p.Load(context.Background())
	if status != LoadedUnavailable {
		t.Errorf("status = %v, want %v", status, LoadedUnavailable)
	}
	if got.Name != "default" {
		t.Errorf("expected default value, got %+v", got)
	}
}

func TestPersisted_SaveError(t *testing.T) {
	s := &failingStore{MemoryStore: NewMemoryStore(), setErr: errors.New("read-only")}
	p := NewPersisted(s, "prefs", defaultPrefs)

	err := p.Save(context.Background(), defaultPrefs())
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Errorf("expected wrapped save error, got %v", err)
	}
}

func TestPersisted_Bool(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	p := NewPersisted(s, "dark-mode", func() bool { return true })

	if v, status := p.Load(ctx); !v || status != LoadedDefault {
		t.Errorf("Load = %v, %v", v, status)
	}
	if err := p.Save(ctx, false); err != nil {
		t.Fatal(err)
	}
	raw, _ := s.Get(ctx, "dark-mode")
	if string(raw) != "false" {
		t.Errorf("stored %q, want %q", raw, "false")
	}
	if v, status := p.Load(ctx); v || status != LoadedStored {
		t.Errorf("Load = %v, %v", v, status)
	}
}

func TestLoadStatus_String(t *testing.T) {
	tests := map[LoadStatus]string{
		LoadedStored:      "stored",
		LoadedDefault:     "default",
		LoadedRecovered:   "recovered",
		LoadedUnavailable: "unavailable",
		LoadStatus(42):    "LoadStatus(42)",
	}
	for status, want := range tests {
		if got := status.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
