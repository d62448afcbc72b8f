package service

import (
	"context"
	"testing"
	"time"

	"github.com/amterp/kanpad/internal/store"
)

func TestThemeService_DefaultFromDetector(t *testing.T) {
	tests := []struct {
		name     string
		detected bool
	}{
		{"dark terminal", true},
		{"light terminal", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewThemeService(store.NewMemoryStore(), func() bool { return tt.detected }, quietLogger())
			if status := svc.Load(context.Background()); status != store.LoadedDefault {
				t.Errorf("status = %v, want %v", status, store.LoadedDefault)
			}
			if svc.Dark() != tt.detected {
				t.Errorf("Dark() = %v, want %v", svc.Dark(), tt.detected)
			}
		})
	}
}

func TestThemeService_StoredWinsOverDetector(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	if err := kv.Set(ctx, ThemeKey, []byte("false")); err != nil {
		t.Fatal(err)
	}

	svc := NewThemeService(kv, func() bool { return true }, quietLogger())
	svc.Load(ctx)
	if svc.Dark() {
		t.Error("stored light preference should win")
	}
}

func TestThemeService_ToggleAndSet(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	svc := NewThemeService(kv, func() bool { return false }, quietLogger())
	svc.Load(ctx)

	var events []bool
	svc.Subscribe(func(dark bool) { events = append(events, dark) })

	dark, err := svc.Toggle(ctx)
	if err != nil || !dark {
		t.Fatalf("Toggle = %v, %v", dark, err)
	}
	raw, _ := kv.Get(ctx, ThemeKey)
	if string(raw) != "true" {
		t.Errorf("stored %q, want true", raw)
	}

	// Setting the same value persists but does not notify
	if err := svc.Set(ctx, true); err != nil {
		t.Fatal(err)
	}
	if err := svc.Set(ctx, false); err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0] != true || events[1] != false {
		t.Errorf("events = %v, want [true false]", events)
	}
}

func TestThemeService_SetPinsDetectedDefault(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	svc := NewThemeService(kv, func() bool { return true }, quietLogger())
	svc.Load(ctx)

	if err := svc.Set(ctx, true); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Get(ctx, ThemeKey); err != nil {
		t.Errorf("explicit Set should persist: %v", err)
	}
}

func TestThemeService_SaveFailure(t *testing.T) {
	ctx := context.Background()
	svc := NewThemeService(&brokenStore{store.NewMemoryStore()}, func() bool { return false }, quietLogger())
	svc.Load(ctx)

	if _, err := svc.Toggle(ctx); err == nil {
		t.Error("expected save error")
	}
	if !svc.Dark() {
		t.Error("in-memory value should still flip")
	}
}

func TestThemeService_Reload(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	svc := NewThemeService(kv, func() bool { return false }, quietLogger())
	svc.Load(ctx)

	if err := kv.Set(ctx, ThemeKey, []byte("true")); err != nil {
		t.Fatal(err)
	}
	changed, err := svc.Reload(ctx)
	if err != nil || !changed || !svc.Dark() {
		t.Errorf("Reload = %v, %v; Dark = %v", changed, err, svc.Dark())
	}

	changed, err = svc.Reload(ctx)
	if err != nil || changed {
		t.Errorf("second Reload = %v, %v", changed, err)
	}
}

func TestThemeService_ReloadDuringToggle(t *testing.T) {
	ctx := context.Background()
	kv := newPausingStore()
	svc := NewThemeService(kv, func() bool { return false }, quietLogger())
	svc.Load(ctx)
	if err := svc.Set(ctx, false); err != nil {
		t.Fatal(err)
	}

	kv.pauseNextGet()
	reloaded := make(chan error, 1)
	go func() {
		_, err := svc.Reload(ctx)
		reloaded <- err
	}()
	<-kv.read

	toggled := make(chan bool, 1)
	go func() {
		dark, err := svc.Toggle(ctx)
		if err != nil {
			t.Error(err)
		}
		toggled <- dark
	}()

	time.Sleep(50 * time.Millisecond)
	close(kv.release)

	if err := <-reloaded; err != nil {
		t.Fatal(err)
	}
	if !<-toggled {
		t.Fatal("Toggle should turn dark mode on")
	}

	stored, _ := store.NewPersisted(kv.MemoryStore, ThemeKey, func() bool { return false }).Load(ctx)
	if !svc.Dark() || !stored {
		t.Errorf("Dark = %v, stored = %v; the toggle should survive the reload", svc.Dark(), stored)
	}
}
