package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/kanpad/internal/model"
)

func TestDiscoverFrom_SelfDiscoverable(t *testing.T) {
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, "myproject")
	if err := os.MkdirAll(filepath.Join(projectDir, ".kanpad"), 0755); err != nil {
		t.Fatal(err)
	}

	result, err := DiscoverFrom(projectDir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != SourceProject {
		t.Errorf("expected source %q, got %q", SourceProject, result.Source)
	}
	if result.ProjectRoot != projectDir {
		t.Errorf("expected ProjectRoot %q, got %q", projectDir, result.ProjectRoot)
	}
	if want := filepath.Join(projectDir, ".kanpad"); result.DataRoot != want {
		t.Errorf("expected DataRoot %q, got %q", want, result.DataRoot)
	}
}

func TestDiscoverFrom_WalksUpDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, "myproject")
	subDir := filepath.Join(projectDir, "src", "pkg", "deep")
	if err := os.MkdirAll(filepath.Join(projectDir, ".kanpad"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	result, err := DiscoverFrom(subDir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProjectRoot != projectDir {
		t.Errorf("expected ProjectRoot %q, got %q", projectDir, result.ProjectRoot)
	}
}

func TestDiscoverFrom_NestedProjects(t *testing.T) {
	tmpDir := t.TempDir()
	outer := filepath.Join(tmpDir, "outer")
	inner := filepath.Join(outer, "inner")
	for _, dir := range []string{filepath.Join(outer, ".kanpad"), filepath.Join(inner, ".kanpad")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	result, err := DiscoverFrom(inner, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ProjectRoot != inner {
		t.Errorf("nearest project should win: got %q, want %q", result.ProjectRoot, inner)
	}
}

func TestDiscoverFrom_FileNamedKanpadIgnored(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	projectDir := filepath.Join(tmpDir, "proj")
	if err := os.MkdirAll(projectDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, ".kanpad"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := DiscoverFrom(projectDir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source == SourceProject && result.ProjectRoot == projectDir {
		t.Error("a regular file named .kanpad should not count as a project")
	}
}

func TestDiscoverFrom_ConfigDataDirTakesPrecedence(t *testing.T) {
	tmpDir := t.TempDir()
	projectDir := filepath.Join(tmpDir, "myproject")
	if err := os.MkdirAll(filepath.Join(projectDir, ".kanpad"), 0755); err != nil {
		t.Fatal(err)
	}
	custom := filepath.Join(tmpDir, "elsewhere")

	cfg := &model.GlobalConfig{Storage: model.StorageConfig{DataDir: custom}}
	result, err := DiscoverFrom(projectDir, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != SourceConfig {
		t.Errorf("expected source %q, got %q", SourceConfig, result.Source)
	}
	if result.DataRoot != custom {
		t.Errorf("expected DataRoot %q, got %q", custom, result.DataRoot)
	}
}

func TestDiscoverFrom_RelativeDataDir(t *testing.T) {
	tmpDir := t.TempDir()
	cfg := &model.GlobalConfig{Storage: model.StorageConfig{DataDir: "data"}}

	result, err := DiscoverFrom(tmpDir, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(tmpDir, "data"); result.DataRoot != want {
		t.Errorf("expected DataRoot %q, got %q", want, result.DataRoot)
	}
}

func TestDiscoverFrom_DataDirIsFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &model.GlobalConfig{Storage: model.StorageConfig{DataDir: file}}
	_, err := DiscoverFrom(tmpDir, cfg)
	if !errors.Is(err, ErrDataDirNotDirectory) {
		t.Errorf("expected ErrDataDirNotDirectory, got %v", err)
	}
}

func TestDiscoverFrom_FallsBackToUserDefault(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	workDir := t.TempDir()

	result, err := DiscoverFrom(workDir, &model.GlobalConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Source != SourceUser {
		t.Errorf("expected source %q, got %q", SourceUser, result.Source)
	}
	if want := filepath.Join(home, ".config", "kanpad"); result.DataRoot != want {
		t.Errorf("expected DataRoot %q, got %q", want, result.DataRoot)
	}
}
