package config

import (
	"os"
	"path/filepath"
)

const (
	DefaultDataDir  = ".kanpad"
	StoreDir        = "store"
	SQLiteFileName  = "kanpad.db"
	ConfigFileName  = "config.toml"
	GlobalConfigDir = ".config/kanpad"
)

// Paths provides path resolution for kanpad data files.
type Paths struct {
	dataRoot string
}

// NewPaths creates a new Paths resolver rooted at dataRoot.
func NewPaths(dataRoot string) *Paths {
	return &Paths{dataRoot: dataRoot}
}

// DataRoot returns the root directory for kanpad data.
func (p *Paths) DataRoot() string {
	return p.dataRoot
}

// StoreDir returns the directory holding one JSON file per persisted key.
func (p *Paths) StoreDir() string {
	return filepath.Join(p.dataRoot, StoreDir)
}

// SQLitePath returns the database file used by the sqlite backend.
func (p *Paths) SQLitePath() string {
	return filepath.Join(p.dataRoot, SQLiteFileName)
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	dir := GlobalConfigDirPath()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ConfigFileName)
}

// GlobalConfigDirPath returns the directory for global config.
func GlobalConfigDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, GlobalConfigDir)
}

// DefaultDataRoot is used when no project .kanpad/ directory is found.
// Board data then lives next to the global config.
func DefaultDataRoot() string {
	return GlobalConfigDirPath()
}
