package model

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// GlobalConfig represents the user's kanpad configuration.
// Stored at ~/.config/kanpad/config.toml; environment variables override it.
// Schema changes require a version bump, see internal/version/version.go.
type GlobalConfig struct {
	KanpadSchema string        `toml:"kanpad_schema"`
	Editor       string        `toml:"editor,omitempty" env:"KANPAD_EDITOR"`
	Storage      StorageConfig `toml:"storage"`
	Server       ServerConfig  `toml:"server"`
	Log          LogConfig     `toml:"log"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Backend string   `toml:"backend,omitempty" env:"KANPAD_STORAGE"`
	DataDir string   `toml:"data_dir,omitempty" env:"KANPAD_DATA_DIR"` // Overrides discovery
	S3      S3Config `toml:"s3,omitempty"`
}

// S3Config configures the S3-compatible backend.
type S3Config struct {
	Endpoint     string `toml:"endpoint,omitempty" env:"KANPAD_S3_ENDPOINT"`
	Bucket       string `toml:"bucket,omitempty" env:"KANPAD_S3_BUCKET"`
	Region       string `toml:"region,omitempty" env:"KANPAD_S3_REGION"`
	AccessKey    string `toml:"access_key,omitempty" env:"KANPAD_S3_ACCESS_KEY"`
	SecretKey    string `toml:"secret_key,omitempty" env:"KANPAD_S3_SECRET_KEY"`
	Prefix       string `toml:"prefix,omitempty" env:"KANPAD_S3_PREFIX"`
	UsePathStyle bool   `toml:"use_path_style,omitempty" env:"KANPAD_S3_PATH_STYLE"`
}

// ServerConfig configures `kanpad serve`.
type ServerConfig struct {
	Port int `toml:"port,omitempty" env:"KANPAD_PORT"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `toml:"level,omitempty" env:"KANPAD_LOG_LEVEL"`   // debug, info, warn, error
	Format string `toml:"format,omitempty" env:"KANPAD_LOG_FORMAT"` // text, json, logfmt
}

// ApplyDefaults fills unset fields with their defaults.
func (g *GlobalConfig) ApplyDefaults() {
	if g.Storage.Backend == "" {
		g.Storage.Backend = BackendFile
	}
	if g.Storage.S3.Region == "" {
		g.Storage.S3.Region = "us-east-1"
	}
	if g.Server.Port == 0 {
		g.Server.Port = 3000
	}
	if g.Log.Level == "" {
		g.Log.Level = "info"
	}
	if g.Log.Format == "" {
		g.Log.Format = "text"
	}
}
