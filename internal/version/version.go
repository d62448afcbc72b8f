package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the kanpad release, overridden at build time via -ldflags.
var Version = "dev"

// CurrentConfigVersion is the config file schema. Bump it when making
// breaking changes to model.GlobalConfig and add an entry to MinKanpadVersion.
const CurrentConfigVersion = 1

// ConfigSchemaPrefix prefixes the kanpad_schema value in config.toml.
const ConfigSchemaPrefix = "config/"

// MinKanpadVersion maps schema identifiers to the minimum kanpad version required.
// Used to provide helpful upgrade messages when encountering newer schemas.
var MinKanpadVersion = map[string]string{
	"config/1": "0.1.0",
}

// FormatConfigSchema creates a config schema string from a version number.
// Example: FormatConfigSchema(1) returns "config/1"
func FormatConfigSchema(v int) string {
	return fmt.Sprintf("%s%d", ConfigSchemaPrefix, v)
}

// CurrentConfigSchema returns the current config schema string.
func CurrentConfigSchema() string {
	return FormatConfigSchema(CurrentConfigVersion)
}

// ParseConfigVersion extracts the version number from a config schema string.
func ParseConfigVersion(schema string) (int, error) {
	if !strings.HasPrefix(schema, ConfigSchemaPrefix) {
		return 0, fmt.Errorf("invalid config schema format: %q (expected %sN)", schema, ConfigSchemaPrefix)
	}
	versionStr := strings.TrimPrefix(schema, ConfigSchemaPrefix)
	v, err := strconv.Atoi(versionStr)
	if err != nil {
		return 0, fmt.Errorf("invalid config schema version: %q", versionStr)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid config schema version: %d (must be >= 1)", v)
	}
	return v, nil
}

// CheckConfigSchema validates the kanpad_schema stamp of a loaded config file.
func CheckConfigSchema(path, found string) error {
	if found == "" {
		return MissingConfigSchema(path)
	}
	v, err := ParseConfigVersion(found)
	if err != nil || v != CurrentConfigVersion {
		return InvalidConfigSchema(path, found)
	}
	return nil
}
