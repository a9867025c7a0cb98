// Package config provides shared configuration defaults and target helpers
// for snipsql. It is decoupled from CLI concerns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/snipsql/pkg/adapter"
	"github.com/leapstack-labs/snipsql/pkg/core"
	"github.com/leapstack-labs/snipsql/pkg/dialect"
)

// Default configuration values.
const (
	DefaultStateFile = ".snipsql/session.db"
	DefaultDialect   = "ansi"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel  = ""     // Derived from --verbose when empty
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "snipsql.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "snipsql.yml"

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir, at most maxLevels directories, to
// find a directory containing a config file. Returns "" if not found.
func FindProjectRoot(startDir string, maxLevels int) string {
	dir := startDir
	for i := 0; i < maxLevels; i++ {
		if FindConfigFile(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
	return ""
}

// DefaultSchemaForType returns the default schema for a database type.
// It looks up the dialect in the registry; if not found, returns "main" as fallback.
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok && d.DefaultSchema != "" {
		return d.DefaultSchema
	}
	return "main"
}

// DefaultPortForType returns the well-known port of a network database type, or 0.
func DefaultPortForType(dbType string) int {
	switch strings.ToLower(dbType) {
	case "postgres":
		return 5432
	case "sqlserver":
		return 1433
	default:
		return 0
	}
}

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}
	t.Type = strings.ToLower(t.Type)

	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}
	if t.Port == 0 {
		t.Port = DefaultPortForType(t.Type)
	}
}

// ValidateTarget checks that the target names a registered adapter and, when
// set, a registered dialect.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil {
		return nil
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(t.Type) {
		return &adapter.UnknownAdapterError{Type: t.Type, Available: adapter.ListAdapters()}
	}
	if t.Dialect != "" {
		if _, err := dialect.Lookup(t.Dialect); err != nil {
			return err
		}
	}
	return nil
}
