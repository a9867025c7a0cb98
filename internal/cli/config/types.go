// Package config provides configuration management for the snipsql CLI.
//
// Shared defaults and target helpers live in internal/config; this package
// layers the CLI file, environment and flag sources on top of them.
package config

import (
	sharedcfg "github.com/leapstack-labs/snipsql/internal/config"
	"github.com/leapstack-labs/snipsql/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
// This allows CLI code to use config.TargetConfig without importing pkg/core.
type TargetConfig = core.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	StatePath    string        `koanf:"state_path"`
	Dialect      string        `koanf:"dialect"`
	Verbose      bool          `koanf:"verbose"`
	LogLevel     string        `koanf:"log_level"`
	OutputFormat string        `koanf:"output"`
	Target       *TargetConfig `koanf:"target"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultStateFile = sharedcfg.DefaultStateFile
	DefaultDialect   = sharedcfg.DefaultDialect
	DefaultOutput    = sharedcfg.DefaultOutput
)
