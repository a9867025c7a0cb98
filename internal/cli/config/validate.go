package config

import (
	"fmt"
	"log/slog"
	"strings"

	sharedcfg "github.com/leapstack-labs/snipsql/internal/config"
	"github.com/leapstack-labs/snipsql/pkg/dialect"
)

var validOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	if _, err := dialect.Lookup(c.Dialect); err != nil {
		return fmt.Errorf("invalid dialect: %w", err)
	}
	if !contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	if _, err := ParseLogLevel(c.LogLevel, c.Verbose); err != nil {
		return err
	}
	if err := sharedcfg.ValidateTarget(c.Target); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	return nil
}

// ParseLogLevel maps log_level to a slog level. An empty level means debug
// when verbose is set and warn otherwise.
func ParseLogLevel(level string, verbose bool) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "":
		if verbose {
			return slog.LevelDebug, nil
		}
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log_level %q (expected debug, info, warn or error)", level)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
