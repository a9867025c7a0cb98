// Package core defines the shared language of the snipsql system.
//
// This package contains:
//   - Dialect configuration (DialectConfig, IdentifierConfig)
//   - Connection configuration (TargetConfig, AdapterConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
