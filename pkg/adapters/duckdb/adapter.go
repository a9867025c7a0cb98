// Package duckdb provides a DuckDB database adapter for snipsql.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/snipsql/pkg/adapters/duckdb"
package duckdb

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/snipsql/pkg/adapter"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Adapter implements the adapter.Adapter interface for DuckDB.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new DuckDB adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "duckdb"
}

// Connect establishes a connection to DuckDB.
// Use ":memory:" or an empty path for an in-memory database. Entries in
// cfg.Options are applied as session settings (e.g. threads, memory_limit).
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	a.Logger.Debug("connecting to duckdb", slog.String("path", path))

	if err := a.Open(ctx, "duckdb", path, cfg); err != nil {
		return err
	}

	for _, stmt := range settingStatements(cfg.Options) {
		if err := a.Exec(ctx, stmt); err != nil {
			_ = a.Close()
			return fmt.Errorf("failed to apply duckdb setting: %w", err)
		}
	}
	return nil
}

// Version returns the DuckDB library version.
func (a *Adapter) Version(ctx context.Context) (string, error) {
	return a.QueryVersion(ctx, "SELECT version()")
}

// settingStatements turns options into SET statements, sorted by key.
func settingStatements(options map[string]string) []string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	stmts := make([]string, 0, len(keys))
	for _, k := range keys {
		value := strings.ReplaceAll(options[k], "'", "''")
		stmts = append(stmts, fmt.Sprintf("SET %s = '%s'", k, value))
	}
	return stmts
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
