// Package sqlite provides a SQLite database adapter for snipsql, built on
// the pure Go modernc.org/sqlite driver.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/snipsql/pkg/adapters/sqlite"
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sort"

	"github.com/leapstack-labs/snipsql/pkg/adapter"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "sqlite"
}

// Connect opens the database file at cfg.Path (":memory:" when empty).
// Options become pragmas, e.g. {"busy_timeout": "5000"}.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildDSN(cfg)
	a.Logger.Debug("connecting to sqlite", slog.String("dsn", dsn))
	return a.Open(ctx, "sqlite", dsn, cfg)
}

// Version returns the SQLite library version.
func (a *Adapter) Version(ctx context.Context) (string, error) {
	return a.QueryVersion(ctx, "SELECT sqlite_version()")
}

// buildDSN appends options as _pragma query parameters, sorted by name.
func buildDSN(cfg adapter.Config) string {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}
	if len(cfg.Options) == 0 {
		return path
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", k, cfg.Options[k]))
	}
	return "file:" + path + "?" + q.Encode()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
