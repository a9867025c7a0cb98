// Package postgres provides a PostgreSQL database adapter for snipsql.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/snipsql/pkg/adapters/postgres"
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/leapstack-labs/snipsql/pkg/adapter"
)

// Adapter implements the adapter.Adapter interface for PostgreSQL.
type Adapter struct {
	adapter.BaseSQLAdapter

	// connName is the pgx stdlib registration of the open connection config.
	connName string
}

// New creates a new PostgreSQL adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "postgres"
}

// Connect establishes a connection to PostgreSQL through the pgx stdlib driver.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	connCfg, err := pgx.ParseConfig(buildPostgresDSN(cfg))
	if err != nil {
		return fmt.Errorf("invalid postgres connection settings: %w", err)
	}

	a.Logger.Debug("connecting to postgres",
		slog.String("host", connCfg.Host),
		slog.String("database", connCfg.Database))

	name := stdlib.RegisterConnConfig(connCfg)
	if err := a.Open(ctx, "pgx", name, cfg); err != nil {
		stdlib.UnregisterConnConfig(name)
		return err
	}
	a.connName = name
	return nil
}

// Close closes the connection and releases its registered connection config.
func (a *Adapter) Close() error {
	err := a.BaseSQLAdapter.Close()
	if a.connName != "" {
		stdlib.UnregisterConnConfig(a.connName)
		a.connName = ""
	}
	return err
}

// Version returns the PostgreSQL server version string.
func (a *Adapter) Version(ctx context.Context) (string, error) {
	return a.QueryVersion(ctx, "SELECT version()")
}

// buildPostgresDSN constructs a PostgreSQL connection string.
// Options other than sslmode are appended as extra key=value pairs in key order.
func buildPostgresDSN(cfg adapter.Config) string {
	// Build key=value format: host=localhost port=5432 user=postgres ...
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 5432
	}

	sslmode := "disable"
	if mode, ok := cfg.Options["sslmode"]; ok {
		sslmode = mode
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s",
		host, port, quoteValue(cfg.Database), quoteValue(sslmode))

	if cfg.Username != "" {
		dsn += " user=" + quoteValue(cfg.Username)
	}
	if cfg.Password != "" {
		dsn += " password=" + quoteValue(cfg.Password)
	}
	if cfg.Schema != "" {
		dsn += " search_path=" + quoteValue(cfg.Schema)
	}

	keys := make([]string, 0, len(cfg.Options))
	for k := range cfg.Options {
		if k != "sslmode" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		dsn += fmt.Sprintf(" %s=%s", k, quoteValue(cfg.Options[k]))
	}

	return dsn
}

// quoteValue quotes a DSN value when it is empty or contains spaces or quotes.
func quoteValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
