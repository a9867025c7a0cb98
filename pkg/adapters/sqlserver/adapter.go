// Package sqlserver provides a Microsoft SQL Server adapter for snipsql.
//
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/leapstack-labs/snipsql/pkg/adapters/sqlserver"
package sqlserver

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"github.com/leapstack-labs/snipsql/pkg/adapter"
	"github.com/microsoft/go-mssqldb/msdsn"

	_ "github.com/microsoft/go-mssqldb" // sqlserver driver
)

const defaultPort = 1433

// Adapter implements the adapter.Adapter interface for SQL Server.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQL Server adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "sqlserver"
}

// Connect establishes a connection to SQL Server.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	dsn := buildDSN(cfg)

	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(dsn); err != nil {
		return fmt.Errorf("invalid sqlserver connection settings: %w", err)
	}

	a.Logger.Debug("connecting to sqlserver", slog.String("host", cfg.Host), slog.String("database", cfg.Database))
	return a.Open(ctx, "sqlserver", dsn, cfg)
}

// Version returns the server's @@VERSION banner.
func (a *Adapter) Version(ctx context.Context) (string, error) {
	return a.QueryVersion(ctx, "SELECT @@VERSION")
}

// buildDSN builds a sqlserver:// URL. Options become query parameters.
func buildDSN(cfg adapter.Config) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	q := url.Values{}
	if cfg.Database != "" {
		q.Set("database", cfg.Database)
	}
	for k, v := range cfg.Options {
		q.Set(k, v)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		RawQuery: q.Encode(),
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return u.String()
}

// Ensure Adapter implements adapter.Adapter interface
var _ adapter.Adapter = (*Adapter)(nil)
