// Package adapter provides the database connection contract for snipsql.
//
// A live connection is only needed to answer one question: which SQL dialect
// the target speaks, and therefore whether rendered CTE names need backticks.
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
package adapter

import (
	"context"

	"github.com/leapstack-labs/snipsql/pkg/core"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter defines the interface that all database adapters must implement.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Ping verifies the connection is still alive.
	Ping(ctx context.Context) error

	// Close closes the database connection and releases resources.
	Close() error

	// Version returns the server version string reported by the database.
	Version(ctx context.Context) (string, error)

	// DialectName returns the name of the SQL dialect in the dialect catalog.
	DialectName() string
}
