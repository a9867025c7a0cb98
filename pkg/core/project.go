package core

// TargetConfig holds the database connection for the active session.
type TargetConfig struct {
	Type string `koanf:"type"` // duckdb, postgres, sqlite, sqlserver

	// File-based databases (DuckDB, SQLite)
	Database string `koanf:"database"` // file path or database name

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Common
	Schema string `koanf:"schema"`

	// Dialect overrides the dialect reported by the adapter
	Dialect string `koanf:"dialect"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`
}
