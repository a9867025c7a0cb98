package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/snipsql/pkg/adapter"
	"github.com/leapstack-labs/snipsql/pkg/core"
	"github.com/leapstack-labs/snipsql/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/snipsql/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/snipsql/pkg/adapters/postgres"
)

func TestDefaultSchemaForType(t *testing.T) {
	tests := []struct {
		dbType   string
		expected string
	}{
		{"duckdb", "main"},
		{"DuckDB", "main"},
		{"postgres", "public"},
		{"postgresql", "public"}, // alias
		{"sqlserver", "dbo"},
		{"snowflake", "PUBLIC"},
		{"mysql", "main"}, // no default schema
		{"unknown", "main"},
		{"", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			assert.Equal(t, tt.expected, DefaultSchemaForType(tt.dbType))
		})
	}
}

func TestApplyTargetDefaults(t *testing.T) {
	pg := &core.TargetConfig{Type: "Postgres"}
	ApplyTargetDefaults(pg)
	assert.Equal(t, "postgres", pg.Type)
	assert.Equal(t, "public", pg.Schema)
	assert.Equal(t, 5432, pg.Port)

	mssql := &core.TargetConfig{Type: "sqlserver", Port: 14330, Schema: "sales"}
	ApplyTargetDefaults(mssql)
	assert.Equal(t, 14330, mssql.Port, "explicit port kept")
	assert.Equal(t, "sales", mssql.Schema, "explicit schema kept")

	duck := &core.TargetConfig{Type: "duckdb"}
	ApplyTargetDefaults(duck)
	assert.Zero(t, duck.Port)

	ApplyTargetDefaults(nil)
}

func TestValidateTarget(t *testing.T) {
	tests := []struct {
		name      string
		target    *core.TargetConfig
		wantErr   bool
		errSubstr string
	}{
		{name: "nil target", target: nil},
		{name: "valid duckdb", target: &core.TargetConfig{Type: "duckdb"}},
		{name: "valid postgres with dialect", target: &core.TargetConfig{Type: "postgres", Dialect: "pg"}},
		{
			name:      "empty type",
			target:    &core.TargetConfig{},
			wantErr:   true,
			errSubstr: "target type is required",
		},
		{
			name:      "unknown type",
			target:    &core.TargetConfig{Type: "oracle"},
			wantErr:   true,
			errSubstr: "unknown adapter type",
		},
		{
			name:      "unknown dialect",
			target:    &core.TargetConfig{Type: "duckdb", Dialect: "cobol"},
			wantErr:   true,
			errSubstr: "unknown dialect",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTarget(tt.target)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestValidateTarget_ErrorTypes(t *testing.T) {
	var unknownAdapter *adapter.UnknownAdapterError
	require.ErrorAs(t, ValidateTarget(&core.TargetConfig{Type: "nope"}), &unknownAdapter)
	assert.Contains(t, unknownAdapter.Available, "duckdb")

	var unknownDialect *dialect.UnknownDialectError
	require.ErrorAs(t, ValidateTarget(&core.TargetConfig{Type: "duckdb", Dialect: "nope"}), &unknownDialect)
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0750))

	assert.Empty(t, FindProjectRoot(nested, 10))

	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileNameAlt), []byte("dialect: mysql\n"), 0600))
	assert.Equal(t, root, FindProjectRoot(nested, 10))
	assert.Empty(t, FindProjectRoot(nested, 2), "search depth is bounded")
	assert.Equal(t, filepath.Join(root, ConfigFileNameAlt), FindConfigFile(root))
}
