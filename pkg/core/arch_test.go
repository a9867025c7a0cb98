package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/snipsql/pkg/core"
)

// TestCoreImportsOnly verifies pkg/core only imports stdlib.
func TestCoreImportsOnly(t *testing.T) {
	fset := token.NewFileSet()

	entries, err := os.ReadDir(".")
	require.NoError(t, err)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".go") {
			continue
		}
		if strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}

		path := filepath.Join(".", entry.Name())
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		require.NoError(t, err, "failed to parse %s", path)

		for _, imp := range f.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			assert.NotContains(t, importPath, ".", "%s imports non-stdlib package %s", entry.Name(), importPath)
		}
	}
}

func TestAdapterConfigFromTarget(t *testing.T) {
	assert.Equal(t, core.AdapterConfig{}, core.AdapterConfigFromTarget(nil))

	got := core.AdapterConfigFromTarget(&core.TargetConfig{
		Type:     "postgres",
		Database: "analytics",
		Host:     "db.internal",
		Port:     5433,
		User:     "reader",
		Password: "secret",
		Schema:   "public",
		Options:  map[string]string{"sslmode": "require"},
	})

	assert.Equal(t, core.AdapterConfig{
		Type:     "postgres",
		Path:     "analytics",
		Host:     "db.internal",
		Port:     5433,
		Database: "analytics",
		Username: "reader",
		Password: "secret",
		Schema:   "public",
		Options:  map[string]string{"sslmode": "require"},
	}, got)
}
