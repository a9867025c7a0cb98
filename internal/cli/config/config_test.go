package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import adapter packages to ensure adapters are registered via init()
	_ "github.com/leapstack-labs/snipsql/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/snipsql/pkg/adapters/postgres"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "snipsql.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("state", "", "session database path")
	flags.String("dialect", "", "SQL dialect")
	flags.String("log-level", "", "log level")
	flags.StringP("output", "o", "", "output format")
	flags.BoolP("verbose", "v", false, "verbose output")
	return flags
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")
	t.Setenv("TEST_VAR_TWO", "value_two")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single variable", input: "${TEST_VAR_ONE}", expected: "value_one"},
		{name: "multiple variables", input: "${TEST_VAR_ONE}/${TEST_VAR_TWO}", expected: "value_one/value_two"},
		{name: "variable in path", input: "/path/to/${TEST_VAR_ONE}/file", expected: "/path/to/value_one/file"},
		{name: "unset variable stays as-is", input: "${UNSET_VARIABLE}", expected: "${UNSET_VARIABLE}"},
		{name: "no variables", input: "plain string", expected: "plain string"},
		{name: "empty string", input: "", expected: ""},
		{name: "mixed set and unset", input: "${TEST_VAR_ONE}:${UNSET_VAR}", expected: "value_one:${UNSET_VAR}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "state_path", envKey("SNIPSQL_STATE_PATH"))
	assert.Equal(t, "target.host", envKey("SNIPSQL_TARGET__HOST"))
	assert.Equal(t, "target.options.threads", envKey("SNIPSQL_TARGET__OPTIONS__THREADS"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDialect, cfg.Dialect)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Nil(t, cfg.Target)
	assert.Empty(t, GetConfigFileUsed())

	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(cwd, DefaultStateFile), cfg.StatePath)
}

func TestLoadConfig_FindsConfigUpward(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "dialect: mysql\n")
	root := filepath.Dir(cfgPath)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Dialect)
	assert.Equal(t, filepath.Join(root, "snipsql.yaml"), GetConfigFileUsed())
	assert.Equal(t, filepath.Join(root, DefaultStateFile), cfg.StatePath)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "dialect: [unterminated\n")
	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "dialect: mysql\n")
	t.Setenv("SNIPSQL_DIALECT", "postgres")

	flags := testFlags()
	require.NoError(t, flags.Set("dialect", "bigquery"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	// Flag should win
	assert.Equal(t, "bigquery", cfg.Dialect, "flag value should override config file and env var")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "dialect: mysql\n")
	t.Setenv("SNIPSQL_DIALECT", "postgres")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect, "env var should override config file")
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "dialect: mysql\n")
	t.Setenv("SNIPSQL_DIALECT", "postgres")

	// Not calling flags.Set(), so Changed is false
	cfg, err := LoadConfig(cfgPath, testFlags())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect, "env var should be used when flag is not set")
}

func TestLoadConfig_StatePath(t *testing.T) {
	t.Run("file value is relative to project root", func(t *testing.T) {
		ResetConfig()
		cfgPath := writeConfig(t, "state_path: data/snippets.db\n")

		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "data", "snippets.db"), cfg.StatePath)
	})

	t.Run("flag value is relative to working directory", func(t *testing.T) {
		ResetConfig()
		cfgPath := writeConfig(t, "state_path: data/snippets.db\n")
		work := t.TempDir()
		t.Chdir(work)

		flags := testFlags()
		require.NoError(t, flags.Set("state", "local.db"))

		cfg, err := LoadConfig(cfgPath, flags)
		require.NoError(t, err)

		cwd, err := os.Getwd()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(cwd, "local.db"), cfg.StatePath)
	})

	t.Run("memory is kept", func(t *testing.T) {
		ResetConfig()
		cfgPath := writeConfig(t, "state_path: \":memory:\"\n")

		cfg, err := LoadConfig(cfgPath, nil)
		require.NoError(t, err)
		assert.Equal(t, ":memory:", cfg.StatePath)
	})
}

func TestLoadConfig_Target(t *testing.T) {
	ResetConfig()
	t.Setenv("SNIPSQL_TEST_PG_PASSWORD", "s3cret")
	cfgPath := writeConfig(t, `target:
  type: Postgres
  host: db.internal
  database: analytics
  user: reporter
  password: ${SNIPSQL_TEST_PG_PASSWORD}
  options:
    sslmode: disable
`)

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.Target)

	assert.Equal(t, "postgres", cfg.Target.Type)
	assert.Equal(t, "db.internal", cfg.Target.Host)
	assert.Equal(t, 5432, cfg.Target.Port)
	assert.Equal(t, "public", cfg.Target.Schema)
	assert.Equal(t, "s3cret", cfg.Target.Password)
	assert.Equal(t, map[string]string{"sslmode": "disable"}, cfg.Target.Options)
}

func TestLoadConfig_TargetFromEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "target:\n  type: duckdb\n")
	t.Setenv("SNIPSQL_TARGET__DATABASE", "warehouse.duckdb")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)
	require.NotNil(t, cfg.Target)

	assert.Equal(t, filepath.Join(filepath.Dir(cfgPath), "warehouse.duckdb"), cfg.Target.Database)
	assert.Equal(t, "main", cfg.Target.Schema)
}

func TestLoadConfig_UnknownTarget(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "target:\n  type: oracle\n")

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid target configuration")
	assert.Contains(t, err.Error(), "unknown adapter type")
}

func TestLoadConfig_UnknownDialect(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, "dialect: klingon\n")

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dialect")
	assert.Contains(t, err.Error(), "klingon")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{StatePath: "x.db", Dialect: "ansi", OutputFormat: "auto"}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing state path", mutate: func(c *Config) { c.StatePath = "" }, errSubstr: "state_path"},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: "output"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, errSubstr: "log_level"},
		{name: "dialect alias", mutate: func(c *Config) { c.Dialect = "pg" }},
		{name: "target without type", mutate: func(c *Config) { c.Target = &TargetConfig{} }, errSubstr: "target type is required"},
		{name: "target with bad dialect", mutate: func(c *Config) {
			c.Target = &TargetConfig{Type: "duckdb", Dialect: "nope"}
		}, errSubstr: "unknown dialect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level   string
		verbose bool
		want    slog.Level
		wantErr bool
	}{
		{level: "", verbose: false, want: slog.LevelWarn},
		{level: "", verbose: true, want: slog.LevelDebug},
		{level: "debug", want: slog.LevelDebug},
		{level: "INFO", want: slog.LevelInfo},
		{level: "warning", want: slog.LevelWarn},
		{level: "error", verbose: true, want: slog.LevelError},
		{level: "trace", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			got, err := ParseLogLevel(tt.level, tt.verbose)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "fallback logger should never be nil")

	logger := slog.New(slog.DiscardHandler)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&Config{LogLevel: "info"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown", "snippet", "first")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "snippet=first")

	_, err = NewLogger(&Config{LogLevel: "loud"}, &buf)
	assert.Error(t, err)
}

func TestGetCurrentConfig(t *testing.T) {
	ResetConfig()
	assert.Nil(t, GetCurrentConfig())

	cfg, err := LoadConfig(writeConfig(t, "dialect: hive\n"), nil)
	require.NoError(t, err)
	assert.Same(t, cfg, GetCurrentConfig())
}
