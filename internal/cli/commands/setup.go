package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/snipsql/internal/cli/config"
	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/leapstack-labs/snipsql/internal/state"
	"github.com/leapstack-labs/snipsql/pkg/adapter"
	"github.com/leapstack-labs/snipsql/pkg/core"
	"github.com/leapstack-labs/snipsql/pkg/dialect"
	"github.com/leapstack-labs/snipsql/pkg/snippet"
	"github.com/spf13/cobra"

	// Register the connection adapters available to --connect and doctor.
	_ "github.com/leapstack-labs/snipsql/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/snipsql/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/snipsql/pkg/adapters/sqlite"
	_ "github.com/leapstack-labs/snipsql/pkg/adapters/sqlserver"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.SQLiteStore
	Registry *snippet.Registry
	Renderer *output.Renderer
}

// NewCommandContext opens the session store and loads the stored registry.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cmdCtx := NewCommandContextWithoutStore(cmd)

	store, err := state.OpenAndMigrate(cmdCtx.Cfg.StatePath, cmdCtx.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open session store: %w", err)
	}

	reg, err := store.LoadRegistry(cmd.Context())
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to load snippets: %w", err)
	}
	cmdCtx.Logger.Debug("loaded snippets", "count", reg.Len(), "state", store.Path())

	cmdCtx.Store = store
	cmdCtx.Registry = reg

	cleanup := func() {
		_ = store.Close()
	}
	return cmdCtx, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without a session store.
// Useful for commands that don't need stored snippets.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// storeSnippet validates a snippet in the registry and persists it.
func (c *CommandContext) storeSnippet(ctx context.Context, name, body string, deps []string) (snippet.Snippet, error) {
	if err := c.Registry.Store(name, body, deps...); err != nil {
		return snippet.Snippet{}, err
	}
	s, _ := c.Registry.Lookup(name)
	if err := c.Store.SaveSnippet(ctx, s); err != nil {
		return snippet.Snippet{}, err
	}
	c.Logger.Debug("stored snippet", "name", name, "depends_on", s.DependsOn)
	return s, nil
}

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return &config.Config{
		StatePath:    config.DefaultStateFile,
		Dialect:      config.DefaultDialect,
		OutputFormat: config.DefaultOutput,
	}
}

// quoting is the dialect capability selected for a render.
type quoting struct {
	snippet.Quoting
	Dialect string
}

// resolveQuoting selects the dialect capability for a render: the live target
// when connect is set, otherwise the configured dialect. The returned func
// releases any connection and must be called.
func resolveQuoting(ctx context.Context, c *CommandContext, connect bool) (quoting, func(), error) {
	noop := func() {}

	if !connect {
		d, err := dialect.Lookup(c.Cfg.Dialect)
		if err != nil {
			return quoting{}, noop, err
		}
		return quoting{Quoting: d, Dialect: d.Name}, noop, nil
	}

	if c.Cfg.Target == nil {
		return quoting{}, noop, fmt.Errorf("--connect requires a target in %s", configFileHint())
	}

	a, q, err := adapter.Connect(ctx, core.AdapterConfigFromTarget(c.Cfg.Target), c.Logger)
	if err != nil {
		return quoting{}, noop, err
	}
	release := func() { _ = a.Close() }

	name := a.DialectName()
	if c.Cfg.Target.Dialect != "" {
		d, err := dialect.Lookup(c.Cfg.Target.Dialect)
		if err != nil {
			release()
			return quoting{}, noop, err
		}
		q, name = d, d.Name
	}
	c.Logger.Debug("using target dialect", "type", c.Cfg.Target.Type, "dialect", name)
	return quoting{Quoting: q, Dialect: name}, release, nil
}

func configFileHint() string {
	if f := config.GetConfigFileUsed(); f != "" {
		return f
	}
	return "snipsql.yaml"
}

// parseWith splits --with values, accepting both repeated flags and comma lists.
func parseWith(values []string) []string {
	var names []string
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				names = append(names, name)
			}
		}
	}
	return names
}
