package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/spf13/cobra"
)

// StoreOptions holds options for the store command.
type StoreOptions struct {
	With []string
}

// NewStoreCommand creates the store command.
func NewStoreCommand() *cobra.Command {
	opts := &StoreOptions{}
	cmd := &cobra.Command{
		Use:   "store <name> <sql...>",
		Short: "Store a named SQL snippet",
		Long: `Store a SQL snippet under a name so later snippets and queries can read
from it as a common table expression.

Storing an existing name replaces its SQL and dependencies but keeps its
original position. Dependencies listed with --with do not need to exist yet;
they are checked when a query is rendered.`,
		Example: `  # Store a base snippet
  snipsql store first "SELECT * FROM a WHERE x > 10"

  # Store a snippet that reads from another
  snipsql store second "SELECT * FROM first WHERE x > 20" --with first`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStore(cmd, args[0], strings.Join(args[1:], " "), opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.With, "with", "w", nil, "Snippets this snippet depends on (comma-separated)")

	return cmd
}

func runStore(cmd *cobra.Command, name, sql string, opts *StoreOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	s, err := cmdCtx.storeSnippet(cmd.Context(), name, sql, parseWith(opts.With))
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(snippetInfo(s.Name, s.Body, s.DependsOn, cmdCtx.Registry.Position(s.Name)))
	}

	msg := fmt.Sprintf("Stored snippet %q", s.Name)
	if len(s.DependsOn) > 0 {
		msg += fmt.Sprintf(" (depends on %s)", strings.Join(s.DependsOn, ", "))
	}
	r.Success(msg)
	return nil
}

func snippetInfo(name, body string, deps []string, position int) output.SnippetInfo {
	if deps == nil {
		deps = []string{}
	}
	return output.SnippetInfo{Name: name, SQL: body, DependsOn: deps, Position: position}
}
