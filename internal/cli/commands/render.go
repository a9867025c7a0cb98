package commands

import (
	"strings"

	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/leapstack-labs/snipsql/pkg/snippet"
	"github.com/spf13/cobra"
)

// RenderOptions holds options for the render command.
type RenderOptions struct {
	With    []string
	Connect bool
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	opts := &RenderOptions{}
	cmd := &cobra.Command{
		Use:   "render <sql...>",
		Short: "Render a query with stored snippets as CTEs",
		Long: `Render a query prefixed with a WITH clause holding the snippets it reads from.

Every snippet named with --with is included together with everything it
depends on, in an order where each CTE appears after the CTEs it reads.
Identifiers are quoted for the configured dialect (--dialect), or for the
dialect of the live target when --connect is set.

Output adapts to environment:
  - Terminal: Plain SQL (suitable for piping into a client)
  - Piped/Scripted: Markdown with code block`,
		Example: `  # Render a query reading from 'second' (and, transitively, 'first')
  snipsql render "SELECT * FROM second" --with second

  # Quote identifiers for BigQuery
  snipsql render "SELECT * FROM second" --with second --dialect bigquery

  # Ask the configured target which dialect to quote for
  snipsql render "SELECT * FROM second" --with second --connect`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, strings.Join(args, " "), opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.With, "with", "w", nil, "Snippets to include as CTEs (comma-separated)")
	cmd.Flags().BoolVar(&opts.Connect, "connect", false, "Connect to the configured target to pick the dialect")

	return cmd
}

func runRender(cmd *cobra.Command, mainQuery string, opts *RenderOptions) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	requested := parseWith(opts.With)

	q, release, err := resolveQuoting(cmd.Context(), cmdCtx, opts.Connect)
	if err != nil {
		return err
	}
	defer release()

	stmt, err := cmdCtx.Registry.RenderStatement(mainQuery, requested, q)
	if err != nil {
		return err
	}
	sql := stmt.SQL

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return renderJSON(r, stmt, requested, q.Dialect)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Rendered SQL"))
		r.Println("")
		r.Println(output.FormatKeyValue("Dialect", q.Dialect))
		r.Println("")
		r.SQL(sql)
	default:
		r.SQL(sql)
	}
	return nil
}

func renderJSON(r *output.Renderer, stmt snippet.Statement, requested []string, dialectName string) error {
	if requested == nil {
		requested = []string{}
	}
	return r.JSON(output.RenderOutput{
		SQL:       stmt.SQL,
		Requested: requested,
		CTEs:      stmt.CTEs,
		Dialect:   dialectName,
		Backtick:  stmt.Backtick,
	})
}
