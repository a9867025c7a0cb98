package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/leapstack-labs/snipsql/pkg/snippet"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored snippets and their dependencies",
		Long: `List all stored snippets in the order they were first stored, with the
snippets each one depends on.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all snippets (auto-detect output format)
  snipsql list

  # List snippets as JSON
  snipsql list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	snippets := cmdCtx.Registry.Snippets()

	if r.EffectiveMode() == output.ModeJSON {
		return listJSON(r, snippets)
	}

	if len(snippets) == 0 {
		r.Warning("No snippets stored")
		return nil
	}

	r.Header(1, fmt.Sprintf("Snippets (%d total)", len(snippets)))

	rows := make([][]string, 0, len(snippets))
	for _, s := range snippets {
		rows = append(rows, []string{s.Name, strings.Join(s.DependsOn, ", "), summarize(s.Body, 60)})
	}
	r.Table([]string{"Name", "Depends On", "SQL"}, rows)
	return nil
}

func listJSON(r *output.Renderer, snippets []snippet.Snippet) error {
	out := output.ListOutput{
		Snippets: make([]output.SnippetInfo, 0, len(snippets)),
		Total:    len(snippets),
	}
	for i, s := range snippets {
		out.Snippets = append(out.Snippets, snippetInfo(s.Name, s.Body, s.DependsOn, i))
	}
	return r.JSON(out)
}

// summarize collapses whitespace and truncates sql to at most n runes.
func summarize(sql string, n int) string {
	s := strings.Join(strings.Fields(sql), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
