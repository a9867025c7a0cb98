package commands

import (
	"strings"

	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var deps bool

	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Show the SQL of a stored snippet",
		Long: `Print the SQL stored under a snippet name.

An unknown name suggests the closest stored name, or lists the stored names
when nothing is close.`,
		Example: `  # Print a snippet
  snipsql get first

  # As JSON, with its dependencies
  snipsql get second --output json

  # Also list everything it reads from, directly or not
  snipsql get third --deps`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, args[0], deps)
		},
	}

	cmd.Flags().BoolVar(&deps, "deps", false, "Also list the stored snippets it transitively reads from")

	return cmd
}

func runGet(cmd *cobra.Command, name string, deps bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	reg := cmdCtx.Registry

	body, err := reg.Get(name)
	if err != nil {
		return err
	}
	s, _ := reg.Lookup(name)

	var upstream []string
	if deps {
		graph, _, err := buildGraph(reg)
		if err != nil {
			return err
		}
		upstream = graph.GetUpstreamNodes(name)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		info := snippetInfo(s.Name, body, s.DependsOn, reg.Position(name))
		info.Upstream = upstream
		return r.JSON(info)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, name))
		r.Println("")
		if len(s.DependsOn) > 0 {
			r.Println(output.FormatKeyValue("Depends On", strings.Join(s.DependsOn, ", ")))
		}
		if len(upstream) > 0 {
			r.Println(output.FormatKeyValue("Upstream", strings.Join(upstream, ", ")))
		}
		if len(s.DependsOn) > 0 || len(upstream) > 0 {
			r.Println("")
		}
		r.SQL(body)
	default:
		if len(upstream) > 0 {
			r.Printf("-- upstream: %s\n", strings.Join(upstream, ", "))
		}
		r.SQL(body)
	}
	return nil
}
