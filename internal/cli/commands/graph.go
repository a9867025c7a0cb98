package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/leapstack-labs/snipsql/internal/dag"
	"github.com/leapstack-labs/snipsql/pkg/snippet"
	"github.com/spf13/cobra"
)

// GraphQuerier provides read-only access to DAG structure.
type GraphQuerier interface {
	GetParents(string) []string
	GetChildren(string) []string
	GetRoots() []string
	GetLeaves() []string
	NodeCount() int
	EdgeCount() int
}

// NewGraphCommand creates the graph command.
func NewGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "graph",
		Aliases: []string{"dag"},
		Short:   "Show the snippet dependency graph",
		Long: `Display the dependency graph of all stored snippets.

Snippets are grouped by level: level 0 reads from no other snippet, and a
snippet at level N reads from at least one snippet at level N-1.
Dependencies on snippets that are not stored are listed as missing.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the graph
  snipsql graph

  # Output as JSON
  snipsql graph --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd)
		},
	}

	return cmd
}

// buildGraph adds every stored snippet and an edge per stored dependency.
// Missing dependencies are returned per snippet instead.
func buildGraph(reg *snippet.Registry) (*dag.Graph, map[string][]string, error) {
	g := dag.NewGraph()
	snippets := reg.Snippets()
	for _, s := range snippets {
		g.AddNode(s.Name, s)
	}

	missing := make(map[string][]string)
	for _, s := range snippets {
		for _, dep := range s.DependsOn {
			if _, ok := g.GetNode(dep); !ok {
				missing[s.Name] = append(missing[s.Name], dep)
				continue
			}
			if err := g.AddEdge(dep, s.Name); err != nil {
				return nil, nil, err
			}
		}
	}
	return g, missing, nil
}

func runGraph(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	graph, missing, err := buildGraph(cmdCtx.Registry)
	if err != nil {
		return err
	}

	levels, err := graph.GetExecutionLevels()
	if err != nil {
		return fmt.Errorf("failed to get snippet levels: %w", err)
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return graphJSON(r, graph, levels)
	case output.ModeMarkdown:
		return graphMarkdown(r, graph, levels, missing)
	default:
		return graphText(r, graph, levels, missing)
	}
}

// graphText outputs the graph in styled text format.
func graphText(r *output.Renderer, graph GraphQuerier, levels [][]string, missing map[string][]string) error {
	styles := r.Styles()

	r.Header(1, "Snippet Graph")

	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, name := range level {
			r.Printf("  %s\n", styles.Name.Render(name))
			if deps := graph.GetParents(name); len(deps) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("reads from:"), strings.Join(deps, ", "))
			}
			if children := graph.GetChildren(name); len(children) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(children, ", "))
			}
			if m := missing[name]; len(m) > 0 {
				r.Printf("    %s %s\n", styles.Warning.Render("missing:"), strings.Join(m, ", "))
			}
		}
		r.Println("")
	}

	if roots := graph.GetRoots(); len(roots) > 0 {
		r.Printf("%s %s\n", styles.Muted.Render("Roots:"), strings.Join(roots, ", "))
	}
	if leaves := graph.GetLeaves(); len(leaves) > 0 {
		r.Printf("%s %s\n", styles.Muted.Render("Leaves:"), strings.Join(leaves, ", "))
	}
	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d snippets, %d dependencies", graph.NodeCount(), graph.EdgeCount())))

	return nil
}

// graphMarkdown outputs the graph in markdown format.
func graphMarkdown(r *output.Renderer, graph GraphQuerier, levels [][]string, missing map[string][]string) error {
	r.Println(output.FormatHeader(1, "Snippet Graph"))
	r.Println("")

	for i, level := range levels {
		levelName := fmt.Sprintf("Level %d", i)
		if i == 0 {
			levelName = "Level 0 (Base)"
		}
		r.Println(output.FormatHeader(2, levelName))

		for _, name := range level {
			r.Printf("- %s\n", name)
			if deps := graph.GetParents(name); len(deps) > 0 {
				r.Printf("  - reads from: %s\n", strings.Join(deps, ", "))
			}
			if children := graph.GetChildren(name); len(children) > 0 {
				r.Printf("  - used by: %s\n", strings.Join(children, ", "))
			}
			if m := missing[name]; len(m) > 0 {
				r.Printf("  - missing: %s\n", strings.Join(m, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Snippets", fmt.Sprintf("%d", graph.NodeCount())))
	r.Println(output.FormatKeyValue("Total Dependencies", fmt.Sprintf("%d", graph.EdgeCount())))
	r.Println(output.FormatKeyValue("Roots", strings.Join(graph.GetRoots(), ", ")))
	r.Println(output.FormatKeyValue("Leaves", strings.Join(graph.GetLeaves(), ", ")))

	return nil
}

// graphJSON outputs the graph in JSON format.
func graphJSON(r *output.Renderer, graph GraphQuerier, levels [][]string) error {
	out := output.GraphOutput{
		Levels:        make([]output.GraphLevel, 0, len(levels)),
		TotalSnippets: graph.NodeCount(),
		TotalEdges:    graph.EdgeCount(),
		Roots:         nonNil(graph.GetRoots()),
		Leaves:        nonNil(graph.GetLeaves()),
	}

	for i, level := range levels {
		gl := output.GraphLevel{
			Level:    i,
			Snippets: make([]output.GraphNode, 0, len(level)),
		}
		for _, name := range level {
			gl.Snippets = append(gl.Snippets, output.GraphNode{
				Name:      name,
				DependsOn: graph.GetParents(name),
				UsedBy:    graph.GetChildren(name),
			})
		}
		out.Levels = append(out.Levels, gl)
	}

	return r.JSON(out)
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
