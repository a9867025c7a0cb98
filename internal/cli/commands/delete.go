package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a stored snippet",
		Long: `Remove a snippet from the session.

Snippets that depend on the deleted one are kept; rendering them fails until
a snippet with that name is stored again.`,
		Example: `  snipsql delete first`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, args[0])
		},
	}
}

func runDelete(cmd *cobra.Command, name string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	// Get reports unknown names with a suggestion.
	if _, err := cmdCtx.Registry.Get(name); err != nil {
		return err
	}

	deleted, err := cmdCtx.Store.DeleteSnippet(cmd.Context(), name)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.New("snippet is not in the session store")
	}
	cmdCtx.Registry.Delete(name)

	dependents := dependentsOf(cmdCtx, name)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(map[string]any{"deleted": name, "dependents": dependents})
	}

	r.Success(fmt.Sprintf("Deleted snippet %q", name))
	for _, d := range dependents {
		r.Warning(fmt.Sprintf("%q still depends on %q", d, name))
	}
	return nil
}

func dependentsOf(cmdCtx *CommandContext, name string) []string {
	dependents := []string{}
	for _, s := range cmdCtx.Registry.Snippets() {
		for _, dep := range s.DependsOn {
			if dep == name {
				dependents = append(dependents, s.Name)
				break
			}
		}
	}
	return dependents
}
