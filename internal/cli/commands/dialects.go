package commands

import (
	"strings"

	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/leapstack-labs/snipsql/pkg/dialect"
	"github.com/spf13/cobra"
)

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		Long: `List the SQL dialects accepted by --dialect and target.dialect.

Dialects that quote identifiers with backticks render CTE names as ` + "`name`" + `;
all others render them as "name".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDialects(cmd)
		},
	}
}

func dialectInfos() []output.DialectInfo {
	all := dialect.All()
	infos := make([]output.DialectInfo, 0, len(all))
	for _, d := range all {
		infos = append(infos, output.DialectInfo{
			Name:          d.Name,
			Aliases:       d.Aliases(),
			Quote:         d.QuoteStyle(),
			Backtick:      d.UsesBacktickQuoting(),
			DefaultSchema: d.DefaultSchema,
		})
	}
	return infos
}

func runDialects(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer
	infos := dialectInfos()

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(infos)
	}

	current := ""
	if d, err := dialect.Lookup(cmdCtx.Cfg.Dialect); err == nil {
		current = d.Name
	}

	r.Header(1, "Dialects")
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		name := info.Name
		if name == current {
			name += " *"
		}
		rows = append(rows, []string{name, strings.Join(info.Aliases, ", "), info.Quote, info.DefaultSchema})
	}
	r.Table([]string{"Dialect", "Aliases", "Quoting", "Default Schema"}, rows)
	r.Muted("* configured dialect")
	return nil
}
