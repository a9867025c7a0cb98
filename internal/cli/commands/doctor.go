package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/snipsql/internal/cli/config"
	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/leapstack-labs/snipsql/internal/dag"
	"github.com/leapstack-labs/snipsql/pkg/adapter"
	"github.com/leapstack-labs/snipsql/pkg/core"
	"github.com/leapstack-labs/snipsql/pkg/dialect"
	"github.com/spf13/cobra"
)

// doctorTimeout bounds the target connection check.
const doctorTimeout = 10 * time.Second

// Check statuses.
const (
	statusOK      = "ok"
	statusWarning = "warning"
	statusError   = "error"
	statusSkipped = "skipped"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration, session store and target",
		Long: `Check that snipsql is ready to use:

- the config file in use
- the session store (opens, migrates and counts snippets)
- the configured dialect and its identifier quoting
- the stored snippets (dependencies on missing snippets, cycles)
- the target, when one is configured (connects, pings and reads the version)

Exits with an error when any check fails.`,
		Example: `  # Run all checks
  snipsql doctor

  # Output as JSON
  snipsql doctor --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd)
		},
	}

	return cmd
}

func runDoctor(cmd *cobra.Command) error {
	cmdCtx := NewCommandContextWithoutStore(cmd)
	r := cmdCtx.Renderer

	checks := []output.DoctorCheck{configCheck()}
	checks = append(checks, storeChecks(cmd)...)
	checks = append(checks, dialectCheck(cmdCtx.Cfg.Dialect))
	checks = append(checks, targetCheck(cmd.Context(), cmdCtx))

	out := output.DoctorOutput{Checks: checks, Healthy: true}
	failed := 0
	for _, c := range checks {
		if c.Status == statusError {
			out.Healthy = false
			failed++
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "snipsql doctor"))
		r.Println("")
		for _, c := range checks {
			r.StatusLine(c.Name, c.Status, c.Detail)
		}
	default:
		r.Header(1, "snipsql doctor")
		for _, c := range checks {
			r.StatusLine(c.Name, c.Status, c.Detail)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	return nil
}

func configCheck() output.DoctorCheck {
	if f := config.GetConfigFileUsed(); f != "" {
		return output.DoctorCheck{Name: "config", Status: statusOK, Detail: f}
	}
	return output.DoctorCheck{Name: "config", Status: statusWarning, Detail: "no snipsql.yaml found, using defaults"}
}

// storeChecks opens the session store and inspects the stored snippets.
func storeChecks(cmd *cobra.Command) []output.DoctorCheck {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return []output.DoctorCheck{
			{Name: "session store", Status: statusError, Detail: err.Error()},
			{Name: "snippets", Status: statusSkipped, Detail: "session store unavailable"},
		}
	}
	defer cleanup()

	version, err := cmdCtx.Store.MigrationVersion()
	if err != nil {
		return []output.DoctorCheck{{Name: "session store", Status: statusError, Detail: err.Error()}}
	}
	store := output.DoctorCheck{
		Name:   "session store",
		Status: statusOK,
		Detail: fmt.Sprintf("%s (schema version %d)", cmdCtx.Store.Path(), version),
	}

	return []output.DoctorCheck{store, snippetsCheck(cmdCtx)}
}

func snippetsCheck(cmdCtx *CommandContext) output.DoctorCheck {
	graph, missing, err := buildGraph(cmdCtx.Registry)
	if err != nil {
		return output.DoctorCheck{Name: "snippets", Status: statusError, Detail: err.Error()}
	}
	if _, err := graph.TopologicalSort(); err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			err = fmt.Errorf("cycle: %s", strings.Join(cycleErr.Path, " -> "))
		}
		return output.DoctorCheck{Name: "snippets", Status: statusError, Detail: err.Error()}
	}

	detail := fmt.Sprintf("%d stored, %d dependencies", graph.NodeCount(), graph.EdgeCount())
	if len(missing) == 0 {
		return output.DoctorCheck{Name: "snippets", Status: statusOK, Detail: detail}
	}

	var parts []string
	for _, name := range cmdCtx.Registry.Names() {
		if deps := missing[name]; len(deps) > 0 {
			parts = append(parts, fmt.Sprintf("%s -> %s", name, strings.Join(deps, ", ")))
		}
	}
	return output.DoctorCheck{
		Name:   "snippets",
		Status: statusWarning,
		Detail: detail + "; missing: " + strings.Join(parts, "; "),
	}
}

func dialectCheck(name string) output.DoctorCheck {
	d, err := dialect.Lookup(name)
	if err != nil {
		return output.DoctorCheck{Name: "dialect", Status: statusError, Detail: err.Error()}
	}
	return output.DoctorCheck{
		Name:   "dialect",
		Status: statusOK,
		Detail: fmt.Sprintf("%s, identifiers quoted as %s", d.Name, d.QuoteStyle()),
	}
}

func targetCheck(ctx context.Context, cmdCtx *CommandContext) output.DoctorCheck {
	t := cmdCtx.Cfg.Target
	if t == nil {
		return output.DoctorCheck{Name: "target", Status: statusSkipped, Detail: "no target configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, doctorTimeout)
	defer cancel()

	a, q, err := adapter.Connect(ctx, core.AdapterConfigFromTarget(t), cmdCtx.Logger)
	if err != nil {
		return output.DoctorCheck{Name: "target", Status: statusError, Detail: err.Error()}
	}
	defer func() { _ = a.Close() }()

	if err := a.Ping(ctx); err != nil {
		return output.DoctorCheck{Name: "target", Status: statusError, Detail: err.Error()}
	}

	version, err := a.Version(ctx)
	if err != nil {
		version = "unknown version"
	}
	quote := "standard CTE names"
	if q.UsesBacktickQuoting() {
		quote = "backtick CTE names"
	}
	return output.DoctorCheck{
		Name:   "target",
		Status: statusOK,
		Detail: fmt.Sprintf("%s %s, %s dialect (%s)", t.Type, firstLine(version), a.DialectName(), quote),
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
