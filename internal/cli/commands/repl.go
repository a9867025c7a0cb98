package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/snipsql/internal/state"
	"github.com/leapstack-labs/snipsql/pkg/dialect"
	"github.com/spf13/cobra"
)

const (
	replPrompt     = "snipsql> "
	replContinue   = "    ...> "
	replHistoryLog = "repl_history"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive snippet session",
		Long: `Start an interactive session for storing snippets and rendering queries.

Snippets stored in the session are written to the session store as they are
defined, so they are available to later commands. Plain SQL ending in a
semicolon is rendered with the snippets selected by .with.`,
		Example: `  snipsql repl`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd)
		},
	}
}

// replSession holds the state of one interactive session.
type replSession struct {
	ctx     context.Context
	cmdCtx  *CommandContext
	out     io.Writer
	errOut  io.Writer
	dialect string
	with    []string
}

func newREPLSession(cmd *cobra.Command, cmdCtx *CommandContext) *replSession {
	return &replSession{
		ctx:     cmd.Context(),
		cmdCtx:  cmdCtx,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
		dialect: cmdCtx.Cfg.Dialect,
	}
}

func runREPL(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	session := newREPLSession(cmd, cmdCtx)

	rlCfg := &readline.Config{
		Prompt:          replPrompt,
		AutoComplete:    session.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	}
	// Setup history file (next to the session store)
	if statePath := cmdCtx.Store.Path(); statePath != state.MemoryPath {
		rlCfg.HistoryFile = filepath.Join(filepath.Dir(statePath), replHistoryLog)
	}

	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(session.out, "snipsql REPL (state: %s, dialect: %s)\n", cmdCtx.Store.Path(), session.dialect)
	_, _ = fmt.Fprintln(session.out, "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(session.out)

	return session.loop(rl)
}

// lineReader is the part of *readline.Instance the input loop uses.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// loop reads statements until .quit or end of input.
func (s *replSession) loop(rl lineReader) error {
	var multiLineBuffer strings.Builder
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			multiLineBuffer.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" && multiLineBuffer.Len() == 0 {
			continue
		}

		// Dot-commands only start a statement, never continue one
		if multiLineBuffer.Len() == 0 && strings.HasPrefix(trimmed, ".") {
			if quit := s.handleDotCommand(trimmed); quit {
				return nil
			}
			continue
		}

		// Accumulate multi-line SQL until semicolon, keeping lines as typed
		multiLineBuffer.WriteString(line)
		if !strings.HasSuffix(trimmed, ";") {
			multiLineBuffer.WriteString("\n")
			rl.SetPrompt(replContinue)
			continue
		}
		rl.SetPrompt(replPrompt)

		query := strings.TrimSuffix(strings.TrimSpace(multiLineBuffer.String()), ";")
		multiLineBuffer.Reset()

		s.render(s.with, query)
		_, _ = fmt.Fprintln(s.out)
	}
}


// handleDotCommand runs one dot-command and reports whether the session should end.
func (s *replSession) handleDotCommand(line string) bool {
	word, rest := nextField(line)
	command := strings.ToLower(word)
	args := strings.Fields(rest)

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".store":
		name, tail := nextField(rest)
		with, body := takeWith(tail)
		if name == "" || body == "" {
			s.usage(".store <name> [--with a,b] <sql>")
			return false
		}
		sn, err := s.cmdCtx.storeSnippet(s.ctx, name, body, with)
		if err != nil {
			s.fail(err)
			return false
		}
		_, _ = fmt.Fprintf(s.out, "Stored %s\n", sn.Name)

	case ".get":
		if len(args) != 1 {
			s.usage(".get <name>")
			return false
		}
		body, err := s.cmdCtx.Registry.Get(args[0])
		if err != nil {
			s.fail(err)
			return false
		}
		_, _ = fmt.Fprintln(s.out, body)

	case ".list":
		s.list()

	case ".delete":
		if len(args) != 1 {
			s.usage(".delete <name>")
			return false
		}
		s.delete(args[0])

	case ".render":
		with, query := takeWith(rest)
		if query == "" {
			s.usage(".render [--with a,b] <sql>")
			return false
		}
		s.render(with, query)

	case ".with":
		if len(args) > 0 {
			s.with = parseWith(args)
		}
		if len(s.with) == 0 {
			_, _ = fmt.Fprintln(s.out, "Rendering plain SQL without snippets")
		} else {
			_, _ = fmt.Fprintf(s.out, "Rendering plain SQL with %s\n", strings.Join(s.with, ", "))
		}

	case ".dialect":
		if len(args) > 0 {
			d, err := dialect.Lookup(args[0])
			if err != nil {
				s.fail(err)
				return false
			}
			s.dialect = d.Name
		}
		_, _ = fmt.Fprintf(s.out, "Dialect: %s\n", s.dialect)

	case ".clear":
		_, _ = fmt.Fprint(s.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func (s *replSession) render(with []string, query string) {
	d, err := dialect.Lookup(s.dialect)
	if err != nil {
		s.fail(err)
		return
	}
	sql, err := s.cmdCtx.Registry.Render(query, with, d)
	if err != nil {
		s.fail(err)
		return
	}
	_, _ = fmt.Fprintln(s.out, sql)
}

func (s *replSession) list() {
	snippets := s.cmdCtx.Registry.Snippets()
	if len(snippets) == 0 {
		_, _ = fmt.Fprintln(s.out, "(no snippets)")
		return
	}
	for _, sn := range snippets {
		if len(sn.DependsOn) > 0 {
			_, _ = fmt.Fprintf(s.out, "%s (with %s)\n", sn.Name, strings.Join(sn.DependsOn, ", "))
			continue
		}
		_, _ = fmt.Fprintln(s.out, sn.Name)
	}
}

func (s *replSession) delete(name string) {
	if _, err := s.cmdCtx.Registry.Get(name); err != nil {
		s.fail(err)
		return
	}
	if _, err := s.cmdCtx.Store.DeleteSnippet(s.ctx, name); err != nil {
		s.fail(err)
		return
	}
	s.cmdCtx.Registry.Delete(name)
	_, _ = fmt.Fprintf(s.out, "Deleted %s\n", name)
}

func (s *replSession) fail(err error) {
	_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
}

func (s *replSession) usage(u string) {
	_, _ = fmt.Fprintf(s.errOut, "Usage: %s\n", u)
}

// nextField splits off the first whitespace-separated word of s. The rest is
// returned as typed, minus the whitespace that separated it from the word.
func nextField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

// takeWith consumes leading "--with a,b", "-w a,b" and "--with=a,b" words and
// returns the remaining text unchanged.
func takeWith(s string) (with []string, rest string) {
	var raw []string
	for {
		word, after := nextField(s)
		switch {
		case word == "--with" || word == "-w":
			value, next := nextField(after)
			if value == "" {
				return parseWith(raw), s
			}
			raw = append(raw, value)
			s = next
		case strings.HasPrefix(word, "--with="):
			raw = append(raw, strings.TrimPrefix(word, "--with="))
			s = after
		default:
			return parseWith(raw), strings.TrimLeftFunc(s, unicode.IsSpace)
		}
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .store <name> [--with a,b] <sql>   Store a snippet
  .get <name>                        Show a snippet's SQL
  .list                              List stored snippets
  .delete <name>                     Delete a snippet
  .render [--with a,b] <sql>         Render a query with the given snippets
  .with [a,b]                        Snippets used when rendering plain SQL
  .dialect [name]                    Show or change the dialect
  .clear                             Clear the screen
  .quit / .exit                      Exit the REPL

Tips:
  - Plain SQL is rendered when it ends with a semicolon (;)
  - Use arrow keys to navigate history
  - Tab completion works for commands and snippet names
`
	_, _ = fmt.Fprintln(w, help)
}

// completer completes dot-commands and, where they take one, snippet names.
func (s *replSession) completer() *readline.PrefixCompleter {
	names := func(string) []string {
		return s.cmdCtx.Registry.Names()
	}
	dialects := func(string) []string {
		return dialect.List()
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".store"),
		readline.PcItem(".get", readline.PcItemDynamic(names)),
		readline.PcItem(".list"),
		readline.PcItem(".delete", readline.PcItemDynamic(names)),
		readline.PcItem(".render", readline.PcItem("--with", readline.PcItemDynamic(names))),
		readline.PcItem(".with", readline.PcItemDynamic(names)),
		readline.PcItem(".dialect", readline.PcItemDynamic(dialects)),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
