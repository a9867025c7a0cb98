package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/snipsql/internal/cli/config"
	"github.com/leapstack-labs/snipsql/internal/state"
	"github.com/leapstack-labs/snipsql/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type replHarness struct {
	session *replSession
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

func newREPLHarness(t *testing.T) *replHarness {
	t.Helper()

	logger := testutil.NewTestLogger(t)
	store, err := state.OpenAndMigrate(state.MemoryPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg, err := store.LoadRegistry(context.Background())
	require.NoError(t, err)

	h := &replHarness{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	h.session = &replSession{
		ctx: context.Background(),
		cmdCtx: &CommandContext{
			Cfg:      &config.Config{Dialect: "duckdb"},
			Logger:   logger,
			Store:    store,
			Registry: reg,
		},
		out:     h.out,
		errOut:  h.errOut,
		dialect: "duckdb",
	}
	return h
}

// run executes one dot-command and returns what it printed.
func (h *replHarness) run(line string) (string, string, bool) {
	h.out.Reset()
	h.errOut.Reset()
	quit := h.session.handleDotCommand(line)
	return h.out.String(), h.errOut.String(), quit
}

func TestREPL_StoreAndRender(t *testing.T) {
	h := newREPLHarness(t)

	out, errOut, _ := h.run(".store first SELECT * FROM a WHERE x > 10")
	assert.Equal(t, "Stored first\n", out)
	assert.Empty(t, errOut)

	out, _, _ = h.run(".store second --with first SELECT * FROM first WHERE x > 20")
	assert.Equal(t, "Stored second\n", out)

	out, _, _ = h.run(".render -w second SELECT * FROM second")
	assert.Equal(t,
		"WITH first AS (SELECT * FROM a WHERE x > 10), second AS (SELECT * FROM first WHERE x > 20)SELECT * FROM second\n",
		out)

	out, _, _ = h.run(".get second")
	assert.Equal(t, "SELECT * FROM first WHERE x > 20\n", out)

	out, _, _ = h.run(".list")
	assert.Equal(t, "first\nsecond (with first)\n", out)

	// Stored snippets reach the session store, not just the in-memory registry.
	reg, err := h.session.cmdCtx.Store.LoadRegistry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, reg.Names())
}

func TestREPL_DialectAndWith(t *testing.T) {
	h := newREPLHarness(t)
	h.run(".store first SELECT 1")

	out, _, _ := h.run(".dialect bigquery")
	assert.Equal(t, "Dialect: bigquery\n", out)

	out, _, _ = h.run(".with first")
	assert.Equal(t, "Rendering plain SQL with first\n", out)
	assert.Equal(t, []string{"first"}, h.session.with)

	h.out.Reset()
	h.session.render(h.session.with, "SELECT * FROM first")
	assert.Equal(t, "WITH `first` AS (SELECT 1)SELECT * FROM first\n", h.out.String())

	_, errOut, _ := h.run(".dialect klingon")
	assert.Contains(t, errOut, "Error: ")
	assert.Equal(t, "bigquery", h.session.dialect, "a bad dialect keeps the current one")
}

func TestREPL_Errors(t *testing.T) {
	h := newREPLHarness(t)

	tests := []struct {
		line   string
		errOut string
	}{
		{".store bad-name SELECT 1", "Error: Using hyphens is not allowed. Please use bad_name instead.\n"},
		{".store only_name", "Usage: .store <name> [--with a,b] <sql>\n"},
		{".get", "Usage: .get <name>\n"},
		{".get nothing", "Error: \"nothing\" is not a valid snippet identifier. Valid identifiers are .\n"},
		{".delete nothing", "Error: \"nothing\" is not a valid snippet identifier. Valid identifiers are .\n"},
		{".render --with first", "Usage: .render [--with a,b] <sql>\n"},
		{".bogus", "Unknown command: .bogus (type .help for commands)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			out, errOut, quit := h.run(tt.line)
			assert.False(t, quit)
			assert.Empty(t, out)
			assert.Equal(t, tt.errOut, errOut)
		})
	}
}

func TestREPL_Delete(t *testing.T) {
	h := newREPLHarness(t)
	h.run(".store first SELECT 1")

	out, _, _ := h.run(".delete first")
	assert.Equal(t, "Deleted first\n", out)

	out, _, _ = h.run(".list")
	assert.Equal(t, "(no snippets)\n", out)
}

func TestREPL_Quit(t *testing.T) {
	h := newREPLHarness(t)

	for _, line := range []string{".quit", ".exit", ".QUIT"} {
		_, _, quit := h.run(line)
		assert.True(t, quit, line)
	}

	out, _, quit := h.run(".help")
	assert.False(t, quit)
	assert.Contains(t, out, ".store <name>")
}

func TestREPL_BodiesKeptAsTyped(t *testing.T) {
	h := newREPLHarness(t)

	out, errOut, _ := h.run(".store spaced --with base SELECT 'a    b' AS x,\t'c  d' AS y")
	require.Empty(t, errOut)
	assert.Equal(t, "Stored spaced\n", out)

	s, ok := h.session.cmdCtx.Registry.Lookup("spaced")
	require.True(t, ok)
	assert.Equal(t, "SELECT 'a    b' AS x,\t'c  d' AS y", s.Body)
	assert.Equal(t, []string{"base"}, s.DependsOn)

	h.run(".store base SELECT 1")
	out, _, _ = h.run(".render -w base SELECT  'x   y'  FROM base")
	assert.Equal(t, "WITH base AS (SELECT 1)SELECT  'x   y'  FROM base\n", out)
}

// scriptedReader replays lines, then returns err (io.EOF when nil).
type scriptedReader struct {
	lines   []string
	err     error
	reads   int
	prompts []string
}

func (r *scriptedReader) Readline() (string, error) {
	r.reads++
	if len(r.lines) == 0 {
		if r.err != nil {
			return "", r.err
		}
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	if line == "^C" {
		return "", readline.ErrInterrupt
	}
	return line, nil
}

func (r *scriptedReader) SetPrompt(prompt string) { r.prompts = append(r.prompts, prompt) }

func TestREPL_Loop(t *testing.T) {
	t.Run("multi-line statement", func(t *testing.T) {
		h := newREPLHarness(t)
		h.run(".store first SELECT 1")
		h.run(".with first")
		h.out.Reset()

		rl := &scriptedReader{lines: []string{"SELECT *", "  FROM first;"}}
		require.NoError(t, h.session.loop(rl))
		assert.Equal(t, "WITH first AS (SELECT 1)SELECT *\n  FROM first\n\n", h.out.String())
		assert.Equal(t, []string{replContinue, replPrompt}, rl.prompts)
	})

	t.Run("interrupt drops the pending statement", func(t *testing.T) {
		h := newREPLHarness(t)

		rl := &scriptedReader{lines: []string{"SELECT 1", "^C", "SELECT 2;"}}
		require.NoError(t, h.session.loop(rl))
		assert.Equal(t, "SELECT 2\n\n", h.out.String())
	})

	t.Run("quit stops reading", func(t *testing.T) {
		h := newREPLHarness(t)

		rl := &scriptedReader{lines: []string{".quit", "SELECT 1;"}}
		require.NoError(t, h.session.loop(rl))
		assert.Equal(t, 1, rl.reads)
		assert.Empty(t, h.out.String())
	})

	t.Run("read error ends the session", func(t *testing.T) {
		h := newREPLHarness(t)

		rl := &scriptedReader{lines: []string{".store first SELECT 1"}, err: errors.New("terminal closed")}
		err := h.session.loop(rl)
		require.Error(t, err)
		assert.Equal(t, "failed to read input: terminal closed", err.Error())
		assert.Equal(t, 2, rl.reads)
	})
}

func TestNextField(t *testing.T) {
	tests := []struct {
		in, field, rest string
	}{
		{"", "", ""},
		{".get", ".get", ""},
		{"  .store  name   SELECT  1 ", ".store", "name   SELECT  1 "},
		{"name\tSELECT 'a  b'", "name", "SELECT 'a  b'"},
	}

	for _, tt := range tests {
		field, rest := nextField(tt.in)
		assert.Equal(t, tt.field, field, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}

func TestTakeWith(t *testing.T) {
	tests := []struct {
		name string
		in   string
		with []string
		rest string
	}{
		{"none", "SELECT  1", nil, "SELECT  1"},
		{"long", "--with a,b SELECT  1", []string{"a", "b"}, "SELECT  1"},
		{"short and equals", "-w a --with=b SELECT", []string{"a", "b"}, "SELECT"},
		{"trailing flag without value", "--with", nil, "--with"},
		{"only flags", "-w a", []string{"a"}, ""},
		{"flag after sql is sql", "SELECT --with a", nil, "SELECT --with a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			with, rest := takeWith(tt.in)
			assert.Equal(t, tt.with, with)
			assert.Equal(t, tt.rest, rest)
		})
	}
}
