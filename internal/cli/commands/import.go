package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/snipsql/internal/cli/output"
	"github.com/leapstack-labs/snipsql/pkg/snippet"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ImportFile is the YAML document accepted by the import command.
type ImportFile struct {
	Snippets []ImportSnippet `yaml:"snippets"`
}

// ImportSnippet is one snippet definition in an import file.
type ImportSnippet struct {
	Name string   `yaml:"name"`
	SQL  string   `yaml:"sql"`
	With []string `yaml:"with"`
}

// NewImportCommand creates the import command.
func NewImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Store snippets defined in a YAML file",
		Long: `Store every snippet defined in a YAML file, in document order.

The file lists snippets under a top-level "snippets" key:

  snippets:
    - name: first
      sql: SELECT * FROM a WHERE x > 10
    - name: second
      sql: SELECT * FROM first WHERE x > 20
      with: [first]

All definitions are checked before anything is stored, and they are written
in one transaction: one invalid snippet or a failed write leaves the session
unchanged. Use "-" to read from standard input.`,
		Example: `  snipsql import snippets.yaml
  cat snippets.yaml | snipsql import -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0])
		},
	}
}

// parseImportFile decodes an import document, rejecting unknown keys.
func parseImportFile(data []byte) (*ImportFile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f ImportFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, err
	}
	return &f, nil
}

func runImport(cmd *cobra.Command, path string) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path) //#nosec G304 -- path is the import file named on the command line
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	f, err := parseImportFile(data)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer

	// Validate everything against a scratch registry first.
	scratch := snippet.NewRegistry()
	for i, s := range f.Snippets {
		if err := scratch.Store(s.Name, s.SQL, s.With...); err != nil {
			return fmt.Errorf("snippet %d: %w", i+1, err)
		}
	}

	imported := make([]string, 0, len(f.Snippets))
	batch := make([]snippet.Snippet, 0, len(f.Snippets))
	for _, s := range f.Snippets {
		if err := cmdCtx.Registry.Store(s.Name, s.SQL, s.With...); err != nil {
			return err
		}
		stored, _ := cmdCtx.Registry.Lookup(s.Name)
		batch = append(batch, stored)
		imported = append(imported, s.Name)
	}
	// One transaction, so a failed write leaves the session as it was.
	if err := cmdCtx.Store.SaveSnippets(cmd.Context(), batch); err != nil {
		return err
	}
	cmdCtx.Logger.Debug("imported snippets", "file", path, "count", len(batch))

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.ImportOutput{File: path, Imported: imported, Total: cmdCtx.Registry.Len()})
	}

	if len(imported) == 0 {
		r.Warning(fmt.Sprintf("No snippets found in %s", path))
		return nil
	}
	for _, name := range imported {
		r.StatusLine(name, "success", "")
	}
	r.Success(fmt.Sprintf("Imported %d snippets (%d stored)", len(imported), cmdCtx.Registry.Len()))
	return nil
}
