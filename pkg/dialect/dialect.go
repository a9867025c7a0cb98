// Package dialect provides the SQL dialect catalog.
//
// A dialect describes how a database quotes and normalizes identifiers and how
// it formats query parameters. The snippet renderer consults it to decide
// whether CTE names are wrapped in backticks.
package dialect

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/snipsql/pkg/core"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name        string
	Identifiers core.IdentifierConfig

	DefaultSchema string                // "main" for DuckDB, "public" for Postgres
	Placeholder   core.PlaceholderStyle // How to format query parameters

	aliases []string
}

// Config returns the pure data configuration for this dialect.
func (d *Dialect) Config() *core.DialectConfig {
	return &core.DialectConfig{
		Name:          d.Name,
		Identifiers:   d.Identifiers,
		DefaultSchema: d.DefaultSchema,
		Placeholder:   d.Placeholder,
	}
}

// Aliases returns the alternative names the dialect is registered under.
func (d *Dialect) Aliases() []string {
	return append([]string(nil), d.aliases...)
}

// UsesBacktickQuoting reports whether identifiers are quoted with backticks.
// It makes *Dialect a snippet.Quoting.
func (d *Dialect) UsesBacktickQuoting() bool {
	return d.Identifiers.Quote == "`"
}

// NormalizeName normalizes an identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Identifiers.Normalization {
	case core.NormUppercase:
		return strings.ToUpper(name)
	case core.NormLowercase, core.NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// QuoteIdentifier quotes an identifier using the dialect's quote characters.
func (d *Dialect) QuoteIdentifier(name string) string {
	// Escape any existing quote end characters in the name (e.g., ] -> ]])
	escaped := strings.ReplaceAll(name, d.Identifiers.QuoteEnd, d.Identifiers.Escape)
	return d.Identifiers.Quote + escaped + d.Identifiers.QuoteEnd
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	case core.PlaceholderAtP:
		return "@p" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// QuoteStyle returns a short description of the identifier quotes, e.g. `"name"`.
func (d *Dialect) QuoteStyle() string {
	return d.Identifiers.Quote + "name" + d.Identifiers.QuoteEnd
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
// Dialects default to ANSI double-quoted, lowercase-normalized identifiers.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name: name,
			Identifiers: core.IdentifierConfig{
				Quote:         `"`,
				QuoteEnd:      `"`,
				Escape:        `""`,
				Normalization: core.NormLowercase,
			},
		},
	}
}

// Identifiers sets the quoting and normalization rules.
func (b *Builder) Identifiers(quote, quoteEnd, escape string, norm core.NormalizationStrategy) *Builder {
	b.dialect.Identifiers = core.IdentifierConfig{
		Quote:         quote,
		QuoteEnd:      quoteEnd,
		Escape:        escape,
		Normalization: norm,
	}
	return b
}

// DefaultSchema sets the default schema name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.dialect.Placeholder = style
	return b
}

// Aliases registers additional lookup names for the dialect.
func (b *Builder) Aliases(names ...string) *Builder {
	b.dialect.aliases = append(b.dialect.aliases, names...)
	return b
}

// Build returns the configured dialect.
func (b *Builder) Build() *Dialect {
	return b.dialect
}
