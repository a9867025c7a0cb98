package snippet

import "strings"

// Quoting reports whether the active SQL dialect quotes identifiers with
// backticks. Implementations may query a live connection.
type Quoting interface {
	UsesBacktickQuoting() bool
}

// QuotingFunc adapts a function to the Quoting interface.
type QuotingFunc func() bool

// UsesBacktickQuoting calls f.
func (f QuotingFunc) UsesBacktickQuoting() bool {
	return f()
}

// RenderCTE prefixes mainQuery with one CTE per entry, in order.
//
// The output is "WITH n1 AS (b1), n2 AS (b2)" immediately followed by mainQuery,
// with no separator after the last closing parenthesis. Names are wrapped in
// backticks when backtick is true. Bodies are copied verbatim. With no entries
// mainQuery is returned unchanged.
func RenderCTE(entries []Snippet, mainQuery string, backtick bool) string {
	if len(entries) == 0 {
		return mainQuery
	}

	q := ""
	if backtick {
		q = "`"
	}

	var sb strings.Builder
	sb.WriteString("WITH ")
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(q)
		sb.WriteString(e.Name)
		sb.WriteString(q)
		sb.WriteString(" AS (")
		sb.WriteString(e.Body)
		sb.WriteString(")")
	}
	sb.WriteString(mainQuery)
	return sb.String()
}
