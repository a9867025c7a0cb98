// Package snippet stores named SQL fragments and composes them into a single
// statement with common table expressions.
//
// A Registry maps snippet names to their SQL body and the snippets they depend
// on. Render computes the transitive closure of the requested snippets, orders
// it so every dependency precedes its dependents, and prints a WITH clause in
// front of the main query:
//
//	reg := snippet.NewRegistry()
//	_ = reg.Store("first", "SELECT * FROM a WHERE x > 10")
//	_ = reg.Store("second", "SELECT * FROM first WHERE x > 20", "first")
//	sql, err := reg.Render("SELECT * FROM second", []string{"second"}, nil)
//	// WITH first AS (SELECT * FROM a WHERE x > 10), second AS (SELECT * FROM first WHERE x > 20)SELECT * FROM second
//
// Snippet bodies are opaque text; they are never parsed or validated as SQL.
//
// A Registry is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
package snippet
