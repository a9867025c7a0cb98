package snippet

import (
	"errors"
	"strings"

	"github.com/leapstack-labs/snipsql/internal/dag"
)

// Resolve returns the transitive closure of requested, ordered so that every
// snippet comes after all of its dependencies.
//
// Requested names may repeat; only the first occurrence counts. Among snippets
// that are ready at the same time, two requested snippets keep their request
// order and any other pair keeps registry insertion order.
func Resolve(r *Registry, requested []string) ([]Snippet, error) {
	tb := tieBreaker{
		requested: make(map[string]int, len(requested)),
		inserted:  make(map[string]int, len(r.order)),
	}
	for i, name := range r.order {
		tb.inserted[name] = i
	}

	for _, name := range requested {
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		if _, ok := r.entries[name]; !ok {
			return nil, unknownSnippetError(name, r.order)
		}
		if _, seen := tb.requested[name]; !seen {
			tb.requested[name] = len(tb.requested)
		}
	}

	closure, err := r.closure(requested)
	if err != nil {
		return nil, err
	}

	g := dag.NewGraph()
	for _, name := range r.order {
		if closure[name] {
			g.AddNode(name, r.entries[name])
		}
	}
	for _, name := range g.IDs() {
		for _, dep := range r.entries[name].DependsOn {
			if err := g.AddEdge(dep, name); err != nil {
				return nil, err
			}
		}
	}

	sorted, err := g.TopologicalSortFunc(tb.precedes)
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return nil, &Error{
				Kind:    KindCycleDetected,
				Path:    cycleErr.Path,
				Message: "Cycle detected in snippet dependencies: " + strings.Join(cycleErr.Path, " -> ") + ".",
			}
		}
		return nil, err
	}

	out := make([]Snippet, len(sorted))
	for i, node := range sorted {
		out[i] = node.Data.(*Snippet).clone()
	}
	return out, nil
}

// closure collects every name reachable from roots through DependsOn.
func (r *Registry) closure(roots []string) (map[string]bool, error) {
	seen := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if seen[name] {
			return nil
		}
		seen[name] = true

		for _, dep := range r.entries[name].DependsOn {
			if _, ok := r.entries[dep]; !ok {
				return newError(KindUnknownDependency, dep,
					"Snippet %q depends on unknown snippet %q.", name, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		return nil
	}

	for _, name := range roots {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return seen, nil
}

// tieBreaker orders snippets that are ready to be emitted at the same step.
type tieBreaker struct {
	requested map[string]int // first index in the request, deduplicated
	inserted  map[string]int // registry insertion index
}

// precedes reports whether a should be emitted before b.
// Request order applies only when both were requested directly.
func (t tieBreaker) precedes(a, b string) bool {
	ra, aRequested := t.requested[a]
	rb, bRequested := t.requested[b]
	if aRequested && bRequested {
		return ra < rb
	}
	return t.inserted[a] < t.inserted[b]
}
