package snippet

// Snippet is a named SQL fragment and the snippets it reads from.
type Snippet struct {
	Name string
	Body string
	// DependsOn lists dependency names in declaration order, without duplicates.
	DependsOn []string
}

// Registry maps snippet names to definitions and remembers the order in which
// names were first stored.
type Registry struct {
	order   []string
	entries map[string]*Snippet
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*Snippet),
	}
}

// Store validates and saves a snippet; the last store of a name wins.
//
// Re-storing an existing name replaces its body and dependencies but keeps the
// position it received when it was first stored. Dependencies are not required
// to exist yet; they are checked when a render reaches them.
func (r *Registry) Store(name, body string, deps ...string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateDependencies(name, deps); err != nil {
		return err
	}

	s := &Snippet{
		Name:      name,
		Body:      body,
		DependsOn: dedupe(deps),
	}
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = s
	return nil
}

// Set stores a snippet without dependencies.
func (r *Registry) Set(name, body string) error {
	return r.Store(name, body)
}

// Get returns the body of the named snippet.
// An unknown name yields a KindUnknownSnippet error that either suggests the
// closest stored name or lists every stored name.
func (r *Registry) Get(name string) (string, error) {
	s, ok := r.entries[name]
	if !ok {
		return "", unknownSnippetError(name, r.order)
	}
	return s.Body, nil
}

// Lookup returns a copy of the named snippet.
func (r *Registry) Lookup(name string) (Snippet, bool) {
	s, ok := r.entries[name]
	if !ok {
		return Snippet{}, false
	}
	return s.clone(), true
}

// Names returns stored names in insertion order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Snippets returns copies of all stored snippets in insertion order.
func (r *Registry) Snippets() []Snippet {
	out := make([]Snippet, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.entries[name].clone())
	}
	return out
}

// Position returns the insertion index of name, or -1 if it is not stored.
func (r *Registry) Position(name string) int {
	for i, n := range r.order {
		if n == name {
			return i
		}
	}
	return -1
}

// Delete removes a snippet and reports whether it was stored. Snippets that
// depend on it are kept and fail to render until it is stored again.
func (r *Registry) Delete(name string) bool {
	i := r.Position(name)
	if i < 0 {
		return false
	}
	r.order = append(r.order[:i], r.order[i+1:]...)
	delete(r.entries, name)
	return true
}

// Len returns the number of stored snippets.
func (r *Registry) Len() int {
	return len(r.order)
}

// Render resolves the requested snippets and prefixes mainQuery with their
// WITH clause. q decides identifier quoting and is consulted once, after
// resolution succeeds; a nil q means identifiers are not quoted.
//
// Either the whole statement is returned or an error with no output.
func (r *Registry) Render(mainQuery string, requested []string, q Quoting) (string, error) {
	rendered, err := r.RenderStatement(mainQuery, requested, q)
	if err != nil {
		return "", err
	}
	return rendered.SQL, nil
}

// Statement is a rendered query together with what went into it.
type Statement struct {
	SQL string
	// CTEs are the snippet names in WITH clause order.
	CTEs []string
	// Backtick is the quoting answer the statement was rendered with.
	Backtick bool
}

// RenderStatement is Render, also reporting the CTE order and the quoting
// answer used. Resolution runs once and q is consulted at most once.
func (r *Registry) RenderStatement(mainQuery string, requested []string, q Quoting) (Statement, error) {
	ordered, err := Resolve(r, requested)
	if err != nil {
		return Statement{}, err
	}

	backtick := false
	if q != nil {
		backtick = q.UsesBacktickQuoting()
	}

	ctes := make([]string, 0, len(ordered))
	for _, s := range ordered {
		ctes = append(ctes, s.Name)
	}
	return Statement{
		SQL:      RenderCTE(ordered, mainQuery, backtick),
		CTEs:     ctes,
		Backtick: backtick,
	}, nil
}

func (s *Snippet) clone() Snippet {
	deps := make([]string, len(s.DependsOn))
	copy(deps, s.DependsOn)
	return Snippet{Name: s.Name, Body: s.Body, DependsOn: deps}
}

// dedupe removes repeated names, keeping the first occurrence.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
