package output

// JSON output shapes shared by commands.

// SnippetInfo describes a stored snippet.
type SnippetInfo struct {
	Name      string   `json:"name"`
	SQL       string   `json:"sql"`
	DependsOn []string `json:"depends_on"`
	Position  int      `json:"position"`
	Upstream  []string `json:"upstream,omitempty"`
}

// ListOutput is the JSON output of the list command.
type ListOutput struct {
	Snippets []SnippetInfo `json:"snippets"`
	Total    int           `json:"total"`
}

// RenderOutput is the JSON output of the render command.
type RenderOutput struct {
	SQL       string   `json:"sql"`
	Requested []string `json:"requested"`
	CTEs      []string `json:"ctes"`
	Dialect   string   `json:"dialect"`
	Backtick  bool     `json:"backtick"`
}

// GraphNode is a snippet in the dependency graph.
type GraphNode struct {
	Name      string   `json:"name"`
	DependsOn []string `json:"depends_on"`
	UsedBy    []string `json:"used_by"`
}

// GraphLevel groups snippets with the same dependency depth.
type GraphLevel struct {
	Level    int         `json:"level"`
	Snippets []GraphNode `json:"snippets"`
}

// GraphOutput is the JSON output of the graph command.
type GraphOutput struct {
	Levels        []GraphLevel `json:"levels"`
	TotalSnippets int          `json:"total_snippets"`
	TotalEdges    int          `json:"total_edges"`
	Roots         []string     `json:"roots"`
	Leaves        []string     `json:"leaves"`
}

// DialectInfo describes a registered dialect.
type DialectInfo struct {
	Name          string   `json:"name"`
	Aliases       []string `json:"aliases,omitempty"`
	Quote         string   `json:"quote"`
	Backtick      bool     `json:"backtick"`
	DefaultSchema string   `json:"default_schema,omitempty"`
}

// ImportOutput is the JSON output of the import command.
type ImportOutput struct {
	File     string   `json:"file"`
	Imported []string `json:"imported"`
	Total    int      `json:"total"`
}

// DoctorCheck is a single doctor check result.
type DoctorCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// DoctorOutput is the JSON output of the doctor command.
type DoctorOutput struct {
	Checks  []DoctorCheck `json:"checks"`
	Healthy bool          `json:"healthy"`
}
