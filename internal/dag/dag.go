// Package dag provides directed acyclic graph operations for snippet dependencies.
// It supports cycle detection, ordered topological sorting, and execution levels.
//
// Nodes keep the order in which they were added. Every traversal in this package
// walks nodes in that order, so results never depend on map iteration.
package dag

import (
	"fmt"
	"sort"
	"strings"
)

// Node represents a node in the DAG.
type Node struct {
	// ID is the unique identifier (snippet name)
	ID string
	// Data holds arbitrary node data
	Data any
}

// Graph represents a directed graph that is expected to be acyclic.
type Graph struct {
	order   []string
	index   map[string]int
	nodes   map[string]*Node
	edges   map[string][]string // parent -> children (dependents)
	parents map[string][]string // child -> parents (dependencies)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		index:   make(map[string]int),
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node to the graph.
// Adding an existing node updates its data and keeps its position.
func (g *Graph) AddNode(id string, data any) {
	if n, exists := g.nodes[id]; exists {
		n.Data = data
		return
	}
	g.nodes[id] = &Node{ID: id, Data: data}
	g.edges[id] = []string{}
	g.parents[id] = []string{}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
}

// AddEdge adds a directed edge from parent to child (child depends on parent).
func (g *Graph) AddEdge(parentID, childID string) error {
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}

	if parentID == childID {
		return fmt.Errorf("self-loop detected: %s", parentID)
	}

	if !contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}

	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// GetParents returns the parents (dependencies) of a node.
func (g *Graph) GetParents(id string) []string {
	return g.parents[id]
}

// GetChildren returns the children (dependents) of a node.
func (g *Graph) GetChildren(id string) []string {
	return g.edges[id]
}

// Position returns the insertion index of a node, or -1 if it is absent.
func (g *Graph) Position(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// IDs returns node IDs in insertion order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
// The path starts and ends with the same node.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.edges[id] {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.order {
		if !visited[id] {
			if dfs(id) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// CycleError is returned by sorting operations when the graph is not acyclic.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Path, " -> "))
}

// TopologicalSort returns nodes in topological order (dependencies before dependents).
// Ready nodes are emitted in insertion order.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	return g.TopologicalSortFunc(func(a, b string) bool {
		return g.Position(a) < g.Position(b)
	})
}

// TopologicalSortFunc runs Kahn's algorithm and uses less to pick the next node
// among all nodes whose parents have been emitted.
//
// less need not be transitive. The ready list is kept in insertion order and the
// running minimum over it is taken, which makes the choice deterministic for any
// less. Only ready nodes are scanned at each step.
// Returns a *CycleError if some nodes can never become ready.
func (g *Graph) TopologicalSortFunc(less func(a, b string) bool) ([]*Node, error) {
	inDegree := make(map[string]int, len(g.nodes))
	var ready []string
	for _, id := range g.order {
		inDegree[id] = len(g.parents[id])
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	result := make([]*Node, 0, len(g.nodes))
	for len(ready) > 0 {
		best := 0
		for i := 1; i < len(ready); i++ {
			if less(ready[i], ready[best]) {
				best = i
			}
		}

		next := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		result = append(result, g.nodes[next])

		for _, childID := range g.edges[next] {
			inDegree[childID]--
			if inDegree[childID] == 0 {
				ready = g.insertByPosition(ready, childID)
			}
		}
	}

	if len(result) < len(g.nodes) {
		_, cyclePath := g.HasCycle()
		return nil, &CycleError{Path: cyclePath}
	}

	return result, nil
}

// insertByPosition inserts id into ids, which is sorted by insertion index.
func (g *Graph) insertByPosition(ids []string, id string) []string {
	pos := g.index[id]
	i := sort.Search(len(ids), func(i int) bool { return g.index[ids[i]] > pos })
	ids = append(ids, "")
	copy(ids[i+1:], ids[i:])
	ids[i] = id
	return ids
}

// GetExecutionLevels returns nodes grouped by execution level.
// Level 0 contains nodes with no dependencies; a node at level N depends on at
// least one node at level N-1. Each level keeps insertion order.
func (g *Graph) GetExecutionLevels() ([][]string, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, &CycleError{Path: cyclePath}
	}

	assigned := make(map[string]int)

	var getLevel func(id string) int
	getLevel = func(id string) int {
		if level, ok := assigned[id]; ok {
			return level
		}

		level := 0
		for _, parentID := range g.parents[id] {
			if parentLevel := getLevel(parentID) + 1; parentLevel > level {
				level = parentLevel
			}
		}
		assigned[id] = level
		return level
	}

	maxLevel := -1
	for _, id := range g.order {
		if level := getLevel(id); level > maxLevel {
			maxLevel = level
		}
	}

	levels := make([][]string, maxLevel+1)
	for _, id := range g.order {
		levels[assigned[id]] = append(levels[assigned[id]], id)
	}

	return levels, nil
}

// GetUpstreamNodes returns all nodes upstream of the given node (its dependencies
// and their dependencies), in insertion order.
func (g *Graph) GetUpstreamNodes(id string) []string {
	upstream := make(map[string]bool)

	var markUpstream func(nodeID string)
	markUpstream = func(nodeID string) {
		for _, parentID := range g.parents[nodeID] {
			if !upstream[parentID] {
				upstream[parentID] = true
				markUpstream(parentID)
			}
		}
	}

	markUpstream(id)

	result := make([]string, 0, len(upstream))
	for _, nodeID := range g.order {
		if upstream[nodeID] {
			result = append(result, nodeID)
		}
	}
	return result
}

// GetRoots returns nodes with no parents (no dependencies).
func (g *Graph) GetRoots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// GetLeaves returns nodes with no children (no dependents).
func (g *Graph) GetLeaves() []string {
	var leaves []string
	for _, id := range g.order {
		if len(g.edges[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	return leaves
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
