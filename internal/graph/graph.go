// Package graph implements the dependency topology used by the planner and
// executor: insertion-ordered nodes keyed by task id, with edges pointing
// from a task to the tasks it requires. All traversals are deterministic
// for a given insertion order.
package graph

import (
	"fmt"
	"slices"
)

type Graph struct {
	order      []string
	deps       map[string][]string // id -> upstream ids (requirements)
	dependents map[string][]string // id -> downstream ids
}

func New() *Graph {
	return &Graph{
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

// AddNode registers an id. It reports false when the id is already present.
func (g *Graph) AddNode(id string) bool {
	if _, exists := g.deps[id]; exists {
		return false
	}
	g.order = append(g.order, id)
	g.deps[id] = nil
	g.dependents[id] = nil
	return true
}

// AddDependency records that id requires dep. Both nodes must already be
// registered. Duplicate edges are ignored.
func (g *Graph) AddDependency(id, dep string) error {
	if _, exists := g.deps[id]; !exists {
		return fmt.Errorf("node %s does not exist", id)
	}
	if _, exists := g.deps[dep]; !exists {
		return fmt.Errorf("node %s does not exist", dep)
	}
	if id == dep {
		return fmt.Errorf("node %s cannot depend on itself", id)
	}
	if slices.Contains(g.deps[id], dep) {
		return nil
	}
	g.deps[id] = append(g.deps[id], dep)
	g.dependents[dep] = append(g.dependents[dep], id)
	return nil
}

func (g *Graph) Has(id string) bool {
	_, exists := g.deps[id]
	return exists
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Nodes returns all ids in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.order)
}

// Dependencies returns the upstream ids of id.
func (g *Graph) Dependencies(id string) []string {
	return slices.Clone(g.deps[id])
}

// Dependents returns the downstream ids of id.
func (g *Graph) Dependents(id string) []string {
	return slices.Clone(g.dependents[id])
}

// Roots returns the ids with no dependencies, in insertion order.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.deps[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

// TopoSort returns the ids in dependency order using Kahn's algorithm.
// Ties are broken by insertion order, so the result is stable.
func (g *Graph) TopoSort() ([]string, error) {
	indegrees := make(map[string]int, len(g.order))
	for _, id := range g.order {
		indegrees[id] = len(g.deps[id])
	}

	queue := make([]string, 0, len(g.order))
	for _, id := range g.order {
		if indegrees[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		// Walk dependents in insertion order to keep the result stable.
		for _, dependent := range g.dependents[id] {
			indegrees[dependent]--
			if indegrees[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(sorted) != len(g.order) {
		if cycle := g.FindCycle(); cycle != nil {
			return nil, &CycleError{Path: cycle}
		}
		return nil, fmt.Errorf("dependency order cannot be determined")
	}

	return sorted, nil
}

// FindCycle returns one dependency cycle as a path whose first and last
// elements are the same id, or nil when the graph is acyclic.
func (g *Graph) FindCycle() []string {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)

	state := make(map[string]int, len(g.order))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		state[id] = inStack
		stack = append(stack, id)

		for _, dep := range g.deps[id] {
			switch state[dep] {
			case inStack:
				// Found it: slice the stack from the first occurrence of dep.
				start := slices.Index(stack, dep)
				cycle = append(slices.Clone(stack[start:]), dep)
				return true
			case unvisited:
				if dfs(dep) {
					return true
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = done
		return false
	}

	for _, id := range g.order {
		if state[id] == unvisited && dfs(id) {
			return cycle
		}
	}
	return nil
}

// Depths returns, for every id, the length of the longest dependency chain
// below it. Roots have depth 0. Fails on cyclic graphs.
func (g *Graph) Depths() (map[string]int, error) {
	sorted, err := g.TopoSort()
	if err != nil {
		return nil, err
	}

	depths := make(map[string]int, len(sorted))
	for _, id := range sorted {
		depth := 0
		for _, dep := range g.deps[id] {
			if d := depths[dep] + 1; d > depth {
				depth = d
			}
		}
		depths[id] = depth
	}
	return depths, nil
}

// UpstreamClosure returns the seeds plus everything they transitively
// require, in breadth-first discovery order.
func (g *Graph) UpstreamClosure(seeds ...string) []string {
	return g.closure(seeds, g.deps)
}

// DownstreamClosure returns the seeds plus everything that transitively
// requires them, in breadth-first discovery order.
func (g *Graph) DownstreamClosure(seeds ...string) []string {
	return g.closure(seeds, g.dependents)
}

func (g *Graph) closure(seeds []string, edges map[string][]string) []string {
	seen := make(map[string]bool, len(seeds))
	var result []string
	queue := make([]string, 0, len(seeds))

	for _, id := range seeds {
		if !g.Has(id) || seen[id] {
			continue
		}
		seen[id] = true
		queue = append(queue, id)
		result = append(result, id)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range edges[id] {
			if seen[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
			result = append(result, next)
		}
	}

	return result
}

// CycleError reports a dependency cycle through the listed ids.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "dependency cycle detected"
	}
	out := e.Path[0]
	for _, id := range e.Path[1:] {
		out += " -> " + id
	}
	return "dependency cycle detected: " + out
}
