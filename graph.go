package relay

import (
	"errors"
	"fmt"

	"github.com/relay-run/relay/internal/graph"
)

// node is one resolved task instance in a flow graph.
type node struct {
	task     Task
	id       string
	family   string
	display  string
	deps     []string
	priority int
	retries  int
}

// flowGraph is the dependency graph resolved from a set of requested
// tasks. Nodes are keyed by task id, so equal task values collapse into
// one node regardless of how many places require them.
type flowGraph struct {
	nodes     map[string]*node
	topo      *graph.Graph
	requested []string
	order     []string
	depth     map[string]int
}

// resolve walks Requires edges from the requested tasks, validates the
// graph and returns it topologically sorted. The first task value seen for
// an id wins; later equal values are dropped.
func resolve(tasks []Task) (*flowGraph, error) {
	if len(tasks) == 0 {
		return nil, errors.New("relay: no tasks given")
	}
	fg := &flowGraph{nodes: make(map[string]*node), topo: graph.New()}
	seen := make(map[string]bool)
	for _, t := range tasks {
		if t == nil {
			return nil, errors.New("relay: nil task given")
		}
		id, err := fg.add(t)
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			fg.requested = append(fg.requested, id)
		}
	}
	order, err := fg.topo.TopoSort()
	if err != nil {
		var ce *graph.CycleError
		if errors.As(err, &ce) {
			return nil, &CycleError{Path: ce.Path}
		}
		return nil, err
	}
	fg.order = order
	if fg.depth, err = fg.topo.Depths(); err != nil {
		return nil, err
	}
	return fg, nil
}

func (fg *flowGraph) add(t Task) (string, error) {
	id := IDOf(t)
	if _, ok := fg.nodes[id]; ok {
		return id, nil
	}
	n := &node{
		task:     t,
		id:       id,
		family:   FamilyOf(t),
		display:  DisplayOf(t),
		priority: priorityOf(t),
		retries:  retriesOf(t),
	}
	fg.nodes[id] = n
	fg.topo.AddNode(id)
	depSeen := make(map[string]bool)
	for _, dep := range requiresOf(t) {
		if dep == nil {
			return "", fmt.Errorf("relay: task %s requires a nil task", n.display)
		}
		depID, err := fg.add(dep)
		if err != nil {
			return "", err
		}
		if depSeen[depID] {
			continue
		}
		depSeen[depID] = true
		if err := fg.topo.AddDependency(id, depID); err != nil {
			return "", fmt.Errorf("relay: task %s: %w", n.display, err)
		}
		n.deps = append(n.deps, depID)
	}
	return id, nil
}

// displayOf returns the display form for an id, falling back to the id
// itself for nodes that are not part of this graph.
func (fg *flowGraph) displayOf(id string) string {
	if n, ok := fg.nodes[id]; ok {
		return n.display
	}
	return id
}

// upstream returns the ids of seeds plus everything they require,
// transitively.
func (fg *flowGraph) upstream(seeds ...string) []string {
	return fg.topo.UpstreamClosure(seeds...)
}

// downstream returns the ids of seeds plus everything that requires them,
// transitively.
func (fg *flowGraph) downstream(seeds ...string) []string {
	return fg.topo.DownstreamClosure(seeds...)
}

