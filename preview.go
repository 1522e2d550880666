package relay

import (
	"context"

	"github.com/relay-run/relay/internal/report"
)

type previewConfig struct {
	maxDepth int
}

// PreviewOption adjusts a single Preview call.
type PreviewOption func(*previewConfig)

// WithMaxDepth limits how many requirement levels the preview renders.
// Clipped branches end in an ellipsis line. Zero shows the whole graph.
func WithMaxDepth(levels int) PreviewOption {
	return func(cfg *previewConfig) {
		if levels > 0 {
			cfg.maxDepth = levels
		}
	}
}

// PreviewTask renders the requirement tree of a single task.
func PreviewTask(ctx context.Context, t Task, opts ...PreviewOption) (string, error) {
	return Preview(ctx, []Task{t}, opts...)
}

// Preview resolves the requested tasks and renders their requirement
// trees, marking each task COMPLETE or PENDING by checking its output.
// Nothing is executed or removed. Tasks shared between branches appear
// under every task that requires them.
func Preview(ctx context.Context, tasks []Task, opts ...PreviewOption) (string, error) {
	cfg := previewConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	fg, err := resolve(tasks)
	if err != nil {
		return "", err
	}
	complete, err := completionScan(ctx, fg, fg.order)
	if err != nil {
		return "", err
	}
	roots := make([]*report.TreeNode, 0, len(fg.requested))
	for _, id := range fg.requested {
		roots = append(roots, previewNode(fg, id, complete, cfg.maxDepth, 0))
	}
	return report.RenderTree(roots), nil
}

func previewNode(fg *flowGraph, id string, complete map[string]bool, maxDepth, depth int) *report.TreeNode {
	n := fg.nodes[id]
	tn := &report.TreeNode{Display: n.display, Status: previewMarker(complete[id])}
	if maxDepth > 0 && depth >= maxDepth-1 && len(n.deps) > 0 {
		tn.Clipped = true
		return tn
	}
	for _, dep := range n.deps {
		tn.Children = append(tn.Children, previewNode(fg, dep, complete, maxDepth, depth+1))
	}
	return tn
}

func previewMarker(complete bool) string {
	if complete {
		return "COMPLETE"
	}
	return "PENDING"
}
