package report

import "strings"

// TreeNode is one rendered task in a dependency preview. Children are the
// node's direct requirements.
type TreeNode struct {
	Display  string
	Status   string
	Children []*TreeNode

	// Clipped marks that the node has requirements not shown because the
	// preview depth limit was reached.
	Clipped bool
}

// RenderTree draws each root's requirement tree with box-drawing
// connectors, deepest dependencies indented furthest.
func RenderTree(roots []*TreeNode) string {
	var sb strings.Builder
	for i, root := range roots {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeNode(&sb, root, "", "")
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n *TreeNode, connector, childPrefix string) {
	sb.WriteString(connector)
	sb.WriteString(n.Display)
	if n.Status != "" {
		sb.WriteString(" [" + n.Status + "]")
	}
	sb.WriteString("\n")

	children := n.Children
	if n.Clipped {
		children = append(append([]*TreeNode(nil), children...), &TreeNode{Display: "..."})
	}
	for i, child := range children {
		last := i == len(children)-1
		conn := childPrefix + "├─ "
		next := childPrefix + "│  "
		if last {
			conn = childPrefix + "└─ "
			next = childPrefix + "   "
		}
		writeNode(sb, child, conn, next)
	}
}
