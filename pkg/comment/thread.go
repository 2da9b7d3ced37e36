package comment

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Node is a comment together with its nested replies.
type Node struct {
	*View
	Children []*Node `json:"children"`
}

// BuildThread arranges the comments of a post into a forest. Comments whose
// parent is not in views become roots. Roots are ordered newest first and
// replies oldest first. Each comment appears exactly once.
func BuildThread(views []*View) []*Node {
	nodes := make(map[primitive.ObjectID]*Node, len(views))
	for _, v := range views {
		if _, dup := nodes[v.Id]; !dup {
			nodes[v.Id] = &Node{View: v, Children: []*Node{}}
		}
	}

	children := make(map[primitive.ObjectID][]*Node)
	roots := make([]*Node, 0)
	for _, n := range nodes {
		if n.ParentComment != nil && *n.ParentComment != n.Id {
			if _, ok := nodes[*n.ParentComment]; ok {
				children[*n.ParentComment] = append(children[*n.ParentComment], n)
				continue
			}
		}
		roots = append(roots, n)
	}

	sort.SliceStable(roots, func(i, j int) bool { return newer(roots[i], roots[j]) })
	for id := range children {
		c := children[id]
		sort.SliceStable(c, func(i, j int) bool { return newer(c[j], c[i]) })
	}

	visited := make(map[primitive.ObjectID]bool, len(nodes))
	walk := func(root *Node) {
		visited[root.Id] = true
		queue := []*Node{root}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			for _, child := range children[n.Id] {
				if visited[child.Id] {
					continue
				}
				visited[child.Id] = true
				n.Children = append(n.Children, child)
				queue = append(queue, child)
			}
		}
	}
	for _, r := range roots {
		walk(r)
	}

	// Comments only reachable through a parent cycle are promoted to roots.
	orphans := make([]*Node, 0)
	for _, n := range nodes {
		if !visited[n.Id] {
			orphans = append(orphans, n)
		}
	}
	sort.SliceStable(orphans, func(i, j int) bool { return newer(orphans[i], orphans[j]) })
	for _, n := range orphans {
		if visited[n.Id] {
			continue
		}
		walk(n)
		roots = append(roots, n)
	}

	return roots
}

func newer(a, b *Node) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.Id.Hex() > b.Id.Hex()
	}
	return a.CreatedAt.After(b.CreatedAt)
}
