package graph

import "fmt"

// DetectCycles walks the template graph reachable from roots and returns an
// error naming the first node found on a cycle. Only nodes for which include
// returns true take part; a nil include considers every node.
func DetectCycles(roots []*NodeDef, include func(*NodeDef) bool) error {
	if include == nil {
		include = func(*NodeDef) bool { return true }
	}

	// permanent: fully visited and known not to be on a cycle.
	// temporary: on the current DFS path.
	permanent := make(map[*NodeDef]bool)
	temporary := make(map[*NodeDef]bool)

	var visit func(n *NodeDef) error
	visit = func(n *NodeDef) error {
		if n == nil || permanent[n] || !include(n) {
			return nil
		}
		if temporary[n] {
			return fmt.Errorf("cycle detected involving node '%s'", n.Name)
		}

		temporary[n] = true
		for _, l := range n.Links {
			if err := visit(l.To); err != nil {
				return err
			}
		}
		delete(temporary, n)
		permanent[n] = true
		return nil
	}

	for _, r := range roots {
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}

// Walk visits every template node reachable from roots exactly once, in
// depth-first declaration order.
func Walk(roots []*NodeDef, fn func(*NodeDef)) {
	seen := make(map[*NodeDef]bool)
	var visit func(n *NodeDef)
	visit = func(n *NodeDef) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		fn(n)
		for _, l := range n.Links {
			visit(l.To)
		}
	}
	for _, r := range roots {
		visit(r)
	}
}
