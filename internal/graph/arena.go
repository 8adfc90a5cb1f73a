package graph

// Arena owns the node instances of a single cast. Slots of released nodes are
// reused by later instantiations.
type Arena struct {
	nodes []*Node
	free  []Handle
	live  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Instantiate builds a structurally independent working copy of def: the node,
// each of its links, and each link's actions. Content, predicates and link
// actions come from the factory, so nothing is shared with the template.
func (a *Arena) Instantiate(def *NodeDef, f Factory) *Node {
	n := &Node{
		Def:   def,
		State: Idle,
	}
	if def.Content != nil {
		n.Content = f.NewContent(def.Content)
	}
	if len(def.Links) > 0 {
		n.Links = make([]*Link, 0, len(def.Links))
		for _, ld := range def.Links {
			l := &Link{Def: ld, From: n}
			if ld.Condition != nil {
				l.Predicate = f.NewPredicate(ld.Condition)
			}
			for _, spec := range ld.Actions {
				if la := f.NewLinkAction(spec); la != nil {
					l.Actions = append(l.Actions, la)
				}
			}
			n.Links = append(n.Links, l)
		}
	}

	if len(a.free) > 0 {
		h := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
		n.Handle = h
		a.nodes[h] = n
	} else {
		n.Handle = Handle(len(a.nodes))
		a.nodes = append(a.nodes, n)
	}
	a.live++
	return n
}

// Get resolves a handle. Released or unknown handles resolve to nil.
func (a *Arena) Get(h Handle) *Node {
	if h < 0 || int(h) >= len(a.nodes) {
		return nil
	}
	return a.nodes[h]
}

// Release destroys a node instance and frees its slot. Releasing a node that
// the arena does not hold is a no-op.
func (a *Arena) Release(n *Node) {
	if n == nil || a.Get(n.Handle) != n {
		return
	}
	a.nodes[n.Handle] = nil
	a.free = append(a.free, n.Handle)
	a.live--

	n.Handle = NoHandle
	n.Content = nil
	n.Data = nil
	n.Links = nil
}

// Live returns the number of node instances currently held.
func (a *Arena) Live() int {
	return a.live
}

// Reset drops every instance. Backing storage is kept for the next cast.
func (a *Arena) Reset() {
	for i, n := range a.nodes {
		if n != nil {
			n.Handle = NoHandle
		}
		a.nodes[i] = nil
	}
	a.nodes = a.nodes[:0]
	a.free = a.free[:0]
	a.live = 0
}
