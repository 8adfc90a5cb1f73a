package graph

// State is the execution state of a node instance.
type State int

const (
	// Idle is the state of a node that has not started work.
	Idle State = iota
	// Working indicates the node's content is still running.
	Working
	// Succeeded indicates the node finished successfully.
	Succeeded
	// Failed indicates the node finished with a failure.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Working:
		return "working"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Done reports whether the state is terminal for the current activation.
func (s State) Done() bool {
	return s == Succeeded || s == Failed
}

// Handle addresses a node instance inside an Arena.
type Handle int

// NoHandle is the zero value handle of a node that is not held by an arena.
const NoHandle Handle = -1

// NodeDef is the template definition of a node.
type NodeDef struct {
	// Name is unique within one spell template.
	Name string
	// Content is an opaque spec used by a Factory to build the node's content.
	// A nil Content produces a node without content.
	Content any
	// Links are evaluated in declaration order.
	Links []*LinkDef
}

// LinkDef is the template definition of a directed edge.
type LinkDef struct {
	Name string
	// To is the node activated when the link fires.
	To *NodeDef
	// Condition is an opaque predicate spec. Nil means the link always fires.
	Condition any
	// Actions are opaque side-effect specs run in order when the link fires.
	Actions []any
}

// Node is a working copy of a NodeDef.
type Node struct {
	Handle Handle
	Def    *NodeDef
	State  State
	// Data is the per-activation payload passed along when the node was activated.
	Data any
	// Content is the live object built from Def.Content, or nil.
	Content any
	Links   []*Link
}

// Name returns the template name of the node.
func (n *Node) Name() string {
	if n == nil || n.Def == nil {
		return ""
	}
	return n.Def.Name
}

// Link is a working copy of a LinkDef, owned by its From node.
type Link struct {
	Def       *LinkDef
	From      *Node
	Predicate Predicate
	Actions   []LinkAction
	// Traversed is set once the link has fired. A link instance fires at
	// most once.
	Traversed bool
}

// TestActivate reports whether the link should be traversed now.
func (l *Link) TestActivate() bool {
	if l.Predicate == nil {
		return true
	}
	return l.Predicate.TestActivate(l)
}

// Predicate decides whether a link fires, based on the current state of its
// source node and whatever the implementation closes over.
type Predicate interface {
	TestActivate(l *Link) bool
}

// PredicateFunc adapts a plain function to the Predicate interface.
type PredicateFunc func(l *Link) bool

// TestActivate calls f(l).
func (f PredicateFunc) TestActivate(l *Link) bool {
	return f(l)
}

// LinkAction is a side effect run when a link is traversed.
type LinkAction interface {
	Activate(l *Link, data any)
}

// Factory turns template specs into live objects during instantiation. Every
// call must return a fresh value so instances never alias one another.
type Factory interface {
	NewContent(spec any) any
	NewPredicate(spec any) Predicate
	NewLinkAction(spec any) LinkAction
}
