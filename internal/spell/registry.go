package spell

import (
	"fmt"

	"github.com/specialistvlad/spellgraph/internal/graph"
)

// Module is the interface that every effect package implements to add its
// kinds to a registry.
type Module interface {
	Register(r *Registry)
}

// ArgsValidator is implemented by argument structs that can check themselves
// once decoded.
type ArgsValidator interface {
	Validate() error
}

// ActionKind builds the behavior of one action kind.
type ActionKind struct {
	// NewArgs returns a pointer to the struct that arguments decode into.
	// Nil means the kind takes no arguments.
	NewArgs func() any
	// DefaultPolicy applies when a spellbook does not name a deactivation
	// policy.
	DefaultPolicy DeactivationPolicy
	// FinishesOnActivate marks kinds whose behavior always succeeds or fails
	// inside OnActivate, whatever the policy.
	FinishesOnActivate bool
	// New returns a fresh behavior for one activation.
	New func(args any) Behavior
}

// PredicateKind builds link conditions for one kind.
type PredicateKind struct {
	NewArgs func() any
	New     func(s *Spell, args any) graph.Predicate
}

// LinkActionKind builds link side effects for one kind.
type LinkActionKind struct {
	NewArgs func() any
	New     func(s *Spell, args any) graph.LinkAction
}

// Registry maps the kind names used in spellbooks to Go constructors.
type Registry struct {
	actions     map[string]*ActionKind
	predicates  map[string]*PredicateKind
	linkActions map[string]*LinkActionKind
}

// NewRegistry creates a registry holding the built-in predicates.
func NewRegistry(modules ...Module) *Registry {
	r := &Registry{
		actions:     make(map[string]*ActionKind),
		predicates:  make(map[string]*PredicateKind),
		linkActions: make(map[string]*LinkActionKind),
	}
	registerPredicates(r)
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// RegisterAction adds an action kind. Registering a name twice panics.
func (r *Registry) RegisterAction(name string, k *ActionKind) {
	if _, exists := r.actions[name]; exists {
		panic(fmt.Sprintf("action kind '%s' already registered", name))
	}
	r.actions[name] = k
}

// RegisterPredicate adds a link condition kind. Registering a name twice panics.
func (r *Registry) RegisterPredicate(name string, k *PredicateKind) {
	if _, exists := r.predicates[name]; exists {
		panic(fmt.Sprintf("predicate kind '%s' already registered", name))
	}
	r.predicates[name] = k
}

// RegisterLinkAction adds a link action kind. Registering a name twice panics.
func (r *Registry) RegisterLinkAction(name string, k *LinkActionKind) {
	if _, exists := r.linkActions[name]; exists {
		panic(fmt.Sprintf("link action kind '%s' already registered", name))
	}
	r.linkActions[name] = k
}

func (r *Registry) Action(name string) (*ActionKind, bool) {
	k, ok := r.actions[name]
	return k, ok
}

func (r *Registry) Predicate(name string) (*PredicateKind, bool) {
	k, ok := r.predicates[name]
	return k, ok
}

func (r *Registry) LinkAction(name string) (*LinkActionKind, bool) {
	k, ok := r.linkActions[name]
	return k, ok
}

// factory turns template specs into live objects for one spell instance.
type factory struct {
	spell    *Spell
	registry *Registry
}

func (f *factory) NewContent(spec any) any {
	s, ok := spec.(*ActionSpec)
	if !ok {
		return nil
	}
	var b Behavior
	if k, found := f.registry.Action(s.Kind); found && k.New != nil {
		b = k.New(s.Args)
	}
	a := NewAction(b, s.Policy, s.MaxAge)
	a.Name = s.Name
	a.Kind = s.Kind
	a.Spell = f.spell
	return a
}

func (f *factory) NewPredicate(spec any) graph.Predicate {
	s, ok := spec.(*PredicateSpec)
	if !ok {
		return nil
	}
	k, found := f.registry.Predicate(s.Kind)
	if !found || k.New == nil {
		return nil
	}
	return k.New(f.spell, s.Args)
}

func (f *factory) NewLinkAction(spec any) graph.LinkAction {
	s, ok := spec.(*LinkActionSpec)
	if !ok {
		return nil
	}
	k, found := f.registry.LinkAction(s.Kind)
	if !found || k.New == nil {
		return nil
	}
	return k.New(f.spell, s.Args)
}
