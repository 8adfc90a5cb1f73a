package spell

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/specialistvlad/spellgraph/internal/graph"
)

var (
	ErrUnknownSpell  = errors.New("unknown spell")
	ErrUnknownKind   = errors.New("unknown kind")
	ErrSpellNotFound = errors.New("spell instance not found")
	ErrInvalidGraph  = errors.New("invalid spell graph")
)

// ActionSpec is the template content of a node.
type ActionSpec struct {
	Name   string
	Kind   string
	Policy DeactivationPolicy
	MaxAge time.Duration
	// Args is the decoded argument struct for Kind. It is shared by every
	// instance and must be treated as read-only.
	Args any
}

// PredicateSpec is the template condition of a link.
type PredicateSpec struct {
	Kind string
	Args any
}

// LinkActionSpec is a template side effect of a link.
type LinkActionSpec struct {
	Kind string
	Args any
}

// Template is the read-only definition of a spell.
type Template struct {
	Name        string
	Description string
	StartNodes  []*graph.NodeDef
	EndNodes    []*graph.NodeDef
}

// Nodes returns every node reachable from the start and end nodes.
func (t *Template) Nodes() []*graph.NodeDef {
	var out []*graph.NodeDef
	graph.Walk(t.roots(), func(n *graph.NodeDef) { out = append(out, n) })
	return out
}

func (t *Template) roots() []*graph.NodeDef {
	roots := make([]*graph.NodeDef, 0, len(t.StartNodes)+len(t.EndNodes))
	roots = append(roots, t.StartNodes...)
	return append(roots, t.EndNodes...)
}

// Validate checks that every kind is registered, every link has a target, and
// no cycle is made only of nodes that finish during activation, either through
// the immediate policy or because their kind always does. Such a cycle would
// recurse forever inside one activation call.
func (t *Template) Validate(reg *Registry) error {
	for _, n := range t.Nodes() {
		if spec, ok := n.Content.(*ActionSpec); ok {
			if _, found := reg.Action(spec.Kind); !found {
				return fmt.Errorf("spell '%s' node '%s': action '%s': %w", t.Name, n.Name, spec.Kind, ErrUnknownKind)
			}
		} else if n.Content != nil {
			return fmt.Errorf("spell '%s' node '%s': unsupported content %T: %w", t.Name, n.Name, n.Content, ErrInvalidGraph)
		}

		for _, l := range n.Links {
			if l.To == nil {
				return fmt.Errorf("spell '%s' node '%s': link '%s' has no target: %w", t.Name, n.Name, l.Name, ErrInvalidGraph)
			}
			if p, ok := l.Condition.(*PredicateSpec); ok {
				if _, found := reg.Predicate(p.Kind); !found {
					return fmt.Errorf("spell '%s' link '%s': condition '%s': %w", t.Name, l.Name, p.Kind, ErrUnknownKind)
				}
			}
			for _, la := range l.Actions {
				spec, ok := la.(*LinkActionSpec)
				if !ok {
					return fmt.Errorf("spell '%s' link '%s': unsupported link action %T: %w", t.Name, l.Name, la, ErrInvalidGraph)
				}
				if _, found := reg.LinkAction(spec.Kind); !found {
					return fmt.Errorf("spell '%s' link '%s': link action '%s': %w", t.Name, l.Name, spec.Kind, ErrUnknownKind)
				}
			}
		}
	}

	if err := graph.DetectCycles(t.roots(), func(n *graph.NodeDef) bool { return finishesOnActivate(reg, n) }); err != nil {
		return fmt.Errorf("spell '%s': %v: %w", t.Name, err, ErrInvalidGraph)
	}
	return nil
}

func finishesOnActivate(reg *Registry, n *graph.NodeDef) bool {
	spec, ok := n.Content.(*ActionSpec)
	if !ok || spec.Policy == Immediately {
		return true
	}
	kind, found := reg.Action(spec.Kind)
	return found && kind.FinishesOnActivate
}

// Catalog is a named collection of spell templates.
type Catalog struct {
	templates map[string]*Template
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{templates: make(map[string]*Template)}
}

// Add registers a template. Names must be unique.
func (c *Catalog) Add(t *Template) error {
	if _, exists := c.templates[t.Name]; exists {
		return fmt.Errorf("spell '%s' is already defined", t.Name)
	}
	c.templates[t.Name] = t
	return nil
}

// Get looks up a template by name.
func (c *Catalog) Get(name string) (*Template, bool) {
	t, ok := c.templates[name]
	return t, ok
}

// Names returns the sorted template names.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}
