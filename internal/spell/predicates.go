package spell

import (
	"github.com/specialistvlad/spellgraph/internal/graph"
)

// SpellStateArgs configures the "spell_state" link condition.
type SpellStateArgs struct {
	State string `hcl:"state"`
}

func (a *SpellStateArgs) Validate() error {
	_, err := ParseState(a.State)
	return err
}

func fromState(want graph.State) *PredicateKind {
	return &PredicateKind{
		New: func(*Spell, any) graph.Predicate {
			return graph.PredicateFunc(func(l *graph.Link) bool {
				return l.From != nil && l.From.State == want
			})
		},
	}
}

// registerPredicates adds the link conditions every registry knows.
func registerPredicates(r *Registry) {
	r.RegisterPredicate("always", &PredicateKind{
		New: func(*Spell, any) graph.Predicate {
			return graph.PredicateFunc(func(*graph.Link) bool { return true })
		},
	})
	r.RegisterPredicate("succeeded", fromState(graph.Succeeded))
	r.RegisterPredicate("failed", fromState(graph.Failed))
	r.RegisterPredicate("completed", &PredicateKind{
		New: func(*Spell, any) graph.Predicate {
			return graph.PredicateFunc(func(l *graph.Link) bool {
				return l.From != nil && l.From.State.Done()
			})
		},
	})
	r.RegisterPredicate("spell_state", &PredicateKind{
		NewArgs: func() any { return new(SpellStateArgs) },
		New: func(s *Spell, args any) graph.Predicate {
			want := StateCastingStarted
			if a, ok := args.(*SpellStateArgs); ok {
				if st, err := ParseState(a.State); err == nil {
					want = st
				}
			}
			return graph.PredicateFunc(func(*graph.Link) bool {
				return s.State() >= want
			})
		},
	})
	r.RegisterPredicate("has_targets", &PredicateKind{
		New: func(s *Spell, _ any) graph.Predicate {
			return graph.PredicateFunc(func(*graph.Link) bool {
				return s.Data != nil && s.Data.Targets != nil
			})
		},
	})
}
