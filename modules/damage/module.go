// Package damage provides the "damage" and "heal" actions. Both send a
// message with an amount to every target they resolve. With an interval they
// keep repeating for as long as the action stays active.
package damage

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/spellgraph/internal/graph"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

// Module implements the spell.Module interface for this package.
type Module struct{}

// Args defines the arguments of the damage and heal actions.
type Args struct {
	Amount float64 `hcl:"amount"`
	// Source selects the targets, "targets" by default.
	Source string `hcl:"source,optional"`
	// Name is passed along in messages, e.g. "fire".
	Name string `hcl:"name,optional"`
	// Interval repeats the effect while the action is active.
	Interval string `hcl:"interval,optional"`
}

func (a *Args) Validate() error {
	if a.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if _, err := a.source(); err != nil {
		return err
	}
	if _, err := a.interval(); err != nil {
		return err
	}
	return nil
}

func (a *Args) source() (spell.Source, error) {
	if a.Source == "" {
		return spell.FromTargets, nil
	}
	return spell.ParseSource(a.Source)
}

func (a *Args) interval() (time.Duration, error) {
	if a.Interval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(a.Interval)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid interval '%s'", a.Interval)
	}
	return d, nil
}

// effect applies one message type to the resolved targets.
type effect struct {
	kind    spell.MessageType
	args    *Args
	src     spell.Source
	every   time.Duration
	elapsed time.Duration
	// Applied counts the targets that handled a message.
	Applied int
}

func newEffect(kind spell.MessageType, v any) *effect {
	args, ok := v.(*Args)
	if !ok || args == nil {
		args = &Args{}
	}
	src, _ := args.source()
	every, _ := args.interval()
	return &effect{kind: kind, args: args, src: src, every: every}
}

func (e *effect) OnActivate(a *spell.Action, _ graph.State, data any) {
	e.elapsed = 0
	if !e.apply(a, data) {
		a.OnFailure()
	}
}

func (e *effect) OnUpdate(a *spell.Action, dt time.Duration) {
	if e.every <= 0 || a.State() != spell.ActionActive {
		return
	}
	e.elapsed += dt
	for e.elapsed >= e.every {
		e.elapsed -= e.every
		e.apply(a, nil)
	}
}

func (e *effect) OnDeactivate(*spell.Action) {}

func (e *effect) apply(a *spell.Action, data any) bool {
	if a.Spell == nil {
		return false
	}
	targets := a.GetBestTargets(e.src, data)
	handled := 0
	for _, t := range targets {
		if a.Spell.Send(e.kind, e.args.Name, t, float32(e.args.Amount)) {
			handled++
		}
	}
	e.Applied += handled
	a.Spell.Logger().Debug("Effect applied.",
		"node", a.Node.Name(),
		"effect", e.kind.String(),
		"amount", e.args.Amount,
		"targets", len(targets),
		"handled", handled,
	)
	return handled > 0
}

// Register adds the damage and heal kinds to the registry.
func (m *Module) Register(r *spell.Registry) {
	r.RegisterAction("damage", &spell.ActionKind{
		NewArgs: func() any { return new(Args) },
		New:     func(args any) spell.Behavior { return newEffect(spell.MessageDamage, args) },
	})
	r.RegisterAction("heal", &spell.ActionKind{
		NewArgs: func() any { return new(Args) },
		New:     func(args any) spell.Behavior { return newEffect(spell.MessageHeal, args) },
	})
}
