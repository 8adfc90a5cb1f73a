// Package aura provides the "aura" action, which pulses heal or damage
// messages to every matching actor around the spell owner while it is
// active. An aura with fade_out keeps its node in the spell's expiring list
// after it stops, so the spell does not complete until the aura has faded.
package aura

import (
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/spellgraph/internal/graph"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

const defaultInterval = time.Second

// Module implements the spell.Module interface for this package.
type Module struct{}

// Args defines the arguments of the aura action.
type Args struct {
	Amount float64 `hcl:"amount"`
	// Effect is "heal" or "damage".
	Effect   string  `hcl:"effect,optional"`
	Radius   float64 `hcl:"radius"`
	Faction  string  `hcl:"faction,optional"`
	Interval string  `hcl:"interval,optional"`
	FadeOut  string  `hcl:"fade_out,optional"`
}

func (a *Args) Validate() error {
	if a.Amount <= 0 || a.Radius <= 0 {
		return errors.New("amount and radius must be positive")
	}
	if _, err := a.effect(); err != nil {
		return err
	}
	if _, err := duration(a.Interval, defaultInterval); err != nil {
		return err
	}
	_, err := duration(a.FadeOut, 0)
	return err
}

func (a *Args) effect() (spell.MessageType, error) {
	switch a.Effect {
	case "", "heal":
		return spell.MessageHeal, nil
	case "damage":
		return spell.MessageDamage, nil
	}
	return 0, fmt.Errorf("unknown effect '%s'", a.Effect)
}

func duration(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid duration '%s'", raw)
	}
	return d, nil
}

type pulse struct {
	args     *Args
	kind     spell.MessageType
	interval time.Duration
	fadeOut  time.Duration

	elapsed time.Duration
	fading  time.Duration
	// Pulses counts the pulses sent since activation.
	Pulses int
}

func newPulse(v any) *pulse {
	args, ok := v.(*Args)
	if !ok || args == nil {
		args = &Args{}
	}
	p := &pulse{args: args}
	p.kind, _ = args.effect()
	p.interval, _ = duration(args.Interval, defaultInterval)
	if p.interval <= 0 {
		p.interval = defaultInterval
	}
	p.fadeOut, _ = duration(args.FadeOut, 0)
	return p
}

func (p *pulse) OnActivate(*spell.Action, graph.State, any) {
	p.elapsed = 0
	p.fading = 0
	p.Pulses = 0
}

func (p *pulse) OnUpdate(a *spell.Action, dt time.Duration) {
	if a.IsShuttingDown {
		p.fading += dt
		if p.fading >= p.fadeOut {
			a.IsShuttingDown = false
			a.Spell.Logger().Debug("Aura faded.", "node", a.Node.Name(), "pulses", p.Pulses)
		}
		return
	}
	if a.State() != spell.ActionActive {
		return
	}

	p.elapsed += dt
	for p.elapsed >= p.interval {
		p.elapsed -= p.interval
		p.emit(a)
	}
}

func (p *pulse) OnDeactivate(a *spell.Action) {
	if p.fadeOut > 0 {
		a.IsShuttingDown = true
	}
}

func (p *pulse) emit(a *spell.Action) {
	s := a.Spell
	env := s.Env()
	if env == nil || env.Targets == nil || s.Owner == nil {
		return
	}
	q := spell.Query{
		MaxDistance:   float32(p.args.Radius),
		Faction:       p.args.Faction,
		IncludeOrigin: true,
	}
	handled := 0
	for _, t := range env.Targets.QueryCombatTargets(s.Owner, q) {
		if s.Send(p.kind, "aura", t, float32(p.args.Amount)) {
			handled++
		}
	}
	p.Pulses++
	s.Logger().Debug("Aura pulsed.", "node", a.Node.Name(), "effect", p.kind.String(), "handled", handled)
}

// Register adds the aura kind to the registry.
func (m *Module) Register(r *spell.Registry) {
	r.RegisterAction("aura", &spell.ActionKind{
		NewArgs:       func() any { return new(Args) },
		DefaultPolicy: spell.Timer,
		New:           func(args any) spell.Behavior { return newPulse(args) },
	})
}
