// Package targeting provides the actions that fill the spell's shared data:
// "select_targets" queries the combat world and "record_position" stores a
// position. The "shift_targets" link action moves the current targets to the
// previous targets, which chained effects use to avoid hitting an actor twice.
package targeting

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/spellgraph/internal/graph"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

// Module implements the spell.Module interface for this package.
type Module struct{}

// SelectArgs defines the arguments of select_targets.
type SelectArgs struct {
	// From selects the origin of the query, the owner by default.
	From         string  `hcl:"from,optional"`
	MinDistance  float64 `hcl:"min_distance,optional"`
	MaxDistance  float64 `hcl:"max_distance,optional"`
	FieldOfView  float64 `hcl:"field_of_view,optional"`
	Faction      string  `hcl:"faction,optional"`
	Limit        int     `hcl:"limit,optional"`
	IncludeOwner bool    `hcl:"include_owner,optional"`
	// SkipPrevious drops actors that were already targeted by this cast.
	SkipPrevious bool `hcl:"skip_previous,optional"`
}

func (a *SelectArgs) Validate() error {
	if _, err := parseSource(a.From, spell.FromOwner); err != nil {
		return err
	}
	switch {
	case a.MinDistance < 0 || a.MaxDistance < 0:
		return errors.New("distances must not be negative")
	case a.MaxDistance > 0 && a.MinDistance > a.MaxDistance:
		return errors.New("min_distance must not exceed max_distance")
	case a.FieldOfView < 0 || a.FieldOfView > 360:
		return errors.New("field_of_view must be between 0 and 360 degrees")
	case a.Limit < 0:
		return errors.New("limit must not be negative")
	}
	return nil
}

func (a *SelectArgs) query() spell.Query {
	q := spell.Query{
		MinDistance:   float32(a.MinDistance),
		MaxDistance:   float32(a.MaxDistance),
		FieldOfView:   float32(a.FieldOfView),
		Faction:       a.Faction,
		IncludeOrigin: a.IncludeOwner,
		Limit:         a.Limit,
	}
	if a.SkipPrevious {
		// The limit applies after previously hit actors are removed.
		q.Limit = 0
	}
	return q
}

func parseSource(name string, def spell.Source) (spell.Source, error) {
	if name == "" {
		return def, nil
	}
	return spell.ParseSource(name)
}

type selectTargets struct {
	spell.NopBehavior
	args *SelectArgs
}

func (b *selectTargets) OnActivate(a *spell.Action, _ graph.State, data any) {
	s := a.Spell
	if s == nil {
		a.OnFailure()
		return
	}
	env := s.Env()
	if env == nil || env.Targets == nil {
		s.Logger().Warn("No target query available, selection failed.", "node", a.Node.Name())
		a.OnFailure()
		return
	}

	src, _ := parseSource(b.args.From, spell.FromOwner)
	origin := a.GetBestTarget(src, data)
	if origin == nil {
		a.OnFailure()
		return
	}

	found := env.Targets.QueryCombatTargets(origin, b.args.query())
	var picked []spell.Target
	for _, t := range found {
		if b.args.SkipPrevious && s.Data.WasTargeted(t) {
			continue
		}
		if !b.args.IncludeOwner && s.Owner != nil && t.ID() == s.Owner.ID() {
			continue
		}
		picked = append(picked, t)
		if b.args.Limit > 0 && len(picked) == b.args.Limit {
			break
		}
	}

	s.Logger().Debug("Targets selected.", "node", a.Node.Name(), "origin", origin.ID(), "found", len(found), "picked", len(picked))
	if len(picked) == 0 {
		a.OnFailure()
		return
	}
	s.Data.SetTargets(picked)
	a.OnSuccess()
}

// PositionArgs defines the arguments of record_position.
type PositionArgs struct {
	// Source selects what to record, the owner by default.
	Source string `hcl:"source,optional"`
}

func (a *PositionArgs) Validate() error {
	_, err := parseSource(a.Source, spell.FromOwner)
	return err
}

type recordPosition struct {
	spell.NopBehavior
	args *PositionArgs
}

type forwarder interface {
	Forward() mgl32.Vec3
}

func (b *recordPosition) OnActivate(a *spell.Action, _ graph.State, data any) {
	src, _ := parseSource(b.args.Source, spell.FromOwner)
	pos, ok := a.GetBestPosition(src, data)
	d := a.Data()
	if !ok || d == nil {
		a.OnFailure()
		return
	}
	d.AddPosition(pos)
	if src == spell.FromOwner {
		if f, isForwarder := a.Spell.Owner.(forwarder); isForwarder {
			d.AddForward(f.Forward())
		}
	}
	a.OnSuccess()
}

type shiftTargets struct {
	spell *spell.Spell
}

func (l shiftTargets) Activate(*graph.Link, any) {
	if l.spell != nil && l.spell.Data != nil {
		l.spell.Data.ShiftTargets()
	}
}

// Register adds the targeting kinds to the registry.
func (m *Module) Register(r *spell.Registry) {
	r.RegisterAction("select_targets", &spell.ActionKind{
		NewArgs:            func() any { return new(SelectArgs) },
		FinishesOnActivate: true,
		New: func(args any) spell.Behavior {
			a, ok := args.(*SelectArgs)
			if !ok || a == nil {
				a = &SelectArgs{}
			}
			return &selectTargets{args: a}
		},
	})
	r.RegisterAction("record_position", &spell.ActionKind{
		NewArgs:            func() any { return new(PositionArgs) },
		FinishesOnActivate: true,
		New: func(args any) spell.Behavior {
			a, ok := args.(*PositionArgs)
			if !ok || a == nil {
				a = &PositionArgs{}
			}
			return &recordPosition{args: a}
		},
	})
	r.RegisterLinkAction("shift_targets", &spell.LinkActionKind{
		New: func(s *spell.Spell, _ any) graph.LinkAction { return shiftTargets{spell: s} },
	})
}
