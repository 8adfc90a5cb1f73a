// Package projectile provides the "projectile" action: a missile that leaves
// the spell owner and flies toward a target at a fixed speed. The action
// succeeds on impact, recording the impact position, and fails when the
// target is lost or the projectile flies out of range.
package projectile

import (
	"errors"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/specialistvlad/spellgraph/internal/graph"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

const defaultHitRadius = 0.5

// Module implements the spell.Module interface for this package.
type Module struct{}

// Args defines the arguments of the projectile action.
type Args struct {
	// Speed is in units per second.
	Speed     float64 `hcl:"speed"`
	HitRadius float64 `hcl:"hit_radius,optional"`
	// MaxRange is the distance after which the projectile fizzles; zero
	// means unlimited.
	MaxRange float64 `hcl:"max_range,optional"`
	// Target selects what to fly at, "targets" by default.
	Target string `hcl:"target,optional"`
}

func (a *Args) Validate() error {
	if a.Speed <= 0 {
		return errors.New("speed must be positive")
	}
	if a.HitRadius < 0 || a.MaxRange < 0 {
		return errors.New("hit_radius and max_range must not be negative")
	}
	_, err := a.source()
	return err
}

func (a *Args) source() (spell.Source, error) {
	if a.Target == "" {
		return spell.FromTargets, nil
	}
	return spell.ParseSource(a.Target)
}

type forwarder interface {
	Forward() mgl32.Vec3
}

type mortal interface {
	Alive() bool
}

// missile is the state of one projectile in flight.
type missile struct {
	spell.NopBehavior
	args *Args

	ID       uuid.UUID
	Position mgl32.Vec3
	Traveled float32
	target   spell.Target
}

func (m *missile) OnActivate(a *spell.Action, _ graph.State, data any) {
	src, _ := m.args.source()
	owner := a.GetBestTarget(spell.FromOwner, nil)
	m.target = a.GetBestTarget(src, data)
	m.Traveled = 0
	if owner == nil || m.target == nil {
		a.OnFailure()
		return
	}

	m.ID = uuid.New()
	m.Position = owner.Position()
	if f, ok := owner.(forwarder); ok && a.Spell.ReleaseDistance > 0 {
		m.Position = m.Position.Add(f.Forward().Mul(a.Spell.ReleaseDistance))
	}
	a.Spell.Logger().Debug("Projectile launched.", "projectile_id", m.ID.String(), "target", m.target.ID())
}

func (m *missile) OnUpdate(a *spell.Action, dt time.Duration) {
	if a.State() != spell.ActionActive || m.target == nil {
		return
	}
	if t, ok := m.target.(mortal); ok && !t.Alive() {
		a.Spell.Logger().Debug("Projectile lost its target.", "projectile_id", m.ID.String())
		a.OnFailure()
		return
	}

	step := float32(m.args.Speed * dt.Seconds())
	radius := float32(m.args.HitRadius)
	if radius == 0 {
		radius = defaultHitRadius
	}

	to := m.target.Position().Sub(m.Position)
	dist := to.Len()
	if dist <= radius+step {
		m.Traveled += dist
		m.Position = m.target.Position()
		if d := a.Data(); d != nil {
			d.AddPosition(m.Position)
		}
		a.Spell.Logger().Debug("Projectile hit.", "projectile_id", m.ID.String(), "target", m.target.ID())
		a.OnSuccess()
		return
	}

	m.Position = m.Position.Add(to.Mul(step / dist))
	m.Traveled += step
	if m.args.MaxRange > 0 && m.Traveled > float32(m.args.MaxRange) {
		a.Spell.Logger().Debug("Projectile out of range.", "projectile_id", m.ID.String())
		a.OnFailure()
	}
}

// Register adds the projectile kind to the registry.
func (m *Module) Register(r *spell.Registry) {
	r.RegisterAction("projectile", &spell.ActionKind{
		NewArgs:       func() any { return new(Args) },
		DefaultPolicy: spell.Managed,
		New: func(args any) spell.Behavior {
			a, ok := args.(*Args)
			if !ok || a == nil {
				a = &Args{}
			}
			return &missile{args: a}
		},
	})
}
