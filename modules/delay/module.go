// Package delay provides actions that do nothing but hold their node active
// until their deactivation policy lets go: "delay" waits for max_age and
// "charge" waits for the spell to be cast.
package delay

import (
	"github.com/specialistvlad/spellgraph/internal/spell"
)

// Module implements the spell.Module interface for this package.
type Module struct{}

// Register adds the delay kinds to the registry.
func (m *Module) Register(r *spell.Registry) {
	r.RegisterAction("delay", &spell.ActionKind{
		DefaultPolicy: spell.Timer,
		New:           func(any) spell.Behavior { return spell.NopBehavior{} },
	})
	r.RegisterAction("charge", &spell.ActionKind{
		DefaultPolicy: spell.OnSpellCast,
		New:           func(any) spell.Behavior { return spell.NopBehavior{} },
	})
}
