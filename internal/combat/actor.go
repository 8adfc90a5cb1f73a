// Package combat is the in-memory combat model the simulator casts spells in:
// actors with health and factions, and the target queries spells use to find
// them.
package combat

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

// Actor is a combatant. It implements spell.Target and spell.MessageHandler.
type Actor struct {
	name      string
	faction   string
	position  mgl32.Vec3
	forward   mgl32.Vec3
	health    float32
	maxHealth float32

	// DamageTaken and HealingDone accumulate what messages applied.
	DamageTaken float32
	HealingDone float32
	// Notes lists the names of notify messages received, in order.
	Notes []string
}

// NewActor creates a living actor facing forward, which is normalized.
func NewActor(name, faction string, position, forward mgl32.Vec3, health, maxHealth float32) *Actor {
	if forward.Len() == 0 {
		forward = mgl32.Vec3{0, 0, 1}
	}
	if maxHealth < health {
		maxHealth = health
	}
	return &Actor{
		name:      name,
		faction:   faction,
		position:  position,
		forward:   forward.Normalize(),
		health:    health,
		maxHealth: maxHealth,
	}
}

func (a *Actor) ID() string           { return a.name }
func (a *Actor) Faction() string      { return a.faction }
func (a *Actor) Position() mgl32.Vec3 { return a.position }
func (a *Actor) Forward() mgl32.Vec3  { return a.forward }
func (a *Actor) Health() float32      { return a.health }
func (a *Actor) MaxHealth() float32   { return a.maxHealth }
func (a *Actor) Alive() bool          { return a.health > 0 }
func (a *Actor) MoveTo(p mgl32.Vec3)  { a.position = p }

// OnMessage applies damage and healing. Dead actors ignore both.
func (a *Actor) OnMessage(m *spell.Message) {
	switch m.Type {
	case spell.MessageDamage:
		if !a.Alive() || m.Value <= 0 {
			return
		}
		applied := min(m.Value, a.health)
		a.health -= applied
		a.DamageTaken += applied
	case spell.MessageHeal:
		if !a.Alive() || m.Value <= 0 {
			return
		}
		applied := min(m.Value, a.maxHealth-a.health)
		a.health += applied
		a.HealingDone += applied
	case spell.MessageNotify:
		a.Notes = append(a.Notes, m.Name)
	default:
		return
	}
	m.Handled = true
}
