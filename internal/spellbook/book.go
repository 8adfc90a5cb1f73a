package spellbook

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

// Book is everything read from a set of spellbook files.
type Book struct {
	Spells *spell.Catalog
	Actors []*Actor
	Casts  []*Cast
	// Files lists the files that were loaded, in load order.
	Files []string
}

// Actor describes a combatant placed in the simulation.
type Actor struct {
	Name      string
	Faction   string
	Position  mgl32.Vec3
	Forward   mgl32.Vec3
	Health    float32
	MaxHealth float32
}

// Cast schedules one spell cast by an actor. Offsets are measured from the
// start of the simulation; nil offsets are never triggered.
type Cast struct {
	Actor   string
	Spell   string
	StartAt time.Duration
	CastAt  *time.Duration
	EndAt   *time.Duration
	// CancelAt cancels the cast. Cancellation is ignored once end nodes ran.
	CancelAt          *time.Duration
	ReleaseFromCamera bool
	ReleaseDistance   float32
}

// Actor looks an actor up by name.
func (b *Book) Actor(name string) (*Actor, bool) {
	for _, a := range b.Actors {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// CastsBy returns the casts scheduled for the named actor.
func (b *Book) CastsBy(actor string) []*Cast {
	var out []*Cast
	for _, c := range b.Casts {
		if c.Actor == actor {
			out = append(out, c)
		}
	}
	return out
}
