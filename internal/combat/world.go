package combat

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

// Faction filters understood by QueryCombatTargets besides plain faction
// names and "!name" exclusions.
const (
	FactionEnemy = "enemy"
	FactionAlly  = "ally"
)

type forwarder interface {
	Forward() mgl32.Vec3
}

type factioned interface {
	Faction() string
}

// World holds every actor of a simulation.
type World struct {
	actors []*Actor
	byID   map[string]*Actor
}

// NewWorld creates an empty world.
func NewWorld() *World {
	return &World{byID: make(map[string]*Actor)}
}

// Add places an actor in the world. Actor IDs must be unique.
func (w *World) Add(a *Actor) error {
	if _, exists := w.byID[a.ID()]; exists {
		return fmt.Errorf("actor '%s' already exists", a.ID())
	}
	w.actors = append(w.actors, a)
	w.byID[a.ID()] = a
	return nil
}

// Actor looks an actor up by ID.
func (w *World) Actor(id string) (*Actor, bool) {
	a, ok := w.byID[id]
	return a, ok
}

// Actors returns the actors in insertion order.
func (w *World) Actors() []*Actor {
	return slices.Clone(w.actors)
}

// QueryCombatTargets returns the living actors around origin that match q,
// closest first. Ties are broken by ID so results are deterministic.
func (w *World) QueryCombatTargets(origin spell.Target, q spell.Query) []spell.Target {
	if origin == nil {
		return nil
	}
	from := origin.Position()

	var forward mgl32.Vec3
	if f, ok := origin.(forwarder); ok {
		forward = f.Forward()
	}
	cosHalfFOV := float32(-1)
	if q.FieldOfView > 0 && q.FieldOfView < 360 && forward.Len() > 0 {
		forward = forward.Normalize()
		cosHalfFOV = float32(math.Cos(float64(mgl32.DegToRad(q.FieldOfView / 2))))
	}

	type hit struct {
		actor *Actor
		dist  float32
	}
	var hits []hit
	for _, a := range w.actors {
		if !a.Alive() {
			continue
		}
		if !q.IncludeOrigin && a.ID() == origin.ID() {
			continue
		}
		if !matchFaction(origin, a, q.Faction) {
			continue
		}

		offset := a.Position().Sub(from)
		dist := offset.Len()
		if dist < q.MinDistance || (q.MaxDistance > 0 && dist > q.MaxDistance) {
			continue
		}
		if cosHalfFOV > -1 && dist > 0 && forward.Dot(offset.Mul(1/dist)) < cosHalfFOV {
			continue
		}
		hits = append(hits, hit{actor: a, dist: dist})
	}

	slices.SortFunc(hits, func(x, y hit) int {
		if c := cmp.Compare(x.dist, y.dist); c != 0 {
			return c
		}
		return strings.Compare(x.actor.ID(), y.actor.ID())
	})
	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}

	if len(hits) == 0 {
		return nil
	}
	out := make([]spell.Target, len(hits))
	for i, h := range hits {
		out[i] = h.actor
	}
	return out
}

func matchFaction(origin spell.Target, a *Actor, filter string) bool {
	if filter == "" {
		return true
	}
	own := ""
	if f, ok := origin.(factioned); ok {
		own = f.Faction()
	}
	switch {
	case filter == FactionEnemy:
		return a.Faction() != own
	case filter == FactionAlly:
		return a.Faction() == own
	case strings.HasPrefix(filter, "!"):
		return a.Faction() != filter[1:]
	default:
		return a.Faction() == filter
	}
}
