package app

import (
	"time"
)

// Status is a snapshot of the simulation, published after every tick.
type Status struct {
	Tick     int           `json:"tick"`
	Elapsed  string        `json:"elapsed"`
	Finished bool          `json:"finished"`
	Actors   []ActorStatus `json:"actors"`
	Casts    []CastStatus  `json:"casts"`
}

// ActorStatus describes one actor of the combat world.
type ActorStatus struct {
	Name        string  `json:"name"`
	Faction     string  `json:"faction"`
	Health      float32 `json:"health"`
	MaxHealth   float32 `json:"max_health"`
	DamageTaken float32 `json:"damage_taken"`
	HealingDone float32 `json:"healing_done"`
	Alive       bool    `json:"alive"`
}

// CastStatus describes one scheduled cast.
type CastStatus struct {
	Actor string `json:"actor"`
	Spell string `json:"spell"`
	ID    string `json:"id,omitempty"`
	// State is the spell state while running, otherwise one of "scheduled",
	// "completed" or "failed".
	State       string   `json:"state"`
	ActiveNodes []string `json:"active_nodes,omitempty"`
	Expiring    int      `json:"expiring,omitempty"`
	CompletedAt string   `json:"completed_at,omitempty"`
}

const (
	castScheduled = "scheduled"
	castCompleted = "completed"
	castFailed    = "failed"
)

// Status returns the latest published snapshot.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.status
}

// CastsBy returns the cast statuses of one actor from the latest snapshot.
func (s Status) CastsBy(actor string) []CastStatus {
	var out []CastStatus
	for _, c := range s.Casts {
		if c.Actor == actor {
			out = append(out, c)
		}
	}
	return out
}

func (a *App) publish(tick int, elapsed time.Duration, casts []*scheduledCast, finished bool) {
	st := Status{
		Tick:     tick,
		Elapsed:  elapsed.String(),
		Finished: finished,
	}
	for _, actor := range a.world.Actors() {
		st.Actors = append(st.Actors, ActorStatus{
			Name:        actor.ID(),
			Faction:     actor.Faction(),
			Health:      actor.Health(),
			MaxHealth:   actor.MaxHealth(),
			DamageTaken: actor.DamageTaken,
			HealingDone: actor.HealingDone,
			Alive:       actor.Alive(),
		})
	}
	for _, c := range casts {
		st.Casts = append(st.Casts, c.status())
	}

	a.mu.Lock()
	a.status = st
	a.mu.Unlock()
}
