package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/spellgraph/internal/ctxlog"
	"github.com/specialistvlad/spellgraph/internal/spell"
	"github.com/specialistvlad/spellgraph/internal/spellbook"
)

// scheduledCast tracks one cast block through the simulation.
type scheduledCast struct {
	def *spellbook.Cast
	inv *spell.Inventory

	id          uuid.UUID
	started     bool
	finished    bool
	failed      bool
	cast        bool
	ended       bool
	cancelled   bool
	completedAt time.Duration
}

func (c *scheduledCast) due(at *time.Duration, done bool, now time.Duration) bool {
	return at != nil && !done && now >= *at
}

func (c *scheduledCast) status() CastStatus {
	st := CastStatus{Actor: c.def.Actor, Spell: c.def.Spell}
	if c.started {
		st.ID = c.id.String()
	}
	switch {
	case c.failed:
		st.State = castFailed
	case !c.started:
		st.State = castScheduled
	case c.finished:
		st.State = castCompleted
		st.CompletedAt = c.completedAt.String()
	default:
		s, err := c.inv.Find(c.id)
		if err != nil {
			st.State = castCompleted
			break
		}
		st.State = s.State().String()
		for _, n := range s.ActiveNodes() {
			st.ActiveNodes = append(st.ActiveNodes, n.Name())
		}
		st.Expiring = len(s.ExpiringActions())
	}
	return st
}

// Run drives the simulation: every tick fires the cast events that are due,
// then updates each inventory exactly once.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.StatusPort > 0 {
		srv := a.startStatusServer(ctx, a.config.StatusPort)
		defer a.stopStatusServer(ctx, srv)
	}

	casts := a.schedule()
	a.publish(0, 0, casts, len(casts) == 0)
	if len(casts) == 0 {
		a.logger.Warn("No casts found in spellbook, simulation not required.")
		return nil
	}

	a.logger.Info("🚀 Starting simulation...", "casts", len(casts), "max_ticks", a.config.Ticks, "tick", a.config.Tick.String())

	var now time.Duration
	ticks := 0
	for ticks < a.config.Ticks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation interrupted at tick %d: %w", ticks, err)
		}
		tickCtx := ctxlog.With(ctx, "tick", ticks)

		for _, c := range casts {
			a.fire(tickCtx, c, now)
		}
		for _, def := range a.book.Actors {
			a.inventories[def.Name].Update(tickCtx, a.config.Tick)
		}

		ticks++
		now += a.config.Tick
		done := a.track(tickCtx, casts, now)
		a.publish(ticks, now, casts, done)
		if done {
			break
		}
	}

	a.logSummary(casts, now)
	a.logger.Info("🏁 Simulation finished.", "ticks", ticks, "elapsed", now.String())
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) schedule() []*scheduledCast {
	casts := make([]*scheduledCast, 0, len(a.book.Casts))
	for _, def := range a.book.Casts {
		casts = append(casts, &scheduledCast{def: def, inv: a.inventories[def.Actor]})
	}
	return casts
}

// fire runs the events of one cast that are due at now, in lifecycle order.
func (a *App) fire(ctx context.Context, c *scheduledCast, now time.Duration) {
	logger := ctxlog.FromContext(ctx).With("actor", c.def.Actor, "spell", c.def.Spell)

	if !c.started && !c.failed && now >= c.def.StartAt {
		s, err := c.inv.Start(ctx, c.def.Spell)
		if err != nil {
			logger.Warn("Cast could not start.", "error", err)
			c.failed = true
			return
		}
		c.id = s.ID
		c.started = true
	}
	if !c.started || c.finished {
		return
	}

	ignore := func(event string, err error) {
		if errors.Is(err, spell.ErrSpellNotFound) {
			logger.Debug("Cast event skipped, spell already finished.", "event", event)
			return
		}
		if err != nil {
			logger.Warn("Cast event failed.", "event", event, "error", err)
		}
	}
	if c.due(c.def.CastAt, c.cast, now) {
		c.cast = true
		ignore("cast", c.inv.Cast(ctx, c.id, c.def.ReleaseFromCamera, c.def.ReleaseDistance))
	}
	if c.due(c.def.EndAt, c.ended, now) {
		c.ended = true
		ignore("end", c.inv.End(ctx, c.id))
	}
	if c.due(c.def.CancelAt, c.cancelled, now) {
		c.cancelled = true
		ignore("cancel", c.inv.Cancel(ctx, c.id))
	}
}

// track marks the casts whose spells were released and reports whether every
// cast is over.
func (a *App) track(ctx context.Context, casts []*scheduledCast, now time.Duration) bool {
	done := true
	for _, c := range casts {
		if c.started && !c.finished {
			if _, err := c.inv.Find(c.id); err != nil {
				c.finished = true
				c.completedAt = now
				ctxlog.FromContext(ctx).Info("✨ Cast completed.", "actor", c.def.Actor, "spell", c.def.Spell, "cast_id", c.id.String(), "at", now.String())
			}
		}
		if !c.failed && !c.finished {
			done = false
		}
	}
	return done
}

func (a *App) logSummary(casts []*scheduledCast, now time.Duration) {
	for _, actor := range a.world.Actors() {
		a.logger.Info("Actor summary.",
			"actor", actor.ID(),
			"health", actor.Health(),
			"max_health", actor.MaxHealth(),
			"damage_taken", actor.DamageTaken,
			"healing_done", actor.HealingDone,
			"alive", actor.Alive(),
		)
	}
	for _, c := range casts {
		st := c.status()
		if st.State != castCompleted {
			a.logger.Warn("Cast did not complete.", "actor", st.Actor, "spell", st.Spell, "state", st.State, "elapsed", now.String())
		}
	}

	spells, messages := a.spells.Stats(), a.messages.Stats()
	a.logger.Debug("Pool usage.",
		"spells_constructed", spells.Constructed, "spells_reused", spells.Reused, "spells_dropped", spells.Dropped,
		"messages_constructed", messages.Constructed, "messages_reused", messages.Reused, "messages_dropped", messages.Dropped,
	)
}
