// Package testutil provides a small harness for tests that drive spells
// through inventories against a combat world, without the full simulator.
package testutil

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/spellgraph/internal/combat"
	"github.com/specialistvlad/spellgraph/internal/ctxlog"
	"github.com/specialistvlad/spellgraph/internal/pool"
	"github.com/specialistvlad/spellgraph/internal/spell"
	"github.com/specialistvlad/spellgraph/internal/spellbook"
	"github.com/stretchr/testify/require"
)

// DefaultTick is the simulated time of one Step.
const DefaultTick = 100 * time.Millisecond

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Harness holds a loaded spellbook, its combat world and one inventory per
// actor.
type Harness struct {
	t *testing.T

	Ctx      context.Context
	Logs     *SafeBuffer
	Book     *spellbook.Book
	Registry *spell.Registry
	World    *combat.World
	Messages *pool.Pool[*spell.Message]
	Tick     time.Duration

	inventories map[string]*spell.Inventory
}

// NewHarness loads the given spellbook source, which holds spell and actor
// blocks, with the given modules registered. Cast blocks are ignored; tests
// start spells through Start.
func NewHarness(t *testing.T, source string, modules ...spell.Module) *Harness {
	t.Helper()

	logs := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	dir := t.TempDir()
	path := filepath.Join(dir, "spellbook.hcl")
	require.NoError(t, os.WriteFile(path, []byte(Unindent(source)), 0o600))

	reg := spell.NewRegistry(modules...)
	book, err := spellbook.Load(ctx, reg, path)
	require.NoError(t, err, "spellbook must load")

	h := &Harness{
		t:           t,
		Ctx:         ctx,
		Logs:        logs,
		Book:        book,
		Registry:    reg,
		World:       combat.NewWorld(),
		Messages:    spell.NewMessagePool(4),
		Tick:        DefaultTick,
		inventories: make(map[string]*spell.Inventory),
	}

	spells := spell.NewSpellPool(4)
	env := &spell.Environment{Targets: h.World, Messages: h.Messages}
	for _, def := range book.Actors {
		actor := combat.NewActor(def.Name, def.Faction, def.Position, def.Forward, def.Health, def.MaxHealth)
		require.NoError(t, h.World.Add(actor))
		h.inventories[def.Name] = spell.NewInventory(actor, book.Spells, reg, spells, env)
	}

	t.Cleanup(func() {
		if os.Getenv("SPELLGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return h
}

// Actor returns a world actor, failing the test when it does not exist.
func (h *Harness) Actor(name string) *combat.Actor {
	h.t.Helper()
	a, ok := h.World.Actor(name)
	require.True(h.t, ok, "actor '%s' must exist", name)
	return a
}

// Inventory returns the inventory of an actor.
func (h *Harness) Inventory(name string) *spell.Inventory {
	h.t.Helper()
	inv, ok := h.inventories[name]
	require.True(h.t, ok, "actor '%s' must have an inventory", name)
	return inv
}

// Start starts a spell cast by the named actor.
func (h *Harness) Start(caster, spellName string) *spell.Spell {
	h.t.Helper()
	s, err := h.Inventory(caster).Start(h.Ctx, spellName)
	require.NoError(h.t, err)
	return s
}

// Step advances every inventory by n ticks, in actor declaration order.
func (h *Harness) Step(n int) {
	for range n {
		for _, def := range h.Book.Actors {
			h.inventories[def.Name].Update(h.Ctx, h.Tick)
		}
	}
}

// Running reports the number of spells still held by all inventories.
func (h *Harness) Running() int {
	n := 0
	for _, inv := range h.inventories {
		n += len(inv.Active())
	}
	return n
}

// RunUntilIdle steps until no spell is running and returns the number of
// ticks taken. The test fails if spells are still running after limit ticks.
func (h *Harness) RunUntilIdle(limit int) int {
	h.t.Helper()
	for tick := 1; tick <= limit; tick++ {
		h.Step(1)
		if h.Running() == 0 {
			return tick
		}
	}
	require.FailNow(h.t, "spells still running", "%d spells after %d ticks", h.Running(), limit)
	return limit
}
