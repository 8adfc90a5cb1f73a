package spell

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/spellgraph/internal/ctxlog"
	"github.com/specialistvlad/spellgraph/internal/pool"
)

// Query narrows a combat target search.
type Query struct {
	MinDistance float32
	MaxDistance float32
	// FieldOfView is the full cone angle in degrees around the origin's
	// forward direction. Zero or 360 means all around.
	FieldOfView float32
	// Faction restricts results to one faction; "!faction" excludes it.
	Faction string
	// IncludeOrigin lets the origin itself be returned.
	IncludeOrigin bool
	// Limit caps the number of results; zero means no cap.
	Limit int
}

// TargetQuery finds combat targets around an origin, closest first.
type TargetQuery interface {
	QueryCombatTargets(origin Target, q Query) []Target
}

// Environment holds the collaborators that actions reach through their spell.
type Environment struct {
	Targets  TargetQuery
	Messages *pool.Pool[*Message]
}

// NewSpellPool creates the pool inventories allocate spell instances from.
func NewSpellPool(capacity int) *pool.Pool[*Spell] {
	return pool.New(capacity, func() *Spell { return &Spell{} }, nil)
}

// Inventory owns the spells cast by one actor.
type Inventory struct {
	Owner Target

	catalog  *Catalog
	registry *Registry
	spells   *pool.Pool[*Spell]
	env      *Environment
	active   []*Spell
}

// NewInventory creates an inventory for owner. The pool may be shared between
// inventories.
func NewInventory(owner Target, catalog *Catalog, reg *Registry, spells *pool.Pool[*Spell], env *Environment) *Inventory {
	if env == nil {
		env = &Environment{}
	}
	return &Inventory{
		Owner:    owner,
		catalog:  catalog,
		registry: reg,
		spells:   spells,
		env:      env,
	}
}

// Start instantiates the named spell and begins casting it.
func (inv *Inventory) Start(ctx context.Context, name string) (*Spell, error) {
	tpl, ok := inv.catalog.Get(name)
	if !ok {
		return nil, fmt.Errorf("spell '%s': %w", name, ErrUnknownSpell)
	}

	s := inv.spells.Allocate()
	s.Bind(tpl, inv.registry, inv.spells)
	s.Owner = inv.Owner
	s.Inventory = inv
	s.SetState(ctx, StateReady)
	s.Start(ctx)

	inv.active = append(inv.active, s)
	return s, nil
}

// Update ticks every running spell once and releases the ones that completed.
func (inv *Inventory) Update(ctx context.Context, dt time.Duration) {
	for _, s := range slices.Clone(inv.active) {
		s.Update(ctx, dt)
	}

	kept := inv.active[:0]
	for _, s := range inv.active {
		if s.State() == StateCompleted {
			ctxlog.FromContext(ctx).Debug("Releasing completed spell.", "cast_id", s.ID.String(), "spell", s.Name)
			s.Release(ctx)
			continue
		}
		kept = append(kept, s)
	}
	clear(inv.active[len(kept):])
	inv.active = kept
}

// Find returns the running spell with the given cast ID.
func (inv *Inventory) Find(id uuid.UUID) (*Spell, error) {
	for _, s := range inv.active {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("cast %s: %w", id, ErrSpellNotFound)
}

// Cast releases a running spell.
func (inv *Inventory) Cast(ctx context.Context, id uuid.UUID, releaseFromCamera bool, releaseDistance float32) error {
	s, err := inv.Find(id)
	if err != nil {
		return err
	}
	s.Cast(ctx, releaseFromCamera, releaseDistance)
	return nil
}

// End ends casting of a running spell.
func (inv *Inventory) End(ctx context.Context, id uuid.UUID) error {
	s, err := inv.Find(id)
	if err != nil {
		return err
	}
	s.End(ctx)
	return nil
}

// Cancel asks a running spell to stop.
func (inv *Inventory) Cancel(ctx context.Context, id uuid.UUID) error {
	s, err := inv.Find(id)
	if err != nil {
		return err
	}
	s.Cancel(ctx)
	return nil
}

// Active returns a snapshot of the running spells.
func (inv *Inventory) Active() []*Spell {
	return slices.Clone(inv.active)
}

// Env returns the inventory's collaborators.
func (inv *Inventory) Env() *Environment {
	return inv.env
}
