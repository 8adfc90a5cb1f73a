package spell

import (
	"testing"

	"github.com/google/uuid"
	"github.com/specialistvlad/spellgraph/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInventory(t *testing.T, capacity int, templates ...*Template) (*Inventory, *recorder) {
	t.Helper()
	reg, rec := newTestRegistry()
	catalog := NewCatalog()
	for _, tpl := range templates {
		require.NoError(t, catalog.Add(tpl))
	}
	owner := &testTarget{id: "caster"}
	return NewInventory(owner, catalog, reg, NewSpellPool(capacity), nil), rec
}

func markTemplate() *Template {
	return &Template{
		Name:       "mark",
		StartNodes: []*graph.NodeDef{node("mark", &ActionSpec{Name: "mark", Kind: "mark", Policy: Immediately})},
	}
}

func TestInventory_PooledRoundTrip(t *testing.T) {
	// --- Arrange ---
	inv, _ := newTestInventory(t, 1, markTemplate())

	first, err := inv.Start(ctx, "mark")
	require.NoError(t, err)
	require.Len(t, first.Data.Targets, 1)
	assert.Same(t, inv.Owner, first.Data.Targets[0])
	firstID := first.ID

	// --- Act ---
	inv.Update(ctx, tick)

	// --- Assert: released to defaults ---
	assert.Empty(t, inv.Active())
	assert.Equal(t, StateInactive, first.State())
	assert.Nil(t, first.Template)
	assert.Nil(t, first.Owner)
	assert.Nil(t, first.Inventory)
	assert.Nil(t, first.Data.Targets)
	assert.False(t, first.IsCancelling)
	assert.False(t, first.EndNodesLoaded)
	assert.Empty(t, first.ActiveNodes())
	assert.Zero(t, first.LiveNodes())
	assert.Equal(t, 1, inv.spells.Stats().Free)

	// --- Assert: the next cast reuses the instance ---
	second, err := inv.Start(ctx, "mark")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.NotEqual(t, firstID, second.ID)
	assert.Len(t, second.Data.Targets, 1)
	assert.Equal(t, 1, inv.spells.Stats().Reused)
}

func TestInventory_UnknownSpell(t *testing.T) {
	inv, _ := newTestInventory(t, 1)

	s, err := inv.Start(ctx, "meteor")

	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrUnknownSpell)
}

func TestInventory_ControlsByID(t *testing.T) {
	// --- Arrange ---
	tpl := &Template{
		Name:       "charge",
		StartNodes: []*graph.NodeDef{node("charge", spec("charge", OnCastingEnded))},
		EndNodes:   []*graph.NodeDef{node("end", spec("end", Immediately))},
	}
	inv, rec := newTestInventory(t, 2, tpl)
	s, err := inv.Start(ctx, "charge")
	require.NoError(t, err)

	// --- Act & Assert ---
	require.NoError(t, inv.Cast(ctx, s.ID, false, 3))
	assert.Equal(t, StateSpellCast, s.State())

	require.NoError(t, inv.End(ctx, s.ID))
	assert.Equal(t, StateCastingEnded, s.State())

	inv.Update(ctx, tick)
	require.Len(t, inv.Active(), 1)
	assert.True(t, s.EndNodesLoaded)
	assert.Len(t, rec.spies, 2)

	inv.Update(ctx, tick)
	assert.Empty(t, inv.Active())

	missing := uuid.New()
	assert.ErrorIs(t, inv.Cast(ctx, missing, false, 0), ErrSpellNotFound)
	assert.ErrorIs(t, inv.End(ctx, missing), ErrSpellNotFound)
	assert.ErrorIs(t, inv.Cancel(ctx, missing), ErrSpellNotFound)
}

func TestInventory_CancelRunsEndNodes(t *testing.T) {
	tpl := &Template{
		Name:       "channel",
		StartNodes: []*graph.NodeDef{node("channel", spec("channel", Managed))},
		EndNodes:   []*graph.NodeDef{node("end", spec("end", Immediately))},
	}
	inv, rec := newTestInventory(t, 1, tpl)
	s, err := inv.Start(ctx, "channel")
	require.NoError(t, err)

	require.NoError(t, inv.Cancel(ctx, s.ID))
	for i := 0; i < 3; i++ {
		inv.Update(ctx, tick)
	}

	assert.Empty(t, inv.Active())
	require.Len(t, rec.spies, 2)
	assert.Zero(t, rec.spies[0].deactivated, "cancelled nodes are dropped")
	assert.Equal(t, 1, rec.spies[1].deactivated)
}

func TestInventory_ConcurrentCastsAreIndependent(t *testing.T) {
	tpl := &Template{Name: "hold", StartNodes: []*graph.NodeDef{node("hold", spec("hold", Managed))}}
	inv, _ := newTestInventory(t, 4, tpl)

	a, err := inv.Start(ctx, "hold")
	require.NoError(t, err)
	b, err := inv.Start(ctx, "hold")
	require.NoError(t, err)
	require.NotSame(t, a, b)

	actionOf(a.ActiveNodes()[0]).OnSuccess()
	inv.Update(ctx, tick)

	active := inv.Active()
	require.Len(t, active, 1)
	assert.Same(t, b, active[0])
	found, err := inv.Find(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, found)
	assert.NotNil(t, inv.Env())
}
