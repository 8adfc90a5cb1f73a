package delay

import (
	"testing"

	"github.com/specialistvlad/spellgraph/internal/spell"
	"github.com/specialistvlad/spellgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const book = `
	spell "wait" {
	  start_node "hold" {
	    action "delay" {
	      max_age = "300ms"
	    }
	  }
	}

	spell "charged" {
	  start_node "gather" {
	    action "charge" {}
	  }
	}

	actor "mage" {
	  faction = "guild"
	}
`

func TestDelay_WaitsForMaxAge(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewHarness(t, book, &Module{})
	s := h.Start("mage", "wait")
	require.Len(t, s.ActiveNodes(), 1)

	// --- Act ---
	ticks := h.RunUntilIdle(10)

	// --- Assert ---
	assert.Equal(t, 3, ticks, "300ms at 100ms per tick")
}

func TestCharge_WaitsForCast(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewHarness(t, book, &Module{})
	s := h.Start("mage", "charged")
	inv := h.Inventory("mage")

	// --- Act ---
	h.Step(5)
	stillRunning := h.Running()
	require.NoError(t, inv.Cast(h.Ctx, s.ID, false, 0))
	h.Step(1)

	// --- Assert ---
	assert.Equal(t, 1, stillRunning, "a charge holds until the spell is cast")
	assert.Zero(t, h.Running())
}

func TestRegister_DefaultPolicies(t *testing.T) {
	// --- Arrange ---
	r := spell.NewRegistry(&Module{})

	// --- Act ---
	delayKind, okDelay := r.Action("delay")
	chargeKind, okCharge := r.Action("charge")

	// --- Assert ---
	require.True(t, okDelay)
	require.True(t, okCharge)
	assert.Equal(t, spell.Timer, delayKind.DefaultPolicy)
	assert.Equal(t, spell.OnSpellCast, chargeKind.DefaultPolicy)
	assert.Nil(t, delayKind.NewArgs, "delay takes no arguments")
}
