package aura

import (
	"testing"
	"time"

	"github.com/specialistvlad/spellgraph/internal/spell"
	"github.com/specialistvlad/spellgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const book = `
	spell "blessing" {
	  start_node "glow" {
	    action "aura" {
	      max_age  = "300ms"
	      amount   = 5
	      radius   = 5
	      faction  = "ally"
	      interval = "100ms"
	      fade_out = "200ms"
	    }
	  }
	}

	spell "thorns" {
	  start_node "spikes" {
	    action "aura" {
	      max_age  = "200ms"
	      effect   = "damage"
	      amount   = 10
	      radius   = 2
	      faction  = "enemy"
	      interval = "100ms"
	    }
	  }
	}

	actor "priest" {
	  faction = "guild"
	}

	actor "knight" {
	  faction    = "guild"
	  position   = [0, 0, 3]
	  health     = 50
	  max_health = 100
	}

	actor "squire" {
	  faction    = "guild"
	  position   = [0, 0, 20]
	  health     = 50
	  max_health = 100
	}

	actor "orc" {
	  faction    = "horde"
	  position   = [0, 0, 1]
	  health     = 50
	  max_health = 100
	}
`

func TestAura_HealsAndFades(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewHarness(t, book, &Module{})
	s := h.Start("priest", "blessing")

	// --- Act ---
	h.Step(4)
	activeAfterFour := len(s.ActiveNodes())
	expiringAfterFour := len(s.ExpiringActions())
	ticks := 4 + h.RunUntilIdle(5)

	// --- Assert ---
	assert.Zero(t, activeAfterFour)
	assert.Equal(t, 1, expiringAfterFour, "the aura keeps fading after it stopped")
	assert.Equal(t, 5, ticks)
	assert.Equal(t, float32(65), h.Actor("knight").Health(), "three pulses while active")
	assert.Equal(t, float32(50), h.Actor("squire").Health(), "out of range")
	assert.Equal(t, float32(50), h.Actor("orc").Health(), "not an ally")
	assert.Contains(t, h.Logs.String(), "Aura faded.")
}

func TestAura_Damage(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewHarness(t, book, &Module{})

	// --- Act ---
	h.Start("priest", "thorns")
	ticks := h.RunUntilIdle(5)

	// --- Assert ---
	assert.Equal(t, 2, ticks, "no fade out, the spell completes when the aura stops")
	assert.Equal(t, float32(30), h.Actor("orc").Health())
	assert.Equal(t, float32(100), h.Actor("priest").Health())
	assert.Equal(t, float32(50), h.Actor("knight").Health())
}

func TestNewPulse_Defaults(t *testing.T) {
	// --- Act ---
	p := newPulse(&Args{Amount: 1, Radius: 1})

	// --- Assert ---
	assert.Equal(t, spell.MessageHeal, p.kind)
	assert.Equal(t, time.Second, p.interval)
	assert.Zero(t, p.fadeOut)
}

func TestArgs_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		args    Args
		wantErr string
	}{
		{name: "minimal", args: Args{Amount: 1, Radius: 1}},
		{name: "damage", args: Args{Amount: 1, Radius: 1, Effect: "damage", FadeOut: "1s"}},
		{name: "no radius", args: Args{Amount: 1}, wantErr: "amount and radius must be positive"},
		{name: "bad effect", args: Args{Amount: 1, Radius: 1, Effect: "poison"}, wantErr: "unknown effect 'poison'"},
		{name: "bad interval", args: Args{Amount: 1, Radius: 1, Interval: "-1s"}, wantErr: "invalid duration '-1s'"},
		{name: "bad fade", args: Args{Amount: 1, Radius: 1, FadeOut: "later"}, wantErr: "invalid duration 'later'"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			err := tc.args.Validate()

			// --- Assert ---
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
