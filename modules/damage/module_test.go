package damage

import (
	"testing"

	"github.com/specialistvlad/spellgraph/internal/testutil"
	"github.com/specialistvlad/spellgraph/modules/print"
	"github.com/specialistvlad/spellgraph/modules/targeting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const book = `
	spell "smite" {
	  start_node "aim" {
	    action "select_targets" {
	      faction = "enemy"
	      limit   = 1
	    }
	    link "hit" {
	      to = strike
	      condition "succeeded" {}
	    }
	  }
	  node "strike" {
	    action "damage" {
	      amount = 10
	      name   = "holy"
	    }
	  }
	}

	spell "burn" {
	  start_node "aim" {
	    action "select_targets" {
	      faction = "enemy"
	    }
	    link "hit" {
	      to = ignite
	      condition "succeeded" {}
	    }
	  }
	  node "ignite" {
	    action "damage" {
	      deactivation = "timer"
	      max_age      = "300ms"
	      amount       = 5
	      interval     = "100ms"
	    }
	  }
	}

	spell "mend" {
	  start_node "self" {
	    action "heal" {
	      amount = 40
	      source = "owner"
	    }
	  }
	}

	spell "fumble" {
	  start_node "strike" {
	    action "damage" {
	      amount = 10
	    }
	    link "whiff" {
	      to = oops
	      condition "failed" {}
	    }
	  }
	  node "oops" {
	    action "log" {
	      message = "nothing to hit"
	    }
	  }
	}

	actor "paladin" {
	  faction    = "guild"
	  health     = 50
	  max_health = 70
	}

	actor "imp" {
	  faction  = "horde"
	  position = [0, 0, 3]
	  health   = 30
	}

	actor "ogre" {
	  faction  = "horde"
	  position = [0, 0, 6]
	  health   = 100
	}
`

func newHarness(t *testing.T) *testutil.Harness {
	t.Helper()
	return testutil.NewHarness(t, book, &Module{}, &targeting.Module{}, &print.Module{})
}

func TestDamage_ClosestTarget(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)

	// --- Act ---
	h.Start("paladin", "smite")
	h.RunUntilIdle(5)

	// --- Assert ---
	assert.Equal(t, float32(20), h.Actor("imp").Health())
	assert.Equal(t, float32(100), h.Actor("ogre").Health(), "the limit keeps the ogre out")
	assert.Equal(t, float32(50), h.Actor("paladin").Health())
	assert.Equal(t, 1, h.Messages.Stats().Free, "the message returns to the pool")
}

func TestDamage_Interval(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)

	// --- Act ---
	h.Start("paladin", "burn")
	ticks := h.RunUntilIdle(10)

	// --- Assert ---
	assert.Equal(t, 3, ticks)
	// One hit on activation and one per 100ms while active.
	assert.Equal(t, float32(10), h.Actor("imp").Health())
	assert.Equal(t, float32(80), h.Actor("ogre").Health())
	assert.Equal(t, float32(20), h.Actor("imp").DamageTaken)
}

func TestHeal_ClampsToMaxHealth(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)

	// --- Act ---
	h.Start("paladin", "mend")
	h.RunUntilIdle(5)

	// --- Assert ---
	paladin := h.Actor("paladin")
	assert.Equal(t, float32(70), paladin.Health())
	assert.Equal(t, float32(20), paladin.HealingDone)
}

func TestDamage_NoTargetsFails(t *testing.T) {
	// --- Arrange ---
	h := newHarness(t)

	// --- Act ---
	h.Start("paladin", "fumble")
	h.RunUntilIdle(5)

	// --- Assert ---
	assert.Contains(t, h.Logs.String(), "nothing to hit")
	assert.Equal(t, float32(30), h.Actor("imp").Health())
}

func TestArgs_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		args    Args
		wantErr string
	}{
		{name: "minimal", args: Args{Amount: 1}},
		{name: "full", args: Args{Amount: 1, Source: "previous_targets", Name: "ice", Interval: "1s"}},
		{name: "zero amount", args: Args{}, wantErr: "amount must be positive"},
		{name: "bad source", args: Args{Amount: 1, Source: "sky"}, wantErr: "sky"},
		{name: "bad interval", args: Args{Amount: 1, Interval: "often"}, wantErr: "invalid interval 'often'"},
		{name: "zero interval", args: Args{Amount: 1, Interval: "0s"}, wantErr: "invalid interval"},
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
