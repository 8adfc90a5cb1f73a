package targeting

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/spellgraph/internal/spell"
	"github.com/specialistvlad/spellgraph/internal/spellbook"
	"github.com/specialistvlad/spellgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const book = `
	spell "chain" {
	  start_node "first" {
	    action "select_targets" {
	      faction = "enemy"
	      limit   = 1
	    }
	    link "jump" {
	      to = second
	      condition "succeeded" {}
	      action "shift_targets" {}
	    }
	  }
	  node "second" {
	    action "select_targets" {
	      from          = "previous_targets"
	      faction       = "ally"
	      max_distance  = 10
	      limit         = 1
	      skip_previous = true
	    }
	    link "mark" {
	      to = mark
	      condition "succeeded" {}
	    }
	  }
	  node "mark" {
	    action "record_position" {
	      source = "targets"
	    }
	  }
	}

	spell "cone" {
	  start_node "look" {
	    action "select_targets" {
	      faction       = "horde"
	      field_of_view = 60
	      min_distance  = 1
	    }
	  }
	}

	spell "here" {
	  start_node "stand" {
	    action "record_position" {}
	  }
	}

	spell "lonely" {
	  start_node "search" {
	    action "select_targets" {
	      faction = "pixies"
	    }
	  }
	}

	actor "ranger" {
	  faction = "guild"
	}

	actor "wolf" {
	  faction  = "horde"
	  position = [0, 0, 5]
	}

	actor "bear" {
	  faction  = "horde"
	  position = [3, 0, 6]
	}

	actor "bat" {
	  faction  = "horde"
	  position = [0, 0, -4]
	}

	actor "spider" {
	  faction  = "horde"
	  position = [0, 0, 50]
	}
`

func ids(ts []spell.Target) []string {
	var out []string
	for _, t := range ts {
		out = append(out, t.ID())
	}
	return out
}

func TestSelectTargets_Chain(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewHarness(t, book, &Module{})

	// --- Act ---
	// Every node finishes on activation, so the whole chain runs in Start.
	s := h.Start("ranger", "chain")

	// --- Assert ---
	assert.Equal(t, []string{"bear"}, ids(s.Data.Targets))
	assert.Equal(t, []string{"wolf"}, ids(s.Data.PreviousTargets))
	assert.Equal(t, []mgl32.Vec3{{3, 0, 6}}, s.Data.Positions)
	assert.Nil(t, s.Data.Forwards, "only the owner's forward is recorded")
}

func TestSelectTargets_FieldOfView(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewHarness(t, book, &Module{})

	// --- Act ---
	s := h.Start("ranger", "cone")

	// --- Assert ---
	assert.Equal(t, []string{"wolf", "bear", "spider"}, ids(s.Data.Targets), "the bat is behind the ranger")
}

func TestSelectTargets_NothingFound(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewHarness(t, book, &Module{})

	// --- Act ---
	s := h.Start("ranger", "lonely")

	// --- Assert ---
	assert.Nil(t, s.Data.Targets)
	assert.Contains(t, h.Logs.String(), "picked=0")
	assert.Equal(t, 1, h.RunUntilIdle(3))
}

func TestRecordPosition_Owner(t *testing.T) {
	// --- Arrange ---
	h := testutil.NewHarness(t, book, &Module{})

	// --- Act ---
	s := h.Start("ranger", "here")

	// --- Assert ---
	assert.Equal(t, []mgl32.Vec3{{0, 0, 0}}, s.Data.Positions)
	assert.Equal(t, []mgl32.Vec3{{0, 0, 1}}, s.Data.Forwards)
}

func TestRecordPosition_ManagedLoopRejected(t *testing.T) {
	// --- Arrange ---
	// record_position finishes on activation even when managed, so this loop
	// would never yield to the tick.
	src := testutil.Unindent(`
		spell "echo" {
		  start_node "a" {
		    action "record_position" {
		      deactivation = "managed"
		    }
		    link "next" {
		      to = b
		      condition "completed" {}
		    }
		  }
		  node "b" {
		    action "record_position" {
		      deactivation = "managed"
		    }
		    link "back" {
		      to = a
		      condition "completed" {}
		    }
		  }
		}
	`)
	path := filepath.Join(t.TempDir(), "echo.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	// --- Act ---
	_, err := spellbook.Load(context.Background(), spell.NewRegistry(&Module{}), path)

	// --- Assert ---
	assert.ErrorIs(t, err, spell.ErrInvalidGraph)
}

func TestSelectArgs_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		args    SelectArgs
		wantErr string
	}{
		{name: "empty", args: SelectArgs{}},
		{name: "full", args: SelectArgs{From: "targets", MinDistance: 1, MaxDistance: 5, FieldOfView: 90, Limit: 2}},
		{name: "bad source", args: SelectArgs{From: "moon"}, wantErr: "moon"},
		{name: "negative distance", args: SelectArgs{MinDistance: -1}, wantErr: "distances must not be negative"},
		{name: "inverted range", args: SelectArgs{MinDistance: 5, MaxDistance: 2}, wantErr: "min_distance"},
		{name: "wide view", args: SelectArgs{FieldOfView: 400}, wantErr: "field_of_view"},
		{name: "negative limit", args: SelectArgs{Limit: -1}, wantErr: "limit"},
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

func TestShiftTargets_WithoutSpell(t *testing.T) {
	// --- Act & Assert ---
	assert.NotPanics(t, func() { shiftTargets{}.Activate(nil, nil) })
}
