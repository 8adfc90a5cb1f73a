package spell

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/spellgraph/internal/graph"
)

// State is the lifecycle state of a spell instance.
type State int

const (
	StateInactive State = iota
	StateReady
	StateCastingStarted
	StateSpellCast
	StateCastingEnded
	StateCompleted
)

var stateNames = map[State]string{
	StateInactive:       "inactive",
	StateReady:          "ready",
	StateCastingStarted: "casting_started",
	StateSpellCast:      "spell_cast",
	StateCastingEnded:   "casting_ended",
	StateCompleted:      "completed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ParseState converts a spell state name as written in a spellbook.
func ParseState(name string) (State, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return StateInactive, fmt.Errorf("unknown spell state '%s'", name)
}

// ActionState is the state of a single action. Values 3 and 4 are unused.
type ActionState int

const (
	ActionInactive  ActionState = 0
	ActionReady     ActionState = 1
	ActionActive    ActionState = 2
	ActionSucceeded ActionState = 5
	ActionFailed    ActionState = 6
)

func (s ActionState) String() string {
	switch s {
	case ActionInactive:
		return "inactive"
	case ActionReady:
		return "ready"
	case ActionActive:
		return "active"
	case ActionSucceeded:
		return "succeeded"
	case ActionFailed:
		return "failed"
	default:
		return fmt.Sprintf("action_state(%d)", int(s))
	}
}

// NodeState projects an action state onto the state of the node that owns it.
func (s ActionState) NodeState() graph.State {
	switch s {
	case ActionActive:
		return graph.Working
	case ActionSucceeded:
		return graph.Succeeded
	case ActionFailed:
		return graph.Failed
	default:
		return graph.Idle
	}
}

// DeactivationPolicy decides when an active action stops on its own.
type DeactivationPolicy int

const (
	// Immediately finishes the action inside Activate.
	Immediately DeactivationPolicy = iota
	// Managed actions only stop through OnSuccess, OnFailure or Deactivate.
	Managed
	// Timer stops the action once its Age reaches MaxAge.
	Timer
	// OnCastingStarted stops the action once the spell has started casting.
	OnCastingStarted
	// OnSpellCast stops the action once the spell has been cast.
	OnSpellCast
	// OnCastingEnded stops the action once casting has ended.
	OnCastingEnded
)

var policyNames = map[DeactivationPolicy]string{
	Immediately:      "immediately",
	Managed:          "managed",
	Timer:            "timer",
	OnCastingStarted: "casting_started",
	OnSpellCast:      "spell_cast",
	OnCastingEnded:   "casting_ended",
}

func (p DeactivationPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy converts a deactivation policy name as written in a spellbook.
func ParsePolicy(name string) (DeactivationPolicy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return Immediately, fmt.Errorf("unknown deactivation policy '%s'", name)
}

// spellState maps the spell-state policies to the state they wait for.
func (p DeactivationPolicy) spellState() (State, bool) {
	switch p {
	case OnCastingStarted:
		return StateCastingStarted, true
	case OnSpellCast:
		return StateSpellCast, true
	case OnCastingEnded:
		return StateCastingEnded, true
	}
	return StateInactive, false
}

// Source selects where targeting helpers look for a target or position.
type Source int

const (
	// FromData uses the per-activation data handed to the action.
	FromData Source = iota
	// FromOwner uses the actor that owns the spell.
	FromOwner
	// FromTargets reads Data.Targets.
	FromTargets
	// FromPreviousTargets reads Data.PreviousTargets.
	FromPreviousTargets
	// FromPositions reads Data.Positions. Only meaningful for positions.
	FromPositions
)

var sourceNames = map[Source]string{
	FromData:            "data",
	FromOwner:           "owner",
	FromTargets:         "targets",
	FromPreviousTargets: "previous_targets",
	FromPositions:       "positions",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// ParseSource converts a source name as written in a spellbook.
func ParseSource(name string) (Source, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range sourceNames {
		if n == name {
			return s, nil
		}
	}
	return FromData, fmt.Errorf("unknown target source '%s'", name)
}
