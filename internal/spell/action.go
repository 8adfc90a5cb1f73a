package spell

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/spellgraph/internal/graph"
)

// Behavior is the extension point through which gameplay effects attach to a
// spell graph. The Action owns the state machine and calls into the behavior
// at each step.
type Behavior interface {
	// OnActivate runs after the action became ACTIVE. It may finish the action
	// right away through OnSuccess or OnFailure.
	OnActivate(a *Action, prev graph.State, data any)
	// OnUpdate runs once per tick while the action's node is active or the
	// action is expiring.
	OnUpdate(a *Action, dt time.Duration)
	// OnDeactivate runs once per activation when the action stops. Setting
	// a.IsShuttingDown keeps it ticking in the expiring list until OnUpdate
	// clears the flag.
	OnDeactivate(a *Action)
}

// DeactivationTester lets a behavior replace the policy-based deactivation
// test. Implementations can fall back to a.PolicyWantsDeactivate.
type DeactivationTester interface {
	TestDeactivate(a *Action) bool
}

// NopBehavior implements Behavior with empty hooks, for embedding.
type NopBehavior struct{}

func (NopBehavior) OnActivate(*Action, graph.State, any) {}
func (NopBehavior) OnUpdate(*Action, time.Duration)      {}
func (NopBehavior) OnDeactivate(*Action)                 {}

// Action is a unit of work attached to one node instance.
type Action struct {
	// Name is the template name of the action, for logging.
	Name string
	// Kind is the registry key the behavior was built from.
	Kind string

	Policy DeactivationPolicy
	// MaxAge is only used by the Timer policy.
	MaxAge time.Duration
	// Age is the time elapsed since the last activation.
	Age time.Duration
	// IsShuttingDown marks an action that finished logically but still needs
	// ticks to tear down its effects.
	IsShuttingDown bool

	Spell    *Spell
	Node     *graph.Node
	Behavior Behavior

	state       ActionState
	deactivated bool
}

// NewAction creates an action in the READY state.
func NewAction(b Behavior, policy DeactivationPolicy, maxAge time.Duration) *Action {
	return &Action{
		Policy:   policy,
		MaxAge:   maxAge,
		Behavior: b,
		state:    ActionReady,
	}
}

// State returns the action state.
func (a *Action) State() ActionState {
	return a.state
}

// SetState changes the action state and mirrors it onto the owning node.
func (a *Action) SetState(s ActionState) {
	a.state = s
	if a.Node != nil {
		a.Node.State = s.NodeState()
	}
}

// Clear returns the action to READY so it can be activated again.
func (a *Action) Clear() {
	a.Age = 0
	a.IsShuttingDown = false
	a.deactivated = false
	a.SetState(ActionReady)
}

// Activate starts the action. Data other than the spell's own Data is kept
// on the node as a per-activation override.
func (a *Action) Activate(prev graph.State, data any) {
	a.Age = 0
	a.IsShuttingDown = false
	a.deactivated = false
	a.SetState(ActionActive)

	if data != nil && !a.isSpellData(data) && a.Node != nil {
		a.Node.Data = data
	}

	if a.Behavior != nil {
		a.Behavior.OnActivate(a, prev, data)
	}

	if a.Policy == Immediately && a.state == ActionActive {
		a.Deactivate()
	}
}

// Update advances the action by one tick.
func (a *Action) Update(dt time.Duration) {
	a.Age += dt
	if a.Behavior != nil {
		a.Behavior.OnUpdate(a, dt)
	}
	if !a.IsShuttingDown && a.TestDeactivate() {
		a.Deactivate()
	}
}

// TestDeactivate reports whether the action should stop now.
func (a *Action) TestDeactivate() bool {
	if a.IsShuttingDown {
		return true
	}
	if t, ok := a.Behavior.(DeactivationTester); ok {
		return t.TestDeactivate(a)
	}
	return a.PolicyWantsDeactivate()
}

// PolicyWantsDeactivate evaluates the deactivation policy alone.
func (a *Action) PolicyWantsDeactivate() bool {
	switch a.Policy {
	case Immediately:
		return true
	case Managed:
		return false
	case Timer:
		return a.Age >= a.MaxAge
	}
	if want, ok := a.Policy.spellState(); ok {
		return a.Spell != nil && a.Spell.State() >= want
	}
	return false
}

// Deactivate stops the action. A READY or ACTIVE action becomes SUCCEEDED;
// terminal states are kept. The shutting-down flag is cleared on entry, so a
// behavior that needs teardown ticks must raise it again in OnDeactivate.
func (a *Action) Deactivate() {
	a.IsShuttingDown = false
	if a.state == ActionReady || a.state == ActionActive {
		a.SetState(ActionSucceeded)
	}
	if a.deactivated {
		return
	}
	a.deactivated = true
	if a.Behavior != nil {
		a.Behavior.OnDeactivate(a)
	}
}

// OnSuccess finishes the action successfully.
func (a *Action) OnSuccess() {
	a.SetState(ActionSucceeded)
	a.Deactivate()
}

// OnFailure finishes the action with a failure.
func (a *Action) OnFailure() {
	a.SetState(ActionFailed)
	a.Deactivate()
}

// Data returns the Data of the owning spell, or nil.
func (a *Action) Data() *Data {
	if a.Spell == nil {
		return nil
	}
	return a.Spell.Data
}

func (a *Action) isSpellData(data any) bool {
	d, ok := data.(*Data)
	return ok && a.Spell != nil && d == a.Spell.Data
}

// override returns data when it is a per-activation override rather than the
// spell's shared Data, falling back to whatever the node already carries.
func (a *Action) override(data any) any {
	if data != nil && !a.isSpellData(data) {
		return data
	}
	if a.Node != nil && a.Node.Data != nil && !a.isSpellData(a.Node.Data) {
		return a.Node.Data
	}
	return nil
}

func (a *Action) stamp(data any) {
	if a.Node != nil {
		a.Node.Data = data
	}
}

func (a *Action) owner() Target {
	if a.Spell == nil {
		return nil
	}
	return a.Spell.Owner
}

// GetBestTarget resolves a single target. Target lists are read at index 0.
func (a *Action) GetBestTarget(src Source, data any) Target {
	switch src {
	case FromData:
		if t, ok := a.override(data).(Target); ok {
			a.stamp(t)
			return t
		}
	case FromOwner:
		return a.owner()
	case FromTargets:
		if d := a.Data(); d != nil && len(d.Targets) > 0 {
			return d.Targets[0]
		}
	case FromPreviousTargets:
		if d := a.Data(); d != nil && len(d.PreviousTargets) > 0 {
			return d.PreviousTargets[0]
		}
	}
	return nil
}

// GetBestTargets resolves a list of targets. The result is nil when nothing
// is available.
func (a *Action) GetBestTargets(src Source, data any) []Target {
	switch src {
	case FromData:
		switch v := a.override(data).(type) {
		case []Target:
			if len(v) > 0 {
				a.stamp(v)
				return v
			}
		case Target:
			a.stamp(v)
			return []Target{v}
		}
	case FromOwner:
		if o := a.owner(); o != nil {
			return []Target{o}
		}
	case FromTargets:
		if d := a.Data(); d != nil && len(d.Targets) > 0 {
			return d.Targets
		}
	case FromPreviousTargets:
		if d := a.Data(); d != nil && len(d.PreviousTargets) > 0 {
			return d.PreviousTargets
		}
	}
	return nil
}

// GetBestPosition resolves a position. Lists are read at their last element.
func (a *Action) GetBestPosition(src Source, data any) (mgl32.Vec3, bool) {
	switch src {
	case FromData:
		switch v := a.override(data).(type) {
		case mgl32.Vec3:
			a.stamp(v)
			return v, true
		case Target:
			a.stamp(v)
			return v.Position(), true
		}
	case FromOwner:
		if o := a.owner(); o != nil {
			return o.Position(), true
		}
	case FromPositions:
		if d := a.Data(); d != nil && len(d.Positions) > 0 {
			return d.Positions[len(d.Positions)-1], true
		}
	case FromTargets:
		if d := a.Data(); d != nil && len(d.Targets) > 0 {
			return d.Targets[len(d.Targets)-1].Position(), true
		}
	case FromPreviousTargets:
		if d := a.Data(); d != nil && len(d.PreviousTargets) > 0 {
			return d.PreviousTargets[len(d.PreviousTargets)-1].Position(), true
		}
	}
	return mgl32.Vec3{}, false
}
