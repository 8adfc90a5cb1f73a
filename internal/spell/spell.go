package spell

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/spellgraph/internal/ctxlog"
	"github.com/specialistvlad/spellgraph/internal/graph"
	"github.com/specialistvlad/spellgraph/internal/pool"
)

// Spell is one cast of a Template.
type Spell struct {
	// ID identifies the cast. A new one is assigned every time the instance
	// is bound to a template.
	ID   uuid.UUID
	Name string
	// Template is the definition this instance was cloned from. It doubles as
	// the pooling back-reference and is nil once the instance is released.
	Template *Template

	Owner     Target
	Inventory *Inventory
	Data      *Data

	// StartNodes and EndNodes are shared with the template and never mutated.
	StartNodes []*graph.NodeDef
	EndNodes   []*graph.NodeDef

	IsCancelling   bool
	EndNodesLoaded bool

	// ReleaseFromCamera and ReleaseDistance are recorded by Cast for actions
	// that need to know where a projectile originates.
	ReleaseFromCamera bool
	ReleaseDistance   float32

	state           State
	arena           *graph.Arena
	factory         *factory
	activeNodes     []*graph.Node
	expiringActions []*Action
	home            *pool.Pool[*Spell]
	log             *slog.Logger
	// depth counts nested activations within one call.
	depth int
}

// maxActivationDepth bounds chains of nodes that finish while being
// activated, such as a loop of nodes that succeed on activation.
const maxActivationDepth = 32

// New creates a standalone spell instance from a template and brings it to
// READY.
func New(ctx context.Context, tpl *Template, reg *Registry) *Spell {
	s := &Spell{}
	s.Bind(tpl, reg, nil)
	s.SetState(ctx, StateReady)
	return s
}

// Bind attaches a (possibly recycled) instance to a template. home is the
// pool the instance returns to on Release; it may be nil.
func (s *Spell) Bind(tpl *Template, reg *Registry, home *pool.Pool[*Spell]) {
	s.ID = uuid.New()
	s.Template = tpl
	s.Name = tpl.Name
	s.StartNodes = tpl.StartNodes
	s.EndNodes = tpl.EndNodes
	s.home = home
	if s.arena == nil {
		s.arena = graph.NewArena()
	}
	s.factory = &factory{spell: s, registry: reg}
}

// State returns the spell state.
func (s *Spell) State() State {
	return s.state
}

// SetState changes the spell state. Setting READY resets the instance.
func (s *Spell) SetState(ctx context.Context, st State) {
	if st == StateReady {
		s.Reset(ctx)
		return
	}
	s.state = st
}

// ActiveNodes returns the working node instances in activation order. The
// slice is owned by the spell.
func (s *Spell) ActiveNodes() []*graph.Node {
	return s.activeNodes
}

// ExpiringActions returns the actions that are still shutting down.
func (s *Spell) ExpiringActions() []*Action {
	return s.expiringActions
}

// LiveNodes returns the number of node instances the cast currently holds.
func (s *Spell) LiveNodes() int {
	if s.arena == nil {
		return 0
	}
	return s.arena.Live()
}

func (s *Spell) logger(ctx context.Context) *slog.Logger {
	s.log = ctxlog.FromContext(ctx).With("cast_id", s.ID.String(), "spell", s.Name)
	return s.log
}

// Logger returns the logger of the call currently driving the spell, for
// behaviors, which do not receive a context.
func (s *Spell) Logger() *slog.Logger {
	if s.log == nil {
		return ctxlog.FromContext(context.Background())
	}
	return s.log
}

// Reset drops every instance of the previous cast, clears Data and the
// cancellation latches, and leaves the spell READY. Safe to call repeatedly.
func (s *Spell) Reset(ctx context.Context) {
	if s.arena != nil {
		s.arena.Reset()
	}
	clear(s.activeNodes)
	s.activeNodes = s.activeNodes[:0]
	clear(s.expiringActions)
	s.expiringActions = s.expiringActions[:0]

	if s.Data == nil {
		s.Data = &Data{}
	} else {
		s.Data.Clear()
	}

	s.IsCancelling = false
	s.EndNodesLoaded = false
	s.ReleaseFromCamera = false
	s.ReleaseDistance = 0
	s.state = StateReady
	s.logger(ctx).Debug("Spell reset.")
}

// Start begins casting by activating every start node.
func (s *Spell) Start(ctx context.Context) {
	s.IsCancelling = false
	s.EndNodesLoaded = false
	s.state = StateCastingStarted
	clear(s.activeNodes)
	s.activeNodes = s.activeNodes[:0]

	s.logger(ctx).Info("Casting started.", "start_nodes", len(s.StartNodes))
	for _, def := range s.StartNodes {
		s.activateNode(ctx, def, graph.Idle, s.Data)
	}
}

// Cancel asks the spell to stop. It only has an effect until the end nodes
// have been loaded.
func (s *Spell) Cancel(ctx context.Context) {
	if s.EndNodesLoaded {
		s.logger(ctx).Debug("Cancel ignored, end nodes already loaded.")
		return
	}
	s.IsCancelling = true
	s.logger(ctx).Info("Spell cancelling.")
}

// Cast marks the moment the spell is released.
func (s *Spell) Cast(ctx context.Context, releaseFromCamera bool, releaseDistance float32) {
	if s.state == StateCompleted {
		return
	}
	s.ReleaseFromCamera = releaseFromCamera
	s.ReleaseDistance = releaseDistance
	s.state = StateSpellCast
	s.logger(ctx).Info("Spell cast.", "from_camera", releaseFromCamera, "distance", releaseDistance)
}

// End marks the end of casting.
func (s *Spell) End(ctx context.Context) {
	if s.state == StateCompleted {
		return
	}
	s.state = StateCastingEnded
	s.logger(ctx).Info("Casting ended.")
}

// Update advances the spell by one tick.
func (s *Spell) Update(ctx context.Context, dt time.Duration) {
	if s.state == StateCompleted || s.state == StateInactive {
		return
	}
	logger := s.logger(ctx)

	// Nodes activated during this tick are not updated until the next one.
	activeCount := len(s.activeNodes)

	// Expiring actions are drained regardless of cancellation.
	for i := 0; i < len(s.expiringActions); {
		a := s.expiringActions[i]
		a.Update(dt)
		if a.IsShuttingDown {
			i++
			continue
		}
		s.expiringActions = slices.Delete(s.expiringActions, i, i+1)
		logger.Debug("Expiring action finished.", "action", a.Name)
		s.arena.Release(a.Node)
	}

	for i := 0; i < activeCount && i < len(s.activeNodes); i++ {
		n := s.activeNodes[i]
		if a, ok := n.Content.(*Action); ok {
			a.Update(dt)
		}
		if !s.IsCancelling {
			s.traverse(ctx, n, s.dataFor(n))
		}
	}

	if s.IsCancelling && !s.EndNodesLoaded && len(s.activeNodes) > 0 {
		// Active nodes are dropped as they are; their actions are not
		// deactivated. End nodes load on the next tick.
		logger.Info("Cancellation flushed active nodes.", "dropped", len(s.activeNodes))
		for _, n := range s.activeNodes {
			s.arena.Release(n)
		}
		clear(s.activeNodes)
		s.activeNodes = s.activeNodes[:0]
		return
	}

	for i := len(s.activeNodes) - 1; i >= 0; i-- {
		if n := s.activeNodes[i]; n.State.Done() {
			s.DeactivateNode(ctx, n)
		}
	}

	if len(s.expiringActions) > 0 || len(s.activeNodes) > 0 {
		return
	}
	// A spell that was never started neither completes nor loads end nodes.
	if s.state == StateReady {
		return
	}
	if s.EndNodesLoaded || len(s.EndNodes) == 0 {
		s.state = StateCompleted
		logger.Info("Spell completed.")
		return
	}

	s.EndNodesLoaded = true
	s.IsCancelling = false
	logger.Debug("Loading end nodes.", "end_nodes", len(s.EndNodes))
	for _, def := range s.EndNodes {
		s.activateNode(ctx, def, graph.Idle, s.Data)
	}
}

// ActivateNode instantiates a template node and activates its content. It
// returns nil when the chain of nested activations is too deep.
func (s *Spell) ActivateNode(ctx context.Context, def *graph.NodeDef, data any) *graph.Node {
	return s.activateNode(ctx, def, graph.Idle, data)
}

// ActivateLink fires a link: its link actions run in order, then the target
// node is activated.
func (s *Spell) ActivateLink(ctx context.Context, l *graph.Link, data any) *graph.Node {
	l.Traversed = true
	for _, la := range l.Actions {
		la.Activate(l, data)
	}
	if l.Def == nil || l.Def.To == nil {
		return nil
	}
	prev := graph.Idle
	if l.From != nil {
		prev = l.From.State
	}
	s.logger(ctx).Debug("Link traversed.", "from", l.From.Name(), "to", l.Def.To.Name)
	return s.activateNode(ctx, l.Def.To, prev, data)
}

func (s *Spell) activateNode(ctx context.Context, def *graph.NodeDef, prev graph.State, data any) *graph.Node {
	logger := s.logger(ctx).With("node", def.Name)
	if s.depth >= maxActivationDepth {
		logger.Error("Activation chain too deep, node not activated.", "max_depth", maxActivationDepth)
		return nil
	}
	s.depth++
	defer func() { s.depth-- }()

	n := s.arena.Instantiate(def, s.factory)

	a, _ := n.Content.(*Action)
	if a != nil {
		a.Node = n
		a.SetState(ActionReady)
		a.Activate(prev, data)
		if a.State() == ActionActive {
			if !slices.Contains(s.activeNodes, n) {
				s.activeNodes = append(s.activeNodes, n)
			}
			logger.Debug("Node activated.", "action", a.Kind, "policy", a.Policy.String())
			return n
		}
		logger.Debug("Node finished on activation.", "action", a.Kind, "state", a.State().String())
	} else {
		if d, isData := data.(*Data); data != nil && (!isData || d != s.Data) {
			n.Data = data
		}
		n.State = graph.Succeeded
		logger.Debug("Empty node succeeded.")
	}

	s.traverse(ctx, n, s.dataFor(n))
	s.retire(n, a)
	return n
}

// DeactivateNode stops a node and removes it from the active list. Actions
// still shutting down move to the expiring list; everything else is destroyed.
func (s *Spell) DeactivateNode(ctx context.Context, n *graph.Node) {
	a, _ := n.Content.(*Action)
	if a != nil && a.State() == ActionActive {
		a.Deactivate()
	}
	if i := slices.Index(s.activeNodes, n); i >= 0 {
		s.activeNodes = slices.Delete(s.activeNodes, i, i+1)
	}
	s.logger(ctx).Debug("Node deactivated.", "node", n.Name(), "state", n.State.String())
	s.retire(n, a)
}

func (s *Spell) retire(n *graph.Node, a *Action) {
	if a != nil && a.IsShuttingDown {
		s.expiringActions = append(s.expiringActions, a)
		return
	}
	s.arena.Release(n)
}

func (s *Spell) traverse(ctx context.Context, n *graph.Node, data any) {
	for _, l := range n.Links {
		if l.Traversed || !l.TestActivate() {
			continue
		}
		s.ActivateLink(ctx, l, data)
	}
}

// dataFor returns the payload passed along a node's links: its own override
// when it has one, the spell's Data otherwise.
func (s *Spell) dataFor(n *graph.Node) any {
	if n.Data != nil {
		return n.Data
	}
	return s.Data
}

// Release clears the instance and, when it came from a pool, hands it back.
func (s *Spell) Release(ctx context.Context) {
	s.logger(ctx).Debug("Spell released.")
	s.Owner = nil
	s.Inventory = nil
	s.Reset(ctx)
	s.state = StateInactive

	if s.Template != nil {
		if s.home != nil && !s.home.Release(s) {
			s.logger(ctx).Warn("Spell pool is full, instance dropped.", "capacity", s.home.Capacity())
		}
		s.home = nil
		s.Template = nil
	}
}

// Env returns the collaborators of the owning inventory, or nil.
func (s *Spell) Env() *Environment {
	if s.Inventory == nil {
		return nil
	}
	return s.Inventory.env
}
