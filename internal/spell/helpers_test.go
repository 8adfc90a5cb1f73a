package spell

import (
	"context"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/specialistvlad/spellgraph/internal/graph"
)

type testTarget struct {
	id       string
	pos      mgl32.Vec3
	received []MessageType
}

func (t *testTarget) ID() string           { return t.id }
func (t *testTarget) Position() mgl32.Vec3 { return t.pos }
func (t *testTarget) OnMessage(m *Message) {
	t.received = append(t.received, m.Type)
	m.Handled = true
}

type spyArgs struct {
	Linger int
	Fail   bool
}

// spyBehavior counts hook calls. With Linger > 0 it stays in the expiring
// list for that many ticks after deactivation.
type spyBehavior struct {
	action      *Action
	activated   int
	updated     int
	deactivated int
	linger      int
	fail        bool
}

func (b *spyBehavior) OnActivate(a *Action, prev graph.State, data any) {
	b.action = a
	b.activated++
	if b.fail {
		a.OnFailure()
	}
}

func (b *spyBehavior) OnUpdate(a *Action, dt time.Duration) {
	b.updated++
	if a.IsShuttingDown {
		b.linger--
		if b.linger <= 0 {
			a.IsShuttingDown = false
		}
	}
}

func (b *spyBehavior) OnDeactivate(a *Action) {
	b.deactivated++
	if b.linger > 0 {
		a.IsShuttingDown = true
	}
}

type linkCounter struct{ fired *int }

func (c linkCounter) Activate(*graph.Link, any) { *c.fired++ }

// recorder registers the "spy" action and "count" link action kinds and keeps
// every behavior it creates, in creation order.
type recorder struct {
	spies     []*spyBehavior
	linkFires int
}

func (r *recorder) Register(reg *Registry) {
	reg.RegisterAction("spy", &ActionKind{
		NewArgs: func() any { return new(spyArgs) },
		New: func(args any) Behavior {
			b := &spyBehavior{}
			if a, ok := args.(*spyArgs); ok {
				b.linger = a.Linger
				b.fail = a.Fail
			}
			r.spies = append(r.spies, b)
			return b
		},
	})
	reg.RegisterAction("mark", &ActionKind{
		New: func(any) Behavior { return markBehavior{} },
	})
	reg.RegisterAction("stamp", &ActionKind{
		FinishesOnActivate: true,
		New:                func(any) Behavior { return stampBehavior{} },
	})
	reg.RegisterLinkAction("count", &LinkActionKind{
		New: func(*Spell, any) graph.LinkAction { return linkCounter{fired: &r.linkFires} },
	})
}

// markBehavior adds the spell owner to the spell's targets on activation.
type markBehavior struct{ NopBehavior }

func (markBehavior) OnActivate(a *Action, _ graph.State, _ any) {
	a.Data().AddTarget(a.Spell.Owner)
}

// stampBehavior succeeds as soon as it is activated, whatever the policy.
type stampBehavior struct{ NopBehavior }

func (stampBehavior) OnActivate(a *Action, _ graph.State, _ any) {
	a.OnSuccess()
}

func newTestRegistry() (*Registry, *recorder) {
	rec := &recorder{}
	return NewRegistry(rec), rec
}

func spec(name string, policy DeactivationPolicy) *ActionSpec {
	return &ActionSpec{Name: name, Kind: "spy", Policy: policy}
}

func node(name string, content any, links ...*graph.LinkDef) *graph.NodeDef {
	return &graph.NodeDef{Name: name, Content: content, Links: links}
}

func link(to *graph.NodeDef, condition string) *graph.LinkDef {
	l := &graph.LinkDef{Name: "to_" + to.Name, To: to}
	if condition != "" {
		l.Condition = &PredicateSpec{Kind: condition}
	}
	return l
}

func names(nodes []*graph.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Name())
	}
	return out
}

func actionOf(n *graph.Node) *Action {
	a, _ := n.Content.(*Action)
	return a
}

const tick = 10 * time.Millisecond

var ctx = context.Background()
