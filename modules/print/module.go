// Package print provides the "log" action and link action, which write a
// message to the spell's logger. They are mostly useful while authoring
// spellbooks, to see which parts of a graph run.
package print

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/specialistvlad/spellgraph/internal/graph"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

// Module implements the spell.Module interface for this package.
type Module struct{}

// Args defines the arguments of the log action and link action.
type Args struct {
	Message string `hcl:"message"`
	Level   string `hcl:"level,optional"`
}

// Validate checks that the level, when given, is a known slog level.
func (a *Args) Validate() error {
	if a.Message == "" {
		return fmt.Errorf("message must not be empty")
	}
	_, err := a.level()
	return err
}

func (a *Args) level() (slog.Level, error) {
	var lvl slog.Level
	if a.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(a.Level))); err != nil {
		return lvl, fmt.Errorf("invalid level '%s': %w", a.Level, err)
	}
	return lvl, nil
}

func argsOf(v any) *Args {
	if a, ok := v.(*Args); ok && a != nil {
		return a
	}
	return &Args{}
}

func write(s *spell.Spell, args *Args, attrs ...any) {
	lvl, _ := args.level()
	s.Logger().Log(context.Background(), lvl, args.Message, attrs...)
}

// logAction writes its message when activated.
type logAction struct {
	spell.NopBehavior
	args *Args
}

func (b *logAction) OnActivate(a *spell.Action, prev graph.State, _ any) {
	if a.Spell == nil {
		return
	}
	write(a.Spell, b.args, "node", a.Node.Name(), "previous", prev.String())
}

func (b *logAction) OnDeactivate(a *spell.Action) {
	if a.Spell == nil || a.Policy == spell.Immediately {
		return
	}
	a.Spell.Logger().Debug("Log action finished.", "node", a.Node.Name(), "age", a.Age.Round(time.Millisecond).String())
}

// logLink writes its message when the link is traversed.
type logLink struct {
	spell *spell.Spell
	args  *Args
}

func (l *logLink) Activate(link *graph.Link, _ any) {
	write(l.spell, l.args, "link", link.Def.Name, "from", link.From.Name())
}

// Register adds the log kinds to the registry.
func (m *Module) Register(r *spell.Registry) {
	r.RegisterAction("log", &spell.ActionKind{
		NewArgs: func() any { return new(Args) },
		New: func(args any) spell.Behavior {
			return &logAction{args: argsOf(args)}
		},
	})
	r.RegisterLinkAction("log", &spell.LinkActionKind{
		NewArgs: func() any { return new(Args) },
		New: func(s *spell.Spell, args any) graph.LinkAction {
			return &logLink{spell: s, args: argsOf(args)}
		},
	})
}
