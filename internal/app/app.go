package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/specialistvlad/spellgraph/internal/combat"
	"github.com/specialistvlad/spellgraph/internal/ctxlog"
	"github.com/specialistvlad/spellgraph/internal/pool"
	"github.com/specialistvlad/spellgraph/internal/spell"
	"github.com/specialistvlad/spellgraph/internal/spellbook"
)

// App encapsulates the simulator's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *spell.Registry
	book     *spellbook.Book

	world       *combat.World
	spells      *pool.Pool[*spell.Spell]
	messages    *pool.Pool[*spell.Message]
	inventories map[string]*spell.Inventory

	mu     sync.RWMutex
	status Status
}

// NewApp is the constructor for the simulator. It loads the spellbook and
// places its actors in a fresh combat world. Without modules the core
// modules are registered.
func NewApp(outW io.Writer, cfg *Config, modules ...spell.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := spell.NewRegistry(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules))

	book, err := spellbook.Load(ctx, reg, cfg.SpellPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load spellbook: %w", err)
	}
	logger.Debug("Spellbook loaded.", "spells", book.Spells.Len(), "actors", len(book.Actors), "casts", len(book.Casts))

	a := &App{
		outW:        outW,
		logger:      logger,
		config:      cfg,
		registry:    reg,
		book:        book,
		world:       combat.NewWorld(),
		spells:      spell.NewSpellPool(cfg.PoolSize),
		messages:    spell.NewMessagePool(cfg.PoolSize),
		inventories: make(map[string]*spell.Inventory),
	}
	a.spells.Prewarm()
	a.messages.Prewarm()

	env := &spell.Environment{Targets: a.world, Messages: a.messages}
	for _, def := range book.Actors {
		actor := combat.NewActor(def.Name, def.Faction, def.Position, def.Forward, def.Health, def.MaxHealth)
		if err := a.world.Add(actor); err != nil {
			return nil, err
		}
		a.inventories[def.Name] = spell.NewInventory(actor, book.Spells, reg, a.spells, env)
	}
	logger.Debug("Combat world populated.", "actors", len(book.Actors))

	return a, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *spell.Registry {
	return a.registry
}

// World returns the combat world. This is primarily for testing.
func (a *App) World() *combat.World {
	return a.world
}

// Book returns the loaded spellbook.
func (a *App) Book() *spellbook.Book {
	return a.book
}
