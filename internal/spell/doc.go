// Package spell is the execution engine for spell action graphs.
//
// # Core Concepts
//
//   - Template: the authored, read-only definition of a spell. It names the
//     start and end nodes of a graph.NodeDef graph whose content specs are
//     ActionSpecs and whose link conditions are PredicateSpecs.
//
//   - Spell: one cast of a template. It owns a per-cast graph.Arena, the list
//     of active node instances, the list of expiring actions, and the Data bag
//     shared by every action of the cast.
//
//   - Action: the unit of work attached to a node. It owns a small state
//     machine (ready, active, succeeded, failed, plus a shutting-down flag) and
//     a DeactivationPolicy. Gameplay effects plug in through the Behavior
//     interface and are looked up by kind in a Registry.
//
//   - Inventory: the per-actor owner of running spells. It allocates spells
//     from a pool, ticks them once per frame and releases them when complete.
//
// # Tick Protocol
//
// A spell advances only when its owner calls Update, exactly once per tick.
// Within one Update:
//
//  1. The number of active nodes is captured. Nodes activated during this
//     tick wait until the next one for their first update.
//  2. Expiring actions are ticked; those no longer shutting down are destroyed.
//  3. Each captured active node ticks its action and, unless the spell is
//     cancelling, traverses every link whose predicate holds.
//  4. A cancelling spell drops its active nodes without deactivating them.
//  5. Otherwise finished nodes are deactivated, newest first.
//  6. With nothing active or expiring, the end nodes run once; after that the
//     spell is COMPLETED.
//
// Actions that finish during activation (IMMEDIATELY policy, or nodes without
// content) chain through their links within the same call.
//
// # Thread-Safety
//
// None. Everything runs on the goroutine that drives the simulation tick.
package spell
