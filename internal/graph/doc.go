// Package graph provides the node/link primitives that spell action graphs
// are built from.
//
// # Templates and Instances
//
// The package separates two worlds:
//
//   - **Templates** (NodeDef, LinkDef): authored, read-only definitions loaded
//     once at startup. They are shared by every cast of a spell and are never
//     mutated at run time.
//   - **Instances** (Node, Link): working copies produced by an Arena when a
//     template node is activated. Each instance carries its own state, data,
//     content, links and link actions, so many executions of the same template
//     can run side by side without cross-talk.
//
// Content, link conditions and link actions are opaque specs at the template
// level. A Factory supplied by the caller turns them into live objects during
// instantiation; the graph package never inspects them.
//
// # Arena
//
// Each cast owns one Arena. Nodes are addressed by Handle, and released slots
// are recycled for later activations. A released handle resolves to nil, which
// makes stale references easy to detect.
//
// # Thread-Safety
//
// Nothing in this package is synchronised. A graph advances cooperatively on
// the single goroutine that ticks its owning spell.
package graph
