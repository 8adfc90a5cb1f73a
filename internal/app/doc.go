// Package app contains the spell simulator. It wires the spellbook, the
// combat world and one spell inventory per actor together, then drives them
// with a fixed-step loop, decoupled from any specific entrypoint like a CLI.
package app
