/*
Package spellbook loads spell templates and simulation scenarios from HCL.

A spellbook is one or more .hcl files containing three kinds of top-level
blocks:

	spell "fireball" {
	  description = "Charge, launch, explode"

	  start_node "charge" {
	    action "delay" {
	      deactivation = "timer"
	      max_age      = "500ms"
	    }
	    link "release" {
	      to = launch
	      condition "succeeded" {}
	      action "log" { message = "released" }
	    }
	  }

	  node "launch" { ... }
	  end_node "cleanup" { ... }
	}

	actor "hero" {
	  faction  = "player"
	  position = [0, 0, 0]
	  health   = 100
	}

	cast "hero" "fireball" {
	  cast_at = "200ms"
	  end_at  = "400ms"
	}

A node holds at most one action block; a node without one succeeds as soon as
it is activated. The arguments of action, condition and link action blocks
are decoded into the struct registered for their kind, so unknown arguments
are rejected with the file position of the offending attribute.

Links refer to nodes of the same spell by name and are resolved after every
node of the spell has been read, so forward references are allowed. Every
template is validated against the registry before it is added to the book.
*/
package spellbook
