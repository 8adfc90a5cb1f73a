package app

import (
	"github.com/specialistvlad/spellgraph/internal/spell"
	"github.com/specialistvlad/spellgraph/modules/aura"
	"github.com/specialistvlad/spellgraph/modules/damage"
	"github.com/specialistvlad/spellgraph/modules/delay"
	"github.com/specialistvlad/spellgraph/modules/print"
	"github.com/specialistvlad/spellgraph/modules/projectile"
	"github.com/specialistvlad/spellgraph/modules/targeting"
)

// coreModules is the definitive list of all modules that are compiled into
// the spellsim binary.
var coreModules = []spell.Module{
	&delay.Module{},
	&print.Module{},
	&damage.Module{},
	&targeting.Module{},
	&projectile.Module{},
	&aura.Module{},
}
