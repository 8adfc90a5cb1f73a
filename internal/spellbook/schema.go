package spellbook

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode the top-level blocks of any spellbook file.
type fileRoot struct {
	Spells []*spellBlock `hcl:"spell,block"`
	Actors []*actorBlock `hcl:"actor,block"`
	Casts  []*castBlock  `hcl:"cast,block"`
}

type spellBlock struct {
	Name        string       `hcl:"name,label"`
	Description string       `hcl:"description,optional"`
	StartNodes  []*nodeBlock `hcl:"start_node,block"`
	Nodes       []*nodeBlock `hcl:"node,block"`
	EndNodes    []*nodeBlock `hcl:"end_node,block"`
	DefRange    hcl.Range    `hcl:",def_range"`
}

// nodeBlock keeps its body raw; its action block is looked up with
// FindUniqueBlock and its arguments depend on the action kind.
type nodeBlock struct {
	Name     string    `hcl:"name,label"`
	Body     hcl.Body  `hcl:",remain"`
	DefRange hcl.Range `hcl:",def_range"`
}

type actorBlock struct {
	Name      string         `hcl:"name,label"`
	Faction   string         `hcl:"faction,optional"`
	Position  hcl.Expression `hcl:"position,optional"`
	Forward   hcl.Expression `hcl:"forward,optional"`
	Health    *float64       `hcl:"health,optional"`
	MaxHealth *float64       `hcl:"max_health,optional"`
	DefRange  hcl.Range      `hcl:",def_range"`
}

type castBlock struct {
	Actor             string         `hcl:"actor,label"`
	Spell             string         `hcl:"spell,label"`
	StartAt           hcl.Expression `hcl:"start_at,optional"`
	CastAt            hcl.Expression `hcl:"cast_at,optional"`
	EndAt             hcl.Expression `hcl:"end_at,optional"`
	CancelAt          hcl.Expression `hcl:"cancel_at,optional"`
	ReleaseFromCamera bool           `hcl:"release_from_camera,optional"`
	ReleaseDistance   float64        `hcl:"release_distance,optional"`
	DefRange          hcl.Range      `hcl:",def_range"`
}

var nodeSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "action", LabelNames: []string{"kind"}},
		{Type: "link", LabelNames: []string{"name"}},
	},
}

var linkSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "to", Required: true},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "condition", LabelNames: []string{"kind"}},
		{Type: "action", LabelNames: []string{"kind"}},
	},
}

// actionSchema lists the attributes every node action understands. Anything
// else in the block is an argument of the action kind.
var actionSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "name"},
		{Name: "deactivation"},
		{Name: "max_age"},
	},
}
