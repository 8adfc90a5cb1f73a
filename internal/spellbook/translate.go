package spellbook

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/specialistvlad/spellgraph/internal/graph"
	"github.com/specialistvlad/spellgraph/internal/hclutil"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

const defaultHealth = 100

// pendingLink is a link whose target is resolved once every node of the
// spell is known.
type pendingLink struct {
	def   *graph.LinkDef
	to    hcl.Expression
	block *hcl.Block
}

func translateSpell(reg *spell.Registry, sb *spellBlock) (*spell.Template, error) {
	tpl := &spell.Template{Name: sb.Name, Description: sb.Description}
	nodes := make(map[string]*graph.NodeDef)
	var links []pendingLink

	read := func(blocks []*nodeBlock) ([]*graph.NodeDef, error) {
		var out []*graph.NodeDef
		for _, nb := range blocks {
			if _, exists := nodes[nb.Name]; exists {
				return nil, fmt.Errorf("%s: spell '%s': node '%s' is already defined", nb.DefRange, sb.Name, nb.Name)
			}
			def, pending, err := translateNode(reg, sb.Name, nb)
			if err != nil {
				return nil, err
			}
			nodes[nb.Name] = def
			links = append(links, pending...)
			out = append(out, def)
		}
		return out, nil
	}

	var err error
	if tpl.StartNodes, err = read(sb.StartNodes); err != nil {
		return nil, err
	}
	if _, err = read(sb.Nodes); err != nil {
		return nil, err
	}
	if tpl.EndNodes, err = read(sb.EndNodes); err != nil {
		return nil, err
	}

	for _, p := range links {
		name, diags := hclutil.Keyword(p.to)
		if diags.HasErrors() {
			return nil, fmt.Errorf("spell '%s' link '%s': %w", sb.Name, p.def.Name, diags)
		}
		target, ok := nodes[name]
		if !ok {
			return nil, fmt.Errorf("%s: spell '%s' link '%s': unknown node '%s'", p.block.DefRange, sb.Name, p.def.Name, name)
		}
		p.def.To = target
	}

	if err := tpl.Validate(reg); err != nil {
		return nil, fmt.Errorf("%s: %w", sb.DefRange, err)
	}
	return tpl, nil
}

func translateNode(reg *spell.Registry, spellName string, nb *nodeBlock) (*graph.NodeDef, []pendingLink, error) {
	content, diags := nb.Body.Content(nodeSchema)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("spell '%s' node '%s': %w", spellName, nb.Name, diags)
	}

	def := &graph.NodeDef{Name: nb.Name}

	actionBlock, diags := hclutil.FindUniqueBlock(content.Blocks, "action")
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("spell '%s' node '%s': %w", spellName, nb.Name, diags)
	}
	if actionBlock != nil {
		spec, err := translateAction(reg, nb.Name, actionBlock)
		if err != nil {
			return nil, nil, fmt.Errorf("spell '%s' node '%s': %w", spellName, nb.Name, err)
		}
		def.Content = spec
	}

	var pending []pendingLink
	for _, block := range content.Blocks.OfType("link") {
		l, to, err := translateLink(reg, block)
		if err != nil {
			return nil, nil, fmt.Errorf("spell '%s' node '%s': %w", spellName, nb.Name, err)
		}
		def.Links = append(def.Links, l)
		pending = append(pending, pendingLink{def: l, to: to, block: block})
	}
	return def, pending, nil
}

func translateAction(reg *spell.Registry, nodeName string, block *hcl.Block) (*spell.ActionSpec, error) {
	kindName := block.Labels[0]
	kind, ok := reg.Action(kindName)
	if !ok {
		return nil, fmt.Errorf("%s: action '%s': %w", block.DefRange, kindName, spell.ErrUnknownKind)
	}

	content, remain, diags := block.Body.PartialContent(actionSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	spec := &spell.ActionSpec{Name: nodeName, Kind: kindName, Policy: kind.DefaultPolicy}
	if attr, ok := content.Attributes["name"]; ok {
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &spec.Name); diags.HasErrors() {
			return nil, diags
		}
	}
	if attr, ok := content.Attributes["deactivation"]; ok {
		var raw string
		if diags := gohcl.DecodeExpression(attr.Expr, nil, &raw); diags.HasErrors() {
			return nil, diags
		}
		policy, err := spell.ParsePolicy(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", attr.Expr.Range(), err)
		}
		spec.Policy = policy
	}
	attr, hasMaxAge := content.Attributes["max_age"]
	if hasMaxAge {
		d, diags := hclutil.Duration(attr.Expr)
		if diags.HasErrors() {
			return nil, diags
		}
		spec.MaxAge = d
	}
	if spec.Policy == spell.Timer && !hasMaxAge {
		return nil, fmt.Errorf("%s: action '%s': max_age is required with the timer policy", block.DefRange, kindName)
	}

	args, err := decodeArgs(remain, kind.NewArgs, block.DefRange)
	if err != nil {
		return nil, fmt.Errorf("action '%s': %w", kindName, err)
	}
	spec.Args = args
	return spec, nil
}

func translateLink(reg *spell.Registry, block *hcl.Block) (*graph.LinkDef, hcl.Expression, error) {
	name := block.Labels[0]
	content, diags := block.Body.Content(linkSchema)
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("link '%s': %w", name, diags)
	}
	l := &graph.LinkDef{Name: name}

	condBlock, diags := hclutil.FindUniqueBlock(content.Blocks, "condition")
	if diags.HasErrors() {
		return nil, nil, fmt.Errorf("link '%s': %w", name, diags)
	}
	if condBlock != nil {
		kindName := condBlock.Labels[0]
		kind, ok := reg.Predicate(kindName)
		if !ok {
			return nil, nil, fmt.Errorf("%s: link '%s': condition '%s': %w", condBlock.DefRange, name, kindName, spell.ErrUnknownKind)
		}
		args, err := decodeArgs(condBlock.Body, kind.NewArgs, condBlock.DefRange)
		if err != nil {
			return nil, nil, fmt.Errorf("link '%s': condition '%s': %w", name, kindName, err)
		}
		l.Condition = &spell.PredicateSpec{Kind: kindName, Args: args}
	}

	for _, ab := range content.Blocks.OfType("action") {
		kindName := ab.Labels[0]
		kind, ok := reg.LinkAction(kindName)
		if !ok {
			return nil, nil, fmt.Errorf("%s: link '%s': action '%s': %w", ab.DefRange, name, kindName, spell.ErrUnknownKind)
		}
		args, err := decodeArgs(ab.Body, kind.NewArgs, ab.DefRange)
		if err != nil {
			return nil, nil, fmt.Errorf("link '%s': action '%s': %w", name, kindName, err)
		}
		l.Actions = append(l.Actions, &spell.LinkActionSpec{Kind: kindName, Args: args})
	}

	return l, content.Attributes["to"].Expr, nil
}

// decodeArgs decodes a block body into the argument struct of a kind. Kinds
// without arguments reject any attribute.
func decodeArgs(body hcl.Body, newArgs func() any, rng hcl.Range) (any, error) {
	if newArgs == nil {
		if diags := gohcl.DecodeBody(body, nil, &struct{}{}); diags.HasErrors() {
			return nil, diags
		}
		return nil, nil
	}

	args := newArgs()
	if diags := gohcl.DecodeBody(body, nil, args); diags.HasErrors() {
		return nil, diags
	}
	if v, ok := args.(spell.ArgsValidator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", rng, err)
		}
	}
	return args, nil
}

func translateActor(ab *actorBlock) (*Actor, error) {
	a := &Actor{
		Name:    ab.Name,
		Faction: ab.Faction,
		Forward: mgl32.Vec3{0, 0, 1},
		Health:  defaultHealth,
	}

	var diags hcl.Diagnostics
	if hclutil.IsExprDefined(ab.Position) {
		var d hcl.Diagnostics
		a.Position, d = hclutil.Vec3(ab.Position)
		diags = append(diags, d...)
	}
	if hclutil.IsExprDefined(ab.Forward) {
		var d hcl.Diagnostics
		a.Forward, d = hclutil.Vec3(ab.Forward)
		diags = append(diags, d...)
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("actor '%s': %w", ab.Name, diags)
	}
	if a.Forward.Len() == 0 {
		return nil, fmt.Errorf("%s: actor '%s': forward must not be a zero vector", ab.DefRange, ab.Name)
	}
	a.Forward = a.Forward.Normalize()

	if ab.Health != nil {
		a.Health = float32(*ab.Health)
	}
	a.MaxHealth = a.Health
	if ab.MaxHealth != nil {
		a.MaxHealth = float32(*ab.MaxHealth)
	}
	if a.Health <= 0 || a.MaxHealth < a.Health {
		return nil, fmt.Errorf("%s: actor '%s': health must be positive and at most max_health", ab.DefRange, ab.Name)
	}
	return a, nil
}

func translateCast(book *Book, cb *castBlock) (*Cast, error) {
	if _, ok := book.Actor(cb.Actor); !ok {
		return nil, fmt.Errorf("%s: cast by unknown actor '%s'", cb.DefRange, cb.Actor)
	}
	if _, ok := book.Spells.Get(cb.Spell); !ok {
		return nil, fmt.Errorf("%s: cast of spell '%s': %w", cb.DefRange, cb.Spell, spell.ErrUnknownSpell)
	}

	c := &Cast{
		Actor:             cb.Actor,
		Spell:             cb.Spell,
		ReleaseFromCamera: cb.ReleaseFromCamera,
		ReleaseDistance:   float32(cb.ReleaseDistance),
	}

	var diags hcl.Diagnostics
	offset := func(expr hcl.Expression) *time.Duration {
		if !hclutil.IsExprDefined(expr) {
			return nil
		}
		d, ds := hclutil.Duration(expr)
		diags = append(diags, ds...)
		return &d
	}
	if start := offset(cb.StartAt); start != nil {
		c.StartAt = *start
	}
	c.CastAt = offset(cb.CastAt)
	c.EndAt = offset(cb.EndAt)
	c.CancelAt = offset(cb.CancelAt)
	if diags.HasErrors() {
		return nil, fmt.Errorf("cast of '%s' by '%s': %w", cb.Spell, cb.Actor, diags)
	}

	for _, at := range []*time.Duration{c.CastAt, c.EndAt, c.CancelAt} {
		if at != nil && *at < c.StartAt {
			return nil, fmt.Errorf("%s: cast of '%s' by '%s': events must not precede start_at", cb.DefRange, cb.Spell, cb.Actor)
		}
	}
	return c, nil
}
