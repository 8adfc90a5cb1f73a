package spellbook

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/spellgraph/internal/ctxlog"
	"github.com/specialistvlad/spellgraph/internal/fsutil"
	"github.com/specialistvlad/spellgraph/internal/spell"
)

// ErrNoFiles is returned when none of the given paths holds a spellbook file.
var ErrNoFiles = errors.New("no spellbook files found")

// Extension is the file extension of spellbook files.
const Extension = ".hcl"

// Load reads every spellbook file under paths. Kinds are resolved against
// reg, which must already hold every module the spellbook uses.
func Load(ctx context.Context, reg *spell.Registry, paths ...string) (*Book, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Spellbook loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(Extension, paths...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%v: %w", paths, ErrNoFiles)
	}
	logger.Debug("Discovered spellbook files.", "count", len(files))

	book := &Book{Spells: spell.NewCatalog(), Files: files}
	parser := hclparse.NewParser()
	var casts []*castBlock

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse spellbook file %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode spellbook file %s: %w", file, diags)
		}

		for _, sb := range root.Spells {
			tpl, err := translateSpell(reg, sb)
			if err != nil {
				return nil, err
			}
			if err := book.Spells.Add(tpl); err != nil {
				return nil, fmt.Errorf("%s: %w", sb.DefRange, err)
			}
			logger.Debug("Spell loaded.", "spell", tpl.Name, "nodes", len(tpl.Nodes()))
		}
		for _, ab := range root.Actors {
			actor, err := translateActor(ab)
			if err != nil {
				return nil, err
			}
			if _, exists := book.Actor(actor.Name); exists {
				return nil, fmt.Errorf("%s: actor '%s' is already defined", ab.DefRange, actor.Name)
			}
			book.Actors = append(book.Actors, actor)
		}
		casts = append(casts, root.Casts...)
	}

	// Casts are resolved last so they may refer to spells and actors from
	// any file.
	for _, cb := range casts {
		c, err := translateCast(book, cb)
		if err != nil {
			return nil, err
		}
		book.Casts = append(book.Casts, c)
	}

	logger.Debug("Spellbook loading complete.", "spells", book.Spells.Len(), "actors", len(book.Actors), "casts", len(book.Casts))
	return book, nil
}
