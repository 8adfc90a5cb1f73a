// Package hclutil holds small helpers shared by the HCL spellbook loader:
// block lookup, detection of omitted attributes and decoding of the scalar
// types spellbooks use (keywords, durations, vectors).
package hclutil

import (
	"github.com/hashicorp/hcl/v2"
)

// FindUniqueBlock searches a slice of blocks for all blocks of a given type.
// It returns a diagnostic error if more than one block of that type is found.
// If no block is found, it returns nil.
func FindUniqueBlock(blocks hcl.Blocks, blockType string) (*hcl.Block, hcl.Diagnostics) {
	var found *hcl.Block
	var diags hcl.Diagnostics

	for _, block := range blocks {
		if block.Type != blockType {
			continue
		}
		if found != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate \"" + blockType + "\" block",
				Detail:   "Only one \"" + blockType + "\" block is allowed here.",
				Subject:  block.DefRange.Ptr(),
			})
			continue
		}
		found = block
	}

	return found, diags
}

// IsExprDefined reports whether an expression was actually written in the
// source. gohcl fills omitted optional hcl.Expression fields with null
// placeholders, so a nil check is not enough. An explicit null counts as
// omitted.
func IsExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	r := expr.Range()
	if r.End.Byte <= r.Start.Byte {
		return false
	}
	if v, diags := expr.Value(nil); !diags.HasErrors() && v.IsNull() {
		return false
	}
	return true
}
