package hclutil

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Keyword reads a name that may be written either as a bare identifier
// (to = launch) or as a string (to = "launch").
func Keyword(expr hcl.Expression) (string, hcl.Diagnostics) {
	if kw := hcl.ExprAsKeyword(expr); kw != "" {
		return kw, nil
	}

	var name string
	diags := decodeInto(expr, cty.String, &name)
	if diags.HasErrors() {
		return "", hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid name reference",
			Detail:   "Expected a bare name like 'launch' or a string.",
			Subject:  expr.Range().Ptr(),
		}}
	}
	return name, nil
}

// Duration decodes a Go duration string such as "250ms".
func Duration(expr hcl.Expression) (time.Duration, hcl.Diagnostics) {
	var raw string
	if diags := decodeInto(expr, cty.String, &raw); diags.HasErrors() {
		return 0, diags
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid duration",
			Detail:   fmt.Sprintf("%q is not a non-negative duration like \"500ms\" or \"1.5s\".", raw),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return d, nil
}

// Vec3 decodes a list of exactly three numbers.
func Vec3(expr hcl.Expression) (mgl32.Vec3, hcl.Diagnostics) {
	var parts []float32
	if diags := decodeInto(expr, cty.List(cty.Number), &parts); diags.HasErrors() {
		return mgl32.Vec3{}, diags
	}
	if len(parts) != 3 {
		return mgl32.Vec3{}, hcl.Diagnostics{&hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid vector",
			Detail:   fmt.Sprintf("Expected a list of 3 numbers, got %d.", len(parts)),
			Subject:  expr.Range().Ptr(),
		}}
	}
	return mgl32.Vec3{parts[0], parts[1], parts[2]}, nil
}

// decodeInto evaluates expr without variables, converts the result to want
// and stores it in target.
func decodeInto(expr hcl.Expression, want cty.Type, target any) hcl.Diagnostics {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}

	invalid := func(detail string) hcl.Diagnostics {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid value",
			Detail:   detail,
			Subject:  expr.Range().Ptr(),
		})
	}

	if val.IsNull() || !val.IsWhollyKnown() {
		return invalid(fmt.Sprintf("A %s value is required.", want.FriendlyName()))
	}
	converted, err := convert.Convert(val, want)
	if err != nil {
		return invalid(fmt.Sprintf("Cannot use a %s value here: %s.", val.Type().FriendlyName(), err))
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return invalid(err.Error())
	}
	return diags
}
