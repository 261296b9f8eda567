// Package fxc compiles FX effect sources into a typed, resolved syntax
// tree ready for backend code generation (HLSL, GLSL, SPIR-V).
//
// The front end performs lexing, recursive-descent parsing, scoped
// symbol resolution with overload resolution across user functions and
// the built-in intrinsics, semantic checking and compile-time constant
// folding. It produces a tree of techniques, passes, functions, global
// variables and structs, plus a diagnostic list in the familiar
// "source(line, col): error Xnnnn: message" format.
//
// Example usage:
//
//	result := fxc.Compile(source, fxc.Options{SourceName: "effect.fx"})
//	if !result.OK {
//	    fmt.Print(result.Diagnostics)
//	    return
//	}
//	for _, tech := range result.Tree.Techniques {
//	    ...
//	}
package fxc

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/fxc/fx"
)

// SpecConstant is a host-supplied constant override, materialized as a
// "#define SPEC_CONSTANT_<name> <value>" line prepended to the source.
type SpecConstant struct {
	Type  fx.BaseType // TypeBool, TypeInt, TypeUint or TypeFloat
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
}

func (c SpecConstant) format() string {
	switch c.Type {
	case fx.TypeBool:
		if c.Bool {
			return "true"
		}
		return "false"
	case fx.TypeInt:
		return fmt.Sprintf("%d", c.Int)
	case fx.TypeUint:
		return fmt.Sprintf("%du", c.Uint)
	default:
		return fmt.Sprintf("%g", c.Float)
	}
}

// Options configures one compilation.
type Options struct {
	// SourceName is the name used in diagnostic locations.
	SourceName string

	// SpecConstants are prepended to the source as #define lines, in
	// sorted name order so output is deterministic.
	SpecConstants map[string]SpecConstant
}

// Result is the outcome of a compilation. The tree is a read-only view
// for the backend; OK is true iff no error-severity diagnostic was
// recorded.
type Result struct {
	Tree        *fx.Tree
	Diagnostics fx.DiagnosticList
	OK          bool
}

// Compile runs the front end over an effect source. Compilation never
// aborts on the first error; the diagnostic list may report many.
func Compile(source string, opts Options) *Result {
	name := opts.SourceName
	if name == "" {
		name = "effect.fx"
	}

	if len(opts.SpecConstants) > 0 {
		names := make([]string, 0, len(opts.SpecConstants))
		for n := range opts.SpecConstants {
			names = append(names, n)
		}
		sort.Strings(names)

		var sb strings.Builder
		for _, n := range names {
			fmt.Fprintf(&sb, "#define SPEC_CONSTANT_%s %s\n", n, opts.SpecConstants[n].format())
		}
		sb.WriteString(source)
		source = sb.String()
	}

	tree, diags := fx.Parse(&fx.Source{Name: name, Text: source})

	return &Result{
		Tree:        tree,
		Diagnostics: diags,
		OK:          !diags.HasErrors(),
	}
}
