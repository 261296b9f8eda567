package fx

import (
	"math"
	"testing"
)

// compileGlobals parses a source expected to be error free and returns
// the tree.
func compileGlobals(t *testing.T, source string) *Tree {
	t.Helper()

	tree, diags := Parse(&Source{Name: "test.fx", Text: source})
	if diags.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", diags)
	}
	return tree
}

// globalLiteral returns the folded initializer literal of the named
// global variable.
func globalLiteral(t *testing.T, tree *Tree, name string) (Literal, Type) {
	t.Helper()

	for _, h := range tree.Globals {
		v := tree.Var(h)
		if v.Name != name {
			continue
		}
		if v.Initializer == InvalidExpr {
			t.Fatalf("global %s has no initializer", name)
		}
		e := tree.Expr(v.Initializer)
		lit, ok := e.Kind.(Literal)
		if !ok {
			t.Fatalf("global %s initializer did not fold to a literal: %T", name, e.Kind)
		}
		return lit, e.Type
	}

	t.Fatalf("global %s not found", name)
	return Literal{}, Type{}
}

func TestFoldIntArithmetic(t *testing.T) {
	tests := []struct {
		expr  string
		value int64
	}{
		{"2 + 3 * 4", 14},
		{"(1 + 2) * 3", 9},
		{"7 / 2", 3},
		{"-5 + 1", -4},
		{"1 << 4", 16},
		{"255 >> 4", 15},
		{"0xF0 | 0x0F", 255},
		{"0xFF & 0x0F", 15},
		{"0xFF ^ 0x0F", 240},
		{"~0", -1},
	}

	for _, tt := range tests {
		tree := compileGlobals(t, "static const int x = "+tt.expr+";")
		lit, typ := globalLiteral(t, tree, "x")
		if typ.Base != TypeInt {
			t.Errorf("%s: expected int, got %v", tt.expr, typ.Base)
		}
		if lit.Ints[0] != tt.value {
			t.Errorf("%s: expected %d, got %d", tt.expr, tt.value, lit.Ints[0])
		}
	}
}

func TestFoldFloatArithmetic(t *testing.T) {
	tests := []struct {
		expr  string
		value float32
	}{
		{"1.5 + 2.25", 3.75},
		{"1 + 2.5", 3.5},
		{"10.0 / 4.0", 2.5},
		{"7.5 % 2.0", 1.5},
		{"-2.5 * 2.0", -5},
	}

	for _, tt := range tests {
		tree := compileGlobals(t, "static const float x = "+tt.expr+";")
		lit, typ := globalLiteral(t, tree, "x")
		if typ.Base != TypeFloat {
			t.Errorf("%s: expected float, got %v", tt.expr, typ.Base)
		}
		if lit.Floats[0] != tt.value {
			t.Errorf("%s: expected %g, got %g", tt.expr, tt.value, lit.Floats[0])
		}
	}
}

func TestFoldComparison(t *testing.T) {
	tests := []struct {
		expr  string
		value int64
	}{
		{"3 > 2", 1},
		{"2 > 3", 0},
		{"2 == 2", 1},
		{"2 != 2", 0},
		{"1.5 <= 1.5", 1},
		{"true && false", 0},
		{"true || false", 1},
		{"!false", 1},
	}

	for _, tt := range tests {
		tree := compileGlobals(t, "static const bool x = "+tt.expr+";")
		lit, typ := globalLiteral(t, tree, "x")
		if typ.Base != TypeBool {
			t.Errorf("%s: expected bool, got %v", tt.expr, typ.Base)
		}
		if lit.Ints[0] != tt.value {
			t.Errorf("%s: expected %d, got %d", tt.expr, tt.value, lit.Ints[0])
		}
	}
}

func TestFoldVectorConstructor(t *testing.T) {
	tree := compileGlobals(t, "static const float3 v = float3(1, 2, 3) * 2.0;")
	lit, typ := globalLiteral(t, tree, "v")

	if typ.Base != TypeFloat || typ.Rows != 3 {
		t.Fatalf("expected float3, got %+v", typ)
	}
	expected := [3]float32{2, 4, 6}
	for i, want := range expected {
		if lit.Floats[i] != want {
			t.Errorf("lane %d: expected %g, got %g", i, want, lit.Floats[i])
		}
	}
}

func TestFoldScalarBroadcast(t *testing.T) {
	tree := compileGlobals(t, "static const float3 v = 1.0 + float3(1, 2, 3);")
	lit, _ := globalLiteral(t, tree, "v")

	expected := [3]float32{2, 3, 4}
	for i, want := range expected {
		if lit.Floats[i] != want {
			t.Errorf("lane %d: expected %g, got %g", i, want, lit.Floats[i])
		}
	}
}

// Casting a float vector through an int vector truncates each lane
// towards zero.
func TestFoldCastShrinkage(t *testing.T) {
	tree := compileGlobals(t, "static const float3 c = (float3)((int3)float3(1.5, 2.7, -3.9));")
	lit, typ := globalLiteral(t, tree, "c")

	if typ.Base != TypeFloat || typ.Rows != 3 {
		t.Fatalf("expected float3, got %+v", typ)
	}
	expected := [3]float32{1, 2, -3}
	for i, want := range expected {
		if lit.Floats[i] != want {
			t.Errorf("lane %d: expected %g, got %g", i, want, lit.Floats[i])
		}
	}
}

func TestFoldSwizzle(t *testing.T) {
	tree := compileGlobals(t, "static const float2 s = float3(1, 2, 3).zx;")
	lit, typ := globalLiteral(t, tree, "s")

	if typ.Rows != 2 {
		t.Fatalf("expected float2, got %+v", typ)
	}
	if lit.Floats[0] != 3 || lit.Floats[1] != 1 {
		t.Errorf("expected (3, 1), got (%g, %g)", lit.Floats[0], lit.Floats[1])
	}
}

func TestFoldMatrixSwizzle(t *testing.T) {
	tree := compileGlobals(t, `
static const float2x2 m = float2x2(1, 2, 3, 4);
static const float2 d = m._m00_m11;
`)
	lit, typ := globalLiteral(t, tree, "d")

	if typ.Rows != 2 || typ.Cols != 1 {
		t.Fatalf("expected float2, got %+v", typ)
	}
	if lit.Floats[0] != 1 || lit.Floats[1] != 4 {
		t.Errorf("expected the diagonal (1, 4), got (%g, %g)", lit.Floats[0], lit.Floats[1])
	}
}

func TestFoldConstLValue(t *testing.T) {
	tree := compileGlobals(t, `
static const float pi = 3.14;
static const float tau = pi * 2.0;
`)
	lit, _ := globalLiteral(t, tree, "tau")

	want := float32(3.14) * 2
	if lit.Floats[0] != want {
		t.Errorf("expected %g, got %g", want, lit.Floats[0])
	}
}

func TestFoldIntrinsics(t *testing.T) {
	tests := []struct {
		expr  string
		value float32
	}{
		{"abs(-3.0)", 3},
		{"floor(2.7)", 2},
		{"ceil(2.1)", 3},
		{"sqrt(16.0)", 4},
		{"pow(2.0, 8.0)", 256},
		{"max(2.0, 5.0)", 5},
		{"min(2.0, 5.0)", 2},
		{"atan2(0.0, 1.0)", 0},
		{"sin(0.0)", 0},
		{"exp(0.0)", 1},
	}

	for _, tt := range tests {
		tree := compileGlobals(t, "static const float x = "+tt.expr+";")
		lit, _ := globalLiteral(t, tree, "x")
		if math.Abs(float64(lit.Floats[0]-tt.value)) > 1e-6 {
			t.Errorf("%s: expected %g, got %g", tt.expr, tt.value, lit.Floats[0])
		}
	}
}

// Folding an already-folded literal is the identity.
func TestFoldFixpoint(t *testing.T) {
	tree := compileGlobals(t, "static const int x = (1 + 2) * 3;")

	var handle ExprHandle
	for _, h := range tree.Globals {
		if tree.Var(h).Name == "x" {
			handle = tree.Var(h).Initializer
		}
	}

	before := tree.Expr(handle).Kind.(Literal)
	folded := foldConstant(tree, handle)
	if folded != handle {
		t.Fatalf("folding a literal must return the same handle")
	}
	after := tree.Expr(folded).Kind.(Literal)
	if before != after {
		t.Errorf("folding a literal must not change it")
	}
}

// Division by a literal zero must stay unfolded to preserve the runtime
// behavior.
func TestFoldDivisionByZeroInhibited(t *testing.T) {
	tree := compileGlobals(t, "float4 f() { int d = 10 / 0; return float4(0, 0, 0, d); }")

	found := false
	for i := range tree.Exprs {
		if bin, ok := tree.Exprs[i].Kind.(Binary); ok && bin.Op == BinaryDivide {
			found = true
		}
	}
	if !found {
		t.Error("expected the division node to survive folding")
	}
}
