package fxc

import (
	"strings"
	"testing"

	"github.com/gogpu/fxc/fx"
)

func TestCompileSimpleEffect(t *testing.T) {
	source := `
texture backbuffer;
sampler samp { Texture = backbuffer; };
float4 ps(float2 uv : TEXCOORD) : SV_TARGET {
	return tex2D(samp, uv);
}
technique Passthrough {
	pass { PixelShader = ps; }
}
`
	result := Compile(source, Options{SourceName: "pass.fx"})
	if !result.OK {
		t.Fatalf("compilation failed:\n%s", result.Diagnostics)
	}
	if len(result.Tree.Techniques) != 1 {
		t.Errorf("expected one technique, got %d", len(result.Tree.Techniques))
	}
	if len(result.Tree.Functions) != 1 {
		t.Errorf("expected one function, got %d", len(result.Tree.Functions))
	}
}

func TestCompileReportsErrors(t *testing.T) {
	result := Compile("float4 p = float4(1, 2, 3);", Options{SourceName: "bad.fx"})
	if result.OK {
		t.Fatal("expected compilation to fail")
	}
	if len(result.Diagnostics) == 0 {
		t.Fatal("expected diagnostics")
	}
	if !strings.Contains(result.Diagnostics.String(), "bad.fx(") {
		t.Errorf("diagnostics must carry the source name, got:\n%s", result.Diagnostics)
	}
}

func TestCompileSpecConstants(t *testing.T) {
	source := "static const int q = SPEC_CONSTANT_QUALITY * 2;"

	result := Compile(source, Options{
		SourceName: "quality.fx",
		SpecConstants: map[string]SpecConstant{
			"QUALITY": {Type: fx.TypeInt, Int: 3},
		},
	})
	if !result.OK {
		t.Fatalf("compilation failed:\n%s", result.Diagnostics)
	}

	tree := result.Tree
	if len(tree.Globals) != 1 {
		t.Fatalf("expected one global, got %d", len(tree.Globals))
	}

	v := tree.Var(tree.Globals[0])
	lit, ok := tree.Expr(v.Initializer).Kind.(fx.Literal)
	if !ok {
		t.Fatalf("expected a folded literal initializer, got %T", tree.Expr(v.Initializer).Kind)
	}
	if lit.Ints[0] != 6 {
		t.Errorf("expected 6, got %d", lit.Ints[0])
	}
}

func TestCompileSpecConstantKinds(t *testing.T) {
	tests := []struct {
		constant SpecConstant
		want     string
	}{
		{SpecConstant{Type: fx.TypeBool, Bool: true}, "true"},
		{SpecConstant{Type: fx.TypeInt, Int: -4}, "-4"},
		{SpecConstant{Type: fx.TypeUint, Uint: 9}, "9u"},
		{SpecConstant{Type: fx.TypeFloat, Float: 0.5}, "0.5"},
	}

	for _, tt := range tests {
		if got := tt.constant.format(); got != tt.want {
			t.Errorf("format %+v: expected %q, got %q", tt.constant, tt.want, got)
		}
	}
}

func TestCompileWithoutSpecConstantsKeepsLineNumbers(t *testing.T) {
	result := Compile("\nfloat4 p = float4(1, 2, 3);", Options{SourceName: "lines.fx"})
	if result.OK {
		t.Fatal("expected compilation to fail")
	}
	if result.Diagnostics[0].Loc.Line != 2 {
		t.Errorf("expected the error on line 2, got %d", result.Diagnostics[0].Loc.Line)
	}
}
