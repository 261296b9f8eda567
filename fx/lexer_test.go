package fx

import (
	"fmt"
	"testing"
)

func lexAll(t *testing.T, source string) ([]Token, DiagnosticList) {
	t.Helper()

	var diags DiagnosticList
	lex := NewLexer(&Source{Name: "test.fx", Text: source}, &diags)

	var tokens []Token
	for {
		tok := lex.Next()
		if tok.Kind == TokenEOF {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens, diags
}

func TestLexerOperators(t *testing.T) {
	input := "== != <= >= && || << >> <<= >>= -> :: ++ -- += -= *= /= %= &= |= ^="
	expected := []TokenKind{
		TokenEqualEqual, TokenExclaimEqual, TokenLessEqual, TokenGreaterEqual,
		TokenAmpAmp, TokenPipePipe, TokenLessLess, TokenGreaterGreater,
		TokenLessLessEqual, TokenGreaterGreaterEqual, TokenArrow, TokenColonColon,
		TokenPlusPlus, TokenMinusMinus, TokenPlusEqual, TokenMinusEqual,
		TokenStarEqual, TokenSlashEqual, TokenPercentEqual, TokenAmpEqual,
		TokenPipeEqual, TokenCaretEqual,
	}

	tokens, diags := lexAll(t, input)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v", i, expected[i], tok.Kind)
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	input := "namespace struct technique pass for while do if else switch case default discard uniform nointerpolation"
	expected := []TokenKind{
		TokenNamespace, TokenStruct, TokenTechnique, TokenPass, TokenFor,
		TokenWhile, TokenDo, TokenIf, TokenElse, TokenSwitch, TokenCase,
		TokenDefault, TokenDiscard, TokenUniform, TokenNoInterpolation,
	}

	tokens, _ := lexAll(t, input)
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v", i, expected[i], tok.Kind)
		}
	}
}

func TestLexerIntegerLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
		value int64
	}{
		{"0", TokenIntLiteral, 0},
		{"123", TokenIntLiteral, 123},
		{"0x1F", TokenIntLiteral, 31},
		{"0xff", TokenIntLiteral, 255},
		{"042", TokenIntLiteral, 34},
		{"65536", TokenIntLiteral, 65536},
	}

	for _, tt := range tests {
		tokens, diags := lexAll(t, tt.input)
		if diags.HasErrors() {
			t.Errorf("input %q: unexpected diagnostics: %s", tt.input, diags)
			continue
		}
		if len(tokens) != 1 || tokens[0].Kind != tt.kind {
			t.Errorf("input %q: expected one %v token, got %v", tt.input, tt.kind, tokens)
			continue
		}
		if tokens[0].Int != tt.value {
			t.Errorf("input %q: expected %d, got %d", tt.input, tt.value, tokens[0].Int)
		}
	}
}

func TestLexerUnsignedLiterals(t *testing.T) {
	tokens, _ := lexAll(t, "42u 0x10U")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Kind != TokenUintLiteral || tokens[0].Uint != 42 {
		t.Errorf("expected uint 42, got %v %d", tokens[0].Kind, tokens[0].Uint)
	}
	if tokens[1].Kind != TokenUintLiteral || tokens[1].Uint != 16 {
		t.Errorf("expected uint 16, got %v %d", tokens[1].Kind, tokens[1].Uint)
	}
}

func TestLexerFloatLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
		value float64
	}{
		{"1.5", TokenFloatLiteral, 1.5},
		{"1.5f", TokenFloatLiteral, 1.5},
		{"1e3", TokenFloatLiteral, 1000},
		{"2.5e-1", TokenFloatLiteral, 0.25},
		{".5", TokenFloatLiteral, 0.5},
		{"1f", TokenFloatLiteral, 1},
		{"2.5lf", TokenDoubleLiteral, 2.5},
		{"3.25LF", TokenDoubleLiteral, 3.25},
	}

	for _, tt := range tests {
		tokens, diags := lexAll(t, tt.input)
		if diags.HasErrors() {
			t.Errorf("input %q: unexpected diagnostics: %s", tt.input, diags)
			continue
		}
		if len(tokens) != 1 || tokens[0].Kind != tt.kind {
			t.Errorf("input %q: expected one %v token, got %v", tt.input, tt.kind, tokens)
			continue
		}

		var got float64
		if tt.kind == TokenDoubleLiteral {
			got = tokens[0].Double
		} else {
			got = float64(tokens[0].Float)
		}
		if got != tt.value {
			t.Errorf("input %q: expected %g, got %g", tt.input, tt.value, got)
		}
	}
}

// Formatting a literal and lexing it back yields the original payload.
func TestLexerLiteralRoundTrip(t *testing.T) {
	for _, value := range []int64{0, 1, 7, 255, 65535, 1 << 40} {
		tokens, _ := lexAll(t, fmt.Sprintf("%d", value))
		if len(tokens) != 1 || tokens[0].Kind != TokenIntLiteral || tokens[0].Int != value {
			t.Errorf("round trip failed for %d: got %v", value, tokens)
		}
	}
	for _, value := range []uint64{0, 42, 1 << 33} {
		tokens, _ := lexAll(t, fmt.Sprintf("%du", value))
		if len(tokens) != 1 || tokens[0].Kind != TokenUintLiteral || tokens[0].Uint != value {
			t.Errorf("round trip failed for %du: got %v", value, tokens)
		}
	}
	for _, value := range []float32{0.5, 1.25, 100.0} {
		tokens, _ := lexAll(t, fmt.Sprintf("%gf", value))
		if len(tokens) != 1 || tokens[0].Kind != TokenFloatLiteral || tokens[0].Float != value {
			t.Errorf("round trip failed for %gf: got %v", value, tokens)
		}
	}
}

func TestLexerStringLiterals(t *testing.T) {
	tokens, diags := lexAll(t, `"hello" "a\tb\n" "quote: \""`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if len(tokens) != 3 {
		t.Fatalf("adjacent string literals must stay separate tokens, got %d", len(tokens))
	}

	expected := []string{"hello", "a\tb\n", `quote: "`}
	for i, want := range expected {
		if tokens[i].Kind != TokenStringLiteral || tokens[i].Str != want {
			t.Errorf("token %d: expected %q, got %q", i, want, tokens[i].Str)
		}
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	tokens, diags := lexAll(t, `"oops`)
	if !diags.HasErrors() {
		t.Error("expected a diagnostic for an unterminated string")
	}
	if len(tokens) != 1 || tokens[0].Kind != TokenUnknown {
		t.Errorf("expected an unknown token, got %v", tokens)
	}
}

func TestLexerComments(t *testing.T) {
	input := `foo // line comment
bar /* block
comment */ baz`

	tokens, diags := lexAll(t, input)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}

	expected := []string{"foo", "bar", "baz"}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d", len(expected), len(tokens))
	}
	for i, want := range expected {
		if tokens[i].Kind != TokenIdent || tokens[i].Str != want {
			t.Errorf("token %d: expected identifier %q, got %v %q", i, want, tokens[i].Kind, tokens[i].Str)
		}
	}
}

func TestLexerLocations(t *testing.T) {
	tokens, _ := lexAll(t, "a\n  b")
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Loc.Line != 1 || tokens[0].Loc.Column != 1 {
		t.Errorf("token a: expected 1:1, got %d:%d", tokens[0].Loc.Line, tokens[0].Loc.Column)
	}
	if tokens[1].Loc.Line != 2 || tokens[1].Loc.Column != 3 {
		t.Errorf("token b: expected 2:3, got %d:%d", tokens[1].Loc.Line, tokens[1].Loc.Column)
	}
}

func TestLexerSnapshotRestore(t *testing.T) {
	var diags DiagnosticList
	lex := NewLexer(&Source{Name: "test.fx", Text: "a b c d"}, &diags)

	first := lex.Next()
	state := lex.Snapshot()

	second := lex.Next()
	lex.Next()

	lex.Restore(state)
	replay := lex.Next()

	if first.Str != "a" {
		t.Errorf("expected first token a, got %q", first.Str)
	}
	if replay.Str != second.Str || replay.Str != "b" {
		t.Errorf("restore did not rewind: expected b, got %q", replay.Str)
	}
}

func TestLexerDefines(t *testing.T) {
	tokens, diags := lexAll(t, "#define SPEC_CONSTANT_QUALITY 3\nSPEC_CONSTANT_QUALITY")
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags)
	}
	if len(tokens) != 1 || tokens[0].Kind != TokenIntLiteral || tokens[0].Int != 3 {
		t.Fatalf("expected the define to substitute int 3, got %v", tokens)
	}
}

func TestLexerUnknownDirective(t *testing.T) {
	_, diags := lexAll(t, "#include \"other.fx\"\n")
	if !diags.HasErrors() {
		t.Error("expected a diagnostic for an unsupported directive")
	}
}

func TestSourceLocationAt(t *testing.T) {
	src := &Source{Name: "test.fx", Text: "ab\ncd\nef"}

	loc := src.LocationAt(4)
	if loc.Line != 2 || loc.Column != 2 {
		t.Errorf("expected 2:2, got %d:%d", loc.Line, loc.Column)
	}
	if loc.Source != "test.fx" || loc.Offset != 4 {
		t.Errorf("unexpected location %+v", loc)
	}
}
