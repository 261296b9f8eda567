package fx

import "testing"

func scalar(base BaseType) Type {
	return Type{Base: base, Rows: 1, Cols: 1, Definition: InvalidStruct}
}

func vec(base BaseType, n uint8) Type {
	return Type{Base: base, Rows: n, Cols: 1, Definition: InvalidStruct}
}

func TestTypePredicates(t *testing.T) {
	tests := []struct {
		typ     Type
		scalar  bool
		vector  bool
		matrix  bool
		numeric bool
	}{
		{scalar(TypeFloat), true, false, false, true},
		{vec(TypeInt, 3), false, true, false, true},
		{Type{Base: TypeFloat, Rows: 4, Cols: 4}, false, false, true, true},
		{Type{Base: TypeTexture}, false, false, false, false},
		{Type{Base: TypeSampler}, false, false, false, false},
		{Type{Base: TypeString}, false, false, false, false},
	}

	for _, tt := range tests {
		if got := tt.typ.IsScalar(); got != tt.scalar {
			t.Errorf("%v IsScalar: expected %v, got %v", tt.typ, tt.scalar, got)
		}
		if got := tt.typ.IsVector(); got != tt.vector {
			t.Errorf("%v IsVector: expected %v, got %v", tt.typ, tt.vector, got)
		}
		if got := tt.typ.IsMatrix(); got != tt.matrix {
			t.Errorf("%v IsMatrix: expected %v, got %v", tt.typ, tt.matrix, got)
		}
		if got := tt.typ.IsNumeric(); got != tt.numeric {
			t.Errorf("%v IsNumeric: expected %v, got %v", tt.typ, tt.numeric, got)
		}
	}
}

func TestRankIdentity(t *testing.T) {
	for _, typ := range []Type{
		scalar(TypeBool), scalar(TypeInt), scalar(TypeUint), scalar(TypeFloat),
		vec(TypeFloat, 2), vec(TypeFloat, 3), vec(TypeInt, 4),
		{Base: TypeFloat, Rows: 3, Cols: 3, Definition: InvalidStruct},
	} {
		if got := Rank(typ, typ); got != 1 {
			t.Errorf("Rank(%v, %v): expected 1, got %d", typ, typ, got)
		}
	}
}

func TestRankArrayMismatch(t *testing.T) {
	array2 := scalar(TypeFloat)
	array2.ArrayLength = 2
	array3 := scalar(TypeFloat)
	array3.ArrayLength = 3

	if got := Rank(array2, scalar(TypeFloat)); got != 0 {
		t.Errorf("array to non-array: expected 0, got %d", got)
	}
	if got := Rank(array2, array3); got != 0 {
		t.Errorf("mismatched array lengths: expected 0, got %d", got)
	}
	if got := Rank(array2, array2); got != 1 {
		t.Errorf("identical arrays: expected 1, got %d", got)
	}
}

// A scalar broadcast to a vector must rank better (lower) than a vector
// truncated to a scalar.
func TestRankBroadcastBeatsTruncation(t *testing.T) {
	broadcast := Rank(scalar(TypeFloat), vec(TypeFloat, 3))
	truncate := Rank(vec(TypeFloat, 3), scalar(TypeFloat))

	if broadcast == 0 || truncate == 0 {
		t.Fatalf("both conversions must be possible, got %d and %d", broadcast, truncate)
	}
	if broadcast >= truncate {
		t.Errorf("broadcast (%d) must rank better than truncation (%d)", broadcast, truncate)
	}
}

func TestRankPromotionCheaperThanDemotion(t *testing.T) {
	promote := Rank(scalar(TypeInt), scalar(TypeFloat))
	demote := Rank(scalar(TypeFloat), scalar(TypeInt))

	if promote == 0 || demote == 0 {
		t.Fatalf("both conversions must be possible, got %d and %d", promote, demote)
	}
	if promote >= demote {
		t.Errorf("promotion (%d) must rank better than demotion (%d)", promote, demote)
	}
}

func TestRankStructIdentity(t *testing.T) {
	a := Type{Base: TypeStruct, Definition: 0}
	b := Type{Base: TypeStruct, Definition: 1}

	if got := Rank(a, a); got != 1 {
		t.Errorf("same struct: expected 1, got %d", got)
	}
	if got := Rank(a, b); got != 0 {
		t.Errorf("different structs: expected 0, got %d", got)
	}
}

func TestRankNonNumeric(t *testing.T) {
	if got := Rank(Type{Base: TypeTexture}, scalar(TypeFloat)); got != 0 {
		t.Errorf("texture to float: expected 0, got %d", got)
	}
	if got := Rank(Type{Base: TypeString}, Type{Base: TypeString}); got != 1 {
		t.Errorf("string to string: expected 1, got %d", got)
	}
}
