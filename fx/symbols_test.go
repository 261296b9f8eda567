package fx

import "testing"

func newTestVar(tree *Tree, name string, typ Type) VarHandle {
	return tree.addVar(Variable{Name: name, UniqueName: name, Type: typ, Initializer: InvalidExpr})
}

func newTestFunc(tree *Tree, name string, ret Type, paramTypes ...Type) FuncHandle {
	fn := Function{Name: name, UniqueName: name, ReturnType: ret, Body: InvalidStmt}
	for _, pt := range paramTypes {
		fn.Params = append(fn.Params, newTestVar(tree, name+"_arg", pt))
	}
	return tree.addFunc(fn)
}

// Inserting a name, shadowing it in an inner scope and leaving that
// scope must expose the outer declaration again.
func TestSymbolTableScopeDiscipline(t *testing.T) {
	tree := NewTree()
	st := NewSymbolTable(tree)

	outer := newTestVar(tree, "x", scalar(TypeInt))
	inner := newTestVar(tree, "x", scalar(TypeFloat))

	st.EnterScope(InvalidFunc)
	if !st.Insert("x", Symbol{Kind: SymbolVariable, Index: uint32(outer)}, false) {
		t.Fatal("outer insert failed")
	}

	st.EnterScope(InvalidFunc)
	if !st.Insert("x", Symbol{Kind: SymbolVariable, Index: uint32(inner)}, false) {
		t.Fatal("inner insert failed")
	}

	if sym := st.Find("x"); sym.VarHandle() != inner {
		t.Errorf("expected inner x while inside the scope, got %v", sym)
	}

	st.LeaveScope()

	if sym := st.Find("x"); sym.VarHandle() != outer {
		t.Errorf("expected outer x after leaving the scope, got %v", sym)
	}

	st.LeaveScope()

	if sym := st.Find("x"); sym.Kind != SymbolNone {
		t.Errorf("expected x to be gone at global scope, got %v", sym)
	}
}

func TestSymbolTableDuplicateDetection(t *testing.T) {
	tree := NewTree()
	st := NewSymbolTable(tree)

	a := newTestVar(tree, "a", scalar(TypeInt))
	b := newTestVar(tree, "a", scalar(TypeInt))

	st.EnterScope(InvalidFunc)
	if !st.Insert("a", Symbol{Kind: SymbolVariable, Index: uint32(a)}, false) {
		t.Fatal("first insert failed")
	}
	if st.Insert("a", Symbol{Kind: SymbolVariable, Index: uint32(b)}, false) {
		t.Error("redeclaration at the same level must be rejected")
	}
}

func TestSymbolTableNamespaceLookup(t *testing.T) {
	tree := NewTree()
	st := NewSymbolTable(tree)

	pi := newTestVar(tree, "pi", scalar(TypeFloat))

	st.EnterNamespace("A")
	if !st.Insert("pi", Symbol{Kind: SymbolVariable, Index: uint32(pi)}, true) {
		t.Fatal("insert failed")
	}

	// Visible unqualified inside the namespace.
	if sym := st.Find("pi"); sym.VarHandle() != pi {
		t.Errorf("expected pi inside namespace, got %v", sym)
	}

	st.LeaveNamespace()

	// Visible qualified from the enclosing scope.
	if sym := st.Find("A::pi"); sym.VarHandle() != pi {
		t.Errorf("expected A::pi from global scope, got %v", sym)
	}
	if sym := st.Find("pi"); sym.Kind != SymbolNone {
		t.Errorf("unqualified pi must not leak out of the namespace, got %v", sym)
	}
}

func TestResolveCallPicksBestOverload(t *testing.T) {
	tree := NewTree()
	st := NewSymbolTable(tree)

	intFn := newTestFunc(tree, "pick", scalar(TypeInt), scalar(TypeInt))
	floatFn := newTestFunc(tree, "pick", scalar(TypeInt), scalar(TypeFloat))

	// Insertion order must not influence the winner.
	for _, order := range [][]FuncHandle{{intFn, floatFn}, {floatFn, intFn}} {
		st := NewSymbolTable(tree)
		for _, fn := range order {
			st.Insert("pick", Symbol{Kind: SymbolFunction, Index: uint32(fn)}, true)
		}

		res := st.ResolveCall("pick", []Type{scalar(TypeFloat)}, st.CurrentScope())
		if !res.OK {
			t.Fatalf("order %v: resolution failed", order)
		}
		if res.Func != floatFn {
			t.Errorf("order %v: expected the float overload, got %v", order, res.Func)
		}
	}
	_ = st
}

func TestResolveCallAmbiguous(t *testing.T) {
	tree := NewTree()
	st := NewSymbolTable(tree)

	first := newTestFunc(tree, "dup", scalar(TypeInt), scalar(TypeInt))
	second := newTestFunc(tree, "dup", scalar(TypeInt), scalar(TypeInt))
	st.Insert("dup", Symbol{Kind: SymbolFunction, Index: uint32(first)}, true)
	st.Insert("dup", Symbol{Kind: SymbolFunction, Index: uint32(second)}, true)

	res := st.ResolveCall("dup", []Type{scalar(TypeInt)}, st.CurrentScope())
	if res.OK || !res.Ambiguous {
		t.Errorf("expected an ambiguous resolution, got %+v", res)
	}
}

func TestResolveCallIntrinsicFallback(t *testing.T) {
	tree := NewTree()
	st := NewSymbolTable(tree)

	res := st.ResolveCall("abs", []Type{vec(TypeFloat, 3)}, st.CurrentScope())
	if !res.OK || !res.IsIntrinsic {
		t.Fatalf("expected the abs intrinsic, got %+v", res)
	}
	if res.Op != IntrinsicAbs {
		t.Errorf("expected IntrinsicAbs, got %v", res.Op)
	}
	if res.ReturnType.Rows != 3 || res.ReturnType.Base != TypeFloat {
		t.Errorf("expected a float3 return type, got %+v", res.ReturnType)
	}
}

func TestResolveCallNoMatch(t *testing.T) {
	tree := NewTree()
	st := NewSymbolTable(tree)

	res := st.ResolveCall("abs", []Type{{Base: TypeTexture}}, st.CurrentScope())
	if res.OK {
		t.Errorf("expected no viable overload, got %+v", res)
	}
}

func TestResolveCallUserBeatsIntrinsic(t *testing.T) {
	tree := NewTree()
	st := NewSymbolTable(tree)

	user := newTestFunc(tree, "abs", scalar(TypeFloat), scalar(TypeFloat))
	st.Insert("abs", Symbol{Kind: SymbolFunction, Index: uint32(user)}, true)

	res := st.ResolveCall("abs", []Type{scalar(TypeFloat)}, st.CurrentScope())
	if !res.OK || res.IsIntrinsic {
		t.Fatalf("expected the user overload to win, got %+v", res)
	}
	if res.Func != user {
		t.Errorf("expected %v, got %v", user, res.Func)
	}
}
