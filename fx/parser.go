package fx

import (
	"fmt"
	"strings"
)

// Parser builds the syntax tree from the token stream, resolving every
// identifier through the symbol table and folding every
// constant-reducible expression as it is built. Diagnostics are
// recorded without aborting; after a fatal production error the parser
// resynchronizes at the next semicolon or matching brace.
type Parser struct {
	tree    *Tree
	lex     *Lexer
	diags   *DiagnosticList
	symbols *SymbolTable

	tok  Token // most recently consumed token
	next Token // one-token lookahead

	backupTok   Token
	backupState LexerState
}

// Parse compiles an effect source into a syntax tree. The tree is
// usable if the diagnostic list contains no errors.
func Parse(src *Source) (*Tree, DiagnosticList) {
	var diags DiagnosticList
	tree := NewTree()
	p := &Parser{
		tree:    tree,
		lex:     NewLexer(src, &diags),
		diags:   &diags,
		symbols: NewSymbolTable(tree),
	}

	p.consume()

	for !p.peek(TokenEOF) {
		if !p.parseTopLevel() {
			// Most failure paths already resynchronized; only skip ahead
			// when the last token is not a declaration boundary.
			if p.tok.Kind != TokenSemicolon && p.tok.Kind != TokenBraceClose {
				p.consumeUntil(TokenSemicolon)
			}
		}
	}

	return tree, diags
}

func (p *Parser) errorf(loc Location, code int, format string, args ...interface{}) {
	p.diags.errorf(loc, code, format, args...)
}

func (p *Parser) warningf(loc Location, code int, format string, args ...interface{}) {
	p.diags.warningf(loc, code, format, args...)
}

// Input management

// backup saves the lexer cursor and the lookahead token so a
// speculative production can be retried. Only one backup may be active.
func (p *Parser) backup() {
	p.backupState = p.lex.Snapshot()
	p.backupTok = p.next
}

func (p *Parser) restore() {
	p.lex.Restore(p.backupState)
	p.next = p.backupTok
}

func (p *Parser) consume() {
	p.tok = p.next
	p.next = p.lex.Next()
}

func (p *Parser) consumeUntil(kind TokenKind) {
	for !p.accept(kind) && !p.peek(TokenEOF) {
		p.consume()
	}
}

func (p *Parser) peek(kind TokenKind) bool { return p.next.Kind == kind }

func (p *Parser) accept(kind TokenKind) bool {
	if p.peek(kind) {
		p.consume()
		return true
	}
	return false
}

func (p *Parser) expect(kind TokenKind) bool {
	if !p.accept(kind) {
		p.errorf(p.next.Loc, 3000, "syntax error: unexpected '%s', expected '%s'", p.next.Kind, kind)
		return false
	}
	return true
}

// Types

var typeTokens = map[TokenKind]Type{
	TokenVoid:     {Base: TypeVoid},
	TokenBool:     {Base: TypeBool, Rows: 1, Cols: 1},
	TokenBool2:    {Base: TypeBool, Rows: 2, Cols: 1},
	TokenBool3:    {Base: TypeBool, Rows: 3, Cols: 1},
	TokenBool4:    {Base: TypeBool, Rows: 4, Cols: 1},
	TokenBool2x2:  {Base: TypeBool, Rows: 2, Cols: 2},
	TokenBool3x3:  {Base: TypeBool, Rows: 3, Cols: 3},
	TokenBool4x4:  {Base: TypeBool, Rows: 4, Cols: 4},
	TokenInt:      {Base: TypeInt, Rows: 1, Cols: 1},
	TokenInt2:     {Base: TypeInt, Rows: 2, Cols: 1},
	TokenInt3:     {Base: TypeInt, Rows: 3, Cols: 1},
	TokenInt4:     {Base: TypeInt, Rows: 4, Cols: 1},
	TokenInt2x2:   {Base: TypeInt, Rows: 2, Cols: 2},
	TokenInt3x3:   {Base: TypeInt, Rows: 3, Cols: 3},
	TokenInt4x4:   {Base: TypeInt, Rows: 4, Cols: 4},
	TokenUint:     {Base: TypeUint, Rows: 1, Cols: 1},
	TokenUint2:    {Base: TypeUint, Rows: 2, Cols: 1},
	TokenUint3:    {Base: TypeUint, Rows: 3, Cols: 1},
	TokenUint4:    {Base: TypeUint, Rows: 4, Cols: 1},
	TokenUint2x2:  {Base: TypeUint, Rows: 2, Cols: 2},
	TokenUint3x3:  {Base: TypeUint, Rows: 3, Cols: 3},
	TokenUint4x4:  {Base: TypeUint, Rows: 4, Cols: 4},
	TokenFloat:    {Base: TypeFloat, Rows: 1, Cols: 1},
	TokenFloat2:   {Base: TypeFloat, Rows: 2, Cols: 1},
	TokenFloat3:   {Base: TypeFloat, Rows: 3, Cols: 1},
	TokenFloat4:   {Base: TypeFloat, Rows: 4, Cols: 1},
	TokenFloat2x2: {Base: TypeFloat, Rows: 2, Cols: 2},
	TokenFloat3x3: {Base: TypeFloat, Rows: 3, Cols: 3},
	TokenFloat4x4: {Base: TypeFloat, Rows: 4, Cols: 4},
	TokenString:   {Base: TypeString},
	TokenTexture:  {Base: TypeTexture},
	TokenSampler:  {Base: TypeSampler},
}

func (p *Parser) acceptTypeClass(t *Type) bool {
	t.Definition = InvalidStruct
	t.ArrayLength = 0

	switch {
	case p.peek(TokenIdent):
		t.Rows, t.Cols = 0, 0
		t.Base = TypeStruct

		symbol := p.symbols.Find(p.next.Str)
		if symbol.Kind != SymbolStruct {
			return false
		}
		t.Definition = symbol.StructHandle()
		p.consume()

	case p.accept(TokenVector):
		t.Base = TypeFloat
		t.Rows, t.Cols = 4, 1

		if p.accept(TokenLess) {
			if !p.acceptTypeClass(t) {
				p.errorf(p.next.Loc, 3000, "syntax error: unexpected '%s', expected vector element type", p.next.Kind)
				return false
			}
			if !t.IsScalar() {
				p.errorf(p.tok.Loc, 3122, "vector element type must be a scalar type")
				return false
			}
			if !p.expect(TokenComma) || !p.expect(TokenIntLiteral) {
				return false
			}
			if p.tok.Int < 1 || p.tok.Int > 4 {
				p.errorf(p.tok.Loc, 3052, "vector dimension must be between 1 and 4")
				return false
			}
			t.Rows = uint8(p.tok.Int)
			if !p.expect(TokenGreater) {
				return false
			}
		}

	case p.accept(TokenMatrix):
		t.Base = TypeFloat
		t.Rows, t.Cols = 4, 4

		if p.accept(TokenLess) {
			if !p.acceptTypeClass(t) {
				p.errorf(p.next.Loc, 3000, "syntax error: unexpected '%s', expected matrix element type", p.next.Kind)
				return false
			}
			if !t.IsScalar() {
				p.errorf(p.tok.Loc, 3123, "matrix element type must be a scalar type")
				return false
			}
			if !p.expect(TokenComma) || !p.expect(TokenIntLiteral) {
				return false
			}
			if p.tok.Int < 1 || p.tok.Int > 4 {
				p.errorf(p.tok.Loc, 3053, "matrix dimensions must be between 1 and 4")
				return false
			}
			t.Rows = uint8(p.tok.Int)
			if !p.expect(TokenComma) || !p.expect(TokenIntLiteral) {
				return false
			}
			if p.tok.Int < 1 || p.tok.Int > 4 {
				p.errorf(p.tok.Loc, 3053, "matrix dimensions must be between 1 and 4")
				return false
			}
			t.Cols = uint8(p.tok.Int)
			if !p.expect(TokenGreater) {
				return false
			}
		}

	default:
		base, ok := typeTokens[p.next.Kind]
		if !ok {
			return false
		}
		t.Base = base.Base
		t.Rows, t.Cols = base.Rows, base.Cols
		p.consume()
	}

	return true
}

var qualifierTokens = map[TokenKind]Qualifier{
	TokenExtern:          QualifierExtern,
	TokenStatic:          QualifierStatic,
	TokenUniform:         QualifierUniform,
	TokenVolatile:        QualifierVolatile,
	TokenPrecise:         QualifierPrecise,
	TokenIn:              QualifierIn,
	TokenOut:             QualifierOut,
	TokenInOut:           QualifierInOut,
	TokenConst:           QualifierConst,
	TokenLinear:          QualifierLinear,
	TokenNoPerspective:   QualifierNoPerspective,
	TokenCentroid:        QualifierCentroid,
	TokenNoInterpolation: QualifierNoInterpolation,
}

func (p *Parser) acceptTypeQualifiers(t *Type) bool {
	any := false

	for {
		q, ok := qualifierTokens[p.next.Kind]
		if !ok {
			break
		}
		p.consume()

		// Qualifiers may appear in any order; repeating one warns but is
		// not an error.
		if t.Qualifiers&q == q {
			p.warningf(p.tok.Loc, 3048, "duplicate usages specified")
		}
		t.Qualifiers |= q
		any = true
	}

	return any
}

func (p *Parser) parseType(t *Type) bool {
	t.Qualifiers = 0
	p.acceptTypeQualifiers(t)

	loc := p.next.Loc

	if !p.acceptTypeClass(t) {
		return false
	}

	if t.IsIntegral() && (t.HasQualifier(QualifierCentroid) || t.HasQualifier(QualifierNoPerspective)) {
		p.errorf(loc, 4576, "signature specifies invalid interpolation mode for integer component type")
		return false
	}
	if t.HasQualifier(QualifierCentroid) && !t.HasQualifier(QualifierNoPerspective) {
		t.Qualifiers |= QualifierLinear
	}

	return true
}

// Expressions

func (p *Parser) acceptUnaryOp() (UnaryOp, bool) {
	var op UnaryOp
	switch p.next.Kind {
	case TokenExclaim:
		op = UnaryLogicalNot
	case TokenPlus:
		op = UnaryNone
	case TokenMinus:
		op = UnaryNegate
	case TokenTilde:
		op = UnaryBitwiseNot
	case TokenPlusPlus:
		op = UnaryPreIncrease
	case TokenMinusMinus:
		op = UnaryPreDecrease
	default:
		return UnaryNone, false
	}
	p.consume()
	return op, true
}

func (p *Parser) acceptPostfixOp() (UnaryOp, bool) {
	var op UnaryOp
	switch p.next.Kind {
	case TokenPlusPlus:
		op = UnaryPostIncrease
	case TokenMinusMinus:
		op = UnaryPostDecrease
	default:
		return UnaryNone, false
	}
	p.consume()
	return op, true
}

// peekMultaryOp reports the binary operator and precedence of the
// lookahead token; BinaryNone with precedence 1 is the ternary ?:
// operator.
func (p *Parser) peekMultaryOp() (BinaryOp, int, bool) {
	switch p.next.Kind {
	case TokenPercent:
		return BinaryModulo, 11, true
	case TokenAmpersand:
		return BinaryBitwiseAnd, 6, true
	case TokenStar:
		return BinaryMultiply, 11, true
	case TokenPlus:
		return BinaryAdd, 10, true
	case TokenMinus:
		return BinarySubtract, 10, true
	case TokenSlash:
		return BinaryDivide, 11, true
	case TokenLess:
		return BinaryLess, 8, true
	case TokenGreater:
		return BinaryGreater, 8, true
	case TokenQuestion:
		return BinaryNone, 1, true
	case TokenCaret:
		return BinaryBitwiseXor, 5, true
	case TokenPipe:
		return BinaryBitwiseOr, 4, true
	case TokenExclaimEqual:
		return BinaryNotEqual, 7, true
	case TokenAmpAmp:
		return BinaryLogicalAnd, 3, true
	case TokenLessLess:
		return BinaryLeftShift, 9, true
	case TokenLessEqual:
		return BinaryLessEqual, 8, true
	case TokenEqualEqual:
		return BinaryEqual, 7, true
	case TokenGreaterGreater:
		return BinaryRightShift, 9, true
	case TokenGreaterEqual:
		return BinaryGreaterEqual, 8, true
	case TokenPipePipe:
		return BinaryLogicalOr, 2, true
	}
	return BinaryNone, 0, false
}

func (p *Parser) acceptAssignmentOp() (AssignOp, bool) {
	var op AssignOp
	switch p.next.Kind {
	case TokenEqual:
		op = AssignNone
	case TokenPercentEqual:
		op = AssignModulo
	case TokenAmpEqual:
		op = AssignBitwiseAnd
	case TokenStarEqual:
		op = AssignMultiply
	case TokenPlusEqual:
		op = AssignAdd
	case TokenMinusEqual:
		op = AssignSubtract
	case TokenSlashEqual:
		op = AssignDivide
	case TokenLessLessEqual:
		op = AssignLeftShift
	case TokenGreaterGreaterEqual:
		op = AssignRightShift
	case TokenCaretEqual:
		op = AssignBitwiseXor
	case TokenPipeEqual:
		op = AssignBitwiseOr
	default:
		return AssignNone, false
	}
	p.consume()
	return op, true
}

func (p *Parser) parseExpression() (ExprHandle, bool) {
	node, ok := p.parseExpressionAssignment()
	if !ok {
		return InvalidExpr, false
	}

	if p.peek(TokenComma) {
		loc := p.tree.Expr(node).Loc
		list := []ExprHandle{node}

		for p.accept(TokenComma) {
			expr, ok := p.parseExpressionAssignment()
			if !ok {
				return InvalidExpr, false
			}
			list = append(list, expr)
		}

		node = p.tree.addExpr(Expr{
			Loc:  loc,
			Type: p.tree.Expr(list[len(list)-1]).Type,
			Kind: Sequence{List: list},
		})
	}

	return node, true
}

func (p *Parser) newLiteralScalar(loc Location, base BaseType) ExprHandle {
	t := Type{Base: base, Rows: 1, Cols: 1, Qualifiers: QualifierConst, Definition: InvalidStruct}
	return p.tree.addExpr(Expr{Loc: loc, Type: t, Kind: Literal{}})
}

//nolint:gocyclo // The unary expression grammar covers every prefix and postfix form.
func (p *Parser) parseExpressionUnary() (ExprHandle, bool) {
	var node ExprHandle
	loc := p.next.Loc

	// Prefix
	if op, ok := p.acceptUnaryOp(); ok {
		var good bool
		node, good = p.parseExpressionUnary()
		if !good {
			return InvalidExpr, false
		}

		nt := p.tree.Expr(node).Type
		if !nt.IsScalar() && !nt.IsVector() && !nt.IsMatrix() {
			p.errorf(p.tree.Expr(node).Loc, 3022, "scalar, vector, or matrix expected")
			return InvalidExpr, false
		}

		if op != UnaryNone {
			if op == UnaryBitwiseNot && !nt.IsIntegral() {
				p.errorf(p.tree.Expr(node).Loc, 3082, "int or unsigned int type required")
				return InvalidExpr, false
			}
			if (op == UnaryPreIncrease || op == UnaryPreDecrease) &&
				(nt.HasQualifier(QualifierConst) || nt.HasQualifier(QualifierUniform)) {
				p.errorf(p.tree.Expr(node).Loc, 3025, "l-value specifies const object")
				return InvalidExpr, false
			}

			h := p.tree.addExpr(Expr{Loc: loc, Type: nt, Kind: Unary{Op: op, Operand: node}})
			node = foldConstant(p.tree, h)
		}
	} else if p.accept(TokenParenOpen) {
		p.backup()

		var castType Type
		if p.acceptTypeClass(&castType) {
			if p.peek(TokenParenOpen) {
				p.restore()
			} else if p.expect(TokenParenClose) {
				var good bool
				node, good = p.parseExpressionUnary()
				if !good {
					return InvalidExpr, false
				}

				nt := p.tree.Expr(node).Type
				switch {
				case nt.Base == castType.Base && nt.Rows == castType.Rows && nt.Cols == castType.Cols &&
					!nt.IsArray() && !castType.IsArray():
					return node, true
				case nt.IsNumeric() && castType.IsNumeric():
					if (nt.Rows < castType.Rows || nt.Cols < castType.Cols) && !nt.IsScalar() {
						p.errorf(loc, 3017, "cannot convert these vector types")
						return InvalidExpr, false
					}
					if nt.Rows > castType.Rows || nt.Cols > castType.Cols {
						p.warningf(loc, 3206, "implicit truncation of vector type")
					}

					castType.Qualifiers = QualifierConst
					h := p.tree.addExpr(Expr{Loc: loc, Type: castType, Kind: Unary{Op: UnaryCast, Operand: node}})
					return foldConstant(p.tree, h), true
				default:
					p.errorf(loc, 3017, "cannot convert non-numeric types")
					return InvalidExpr, false
				}
			} else {
				return InvalidExpr, false
			}
		}

		var good bool
		node, good = p.parseExpression()
		if !good {
			return InvalidExpr, false
		}
		if !p.expect(TokenParenClose) {
			return InvalidExpr, false
		}
	} else if p.accept(TokenTrue) {
		node = p.newLiteralScalar(p.tok.Loc, TypeBool)
		lit := p.tree.Expr(node).Kind.(Literal)
		lit.Ints[0] = 1
		p.tree.Expr(node).Kind = lit
	} else if p.accept(TokenFalse) {
		node = p.newLiteralScalar(p.tok.Loc, TypeBool)
	} else if p.accept(TokenIntLiteral) {
		node = p.newLiteralScalar(p.tok.Loc, TypeInt)
		lit := p.tree.Expr(node).Kind.(Literal)
		lit.Ints[0] = p.tok.Int
		p.tree.Expr(node).Kind = lit
	} else if p.accept(TokenUintLiteral) {
		node = p.newLiteralScalar(p.tok.Loc, TypeUint)
		lit := p.tree.Expr(node).Kind.(Literal)
		lit.Ints[0] = int64(p.tok.Uint)
		p.tree.Expr(node).Kind = lit
	} else if p.accept(TokenFloatLiteral) {
		node = p.newLiteralScalar(p.tok.Loc, TypeFloat)
		lit := p.tree.Expr(node).Kind.(Literal)
		lit.Floats[0] = p.tok.Float
		p.tree.Expr(node).Kind = lit
	} else if p.accept(TokenDoubleLiteral) {
		node = p.newLiteralScalar(p.tok.Loc, TypeFloat)
		lit := p.tree.Expr(node).Kind.(Literal)
		lit.Floats[0] = float32(p.tok.Double)
		p.tree.Expr(node).Kind = lit
	} else if p.accept(TokenStringLiteral) {
		str := p.tok.Str
		strLoc := p.tok.Loc
		// The lexer does not concatenate adjacent string literals; the
		// parser does.
		for p.accept(TokenStringLiteral) {
			str += p.tok.Str
		}
		node = p.tree.addExpr(Expr{
			Loc:  strLoc,
			Type: Type{Base: TypeString, Qualifiers: QualifierConst, Definition: InvalidStruct},
			Kind: Literal{Str: str},
		})
	} else if ctorType := (Type{}); p.acceptTypeClass(&ctorType) {
		if !p.expect(TokenParenOpen) {
			return InvalidExpr, false
		}
		if !ctorType.IsNumeric() {
			p.errorf(loc, 3037, "constructors only defined for numeric base types")
			return InvalidExpr, false
		}
		if p.accept(TokenParenClose) {
			p.errorf(loc, 3014, "incorrect number of arguments to numeric-type constructor")
			return InvalidExpr, false
		}

		var args []ExprHandle
		elements := uint32(0)

		for !p.peek(TokenParenClose) {
			if len(args) != 0 && !p.expect(TokenComma) {
				return InvalidExpr, false
			}

			arg, ok := p.parseExpressionAssignment()
			if !ok {
				return InvalidExpr, false
			}

			at := p.tree.Expr(arg).Type
			if !at.IsNumeric() {
				p.errorf(p.tree.Expr(arg).Loc, 3017, "cannot convert non-numeric types")
				return InvalidExpr, false
			}

			elements += at.ComponentCount()
			args = append(args, arg)
		}

		if !p.expect(TokenParenClose) {
			return InvalidExpr, false
		}
		if elements != ctorType.ComponentCount() {
			p.errorf(loc, 3014, "incorrect number of arguments to numeric-type constructor")
			return InvalidExpr, false
		}

		if len(args) > 1 {
			t := ctorType
			t.Qualifiers = QualifierConst
			node = p.tree.addExpr(Expr{Loc: loc, Type: t, Kind: Constructor{Args: args}})
		} else {
			node = p.tree.addExpr(Expr{Loc: loc, Type: ctorType, Kind: Unary{Op: UnaryCast, Operand: args[0]}})
		}
		node = foldConstant(p.tree, node)
	} else {
		var scope Scope
		exclusive := false

		if p.accept(TokenColonColon) {
			scope = Scope{Name: "::"}
			exclusive = true
		} else {
			scope = p.symbols.CurrentScope()
		}

		if exclusive {
			if !p.expect(TokenIdent) {
				return InvalidExpr, false
			}
		} else if !p.accept(TokenIdent) {
			return InvalidExpr, false
		}
		identifier := p.tok.Str

		for p.accept(TokenColonColon) {
			if !p.expect(TokenIdent) {
				return InvalidExpr, false
			}
			identifier += "::" + p.tok.Str
		}

		symbol := p.symbols.FindIn(identifier, scope, exclusive)

		if p.accept(TokenParenOpen) {
			if symbol.Kind == SymbolVariable {
				p.errorf(loc, 3005, "identifier '%s' represents a variable, not a function", identifier)
				return InvalidExpr, false
			}

			var args []ExprHandle
			for !p.peek(TokenParenClose) {
				if len(args) != 0 && !p.expect(TokenComma) {
					return InvalidExpr, false
				}
				arg, ok := p.parseExpressionAssignment()
				if !ok {
					return InvalidExpr, false
				}
				args = append(args, arg)
			}
			if !p.expect(TokenParenClose) {
				return InvalidExpr, false
			}

			argTypes := make([]Type, len(args))
			for i, a := range args {
				argTypes[i] = p.tree.Expr(a).Type
			}

			res := p.symbols.ResolveCall(identifier, argTypes, scope)
			if !res.OK {
				switch {
				case symbol.Kind == SymbolNone && !res.IsIntrinsic:
					p.errorf(loc, 3004, "undeclared identifier '%s'", identifier)
				case res.Ambiguous:
					p.errorf(loc, 3067, "ambiguous function call to '%s'", identifier)
				default:
					p.errorf(loc, 3013, "no matching function overload for '%s'", identifier)
				}
				return InvalidExpr, false
			}

			if res.IsIntrinsic {
				callArgs := args
				if len(callArgs) > 4 {
					callArgs = callArgs[:4]
				}
				h := p.tree.addExpr(Expr{Loc: loc, Type: res.ReturnType, Kind: Intrinsic{Op: res.Op, Args: callArgs}})
				node = foldConstant(p.tree, h)
			} else {
				if p.symbols.CurrentParent() == res.Func {
					p.errorf(loc, 3500, "recursive function calls are not allowed")
					return InvalidExpr, false
				}
				node = p.tree.addExpr(Expr{Loc: loc, Type: res.ReturnType, Kind: Call{Name: identifier, Callee: res.Func, Args: args}})
			}

			for i, arg := range args {
				if i >= len(res.Params) {
					break
				}
				at := p.tree.Expr(arg).Type
				if at.Rows > res.Params[i].Rows || at.Cols > res.Params[i].Cols {
					p.warningf(p.tree.Expr(arg).Loc, 3206, "implicit truncation of vector type")
				}
			}
		} else {
			if symbol.Kind == SymbolNone {
				p.errorf(loc, 3004, "undeclared identifier '%s'", identifier)
				return InvalidExpr, false
			}
			if symbol.Kind != SymbolVariable {
				p.errorf(loc, 3005, "identifier '%s' represents a function, not a variable", identifier)
				return InvalidExpr, false
			}

			h := p.tree.addExpr(Expr{
				Loc:  loc,
				Type: p.tree.Var(symbol.VarHandle()).Type,
				Kind: LValue{Var: symbol.VarHandle()},
			})
			node = foldConstant(p.tree, h)
		}
	}

	// Postfix
	for !p.peek(TokenEOF) {
		loc = p.next.Loc
		typ := p.tree.Expr(node).Type

		if op, ok := p.acceptPostfixOp(); ok {
			if !typ.IsScalar() && !typ.IsVector() && !typ.IsMatrix() {
				p.errorf(p.tree.Expr(node).Loc, 3022, "scalar, vector, or matrix expected")
				return InvalidExpr, false
			}
			if typ.HasQualifier(QualifierConst) || typ.HasQualifier(QualifierUniform) {
				p.errorf(p.tree.Expr(node).Loc, 3025, "l-value specifies const object")
				return InvalidExpr, false
			}

			t := typ
			t.Qualifiers |= QualifierConst
			node = p.tree.addExpr(Expr{Loc: loc, Type: t, Kind: Unary{Op: op, Operand: node}})
		} else if p.accept(TokenDot) {
			if !p.expect(TokenIdent) {
				return InvalidExpr, false
			}

			loc = p.tok.Loc
			subscript := p.tok.Str

			if p.accept(TokenParenOpen) {
				if !typ.IsStruct() || typ.IsArray() {
					p.errorf(loc, 3087, "object does not have methods")
				} else {
					p.errorf(loc, 3088, "structures do not have methods")
				}
				return InvalidExpr, false
			}

			switch {
			case typ.IsArray():
				p.errorf(loc, 3018, "invalid subscript on array")
				return InvalidExpr, false

			case typ.IsVector():
				h, ok := p.parseVectorSwizzle(node, typ, subscript, loc)
				if !ok {
					return InvalidExpr, false
				}
				node = h

			case typ.IsMatrix():
				h, ok := p.parseMatrixSwizzle(node, typ, subscript, loc)
				if !ok {
					return InvalidExpr, false
				}
				node = h

			case typ.IsStruct():
				field := InvalidVar
				for _, f := range p.tree.Struct(typ.Definition).Fields {
					if p.tree.Var(f).Name == subscript {
						field = f
						break
					}
				}
				if field == InvalidVar {
					p.errorf(loc, 3018, "invalid subscript '%s'", subscript)
					return InvalidExpr, false
				}

				t := p.tree.Var(field).Type
				if typ.HasQualifier(QualifierUniform) {
					t.Qualifiers |= QualifierConst
					t.Qualifiers &^= QualifierUniform
				}
				node = p.tree.addExpr(Expr{Loc: loc, Type: t, Kind: Field{Operand: node, Member: field}})

			case typ.IsScalar():
				mask := [4]int8{-1, -1, -1, -1}
				if len(subscript) > 4 {
					p.errorf(loc, 3018, "invalid subscript '%s'", subscript)
					return InvalidExpr, false
				}
				for i := 0; i < len(subscript); i++ {
					if subscript[i] != 'x' && subscript[i] != 'r' && subscript[i] != 's' {
						p.errorf(loc, 3018, "invalid subscript '%s'", subscript)
						return InvalidExpr, false
					}
					mask[i] = 0
				}

				t := typ
				t.Qualifiers |= QualifierConst
				t.Rows = uint8(len(subscript))
				node = p.tree.addExpr(Expr{Loc: loc, Type: t, Kind: Swizzle{Operand: node, Mask: mask}})

			default:
				p.errorf(loc, 3018, "invalid subscript '%s'", subscript)
				return InvalidExpr, false
			}
		} else if p.accept(TokenBracketOpen) {
			if !typ.IsArray() && !typ.IsVector() && !typ.IsMatrix() {
				p.errorf(p.tree.Expr(node).Loc, 3121, "array, matrix, vector, or indexable object type expected in index expression")
				return InvalidExpr, false
			}

			index, ok := p.parseExpression()
			if !ok {
				return InvalidExpr, false
			}
			if !p.tree.Expr(index).Type.IsScalar() {
				p.errorf(p.tree.Expr(index).Loc, 3120, "invalid type for index - index must be a scalar")
				return InvalidExpr, false
			}

			t := typ
			switch {
			case typ.IsArray():
				t.ArrayLength = 0
			case typ.IsMatrix():
				t.Rows = t.Cols
				t.Cols = 1
			case typ.IsVector():
				t.Rows = 1
			}

			h := p.tree.addExpr(Expr{Loc: loc, Type: t, Kind: Binary{Op: BinaryElementExtract, LHS: node, RHS: index}})
			node = foldConstant(p.tree, h)

			if !p.expect(TokenBracketClose) {
				return InvalidExpr, false
			}
		} else {
			break
		}
	}

	return node, true
}

func (p *Parser) parseVectorSwizzle(node ExprHandle, typ Type, subscript string, loc Location) (ExprHandle, bool) {
	if len(subscript) > 4 {
		p.errorf(loc, 3018, "invalid subscript '%s', swizzle too long", subscript)
		return InvalidExpr, false
	}

	const (
		setXYZW = iota
		setRGBA
		setSTPQ
	)

	constant := false
	mask := [4]int8{-1, -1, -1, -1}
	var sets [4]int

	for i := 0; i < len(subscript); i++ {
		switch subscript[i] {
		case 'x':
			mask[i], sets[i] = 0, setXYZW
		case 'y':
			mask[i], sets[i] = 1, setXYZW
		case 'z':
			mask[i], sets[i] = 2, setXYZW
		case 'w':
			mask[i], sets[i] = 3, setXYZW
		case 'r':
			mask[i], sets[i] = 0, setRGBA
		case 'g':
			mask[i], sets[i] = 1, setRGBA
		case 'b':
			mask[i], sets[i] = 2, setRGBA
		case 'a':
			mask[i], sets[i] = 3, setRGBA
		case 's':
			mask[i], sets[i] = 0, setSTPQ
		case 't':
			mask[i], sets[i] = 1, setSTPQ
		case 'p':
			mask[i], sets[i] = 2, setSTPQ
		case 'q':
			mask[i], sets[i] = 3, setSTPQ
		default:
			p.errorf(loc, 3018, "invalid subscript '%s'", subscript)
			return InvalidExpr, false
		}

		if i > 0 && sets[i] != sets[i-1] {
			p.errorf(loc, 3018, "invalid subscript '%s', mixed swizzle sets", subscript)
			return InvalidExpr, false
		}
		if uint8(mask[i]) >= typ.Rows {
			p.errorf(loc, 3018, "invalid subscript '%s', swizzle out of range", subscript)
			return InvalidExpr, false
		}
		for k := 0; k < i; k++ {
			if mask[k] == mask[i] {
				constant = true
				break
			}
		}
	}

	t := typ
	t.Rows = uint8(len(subscript))
	if constant || typ.HasQualifier(QualifierUniform) {
		t.Qualifiers |= QualifierConst
		t.Qualifiers &^= QualifierUniform
	}

	h := p.tree.addExpr(Expr{Loc: loc, Type: t, Kind: Swizzle{Operand: node, Mask: mask}})
	return foldConstant(p.tree, h), true
}

func (p *Parser) parseMatrixSwizzle(node ExprHandle, typ Type, subscript string, loc Location) (ExprHandle, bool) {
	if len(subscript) < 3 {
		p.errorf(loc, 3018, "invalid subscript '%s'", subscript)
		return InvalidExpr, false
	}

	constant := false
	mask := [4]int8{-1, -1, -1, -1}

	// "_mRC" groups are 0-based, "_RC" groups 1-based; the two forms
	// cannot mix within one subscript.
	set := 0
	if subscript[1] == 'm' {
		set = 1
	}
	coefficient := byte(0)
	if set == 0 {
		coefficient = 1
	}

	j := 0
	for i := 0; i < len(subscript); i, j = i+3+set, j+1 {
		if i+2+set >= len(subscript) ||
			subscript[i] != '_' ||
			subscript[i+set+1] < '0'+coefficient || subscript[i+set+1] > '3'+coefficient ||
			subscript[i+set+2] < '0'+coefficient || subscript[i+set+2] > '3'+coefficient {
			p.errorf(loc, 3018, "invalid subscript '%s'", subscript)
			return InvalidExpr, false
		}
		if set == 1 && subscript[i+1] != 'm' {
			p.errorf(loc, 3018, "invalid subscript '%s', mixed swizzle sets", subscript)
			return InvalidExpr, false
		}

		row := subscript[i+set+1] - '0' - coefficient
		col := subscript[i+set+2] - '0' - coefficient

		if uint8(row) >= typ.Rows || uint8(col) >= typ.Cols || j > 3 {
			p.errorf(loc, 3018, "invalid subscript '%s', swizzle out of range", subscript)
			return InvalidExpr, false
		}

		mask[j] = int8(row*4 + col)

		for k := 0; k < j; k++ {
			if mask[k] == mask[j] {
				constant = true
				break
			}
		}
	}

	t := typ
	t.Rows = uint8(len(subscript) / (3 + set))
	t.Cols = 1
	if constant || typ.HasQualifier(QualifierUniform) {
		t.Qualifiers |= QualifierConst
		t.Qualifiers &^= QualifierUniform
	}

	h := p.tree.addExpr(Expr{Loc: loc, Type: t, Kind: Swizzle{Operand: node, Mask: mask}})
	return foldConstant(p.tree, h), true
}

// sameDefinition reports whether two types agree on their struct
// definition; non-struct types trivially do.
func sameDefinition(a, b Type) bool {
	if !a.IsStruct() && !b.IsStruct() {
		return true
	}
	return a.Definition == b.Definition
}

func maxBase(a, b BaseType) BaseType {
	if a > b {
		return a
	}
	return b
}

func (p *Parser) parseExpressionMultary(leftPrecedence int) (ExprHandle, bool) {
	left, ok := p.parseExpressionUnary()
	if !ok {
		return InvalidExpr, false
	}

	for {
		op, rightPrecedence, ok := p.peekMultaryOp()
		if !ok || rightPrecedence <= leftPrecedence {
			break
		}

		p.consume()

		boolean := false
		var lhs, rhs ExprHandle

		if op != BinaryNone {
			right, good := p.parseExpressionMultary(rightPrecedence)
			if !good {
				return InvalidExpr, false
			}

			lt := p.tree.Expr(left).Type
			rt := p.tree.Expr(right).Type

			switch {
			case op == BinaryEqual || op == BinaryNotEqual:
				boolean = true
				if lt.IsArray() || rt.IsArray() || !sameDefinition(lt, rt) {
					p.errorf(p.tree.Expr(right).Loc, 3020, "type mismatch")
					return InvalidExpr, false
				}
			case op == BinaryBitwiseAnd || op == BinaryBitwiseOr || op == BinaryBitwiseXor:
				if !lt.IsIntegral() {
					p.errorf(p.tree.Expr(left).Loc, 3082, "int or unsigned int type required")
					return InvalidExpr, false
				}
				if !rt.IsIntegral() {
					p.errorf(p.tree.Expr(right).Loc, 3082, "int or unsigned int type required")
					return InvalidExpr, false
				}
			default:
				boolean = op == BinaryLogicalAnd || op == BinaryLogicalOr ||
					op == BinaryLess || op == BinaryGreater ||
					op == BinaryLessEqual || op == BinaryGreaterEqual

				if !lt.IsScalar() && !lt.IsVector() && !lt.IsMatrix() {
					p.errorf(p.tree.Expr(left).Loc, 3022, "scalar, vector, or matrix expected")
					return InvalidExpr, false
				}
				if !rt.IsScalar() && !rt.IsVector() && !rt.IsMatrix() {
					p.errorf(p.tree.Expr(right).Loc, 3022, "scalar, vector, or matrix expected")
					return InvalidExpr, false
				}
			}

			lhs, rhs = left, right
			left = p.tree.addExpr(Expr{
				Loc:  p.tree.Expr(left).Loc,
				Kind: Binary{Op: op, LHS: left, RHS: right},
			})
		} else {
			lt := p.tree.Expr(left).Type
			if !lt.IsScalar() && !lt.IsVector() {
				p.errorf(p.tree.Expr(left).Loc, 3022, "boolean or vector expression expected")
				return InvalidExpr, false
			}

			whenTrue, good := p.parseExpression()
			if !good || !p.expect(TokenColon) {
				return InvalidExpr, false
			}
			whenFalse, good := p.parseExpressionAssignment()
			if !good {
				return InvalidExpr, false
			}

			tt := p.tree.Expr(whenTrue).Type
			ft := p.tree.Expr(whenFalse).Type
			if tt.IsArray() || ft.IsArray() || !sameDefinition(tt, ft) {
				p.errorf(p.tree.Expr(left).Loc, 3020, "type mismatch between conditional values")
				return InvalidExpr, false
			}

			lhs, rhs = whenTrue, whenFalse
			left = p.tree.addExpr(Expr{
				Loc:  p.tree.Expr(left).Loc,
				Kind: Conditional{Cond: left, True: whenTrue, False: whenFalse},
			})
		}

		// Type promotion: bool < int < uint < float, scalars broadcast
		// to the larger shape, everything else truncates to the smaller
		// one with a warning.
		t1 := p.tree.Expr(lhs).Type
		t2 := p.tree.Expr(rhs).Type

		result := p.tree.Expr(left)
		if boolean {
			result.Type.Base = TypeBool
		} else {
			result.Type.Base = maxBase(t1.Base, t2.Base)
		}

		if t1.ComponentCount() == 1 || t2.ComponentCount() == 1 {
			result.Type.Rows = maxU8(t1.Rows, t2.Rows)
			result.Type.Cols = maxU8(t1.Cols, t2.Cols)
		} else {
			result.Type.Rows = minU8(t1.Rows, t2.Rows)
			result.Type.Cols = minU8(t1.Cols, t2.Cols)

			if t1.Rows > t2.Rows || t1.Cols > t2.Cols {
				p.warningf(p.tree.Expr(lhs).Loc, 3206, "implicit truncation of vector type")
			}
			if t2.Rows > t1.Rows || t2.Cols > t1.Cols {
				p.warningf(p.tree.Expr(rhs).Loc, 3206, "implicit truncation of vector type")
			}
		}
		result.Type.Definition = InvalidStruct

		left = foldConstant(p.tree, left)
	}

	return left, true
}

func maxU8(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

func minU8(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}

func (p *Parser) parseExpressionAssignment() (ExprHandle, bool) {
	left, ok := p.parseExpressionMultary(0)
	if !ok {
		return InvalidExpr, false
	}

	if op, ok := p.acceptAssignmentOp(); ok {
		right, good := p.parseExpressionMultary(0)
		if !good {
			return InvalidExpr, false
		}

		lt := p.tree.Expr(left).Type
		rt := p.tree.Expr(right).Type

		if lt.HasQualifier(QualifierConst) || lt.HasQualifier(QualifierUniform) {
			p.errorf(p.tree.Expr(left).Loc, 3025, "l-value specifies const object")
			return InvalidExpr, false
		}
		if lt.IsArray() || rt.IsArray() || Rank(lt, rt) == 0 {
			p.errorf(p.tree.Expr(right).Loc, 3020, "cannot convert these types")
			return InvalidExpr, false
		}
		if rt.Rows > lt.Rows || rt.Cols > lt.Cols {
			p.warningf(p.tree.Expr(right).Loc, 3206, "implicit truncation of vector type")
		}

		left = p.tree.addExpr(Expr{
			Loc:  p.tree.Expr(left).Loc,
			Type: lt,
			Kind: Assignment{Op: op, LHS: left, RHS: right},
		})
	}

	return left, true
}

// Statements

func (p *Parser) parseStatement(scoped bool) (StmtHandle, bool) {
	var attributes []string

	for p.accept(TokenBracketOpen) {
		if p.expect(TokenIdent) {
			attribute := p.tok.Str
			if p.expect(TokenBracketClose) {
				attributes = append(attributes, attribute)
			}
		} else {
			p.accept(TokenBracketClose)
		}
	}

	if p.peek(TokenBraceOpen) {
		stmt, ok := p.parseStatementBlock(scoped)
		if !ok {
			return InvalidStmt, false
		}
		p.tree.Stmt(stmt).Attributes = attributes
		return stmt, true
	}

	if p.accept(TokenSemicolon) {
		return InvalidStmt, true
	}

	if p.accept(TokenIf) {
		loc := p.tok.Loc

		if !p.expect(TokenParenOpen) {
			return InvalidStmt, false
		}
		cond, ok := p.parseExpression()
		if !ok || !p.expect(TokenParenClose) {
			return InvalidStmt, false
		}
		if !p.tree.Expr(cond).Type.IsScalar() {
			p.errorf(p.tree.Expr(cond).Loc, 3019, "if statement conditional expressions must evaluate to a scalar")
			return InvalidStmt, false
		}

		then, ok := p.parseStatement(true)
		if !ok {
			return InvalidStmt, false
		}

		elseStmt := InvalidStmt
		if p.accept(TokenElse) {
			if elseStmt, ok = p.parseStatement(true); !ok {
				return InvalidStmt, false
			}
		}

		return p.tree.addStmt(Stmt{Loc: loc, Attributes: attributes, Kind: If{Cond: cond, Then: then, Else: elseStmt}}), true
	}

	if p.accept(TokenSwitch) {
		return p.parseSwitch(attributes)
	}

	if p.accept(TokenFor) {
		return p.parseFor(attributes)
	}

	if p.accept(TokenWhile) {
		loc := p.tok.Loc

		p.symbols.EnterScope(InvalidFunc)
		defer p.symbols.LeaveScope()

		if !p.expect(TokenParenOpen) {
			return InvalidStmt, false
		}
		cond, ok := p.parseExpression()
		if !ok || !p.expect(TokenParenClose) {
			return InvalidStmt, false
		}
		if !p.tree.Expr(cond).Type.IsScalar() {
			p.errorf(p.tree.Expr(cond).Loc, 3019, "scalar value expected")
			return InvalidStmt, false
		}

		body, ok := p.parseStatement(false)
		if !ok {
			return InvalidStmt, false
		}

		return p.tree.addStmt(Stmt{Loc: loc, Attributes: attributes, Kind: While{Cond: cond, Body: body}}), true
	}

	if p.accept(TokenDo) {
		loc := p.tok.Loc

		body, ok := p.parseStatement(true)
		if !ok {
			return InvalidStmt, false
		}
		if !p.expect(TokenWhile) || !p.expect(TokenParenOpen) {
			return InvalidStmt, false
		}
		cond, ok := p.parseExpression()
		if !ok || !p.expect(TokenParenClose) || !p.expect(TokenSemicolon) {
			return InvalidStmt, false
		}
		if !p.tree.Expr(cond).Type.IsScalar() {
			p.errorf(p.tree.Expr(cond).Loc, 3019, "scalar value expected")
			return InvalidStmt, false
		}

		return p.tree.addStmt(Stmt{Loc: loc, Attributes: attributes, Kind: While{DoWhile: true, Cond: cond, Body: body}}), true
	}

	if p.accept(TokenBreak) {
		stmt := p.tree.addStmt(Stmt{Loc: p.tok.Loc, Attributes: attributes, Kind: Jump{Kind: JumpBreak, Value: InvalidExpr}})
		return stmt, p.expect(TokenSemicolon)
	}

	if p.accept(TokenContinue) {
		stmt := p.tree.addStmt(Stmt{Loc: p.tok.Loc, Attributes: attributes, Kind: Jump{Kind: JumpContinue, Value: InvalidExpr}})
		return stmt, p.expect(TokenSemicolon)
	}

	if p.accept(TokenReturn) {
		loc := p.tok.Loc
		value := InvalidExpr
		parent := p.symbols.CurrentParent()

		if !p.peek(TokenSemicolon) {
			var ok bool
			if value, ok = p.parseExpression(); !ok {
				return InvalidStmt, false
			}

			if parent != InvalidFunc {
				returnType := p.tree.Func(parent).ReturnType
				vt := p.tree.Expr(value).Type

				if returnType.IsVoid() {
					p.errorf(loc, 3079, "void functions cannot return a value")
					p.accept(TokenSemicolon)
					return InvalidStmt, false
				}
				if Rank(vt, returnType) == 0 {
					p.errorf(loc, 3017, "expression does not match function return type")
					return InvalidStmt, false
				}
				if vt.Rows > returnType.Rows || vt.Cols > returnType.Cols {
					p.warningf(loc, 3206, "implicit truncation of vector type")
				}
			}
		} else if parent != InvalidFunc && !p.tree.Func(parent).ReturnType.IsVoid() {
			p.errorf(loc, 3080, "function must return a value")
			p.accept(TokenSemicolon)
			return InvalidStmt, false
		}

		stmt := p.tree.addStmt(Stmt{Loc: loc, Attributes: attributes, Kind: Jump{Kind: JumpReturn, Value: value}})
		return stmt, p.expect(TokenSemicolon)
	}

	if p.accept(TokenDiscard) {
		stmt := p.tree.addStmt(Stmt{Loc: p.tok.Loc, Attributes: attributes, Kind: Jump{Kind: JumpDiscard, Value: InvalidExpr}})
		return stmt, p.expect(TokenSemicolon)
	}

	if stmt, ok := p.parseDeclaratorList(); ok {
		p.tree.Stmt(stmt).Attributes = attributes
		return stmt, p.expect(TokenSemicolon)
	}

	if expr, ok := p.parseExpression(); ok {
		stmt := p.tree.addStmt(Stmt{Loc: p.tree.Expr(expr).Loc, Attributes: attributes, Kind: ExprStmt{Expr: expr}})
		return stmt, p.expect(TokenSemicolon)
	}

	p.errorf(p.next.Loc, 3000, "syntax error: unexpected '%s'", p.next.Kind)
	p.consumeUntil(TokenSemicolon)
	return InvalidStmt, false
}

func (p *Parser) parseSwitch(attributes []string) (StmtHandle, bool) {
	loc := p.tok.Loc

	if !p.expect(TokenParenOpen) {
		return InvalidStmt, false
	}
	test, ok := p.parseExpression()
	if !ok || !p.expect(TokenParenClose) {
		return InvalidStmt, false
	}
	if !p.tree.Expr(test).Type.IsScalar() {
		p.errorf(p.tree.Expr(test).Loc, 3019, "switch statement expression must evaluate to a scalar")
		return InvalidStmt, false
	}
	if !p.expect(TokenBraceOpen) {
		return InvalidStmt, false
	}

	var cases []StmtHandle
	for !p.peek(TokenBraceClose) && !p.peek(TokenEOF) {
		caseLoc := p.next.Loc
		var labels []ExprHandle

		for p.accept(TokenCase) || p.accept(TokenDefault) {
			label := InvalidExpr

			if p.tok.Kind == TokenCase {
				var good bool
				if label, good = p.parseExpression(); !good {
					return InvalidStmt, false
				}
				e := p.tree.Expr(label)
				if _, isLit := e.Kind.(Literal); !isLit || !e.Type.IsNumeric() {
					p.errorf(e.Loc, 3020, "non-numeric case expression")
					return InvalidStmt, false
				}
			}

			if !p.expect(TokenColon) {
				return InvalidStmt, false
			}
			labels = append(labels, label)
		}

		if len(labels) == 0 {
			p.errorf(caseLoc, 3000, "a case body can only contain a single statement")
			return InvalidStmt, false
		}

		body, good := p.parseStatement(true)
		if !good {
			return InvalidStmt, false
		}

		cases = append(cases, p.tree.addStmt(Stmt{Loc: caseLoc, Kind: Case{Labels: labels, Body: body}}))
	}

	if len(cases) == 0 {
		p.warningf(loc, 5002, "switch statement contains no 'case' or 'default' labels")
		if !p.expect(TokenBraceClose) {
			return InvalidStmt, false
		}
		return InvalidStmt, true
	}

	stmt := p.tree.addStmt(Stmt{Loc: loc, Attributes: attributes, Kind: Switch{Test: test, Cases: cases}})
	return stmt, p.expect(TokenBraceClose)
}

func (p *Parser) parseFor(attributes []string) (StmtHandle, bool) {
	loc := p.tok.Loc

	if !p.expect(TokenParenOpen) {
		return InvalidStmt, false
	}

	p.symbols.EnterScope(InvalidFunc)
	defer p.symbols.LeaveScope()

	init := InvalidStmt
	if stmt, ok := p.parseDeclaratorList(); ok {
		init = stmt
	} else if !p.peek(TokenSemicolon) {
		if expr, ok := p.parseExpression(); ok {
			init = p.tree.addStmt(Stmt{Loc: p.tree.Expr(expr).Loc, Kind: ExprStmt{Expr: expr}})
		}
	}

	if !p.expect(TokenSemicolon) {
		return InvalidStmt, false
	}

	cond := InvalidExpr
	if !p.peek(TokenSemicolon) {
		if expr, ok := p.parseExpression(); ok {
			cond = expr
		}
	}
	if !p.expect(TokenSemicolon) {
		return InvalidStmt, false
	}

	increment := InvalidExpr
	if !p.peek(TokenParenClose) {
		if expr, ok := p.parseExpression(); ok {
			increment = expr
		}
	}
	if !p.expect(TokenParenClose) {
		return InvalidStmt, false
	}

	if cond != InvalidExpr && !p.tree.Expr(cond).Type.IsScalar() {
		p.errorf(p.tree.Expr(cond).Loc, 3019, "scalar value expected")
		return InvalidStmt, false
	}

	body, ok := p.parseStatement(false)
	if !ok {
		return InvalidStmt, false
	}

	stmt := p.tree.addStmt(Stmt{Loc: loc, Attributes: attributes, Kind: For{Init: init, Cond: cond, Increment: increment, Body: body}})
	return stmt, true
}

func (p *Parser) parseStatementBlock(scoped bool) (StmtHandle, bool) {
	if !p.expect(TokenBraceOpen) {
		return InvalidStmt, false
	}

	loc := p.tok.Loc

	if scoped {
		p.symbols.EnterScope(InvalidFunc)
	}

	var statements []StmtHandle
	for !p.peek(TokenBraceClose) && !p.peek(TokenEOF) {
		stmt, ok := p.parseStatement(true)
		if !ok {
			if scoped {
				p.symbols.LeaveScope()
			}

			// Resynchronize at the matching closing brace.
			level := 0
			for !p.peek(TokenEOF) {
				if p.accept(TokenBraceOpen) {
					level++
				} else if p.accept(TokenBraceClose) {
					if level == 0 {
						break
					}
					level--
				} else {
					p.consume()
				}
			}

			return InvalidStmt, false
		}
		if stmt != InvalidStmt {
			statements = append(statements, stmt)
		}
	}

	if scoped {
		p.symbols.LeaveScope()
	}

	stmt := p.tree.addStmt(Stmt{Loc: loc, Kind: Compound{Stmts: statements}})
	return stmt, p.expect(TokenBraceClose)
}

// parseDeclaratorList parses a local variable declaration statement. It
// reports failure without a diagnostic when the lookahead does not start
// a type, so the caller can fall back to an expression statement.
func (p *Parser) parseDeclaratorList() (StmtHandle, bool) {
	var declType Type
	loc := p.next.Loc

	if !p.parseType(&declType) {
		return InvalidStmt, false
	}

	var declarators []VarHandle
	count := 0

	for {
		if count > 0 && !p.expect(TokenComma) {
			return InvalidStmt, false
		}
		count++

		if !p.expect(TokenIdent) {
			return InvalidStmt, false
		}

		declarator, ok := p.parseVariableDeclaration(&declType, p.tok.Str, false)
		if !ok {
			return InvalidStmt, false
		}
		declarators = append(declarators, declarator)

		if p.peek(TokenSemicolon) {
			break
		}
	}

	return p.tree.addStmt(Stmt{Loc: loc, Kind: DeclaratorList{Declarators: declarators}}), true
}

// Declarations

func replaceScopeColons(name string) string {
	return strings.ReplaceAll(name, ":", "_")
}

func (p *Parser) parseTopLevel() bool {
	if p.peek(TokenNamespace) {
		return p.parseNamespace()
	}

	if p.peek(TokenStruct) {
		if _, ok := p.parseStruct(); !ok {
			return false
		}
		return p.expect(TokenSemicolon)
	}

	if p.peek(TokenTechnique) {
		tech, ok := p.parseTechnique()
		if !ok {
			return false
		}
		p.tree.Techniques = append(p.tree.Techniques, tech)
		return true
	}

	var declType Type
	if p.parseType(&declType) {
		if !p.expect(TokenIdent) {
			return false
		}

		if p.peek(TokenParenOpen) {
			fn, ok := p.parseFunctionDeclaration(declType, p.tok.Str)
			if !ok {
				return false
			}
			p.tree.Functions = append(p.tree.Functions, fn)
			return true
		}

		count := 0
		for {
			if count > 0 && (!p.expect(TokenComma) || !p.expect(TokenIdent)) {
				return false
			}
			count++

			variable, ok := p.parseVariableDeclaration(&declType, p.tok.Str, true)
			if !ok {
				p.consumeUntil(TokenSemicolon)
				return false
			}
			p.tree.Globals = append(p.tree.Globals, variable)

			if p.peek(TokenSemicolon) {
				break
			}
		}

		return p.expect(TokenSemicolon)
	}

	if !p.accept(TokenSemicolon) {
		p.consume()
		p.errorf(p.tok.Loc, 3000, "syntax error: unexpected '%s'", p.tok.Kind)
		return false
	}

	return true
}

func (p *Parser) parseNamespace() bool {
	if !p.accept(TokenNamespace) {
		return false
	}
	if !p.expect(TokenIdent) {
		return false
	}
	name := p.tok.Str
	if !p.expect(TokenBraceOpen) {
		return false
	}

	p.symbols.EnterNamespace(name)

	success := true
	for !p.peek(TokenBraceClose) && !p.peek(TokenEOF) {
		if !p.parseTopLevel() {
			success = false
			break
		}
	}

	p.symbols.LeaveNamespace()

	return success && p.expect(TokenBraceClose)
}

func (p *Parser) parseArray(length *int32) bool {
	*length = 0

	if p.accept(TokenBracketOpen) {
		if p.accept(TokenBracketClose) {
			*length = -1
			return true
		}

		expr, ok := p.parseExpression()
		if !ok || !p.expect(TokenBracketClose) {
			return false
		}

		e := p.tree.Expr(expr)
		lit, isLit := e.Kind.(Literal)
		if !isLit || !e.Type.IsScalar() || !e.Type.IsIntegral() {
			p.errorf(e.Loc, 3058, "array dimensions must be literal scalar expressions")
			return false
		}

		size := lit.Ints[0]
		if size < 1 || size > 65536 {
			p.errorf(e.Loc, 3059, "array dimension must be between 1 and 65536")
			return false
		}
		*length = int32(size)
	}

	return true
}

func (p *Parser) parseAnnotations(annotations *[]Annotation) bool {
	if !p.accept(TokenLess) {
		return true
	}

	for !p.peek(TokenGreater) && !p.peek(TokenEOF) {
		var prefix Type
		if p.acceptTypeClass(&prefix) {
			p.warningf(p.tok.Loc, 4717, "type prefixes for annotations are deprecated")
		}

		if !p.expect(TokenIdent) {
			return false
		}
		name := p.tok.Str

		if !p.expect(TokenEqual) {
			return false
		}
		expr, ok := p.parseExpressionUnary()
		if !ok || !p.expect(TokenSemicolon) {
			return false
		}

		e := p.tree.Expr(expr)
		lit, isLit := e.Kind.(Literal)
		if !isLit {
			p.errorf(e.Loc, 3011, "value must be a literal expression")
			continue
		}

		value := AnnotationValue{Kind: e.Type.Base}
		switch e.Type.Base {
		case TypeInt:
			value.Int = lit.Ints[0]
		case TypeBool, TypeUint:
			value.Kind = TypeUint
			value.Uint = uint64(lit.Ints[0])
		case TypeFloat:
			value.Float = lit.Floats[0]
		case TypeString:
			value.Str = lit.Str
		}

		*annotations = append(*annotations, Annotation{Name: name, Value: value})
	}

	return p.expect(TokenGreater)
}

func (p *Parser) parseStruct() (StructHandle, bool) {
	if !p.accept(TokenStruct) {
		return InvalidStruct, false
	}

	loc := p.tok.Loc
	h := p.tree.addStruct(Struct{Loc: loc})

	if p.accept(TokenIdent) {
		p.tree.Struct(h).Name = p.tok.Str

		if !p.symbols.Insert(p.tok.Str, Symbol{Kind: SymbolStruct, Index: uint32(h)}, true) {
			p.errorf(p.tok.Loc, 3003, "redefinition of '%s'", p.tok.Str)
			return InvalidStruct, false
		}
	} else {
		p.tree.Struct(h).Name = fmt.Sprintf("__anonymous_struct_%d_%d", loc.Line, loc.Column)
	}

	p.tree.Struct(h).UniqueName = replaceScopeColons("S" + p.symbols.CurrentScope().Name + p.tree.Struct(h).Name)

	if !p.expect(TokenBraceOpen) {
		return InvalidStruct, false
	}

	for !p.peek(TokenBraceClose) && !p.peek(TokenEOF) {
		var fieldType Type
		if !p.parseType(&fieldType) {
			p.errorf(p.next.Loc, 3000, "syntax error: unexpected '%s', expected struct member type", p.next.Kind)
			p.consumeUntil(TokenBraceClose)
			return InvalidStruct, false
		}

		if fieldType.IsVoid() {
			p.errorf(p.next.Loc, 3038, "struct members cannot be void")
			p.consumeUntil(TokenBraceClose)
			return InvalidStruct, false
		}
		if fieldType.HasQualifier(QualifierIn) || fieldType.HasQualifier(QualifierOut) {
			p.errorf(p.next.Loc, 3055, "struct members cannot be declared 'in' or 'out'")
			p.consumeUntil(TokenBraceClose)
			return InvalidStruct, false
		}

		count := 0
		for {
			if count > 0 && !p.expect(TokenComma) {
				p.consumeUntil(TokenBraceClose)
				return InvalidStruct, false
			}
			count++

			if !p.expect(TokenIdent) {
				p.consumeUntil(TokenBraceClose)
				return InvalidStruct, false
			}

			field := Variable{
				Loc:         p.tok.Loc,
				Name:        p.tok.Str,
				UniqueName:  p.tok.Str,
				Type:        fieldType,
				Initializer: InvalidExpr,
			}

			if !p.parseArray(&field.Type.ArrayLength) {
				return InvalidStruct, false
			}

			if p.accept(TokenColon) {
				if !p.expect(TokenIdent) {
					p.consumeUntil(TokenBraceClose)
					return InvalidStruct, false
				}
				field.Semantic = strings.ToUpper(p.tok.Str)
			}

			fh := p.tree.addVar(field)
			p.tree.Struct(h).Fields = append(p.tree.Struct(h).Fields, fh)

			if p.peek(TokenSemicolon) {
				break
			}
		}

		if !p.expect(TokenSemicolon) {
			p.consumeUntil(TokenBraceClose)
			return InvalidStruct, false
		}
	}

	if len(p.tree.Struct(h).Fields) == 0 {
		p.warningf(loc, 5001, "struct has no members")
	}

	p.tree.StructList = append(p.tree.StructList, h)

	return h, p.expect(TokenBraceClose)
}

func (p *Parser) parseFunctionDeclaration(returnType Type, name string) (FuncHandle, bool) {
	loc := p.tok.Loc

	if !p.expect(TokenParenOpen) {
		return InvalidFunc, false
	}

	if returnType.Qualifiers != 0 {
		p.errorf(loc, 3047, "function return type cannot have any qualifiers")
		return InvalidFunc, false
	}

	returnType.Qualifiers = QualifierConst
	h := p.tree.addFunc(Function{
		Loc:        loc,
		Name:       name,
		UniqueName: replaceScopeColons("F" + p.symbols.CurrentScope().Name + name),
		ReturnType: returnType,
		Body:       InvalidStmt,
	})

	p.symbols.Insert(name, Symbol{Kind: SymbolFunction, Index: uint32(h)}, true)
	p.symbols.EnterScope(h)
	defer p.symbols.LeaveScope()

	for !p.peek(TokenParenClose) && !p.peek(TokenEOF) {
		if len(p.tree.Func(h).Params) != 0 && !p.expect(TokenComma) {
			return InvalidFunc, false
		}

		param := Variable{Initializer: InvalidExpr}

		if !p.parseType(&param.Type) {
			p.errorf(p.next.Loc, 3000, "syntax error: unexpected '%s', expected parameter type", p.next.Kind)
			return InvalidFunc, false
		}

		if !p.expect(TokenIdent) {
			return InvalidFunc, false
		}

		param.Name = p.tok.Str
		param.UniqueName = p.tok.Str
		param.Loc = p.tok.Loc

		if param.Type.IsVoid() {
			p.errorf(param.Loc, 3038, "function parameters cannot be void")
			return InvalidFunc, false
		}
		if param.Type.HasQualifier(QualifierExtern) {
			p.errorf(param.Loc, 3006, "function parameters cannot be declared 'extern'")
			return InvalidFunc, false
		}
		if param.Type.HasQualifier(QualifierStatic) {
			p.errorf(param.Loc, 3007, "function parameters cannot be declared 'static'")
			return InvalidFunc, false
		}
		if param.Type.HasQualifier(QualifierUniform) {
			p.errorf(param.Loc, 3047, "function parameters cannot be declared 'uniform', consider placing in global scope instead")
			return InvalidFunc, false
		}

		if param.Type.HasQualifier(QualifierOut) {
			if param.Type.HasQualifier(QualifierConst) {
				p.errorf(param.Loc, 3046, "output parameters cannot be declared 'const'")
				return InvalidFunc, false
			}
		} else {
			param.Type.Qualifiers |= QualifierIn
		}

		if !p.parseArray(&param.Type.ArrayLength) {
			return InvalidFunc, false
		}

		if p.accept(TokenColon) {
			if !p.expect(TokenIdent) {
				return InvalidFunc, false
			}
			param.Semantic = strings.ToUpper(p.tok.Str)
		}

		ph := p.tree.addVar(param)
		if !p.symbols.Insert(param.Name, Symbol{Kind: SymbolVariable, Index: uint32(ph)}, false) {
			p.errorf(param.Loc, 3003, "redefinition of '%s'", param.Name)
			return InvalidFunc, false
		}

		p.tree.Func(h).Params = append(p.tree.Func(h).Params, ph)
	}

	if !p.expect(TokenParenClose) {
		return InvalidFunc, false
	}

	if p.accept(TokenColon) {
		if !p.expect(TokenIdent) {
			return InvalidFunc, false
		}
		p.tree.Func(h).ReturnSemantic = strings.ToUpper(p.tok.Str)

		if returnType.IsVoid() {
			p.errorf(p.tok.Loc, 3076, "void function cannot have a semantic")
			return InvalidFunc, false
		}
	}

	body, ok := p.parseStatementBlock(false)
	if !ok {
		return InvalidFunc, false
	}
	p.tree.Func(h).Body = body

	return h, true
}

//nolint:gocyclo // The declarator grammar carries every storage rule.
func (p *Parser) parseVariableDeclaration(declType *Type, name string, global bool) (VarHandle, bool) {
	loc := p.tok.Loc

	if declType.IsVoid() {
		p.errorf(loc, 3038, "variables cannot be void")
		return InvalidVar, false
	}
	if declType.HasQualifier(QualifierIn) || declType.HasQualifier(QualifierOut) {
		p.errorf(loc, 3055, "variables cannot be declared 'in' or 'out'")
		return InvalidVar, false
	}

	parent := p.symbols.CurrentParent()

	if parent == InvalidFunc {
		if !declType.HasQualifier(QualifierStatic) {
			if !declType.HasQualifier(QualifierUniform) && !declType.IsTexture() && !declType.IsSampler() {
				p.warningf(loc, 5000, "global variables are considered 'uniform' by default")
			}
			if declType.HasQualifier(QualifierConst) {
				p.errorf(loc, 3035, "variables which are 'uniform' cannot be declared 'const'")
				return InvalidVar, false
			}
			declType.Qualifiers |= QualifierExtern | QualifierUniform
		}
	} else {
		if declType.HasQualifier(QualifierExtern) {
			p.errorf(loc, 3006, "local variables cannot be declared 'extern'")
			return InvalidVar, false
		}
		if declType.HasQualifier(QualifierUniform) {
			p.errorf(loc, 3047, "local variables cannot be declared 'uniform'")
			return InvalidVar, false
		}
		if declType.IsTexture() || declType.IsSampler() {
			p.errorf(loc, 3038, "local variables cannot be textures or samplers")
			return InvalidVar, false
		}
	}

	if !p.parseArray(&declType.ArrayLength) {
		return InvalidVar, false
	}

	variable := Variable{
		Loc:         loc,
		Name:        name,
		Type:        *declType,
		Initializer: InvalidExpr,
	}

	if global {
		prefix := "V"
		if declType.HasQualifier(QualifierUniform) {
			prefix = "U"
		}
		variable.UniqueName = replaceScopeColons(prefix + p.symbols.CurrentScope().Name + name)
	} else {
		variable.UniqueName = name
	}

	if declType.IsTexture() || declType.IsSampler() {
		variable.Properties = defaultTextureProperties()
	}

	h := p.tree.addVar(variable)
	if !p.symbols.Insert(name, Symbol{Kind: SymbolVariable, Index: uint32(h)}, global) {
		p.errorf(loc, 3003, "redefinition of '%s'", name)
		return InvalidVar, false
	}

	if p.accept(TokenColon) {
		if !p.expect(TokenIdent) {
			return InvalidVar, false
		}
		p.tree.Var(h).Semantic = strings.ToUpper(p.tok.Str)
		return h, true
	}

	if global {
		var annotations []Annotation
		if !p.parseAnnotations(&annotations) {
			return InvalidVar, false
		}
		p.tree.Var(h).Annotations = annotations
	}

	if p.accept(TokenEqual) {
		loc = p.tok.Loc

		initializer, ok := p.parseVariableAssignment()
		if !ok {
			return InvalidVar, false
		}

		if parent == InvalidFunc {
			switch p.tree.Expr(initializer).Kind.(type) {
			case Literal, InitializerList:
			default:
				p.errorf(loc, 3011, "initial value must be a literal expression")
				return InvalidVar, false
			}
		}

		if list, isList := p.tree.Expr(initializer).Kind.(InitializerList); isList && declType.IsNumeric() {
			listType := p.tree.Expr(initializer).Type
			if listType.ArrayLength < declType.ArrayLength {
				zero := p.tree.addExpr(Expr{
					Loc: loc,
					Type: Type{
						Base: declType.Base, Rows: declType.Rows, Cols: declType.Cols,
						Qualifiers: QualifierConst, Definition: InvalidStruct,
					},
					Kind: Literal{},
				})
				for listType.ArrayLength < declType.ArrayLength {
					listType.ArrayLength++
					list.Values = append(list.Values, zero)
				}
				node := p.tree.Expr(initializer)
				node.Kind = list
				node.Type = listType
			}
		}

		initType := p.tree.Expr(initializer).Type
		if Rank(initType, *declType) == 0 {
			p.errorf(loc, 3017, "initial value does not match variable type")
			return InvalidVar, false
		}
		if (initType.Rows < declType.Rows || initType.Cols < declType.Cols) && !initType.IsScalar() {
			p.errorf(loc, 3017, "cannot implicitly convert these vector types")
			return InvalidVar, false
		}
		if initType.Rows > declType.Rows || initType.Cols > declType.Cols {
			p.warningf(loc, 3206, "implicit truncation of vector type")
		}

		p.tree.Var(h).Initializer = initializer
	} else if declType.IsNumeric() {
		if declType.HasQualifier(QualifierConst) {
			p.errorf(loc, 3012, "missing initial value for '%s'", name)
			return InvalidVar, false
		}
		if !declType.HasQualifier(QualifierUniform) && !declType.IsArray() {
			zeroType := *declType
			zeroType.Qualifiers = QualifierConst
			p.tree.Var(h).Initializer = p.tree.addExpr(Expr{Loc: loc, Type: zeroType, Kind: Literal{}})
		}
	} else if p.peek(TokenBraceOpen) {
		if !p.parseVariableProperties(h) {
			return InvalidVar, false
		}
	}

	if declType.IsSampler() {
		props := p.tree.Var(h).Properties
		if props == nil || props.Texture == InvalidVar {
			p.errorf(loc, 3012, "missing 'Texture' property for '%s'", name)
			return InvalidVar, false
		}
	}

	return h, true
}

func (p *Parser) parseVariableAssignment() (ExprHandle, bool) {
	if p.accept(TokenBraceOpen) {
		loc := p.tok.Loc
		var values []ExprHandle

		for !p.peek(TokenBraceClose) {
			if len(values) != 0 && !p.expect(TokenComma) {
				return InvalidExpr, false
			}
			if p.peek(TokenBraceClose) {
				break
			}

			value, ok := p.parseVariableAssignment()
			if !ok {
				p.consumeUntil(TokenBraceClose)
				return InvalidExpr, false
			}

			if list, isList := p.tree.Expr(value).Kind.(InitializerList); isList && len(list.Values) == 0 {
				continue
			}

			values = append(values, value)
		}

		var t Type
		t.Definition = InvalidStruct
		if len(values) != 0 {
			t = p.tree.Expr(values[0]).Type
			t.ArrayLength = int32(len(values))
		}

		node := p.tree.addExpr(Expr{Loc: loc, Type: t, Kind: InitializerList{Values: values}})
		return node, p.expect(TokenBraceClose)
	}

	return p.parseExpressionAssignment()
}

func (p *Parser) parseVariableProperties(variable VarHandle) bool {
	if !p.expect(TokenBraceOpen) {
		return false
	}

	props := p.tree.Var(variable).Properties
	if props == nil {
		props = defaultTextureProperties()
		p.tree.Var(variable).Properties = props
	}

	for !p.peek(TokenBraceClose) && !p.peek(TokenEOF) {
		if !p.expect(TokenIdent) {
			return false
		}

		name := p.tok.Str
		loc := p.tok.Loc

		if !p.expect(TokenEqual) {
			return false
		}
		value, ok := p.parsePropertyExpression()
		if !ok || !p.expect(TokenSemicolon) {
			return false
		}

		if name == "Texture" {
			lvalue, isLValue := p.tree.Expr(value).Kind.(LValue)
			if !isLValue || !p.tree.Var(lvalue.Var).Type.IsTexture() || p.tree.Var(lvalue.Var).Type.IsArray() {
				p.errorf(loc, 3020, "type mismatch, expected texture name")
				return false
			}
			props.Texture = lvalue.Var
			continue
		}

		e := p.tree.Expr(value)
		lit, isLit := e.Kind.(Literal)
		if !isLit {
			p.errorf(loc, 3011, "value must be a literal expression")
			return false
		}

		asUint := func() uint32 { return uint32(laneInt(&lit, e.Type, 0)) }
		asFloat := func() float32 { return laneFloat(&lit, e.Type, 0) }

		switch name {
		case "Width":
			props.Width = asUint()
		case "Height":
			props.Height = asUint()
		case "Depth":
			props.Depth = asUint()
		case "MipLevels":
			props.MipLevels = asUint()
			if props.MipLevels == 0 {
				p.warningf(loc, 0, "a texture cannot have 0 mipmap levels, changed it to 1")
				props.MipLevels = 1
			}
		case "Format":
			props.Format = TextureFormat(asUint())
		case "SRGBTexture", "SRGBReadEnable":
			props.SRGBTexture = lit.Ints[0] != 0
		case "AddressU":
			props.AddressU = TextureAddressMode(asUint())
		case "AddressV":
			props.AddressV = TextureAddressMode(asUint())
		case "AddressW":
			props.AddressW = TextureAddressMode(asUint())
		case "MinFilter":
			props.Filter = TextureFilter(uint32(props.Filter)&0x0F | (asUint()<<4)&0x30)
		case "MagFilter":
			props.Filter = TextureFilter(uint32(props.Filter)&0x33 | (asUint()<<2)&0x0C)
		case "MipFilter":
			props.Filter = TextureFilter(uint32(props.Filter)&0x3C | asUint()&0x03)
		case "MinLOD", "MaxMipLevel":
			props.MinLOD = asFloat()
		case "MaxLOD":
			props.MaxLOD = asFloat()
		case "MipLODBias", "MipMapLodBias":
			props.LodBias = asFloat()
		default:
			p.errorf(loc, 3004, "unrecognized property '%s'", name)
			return false
		}
	}

	return p.expect(TokenBraceClose)
}

// parsePropertyExpression first tries the symbolic value names (NONE,
// LINEAR, CLAMP, RGBA8, ...); on a miss it restores the input and falls
// back to general expression parsing.
func (p *Parser) parsePropertyExpression() (ExprHandle, bool) {
	p.backup()

	if p.accept(TokenIdent) {
		loc := p.tok.Loc
		if value, ok := propertyValueNames[strings.ToUpper(p.tok.Str)]; ok {
			node := p.newLiteralScalar(loc, TypeUint)
			lit := p.tree.Expr(node).Kind.(Literal)
			lit.Ints[0] = int64(value)
			p.tree.Expr(node).Kind = lit
			return node, true
		}

		p.restore()
	}

	return p.parseExpressionMultary(0)
}

func (p *Parser) parseTechnique() (Technique, bool) {
	if !p.accept(TokenTechnique) {
		return Technique{}, false
	}

	loc := p.tok.Loc

	if !p.expect(TokenIdent) {
		return Technique{}, false
	}

	tech := Technique{
		Loc:        loc,
		Name:       p.tok.Str,
		UniqueName: replaceScopeColons("T" + p.symbols.CurrentScope().Name + p.tok.Str),
	}

	if !p.parseAnnotations(&tech.Annotations) {
		return Technique{}, false
	}

	if !p.expect(TokenBraceOpen) {
		return Technique{}, false
	}

	for !p.peek(TokenBraceClose) && !p.peek(TokenEOF) {
		pass, ok := p.parseTechniquePass()
		if !ok {
			return Technique{}, false
		}

		p.tree.Passes = append(p.tree.Passes, pass)
		tech.Passes = append(tech.Passes, PassHandle(len(p.tree.Passes)-1))
	}

	return tech, p.expect(TokenBraceClose)
}

//nolint:gocyclo // One arm per recognized pass state.
func (p *Parser) parseTechniquePass() (Pass, bool) {
	if !p.expect(TokenPass) {
		return Pass{}, false
	}

	pass := Pass{Loc: p.tok.Loc, States: defaultPassStates()}

	if p.accept(TokenIdent) {
		pass.Name = p.tok.Str
	}

	if !p.expect(TokenBraceOpen) {
		return Pass{}, false
	}

	for !p.peek(TokenBraceClose) && !p.peek(TokenEOF) {
		if !p.expect(TokenIdent) {
			return Pass{}, false
		}

		state := p.tok.Str
		loc := p.tok.Loc

		if !p.expect(TokenEqual) {
			return Pass{}, false
		}
		sym, value, ok := p.parsePassExpression()
		if !ok || !p.expect(TokenSemicolon) {
			return Pass{}, false
		}

		switch {
		case state == "VertexShader" || state == "PixelShader":
			if sym.Kind != SymbolFunction {
				p.errorf(loc, 3020, "type mismatch, expected function name")
				return Pass{}, false
			}
			if state[0] == 'V' {
				pass.States.VertexShader = sym.FuncHandle()
			} else {
				pass.States.PixelShader = sym.FuncHandle()
			}

		case strings.HasPrefix(state, "RenderTarget") && (state == "RenderTarget" || (len(state) == 13 && state[12] >= '0' && state[12] < '8')):
			index := 0
			if len(state) == 13 {
				index = int(state[12] - '0')
			}

			if sym.Kind != SymbolVariable || !p.tree.Var(sym.VarHandle()).Type.IsTexture() || p.tree.Var(sym.VarHandle()).Type.IsArray() {
				p.errorf(loc, 3020, "type mismatch, expected texture name")
				return Pass{}, false
			}
			pass.States.RenderTargets[index] = sym.VarHandle()

		default:
			if value == InvalidExpr {
				p.errorf(loc, 3011, "pass state value must be a literal expression")
				return Pass{}, false
			}
			e := p.tree.Expr(value)
			lit, isLit := e.Kind.(Literal)
			if !isLit {
				p.errorf(loc, 3011, "pass state value must be a literal expression")
				return Pass{}, false
			}

			asUint := func() uint32 { return uint32(laneInt(&lit, e.Type, 0)) }

			switch state {
			case "SRGBWriteEnable":
				pass.States.SRGBWriteEnable = lit.Ints[0] != 0
			case "BlendEnable":
				pass.States.BlendEnable = lit.Ints[0] != 0
			case "StencilEnable":
				pass.States.StencilEnable = lit.Ints[0] != 0
			case "ClearRenderTargets":
				pass.States.ClearRenderTargets = lit.Ints[0] != 0
			case "RenderTargetWriteMask", "ColorWriteMask":
				pass.States.ColorWriteMask = uint8(asUint() & 0xFF)
			case "StencilReadMask", "StencilMask":
				pass.States.StencilReadMask = uint8(asUint() & 0xFF)
			case "StencilWriteMask":
				pass.States.StencilWriteMask = uint8(asUint() & 0xFF)
			case "BlendOp":
				pass.States.BlendOp = BlendOp(asUint())
			case "BlendOpAlpha":
				pass.States.BlendOpAlpha = BlendOp(asUint())
			case "SrcBlend":
				pass.States.SrcBlend = BlendFunc(asUint())
			case "DestBlend":
				pass.States.DestBlend = BlendFunc(asUint())
			case "StencilFunc":
				pass.States.StencilFunc = ComparisonFunc(asUint())
			case "StencilRef":
				pass.States.StencilRef = asUint()
			case "StencilPass", "StencilPassOp":
				pass.States.StencilOpPass = StencilOp(asUint())
			case "StencilFail", "StencilFailOp":
				pass.States.StencilOpFail = StencilOp(asUint())
			case "StencilZFail", "StencilDepthFail", "StencilDepthFailOp":
				pass.States.StencilOpDepthFail = StencilOp(asUint())
			default:
				p.errorf(loc, 3004, "unrecognized pass state '%s'", state)
				return Pass{}, false
			}
		}
	}

	return pass, p.expect(TokenBraceClose)
}

// parsePassExpression parses the right-hand side of a pass state: a
// symbolic enum (resolved first), an identifier naming a function or
// variable, or a literal expression. When a function or variable symbol
// is found it is returned directly; expression results come back as a
// node handle.
func (p *Parser) parsePassExpression() (Symbol, ExprHandle, bool) {
	var scope Scope
	exclusive := false

	if p.accept(TokenColonColon) {
		scope = Scope{Name: "::"}
		exclusive = true
	} else {
		scope = p.symbols.CurrentScope()
	}

	haveIdent := false
	if exclusive {
		if !p.expect(TokenIdent) {
			return Symbol{}, InvalidExpr, false
		}
		haveIdent = true
	} else if p.accept(TokenIdent) {
		haveIdent = true
	}

	if haveIdent {
		identifier := p.tok.Str
		loc := p.tok.Loc

		if value, ok := passValueNames[strings.ToUpper(identifier)]; ok {
			node := p.newLiteralScalar(loc, TypeUint)
			lit := p.tree.Expr(node).Kind.(Literal)
			lit.Ints[0] = int64(value)
			p.tree.Expr(node).Kind = lit
			return Symbol{}, node, true
		}

		for p.accept(TokenColonColon) {
			if !p.expect(TokenIdent) {
				return Symbol{}, InvalidExpr, false
			}
			identifier += "::" + p.tok.Str
		}

		symbol := p.symbols.FindIn(identifier, scope, exclusive)
		if symbol.Kind == SymbolNone {
			p.errorf(loc, 3004, "undeclared identifier '%s'", identifier)
			return Symbol{}, InvalidExpr, false
		}

		value := InvalidExpr
		if symbol.Kind == SymbolVariable {
			value = p.tree.addExpr(Expr{
				Loc:  loc,
				Type: p.tree.Var(symbol.VarHandle()).Type,
				Kind: LValue{Var: symbol.VarHandle()},
			})
		}

		return symbol, value, true
	}

	value, ok := p.parseExpressionMultary(0)
	return Symbol{}, value, ok
}
