package fx

import "math"

// foldConstant reduces an expression whose operands are all literals to
// a single literal node, preserving the numeric semantics of
// mixed-precision vector arithmetic (int64 lanes for integer math,
// float32 lanes for floating math). Expressions with non-literal
// operands are returned unchanged. Folded literals carry the const
// qualifier.
func foldConstant(tree *Tree, h ExprHandle) ExprHandle {
	expr := tree.Expr(h)

	switch kind := expr.Kind.(type) {
	case Unary:
		return foldUnary(tree, h, kind)
	case Binary:
		return foldBinary(tree, h, kind)
	case Intrinsic:
		return foldIntrinsic(tree, h, kind)
	case Constructor:
		return foldConstructor(tree, h, kind)
	case Swizzle:
		return foldSwizzle(tree, h, kind)
	case LValue:
		return foldLValue(tree, h, kind)
	}

	return h
}

func literalAt(tree *Tree, h ExprHandle) (Literal, Type, bool) {
	if h == InvalidExpr {
		return Literal{}, Type{}, false
	}
	e := tree.Expr(h)
	lit, ok := e.Kind.(Literal)
	return lit, e.Type, ok
}

func isIntegralLane(base BaseType) bool {
	return base == TypeBool || base == TypeInt || base == TypeUint
}

// laneInt reads lane i of a literal as an integer, truncating floating
// lanes towards zero.
func laneInt(lit *Literal, t Type, i int) int64 {
	if t.Base == TypeFloat {
		return int64(lit.Floats[i])
	}
	return lit.Ints[i]
}

// laneFloat reads lane i of a literal as a float.
func laneFloat(lit *Literal, t Type, i int) float32 {
	switch t.Base {
	case TypeFloat:
		return lit.Floats[i]
	case TypeUint:
		return float32(uint64(lit.Ints[i]))
	default:
		return float32(lit.Ints[i])
	}
}

// castLane converts lane j of the source literal into lane k of the
// destination, following the destination base type.
func castLane(from *Literal, fromType Type, j int, to *Literal, toType Type, k int) {
	switch toType.Base {
	case TypeBool, TypeInt, TypeUint:
		to.Ints[k] = laneInt(from, fromType, j)
	case TypeFloat:
		to.Floats[k] = laneFloat(from, fromType, j)
	default:
		*to = *from
	}
}

// storeFolded replaces the node at h with the literal and stamps the
// result type.
func storeFolded(tree *Tree, h ExprHandle, lit Literal, t Type) ExprHandle {
	t.Qualifiers |= QualifierConst
	node := tree.Expr(h)
	node.Kind = lit
	node.Type = t
	return h
}

func foldUnary(tree *Tree, h ExprHandle, kind Unary) ExprHandle {
	operand, operandType, ok := literalAt(tree, kind.Operand)
	if !ok {
		return h
	}
	resultType := tree.Expr(h).Type
	count := int(operandType.ComponentCount())

	switch kind.Op {
	case UnaryNegate:
		return storeFolded(tree, kind.Operand, mapLanes(operand, operandType, resultType, count,
			func(x int64) int64 { return -x },
			func(x float64) float64 { return -x }), resultType)

	case UnaryBitwiseNot:
		for i := 0; i < count; i++ {
			operand.Ints[i] = ^operand.Ints[i]
		}
		return storeFolded(tree, kind.Operand, operand, resultType)

	case UnaryLogicalNot:
		for i := 0; i < count; i++ {
			zero := operand.Ints[i] == 0
			if operandType.Base == TypeFloat {
				zero = operand.Floats[i] == 0
			}
			if zero {
				operand.Ints[i] = 1
			} else {
				operand.Ints[i] = 0
			}
			operand.Floats[i] = 0
		}
		resultType.Base = TypeBool
		return storeFolded(tree, kind.Operand, operand, resultType)

	case UnaryCast:
		var out Literal
		out.Str = operand.Str
		size := count
		if n := int(resultType.ComponentCount()); n < size {
			size = n
		}
		for i := 0; i < size; i++ {
			castLane(&operand, operandType, i, &out, resultType, i)
		}
		return storeFolded(tree, kind.Operand, out, resultType)
	}

	return h
}

// mapLanes applies a scalar function element-wise, keeping integer lanes
// in the integer domain when both the operand and the result are
// integral.
func mapLanes(operand Literal, operandType, resultType Type, count int, intF func(int64) int64, floatF func(float64) float64) Literal {
	var out Literal
	for i := 0; i < count; i++ {
		if isIntegralLane(operandType.Base) {
			if isIntegralLane(resultType.Base) {
				if intF != nil {
					out.Ints[i] = intF(operand.Ints[i])
				} else {
					out.Ints[i] = int64(floatF(float64(operand.Ints[i])))
				}
			} else {
				out.Floats[i] = float32(floatF(float64(operand.Ints[i])))
			}
		} else {
			if isIntegralLane(resultType.Base) {
				out.Ints[i] = int64(floatF(float64(operand.Floats[i])))
			} else {
				out.Floats[i] = float32(floatF(float64(operand.Floats[i])))
			}
		}
	}
	return out
}

func foldBinary(tree *Tree, h ExprHandle, kind Binary) ExprHandle {
	left, leftType, ok := literalAt(tree, kind.LHS)
	if !ok {
		return h
	}
	right, rightType, ok := literalAt(tree, kind.RHS)
	if !ok {
		return h
	}

	resultType := tree.Expr(h).Type
	count := int(resultType.ComponentCount())
	leftScalar := leftType.ComponentCount() == 1
	rightScalar := rightType.ComponentCount() == 1

	li := func(i int) int {
		if leftScalar {
			return 0
		}
		return i
	}
	ri := func(i int) int {
		if rightScalar {
			return 0
		}
		return i
	}

	bothIntegral := isIntegralLane(leftType.Base) && isIntegralLane(rightType.Base)

	arith := func(intF func(a, b int64) int64, floatF func(a, b float64) float64) ExprHandle {
		var out Literal
		for i := 0; i < count; i++ {
			if bothIntegral {
				out.Ints[i] = intF(left.Ints[li(i)], right.Ints[ri(i)])
			} else {
				a := float64(laneFloat(&left, leftType, li(i)))
				b := float64(laneFloat(&right, rightType, ri(i)))
				out.Floats[i] = float32(floatF(a, b))
			}
		}
		return storeFolded(tree, kind.LHS, out, resultType)
	}

	boolean := func(intF func(a, b int64) bool, floatF func(a, b float64) bool) ExprHandle {
		var out Literal
		for i := 0; i < count; i++ {
			var truth bool
			if bothIntegral {
				truth = intF(left.Ints[li(i)], right.Ints[ri(i)])
			} else {
				a := float64(laneFloat(&left, leftType, li(i)))
				b := float64(laneFloat(&right, rightType, ri(i)))
				truth = floatF(a, b)
			}
			if truth {
				out.Ints[i] = 1
			}
		}
		resultType.Base = TypeBool
		return storeFolded(tree, kind.LHS, out, resultType)
	}

	integer := func(f func(a, b int64) int64) ExprHandle {
		var out Literal
		for i := 0; i < count; i++ {
			out.Ints[i] = f(left.Ints[li(i)], right.Ints[ri(i)])
		}
		return storeFolded(tree, kind.LHS, out, resultType)
	}

	switch kind.Op {
	case BinaryAdd:
		return arith(func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
	case BinarySubtract:
		return arith(func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
	case BinaryMultiply:
		return arith(func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
	case BinaryDivide:
		// A literal zero divisor keeps the expression unfolded so the
		// runtime behavior is preserved. Only lane 0 is inspected.
		if rightType.Base == TypeFloat {
			if right.Floats[0] == 0 {
				return h
			}
		} else if right.Ints[0] == 0 {
			return h
		}
		return arith(func(a, b int64) int64 { return a / b }, func(a, b float64) float64 { return a / b })
	case BinaryModulo:
		return arith(func(a, b int64) int64 {
			if b == 0 {
				return 0
			}
			return int64(math.Mod(float64(a), float64(b)))
		}, math.Mod)
	case BinaryLess:
		return boolean(func(a, b int64) bool { return a < b }, func(a, b float64) bool { return a < b })
	case BinaryGreater:
		return boolean(func(a, b int64) bool { return a > b }, func(a, b float64) bool { return a > b })
	case BinaryLessEqual:
		return boolean(func(a, b int64) bool { return a <= b }, func(a, b float64) bool { return a <= b })
	case BinaryGreaterEqual:
		return boolean(func(a, b int64) bool { return a >= b }, func(a, b float64) bool { return a >= b })
	case BinaryEqual:
		return boolean(func(a, b int64) bool { return a == b }, func(a, b float64) bool { return a == b })
	case BinaryNotEqual:
		return boolean(func(a, b int64) bool { return a != b }, func(a, b float64) bool { return a != b })
	case BinaryLogicalAnd:
		return boolean(func(a, b int64) bool { return a != 0 && b != 0 }, func(a, b float64) bool { return a != 0 && b != 0 })
	case BinaryLogicalOr:
		return boolean(func(a, b int64) bool { return a != 0 || b != 0 }, func(a, b float64) bool { return a != 0 || b != 0 })
	case BinaryLeftShift:
		return integer(func(a, b int64) int64 {
			if b < 0 || b >= 64 {
				return 0
			}
			return a << uint(b)
		})
	case BinaryRightShift:
		return integer(func(a, b int64) int64 {
			if b < 0 || b >= 64 {
				return 0
			}
			return a >> uint(b)
		})
	case BinaryBitwiseAnd:
		return integer(func(a, b int64) int64 { return a & b })
	case BinaryBitwiseOr:
		return integer(func(a, b int64) int64 { return a | b })
	case BinaryBitwiseXor:
		return integer(func(a, b int64) int64 { return a ^ b })
	}

	return h
}

func foldIntrinsic(tree *Tree, h ExprHandle, kind Intrinsic) ExprHandle {
	// Only the math set over the first two arguments folds.
	for i, arg := range kind.Args {
		if i >= 3 {
			break
		}
		if _, _, ok := literalAt(tree, arg); !ok {
			return h
		}
	}

	unary := map[IntrinsicOp]func(float64) float64{
		IntrinsicAbs:   math.Abs,
		IntrinsicSin:   math.Sin,
		IntrinsicSinh:  math.Sinh,
		IntrinsicCos:   math.Cos,
		IntrinsicCosh:  math.Cosh,
		IntrinsicTan:   math.Tan,
		IntrinsicTanh:  math.Tanh,
		IntrinsicAsin:  math.Asin,
		IntrinsicAcos:  math.Acos,
		IntrinsicAtan:  math.Atan,
		IntrinsicExp:   math.Exp,
		IntrinsicLog:   math.Log,
		IntrinsicLog10: math.Log10,
		IntrinsicSqrt:  math.Sqrt,
		IntrinsicCeil:  math.Ceil,
		IntrinsicFloor: math.Floor,
	}
	binary := map[IntrinsicOp]func(a, b float64) float64{
		IntrinsicAtan2: math.Atan2,
		IntrinsicPow:   math.Pow,
		IntrinsicMin:   math.Min,
		IntrinsicMax:   math.Max,
	}

	resultType := tree.Expr(h).Type

	if f, ok := unary[kind.Op]; ok && len(kind.Args) >= 1 {
		operand, operandType, _ := literalAt(tree, kind.Args[0])
		count := int(operandType.ComponentCount())
		var intF func(int64) int64
		if kind.Op == IntrinsicAbs {
			intF = func(x int64) int64 {
				if x < 0 {
					return -x
				}
				return x
			}
		}
		return storeFolded(tree, kind.Args[0], mapLanes(operand, operandType, resultType, count, intF, f), resultType)
	}

	if f, ok := binary[kind.Op]; ok && len(kind.Args) >= 2 {
		left, leftType, _ := literalAt(tree, kind.Args[0])
		right, rightType, _ := literalAt(tree, kind.Args[1])
		count := int(resultType.ComponentCount())
		leftScalar := leftType.ComponentCount() == 1
		rightScalar := rightType.ComponentCount() == 1

		bothIntegral := isIntegralLane(leftType.Base) && isIntegralLane(rightType.Base)
		var out Literal
		for i := 0; i < count; i++ {
			li, ri := i, i
			if leftScalar {
				li = 0
			}
			if rightScalar {
				ri = 0
			}
			a := float64(laneFloat(&left, leftType, li))
			b := float64(laneFloat(&right, rightType, ri))
			if bothIntegral && isIntegralLane(resultType.Base) {
				out.Ints[i] = int64(f(a, b))
			} else {
				out.Floats[i] = float32(f(a, b))
			}
		}
		return storeFolded(tree, kind.Args[0], out, resultType)
	}

	return h
}

func foldConstructor(tree *Tree, h ExprHandle, kind Constructor) ExprHandle {
	for _, arg := range kind.Args {
		if _, _, ok := literalAt(tree, arg); !ok {
			return h
		}
	}

	expr := tree.Expr(h)
	resultType := expr.Type
	loc := expr.Loc

	var out Literal
	k := 0
	for _, arg := range kind.Args {
		lit, litType, _ := literalAt(tree, arg)
		for j := 0; j < int(litType.ComponentCount()); j++ {
			castLane(&lit, litType, j, &out, resultType, k)
			k++
		}
	}

	resultType.Qualifiers |= QualifierConst
	return tree.addExpr(Expr{Loc: loc, Type: resultType, Kind: out})
}

func foldSwizzle(tree *Tree, h ExprHandle, kind Swizzle) ExprHandle {
	operand, operandType, ok := literalAt(tree, kind.Operand)
	if !ok {
		return h
	}

	expr := tree.Expr(h)
	resultType := expr.Type
	loc := expr.Loc

	var out Literal
	for i := 0; i < int(resultType.ComponentCount()); i++ {
		m := int(kind.Mask[i])
		if m < 0 {
			break
		}
		// Matrix masks encode row*4+col; literal lanes are row-major
		// over the actual column count.
		if operandType.IsMatrix() {
			m = (m/4)*int(operandType.Cols) + m%4
		}
		out.Ints[i] = operand.Ints[m]
		out.Floats[i] = operand.Floats[m]
	}

	resultType.Qualifiers |= QualifierConst
	return tree.addExpr(Expr{Loc: loc, Type: resultType, Kind: out})
}

func foldLValue(tree *Tree, h ExprHandle, kind LValue) ExprHandle {
	variable := tree.Var(kind.Var)
	if variable.Initializer == InvalidExpr || !variable.Type.HasQualifier(QualifierConst) {
		return h
	}
	init, initType, ok := literalAt(tree, variable.Initializer)
	if !ok {
		return h
	}

	expr := tree.Expr(h)
	resultType := expr.Type
	loc := expr.Loc

	var out Literal
	size := int(initType.ComponentCount())
	if n := int(resultType.ComponentCount()); n < size {
		size = n
	}
	for i := 0; i < size; i++ {
		castLane(&init, initType, i, &out, resultType, i)
	}

	resultType.Qualifiers |= QualifierConst
	return tree.addExpr(Expr{Loc: loc, Type: resultType, Kind: out})
}
