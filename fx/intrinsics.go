package fx

// IntrinsicOp identifies a built-in function after overload resolution.
type IntrinsicOp uint8

const (
	IntrinsicNone IntrinsicOp = iota
	IntrinsicAbs
	IntrinsicAcos
	IntrinsicAll
	IntrinsicAny
	IntrinsicAsin
	IntrinsicAtan
	IntrinsicAtan2
	IntrinsicBitcastFloat2Int
	IntrinsicBitcastFloat2Uint
	IntrinsicBitcastInt2Float
	IntrinsicBitcastUint2Float
	IntrinsicCeil
	IntrinsicClamp
	IntrinsicCos
	IntrinsicCosh
	IntrinsicCross
	IntrinsicDdx
	IntrinsicDdy
	IntrinsicDegrees
	IntrinsicDeterminant
	IntrinsicDistance
	IntrinsicDot
	IntrinsicExp
	IntrinsicExp2
	IntrinsicFaceforward
	IntrinsicFloor
	IntrinsicFrac
	IntrinsicFrexp
	IntrinsicFwidth
	IntrinsicLdexp
	IntrinsicLength
	IntrinsicLerp
	IntrinsicLog
	IntrinsicLog10
	IntrinsicLog2
	IntrinsicMad
	IntrinsicMax
	IntrinsicMin
	IntrinsicModf
	IntrinsicMul
	IntrinsicNormalize
	IntrinsicPow
	IntrinsicRadians
	IntrinsicRcp
	IntrinsicReflect
	IntrinsicRefract
	IntrinsicRound
	IntrinsicRsqrt
	IntrinsicSaturate
	IntrinsicSign
	IntrinsicSin
	IntrinsicSincos
	IntrinsicSinh
	IntrinsicSmoothstep
	IntrinsicSqrt
	IntrinsicStep
	IntrinsicTan
	IntrinsicTanh
	IntrinsicTex2D
	IntrinsicTex2DFetch
	IntrinsicTex2DGather
	IntrinsicTex2DGatherOffset
	IntrinsicTex2DGrad
	IntrinsicTex2DLod
	IntrinsicTex2DLodOffset
	IntrinsicTex2DOffset
	IntrinsicTex2DProj
	IntrinsicTex2DSize
	IntrinsicTranspose
	IntrinsicTrunc
)

// intrinsicOverload is one entry of the built-in function catalog: a
// name, the lowered op, and the signature by shape. The catalog is
// immutable and shared between compilations.
type intrinsicOverload struct {
	name   string
	op     IntrinsicOp
	ret    Type
	params []Type
}

func scalarTy(base BaseType) Type {
	return Type{Base: base, Rows: 1, Cols: 1, Definition: InvalidStruct}
}

func shapeTy(base BaseType, rows, cols uint8) Type {
	return Type{Base: base, Rows: rows, Cols: cols, Definition: InvalidStruct}
}

var intrinsics = buildIntrinsics()

func buildIntrinsics() []intrinsicOverload {
	var table []intrinsicOverload

	// Component-wise float functions, one overload per vector width.
	unary := func(name string, op IntrinsicOp) {
		for n := uint8(1); n <= 4; n++ {
			t := shapeTy(TypeFloat, n, 1)
			table = append(table, intrinsicOverload{name, op, t, []Type{t}})
		}
	}
	binary := func(name string, op IntrinsicOp) {
		for n := uint8(1); n <= 4; n++ {
			t := shapeTy(TypeFloat, n, 1)
			table = append(table, intrinsicOverload{name, op, t, []Type{t, t}})
		}
	}
	ternary := func(name string, op IntrinsicOp) {
		for n := uint8(1); n <= 4; n++ {
			t := shapeTy(TypeFloat, n, 1)
			table = append(table, intrinsicOverload{name, op, t, []Type{t, t, t}})
		}
	}
	// Reductions with a scalar float result.
	horizontal := func(name string, op IntrinsicOp, argCount int) {
		for n := uint8(1); n <= 4; n++ {
			t := shapeTy(TypeFloat, n, 1)
			args := make([]Type, argCount)
			for i := range args {
				args[i] = t
			}
			table = append(table, intrinsicOverload{name, op, scalarTy(TypeFloat), args})
		}
	}
	bitcast := func(name string, op IntrinsicOp, from, to BaseType) {
		for n := uint8(1); n <= 4; n++ {
			table = append(table, intrinsicOverload{name, op, shapeTy(to, n, 1), []Type{shapeTy(from, n, 1)}})
		}
	}

	unary("abs", IntrinsicAbs)
	unary("acos", IntrinsicAcos)
	for n := uint8(1); n <= 4; n++ {
		table = append(table, intrinsicOverload{"all", IntrinsicAll, scalarTy(TypeBool), []Type{shapeTy(TypeBool, n, 1)}})
	}
	for n := uint8(1); n <= 4; n++ {
		table = append(table, intrinsicOverload{"any", IntrinsicAny, scalarTy(TypeBool), []Type{shapeTy(TypeBool, n, 1)}})
	}
	bitcast("asfloat", IntrinsicBitcastInt2Float, TypeInt, TypeFloat)
	bitcast("asfloat", IntrinsicBitcastUint2Float, TypeUint, TypeFloat)
	unary("asin", IntrinsicAsin)
	bitcast("asint", IntrinsicBitcastFloat2Int, TypeFloat, TypeInt)
	bitcast("asuint", IntrinsicBitcastFloat2Uint, TypeFloat, TypeUint)
	unary("atan", IntrinsicAtan)
	binary("atan2", IntrinsicAtan2)
	unary("ceil", IntrinsicCeil)
	ternary("clamp", IntrinsicClamp)
	unary("cos", IntrinsicCos)
	unary("cosh", IntrinsicCosh)
	f3 := shapeTy(TypeFloat, 3, 1)
	table = append(table, intrinsicOverload{"cross", IntrinsicCross, f3, []Type{f3, f3}})
	unary("ddx", IntrinsicDdx)
	unary("ddy", IntrinsicDdy)
	unary("degrees", IntrinsicDegrees)
	for n := uint8(2); n <= 4; n++ {
		table = append(table, intrinsicOverload{"determinant", IntrinsicDeterminant, scalarTy(TypeFloat), []Type{shapeTy(TypeFloat, n, n)}})
	}
	horizontal("distance", IntrinsicDistance, 2)
	horizontal("dot", IntrinsicDot, 2)
	unary("exp", IntrinsicExp)
	unary("exp2", IntrinsicExp2)
	ternary("faceforward", IntrinsicFaceforward)
	unary("floor", IntrinsicFloor)
	unary("frac", IntrinsicFrac)
	binary("frexp", IntrinsicFrexp)
	unary("fwidth", IntrinsicFwidth)
	binary("ldexp", IntrinsicLdexp)
	horizontal("length", IntrinsicLength, 1)
	ternary("lerp", IntrinsicLerp)
	unary("log", IntrinsicLog)
	unary("log10", IntrinsicLog10)
	unary("log2", IntrinsicLog2)
	ternary("mad", IntrinsicMad)
	binary("max", IntrinsicMax)
	binary("min", IntrinsicMin)
	binary("modf", IntrinsicModf)

	// mul covers the scalar*vector, scalar*matrix, vector*matrix and
	// matrix*vector shape combinations.
	f1 := scalarTy(TypeFloat)
	table = append(table, intrinsicOverload{"mul", IntrinsicMul, f1, []Type{f1, f1}})
	for n := uint8(2); n <= 4; n++ {
		vec := shapeTy(TypeFloat, n, 1)
		mat := shapeTy(TypeFloat, n, n)
		table = append(table,
			intrinsicOverload{"mul", IntrinsicMul, vec, []Type{f1, vec}},
			intrinsicOverload{"mul", IntrinsicMul, vec, []Type{vec, f1}},
			intrinsicOverload{"mul", IntrinsicMul, mat, []Type{f1, mat}},
			intrinsicOverload{"mul", IntrinsicMul, mat, []Type{mat, f1}},
			intrinsicOverload{"mul", IntrinsicMul, vec, []Type{vec, mat}},
			intrinsicOverload{"mul", IntrinsicMul, vec, []Type{mat, vec}},
		)
	}

	unary("normalize", IntrinsicNormalize)
	binary("pow", IntrinsicPow)
	unary("radians", IntrinsicRadians)
	unary("rcp", IntrinsicRcp)
	binary("reflect", IntrinsicReflect)
	ternary("refract", IntrinsicRefract)
	unary("round", IntrinsicRound)
	unary("rsqrt", IntrinsicRsqrt)
	unary("saturate", IntrinsicSaturate)
	for n := uint8(1); n <= 4; n++ {
		table = append(table, intrinsicOverload{"sign", IntrinsicSign, shapeTy(TypeInt, n, 1), []Type{shapeTy(TypeFloat, n, 1)}})
	}
	unary("sin", IntrinsicSin)
	for n := uint8(1); n <= 4; n++ {
		t := shapeTy(TypeFloat, n, 1)
		table = append(table, intrinsicOverload{"sincos", IntrinsicSincos, Type{Base: TypeVoid}, []Type{t, t, t}})
	}
	unary("sinh", IntrinsicSinh)
	ternary("smoothstep", IntrinsicSmoothstep)
	unary("sqrt", IntrinsicSqrt)
	binary("step", IntrinsicStep)
	unary("tan", IntrinsicTan)
	unary("tanh", IntrinsicTanh)

	sampler := Type{Base: TypeSampler}
	f2 := shapeTy(TypeFloat, 2, 1)
	f4 := shapeTy(TypeFloat, 4, 1)
	i1 := scalarTy(TypeInt)
	i2 := shapeTy(TypeInt, 2, 1)
	i4 := shapeTy(TypeInt, 4, 1)
	table = append(table,
		intrinsicOverload{"tex2D", IntrinsicTex2D, f4, []Type{sampler, f2}},
		intrinsicOverload{"tex2Dfetch", IntrinsicTex2DFetch, f4, []Type{sampler, i4}},
		intrinsicOverload{"tex2Dgather", IntrinsicTex2DGather, f4, []Type{sampler, f2, i1}},
		intrinsicOverload{"tex2Dgatheroffset", IntrinsicTex2DGatherOffset, f4, []Type{sampler, f2, i2, i1}},
		intrinsicOverload{"tex2Dgrad", IntrinsicTex2DGrad, f4, []Type{sampler, f2, f2, f2}},
		intrinsicOverload{"tex2Dlod", IntrinsicTex2DLod, f4, []Type{sampler, f4}},
		intrinsicOverload{"tex2Dlodoffset", IntrinsicTex2DLodOffset, f4, []Type{sampler, f4, i2}},
		intrinsicOverload{"tex2Doffset", IntrinsicTex2DOffset, f4, []Type{sampler, f2, i2}},
		intrinsicOverload{"tex2Dproj", IntrinsicTex2DProj, f4, []Type{sampler, f4}},
		intrinsicOverload{"tex2Dsize", IntrinsicTex2DSize, i2, []Type{sampler, i1}},
	)

	for n := uint8(2); n <= 4; n++ {
		mat := shapeTy(TypeFloat, n, n)
		table = append(table, intrinsicOverload{"transpose", IntrinsicTranspose, mat, []Type{mat}})
	}
	unary("trunc", IntrinsicTrunc)

	return table
}
