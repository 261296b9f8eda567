package fx

// BaseType enumerates the fundamental type classes of the language.
type BaseType uint8

const (
	TypeVoid BaseType = iota
	TypeBool
	TypeInt
	TypeUint
	TypeFloat
	TypeString
	TypeTexture
	TypeSampler
	TypeStruct
)

// String returns the source spelling of the base type.
func (b BaseType) String() string {
	switch b {
	case TypeVoid:
		return "void"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeUint:
		return "uint"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeTexture:
		return "texture"
	case TypeSampler:
		return "sampler"
	case TypeStruct:
		return "struct"
	}
	return "unknown"
}

// Qualifier is a bitset of storage, parameter and interpolation
// qualifiers.
type Qualifier uint32

const (
	QualifierExtern Qualifier = 1 << iota
	QualifierStatic
	QualifierUniform
	QualifierVolatile
	QualifierPrecise
	QualifierIn
	QualifierOut
	QualifierConst
	QualifierLinear
	QualifierNoPerspective
	QualifierCentroid
	QualifierNoInterpolation

	QualifierInOut = QualifierIn | QualifierOut
)

// Type describes the type of an expression or declaration. Scalars are
// 1x1, vectors Nx1, matrices NxM; non-numeric types have zero rows and
// columns. ArrayLength is 0 for non-arrays, -1 for unsized arrays and
// the element count otherwise. Definition references the struct
// declaration when Base is TypeStruct.
type Type struct {
	Base        BaseType
	Rows, Cols  uint8
	ArrayLength int32
	Qualifiers  Qualifier
	Definition  StructHandle
}

func (t Type) IsVoid() bool     { return t.Base == TypeVoid }
func (t Type) IsBool() bool     { return t.Base == TypeBool }
func (t Type) IsScalar() bool   { return t.Rows == 1 && t.Cols == 1 }
func (t Type) IsVector() bool   { return t.Rows >= 2 && t.Rows <= 4 && t.Cols == 1 }
func (t Type) IsMatrix() bool   { return t.Rows >= 2 && t.Rows <= 4 && t.Cols >= 2 && t.Cols <= 4 }
func (t Type) IsArray() bool    { return t.ArrayLength != 0 }
func (t Type) IsStruct() bool   { return t.Base == TypeStruct }
func (t Type) IsTexture() bool  { return t.Base == TypeTexture }
func (t Type) IsSampler() bool  { return t.Base == TypeSampler }
func (t Type) IsIntegral() bool { return t.Base == TypeInt || t.Base == TypeUint }
func (t Type) IsFloating() bool { return t.Base == TypeFloat }

func (t Type) IsNumeric() bool {
	return t.Base == TypeBool || t.Base == TypeInt || t.Base == TypeUint || t.Base == TypeFloat
}

// HasQualifier reports whether all bits of q are set.
func (t Type) HasQualifier(q Qualifier) bool { return t.Qualifiers&q == q }

// ComponentCount is the number of scalar lanes of the shape, ignoring
// array dimensions.
func (t Type) ComponentCount() uint32 { return uint32(t.Rows) * uint32(t.Cols) }

// Cost of converting between numeric base types, indexed by
// [dst-bool][src-bool]. Promotions (bool -> int -> uint -> float) are
// cheaper than demotions; demotions remain legal.
var baseTypeRanks = [4][4]uint32{
	{0, 5, 5, 5},
	{4, 0, 3, 5},
	{4, 2, 0, 5},
	{4, 4, 4, 0},
}

// Rank measures the cost of converting src into dst for overload
// resolution. Zero means the conversion is impossible; otherwise lower
// is better. An exact match is 1; a base-type conversion contributes the
// table cost shifted left two bits; broadcasting a scalar to a vector
// ORs in 2 and truncating a vector ORs in 32.
func Rank(src, dst Type) uint32 {
	if src.IsArray() != dst.IsArray() || (src.ArrayLength != dst.ArrayLength && src.ArrayLength > 0 && dst.ArrayLength > 0) {
		return 0
	}
	if src.IsStruct() || dst.IsStruct() {
		if src.Definition == dst.Definition {
			return 1
		}
		return 0
	}
	if src.Base == dst.Base && src.Rows == dst.Rows && src.Cols == dst.Cols {
		return 1
	}
	if !src.IsNumeric() || !dst.IsNumeric() {
		return 0
	}

	rank := baseTypeRanks[dst.Base-TypeBool][src.Base-TypeBool] << 2

	if src.IsScalar() && dst.IsVector() {
		return rank | 2
	}
	if (src.IsVector() && dst.IsScalar()) || (src.IsVector() == dst.IsVector() && src.Rows > dst.Rows && src.Cols >= dst.Cols) {
		return rank | 32
	}
	if src.IsVector() != dst.IsVector() || src.IsMatrix() != dst.IsMatrix() || src.Rows*src.Cols != dst.Rows*dst.Cols {
		return 0
	}

	return rank
}
