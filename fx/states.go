package fx

import "math"

// TextureFormat enumerates the storage formats a texture declaration can
// request.
type TextureFormat uint32

const (
	FormatUnknown TextureFormat = iota
	FormatR8
	FormatR16F
	FormatR32F
	FormatRG8
	FormatRG16
	FormatRG16F
	FormatRG32F
	FormatRGBA8
	FormatRGBA16
	FormatRGBA16F
	FormatRGBA32F
	FormatDXT1
	FormatDXT3
	FormatDXT5
	FormatLATC1
	FormatLATC2
)

// TextureAddressMode selects how sampling treats coordinates outside
// [0, 1]. The values follow the Direct3D 9 convention.
type TextureAddressMode uint32

const (
	AddressWrap   TextureAddressMode = 1
	AddressMirror TextureAddressMode = 2
	AddressClamp  TextureAddressMode = 3
	AddressBorder TextureAddressMode = 4
)

// TextureFilter packs the min/mag/mip filters into one value: bits 0-1
// hold the mip filter, bits 2-3 the mag filter and bits 4-5 the min
// filter (0 = point, 1 = linear, 3 = anisotropic).
type TextureFilter uint32

const (
	FilterMinMagMipPoint  TextureFilter = 0x00
	FilterMinMagMipLinear TextureFilter = 0x15
	FilterAnisotropic     TextureFilter = 0x55
)

// TextureProperties is the state block of a texture or sampler
// declaration.
type TextureProperties struct {
	Texture     VarHandle // referenced texture of a sampler
	Width       uint32
	Height      uint32
	Depth       uint32
	MipLevels   uint32
	Format      TextureFormat
	SRGBTexture bool
	AddressU    TextureAddressMode
	AddressV    TextureAddressMode
	AddressW    TextureAddressMode
	Filter      TextureFilter
	MinLOD      float32
	MaxLOD      float32
	LodBias     float32
}

func defaultTextureProperties() *TextureProperties {
	return &TextureProperties{
		Texture:   InvalidVar,
		Width:     1,
		Height:    1,
		Depth:     1,
		MipLevels: 1,
		Format:    FormatRGBA8,
		AddressU:  AddressClamp,
		AddressV:  AddressClamp,
		AddressW:  AddressClamp,
		Filter:    FilterMinMagMipLinear,
		MinLOD:    -math.MaxFloat32,
		MaxLOD:    math.MaxFloat32,
	}
}

// Blend, stencil and comparison state values follow the Direct3D 9
// convention, which is what the hook layer consuming the AST speaks.

// BlendFunc is a source or destination blend factor.
type BlendFunc uint32

const (
	BlendZero         BlendFunc = 1
	BlendOne          BlendFunc = 2
	BlendSrcColor     BlendFunc = 3
	BlendInvSrcColor  BlendFunc = 4
	BlendSrcAlpha     BlendFunc = 5
	BlendInvSrcAlpha  BlendFunc = 6
	BlendDestAlpha    BlendFunc = 7
	BlendInvDestAlpha BlendFunc = 8
	BlendDestColor    BlendFunc = 9
	BlendInvDestColor BlendFunc = 10
)

// BlendOp combines source and destination colors.
type BlendOp uint32

const (
	BlendOpAdd         BlendOp = 1
	BlendOpSubtract    BlendOp = 2
	BlendOpRevSubtract BlendOp = 3
	BlendOpMin         BlendOp = 4
	BlendOpMax         BlendOp = 5
)

// StencilOp is the action applied to the stencil buffer.
type StencilOp uint32

const (
	StencilKeep    StencilOp = 1
	StencilZero    StencilOp = 2
	StencilReplace StencilOp = 3
	StencilIncrSat StencilOp = 4
	StencilDecrSat StencilOp = 5
	StencilInvert  StencilOp = 6
	StencilIncr    StencilOp = 7
	StencilDecr    StencilOp = 8
)

// ComparisonFunc is the stencil comparison function.
type ComparisonFunc uint32

const (
	CompareNever        ComparisonFunc = 1
	CompareLess         ComparisonFunc = 2
	CompareEqual        ComparisonFunc = 3
	CompareLessEqual    ComparisonFunc = 4
	CompareGreater      ComparisonFunc = 5
	CompareNotEqual     ComparisonFunc = 6
	CompareGreaterEqual ComparisonFunc = 7
	CompareAlways       ComparisonFunc = 8
)

// PassStates is the resolved state block of a render pass.
type PassStates struct {
	VertexShader FuncHandle
	PixelShader  FuncHandle
	RenderTargets [8]VarHandle

	SRGBWriteEnable    bool
	BlendEnable        bool
	StencilEnable      bool
	ClearRenderTargets bool

	ColorWriteMask   uint8
	StencilReadMask  uint8
	StencilWriteMask uint8

	BlendOp      BlendOp
	BlendOpAlpha BlendOp
	SrcBlend     BlendFunc
	DestBlend    BlendFunc

	StencilFunc        ComparisonFunc
	StencilRef         uint32
	StencilOpPass      StencilOp
	StencilOpFail      StencilOp
	StencilOpDepthFail StencilOp
}

func defaultPassStates() PassStates {
	s := PassStates{
		VertexShader:     InvalidFunc,
		PixelShader:      InvalidFunc,
		ColorWriteMask:   0xF,
		StencilReadMask:  0xFF,
		StencilWriteMask: 0xFF,
		BlendOp:          BlendOpAdd,
		BlendOpAlpha:     BlendOpAdd,
		SrcBlend:         BlendOne,
		DestBlend:        BlendZero,
		StencilFunc:      CompareAlways,
		StencilOpPass:    StencilKeep,
		StencilOpFail:    StencilKeep,
		StencilOpDepthFail: StencilKeep,
	}
	for i := range s.RenderTargets {
		s.RenderTargets[i] = InvalidVar
	}
	return s
}

// Symbolic value names accepted on the right-hand side of texture and
// sampler properties.
var propertyValueNames = map[string]uint32{
	"NONE":         0,
	"POINT":        0,
	"LINEAR":       1,
	"ANISOTROPIC":  3,
	"CLAMP":        uint32(AddressClamp),
	"WRAP":         uint32(AddressWrap),
	"REPEAT":       uint32(AddressWrap),
	"MIRROR":       uint32(AddressMirror),
	"BORDER":       uint32(AddressBorder),
	"R8":           uint32(FormatR8),
	"R16F":         uint32(FormatR16F),
	"R32F":         uint32(FormatR32F),
	"RG8":          uint32(FormatRG8),
	"R8G8":         uint32(FormatRG8),
	"RG16":         uint32(FormatRG16),
	"R16G16":       uint32(FormatRG16),
	"RG16F":        uint32(FormatRG16F),
	"R16G16F":      uint32(FormatRG16F),
	"RG32F":        uint32(FormatRG32F),
	"R32G32F":      uint32(FormatRG32F),
	"RGBA8":        uint32(FormatRGBA8),
	"R8G8B8A8":     uint32(FormatRGBA8),
	"RGBA16":       uint32(FormatRGBA16),
	"R16G16B16A16": uint32(FormatRGBA16),
	"RGBA16F":      uint32(FormatRGBA16F),
	"R16G16B16A16F": uint32(FormatRGBA16F),
	"RGBA32F":       uint32(FormatRGBA32F),
	"R32G32B32A32F": uint32(FormatRGBA32F),
	"DXT1":          uint32(FormatDXT1),
	"DXT3":          uint32(FormatDXT3),
	"DXT4":          uint32(FormatDXT5),
	"LATC1":         uint32(FormatLATC1),
	"LATC2":         uint32(FormatLATC2),
}

// Symbolic value names accepted on the right-hand side of pass states.
var passValueNames = map[string]uint32{
	"NONE":         0,
	"ZERO":         uint32(BlendZero),
	"ONE":          uint32(BlendOne),
	"SRCCOLOR":     uint32(BlendSrcColor),
	"SRCALPHA":     uint32(BlendSrcAlpha),
	"INVSRCCOLOR":  uint32(BlendInvSrcColor),
	"INVSRCALPHA":  uint32(BlendInvSrcAlpha),
	"DESTCOLOR":    uint32(BlendDestColor),
	"DESTALPHA":    uint32(BlendDestAlpha),
	"INVDESTCOLOR": uint32(BlendInvDestColor),
	"INVDESTALPHA": uint32(BlendInvDestAlpha),
	"ADD":          uint32(BlendOpAdd),
	"SUBTRACT":     uint32(BlendOpSubtract),
	"REVSUBTRACT":  uint32(BlendOpRevSubtract),
	"MIN":          uint32(BlendOpMin),
	"MAX":          uint32(BlendOpMax),
	"KEEP":         uint32(StencilKeep),
	"REPLACE":      uint32(StencilReplace),
	"INVERT":       uint32(StencilInvert),
	"INCR":         uint32(StencilIncr),
	"INCRSAT":      uint32(StencilIncrSat),
	"DECR":         uint32(StencilDecr),
	"DECRSAT":      uint32(StencilDecrSat),
	"NEVER":        uint32(CompareNever),
	"ALWAYS":       uint32(CompareAlways),
	"LESS":         uint32(CompareLess),
	"GREATER":      uint32(CompareGreater),
	"LEQUAL":       uint32(CompareLessEqual),
	"LESSEQUAL":    uint32(CompareLessEqual),
	"GEQUAL":       uint32(CompareGreaterEqual),
	"GREATEREQUAL": uint32(CompareGreaterEqual),
	"EQUAL":        uint32(CompareEqual),
	"NEQUAL":       uint32(CompareNotEqual),
	"NOTEQUAL":     uint32(CompareNotEqual),
}
