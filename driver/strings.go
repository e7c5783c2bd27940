// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver

// String implements fmt.Stringer.
func (c Cap) String() string {
	switch c {
	case CapBlend:
		return "Blend"
	case CapCullFace:
		return "CullFace"
	case CapDepthTest:
		return "DepthTest"
	case CapStencilTest:
		return "StencilTest"
	case CapScissorTest:
		return "ScissorTest"
	default:
		return "!driver.Cap"
	}
}

// String implements fmt.Stringer.
func (c CullMode) String() string {
	switch c {
	case CBack:
		return "Back"
	case CFront:
		return "Front"
	case CFrontAndBack:
		return "FrontAndBack"
	default:
		return "!driver.CullMode"
	}
}

// String implements fmt.Stringer.
func (f CmpFunc) String() string {
	switch f {
	case CNever:
		return "Never"
	case CLess:
		return "Less"
	case CEqual:
		return "Equal"
	case CLessEqual:
		return "LessEqual"
	case CGreater:
		return "Greater"
	case CNotEqual:
		return "NotEqual"
	case CGreaterEqual:
		return "GreaterEqual"
	case CAlways:
		return "Always"
	default:
		return "!driver.CmpFunc"
	}
}

// String implements fmt.Stringer.
func (o StencilOp) String() string {
	switch o {
	case SKeep:
		return "Keep"
	case SZero:
		return "Zero"
	case SReplace:
		return "Replace"
	case SIncClamp:
		return "IncClamp"
	case SDecClamp:
		return "DecClamp"
	case SInvert:
		return "Invert"
	case SIncWrap:
		return "IncWrap"
	case SDecWrap:
		return "DecWrap"
	default:
		return "!driver.StencilOp"
	}
}

// String implements fmt.Stringer.
func (f BlendFac) String() string {
	switch f {
	case BZero:
		return "Zero"
	case BOne:
		return "One"
	case BSrcColor:
		return "SrcColor"
	case BInvSrcColor:
		return "InvSrcColor"
	case BSrcAlpha:
		return "SrcAlpha"
	case BInvSrcAlpha:
		return "InvSrcAlpha"
	case BDstColor:
		return "DstColor"
	case BInvDstColor:
		return "InvDstColor"
	case BDstAlpha:
		return "DstAlpha"
	case BInvDstAlpha:
		return "InvDstAlpha"
	default:
		return "!driver.BlendFac"
	}
}

// String implements fmt.Stringer.
func (t Topology) String() string {
	switch t {
	case TTriangle:
		return "Triangles"
	case TTriStrip:
		return "TriangleStrip"
	case TTriFan:
		return "TriangleFan"
	case TLine:
		return "Lines"
	case TLnStrip:
		return "LineStrip"
	case TLnLoop:
		return "LineLoop"
	case TPoint:
		return "Points"
	default:
		return "!driver.Topology"
	}
}

// String implements fmt.Stringer.
func (t TexTarget) String() string {
	switch t {
	case Tex2D:
		return "2D"
	case TexCube:
		return "Cube"
	case TexExternal:
		return "External"
	case TexCubePosX:
		return "CubePosX"
	case TexCubeNegX:
		return "CubeNegX"
	case TexCubePosY:
		return "CubePosY"
	case TexCubeNegY:
		return "CubeNegY"
	case TexCubePosZ:
		return "CubePosZ"
	case TexCubeNegZ:
		return "CubeNegZ"
	default:
		return "!driver.TexTarget"
	}
}
