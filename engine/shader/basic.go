// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

// BasicOptions configures the shaders created by
// NewBasic.
type BasicOptions struct {
	// Sample uTexture at vTextureCoord.
	Texture bool
	// Sample from an external (video/camera) texture.
	External bool
	// Use per-vertex colors instead of uColor.
	VertexColors bool
	// Pass normals through vNormal.
	Normals bool
	// Set gl_PointSize from uPointSize.
	Points bool
}

// NewBasic creates the vertex and fragment shaders of
// an unlit material.
// The fragment shader computes gColor and writes it to
// gl_FragColor after every fragment has run, so
// fragments (fog, lighting, shadows) can modify gColor.
func NewBasic(opts BasicOptions) (vs, fs *Shader) {
	vs = New(Vertex)
	mvp := vs.AddUniform(UMVPMatrix, Mat4)
	pos := vs.AddAttribute(APosition, Vec4)
	var tc, vtc, col, vcol, nrm, vnrm, psz *Var
	if opts.Texture || opts.External {
		tc = vs.AddAttribute(ATextureCoord, Vec2)
		vtc = vs.AddVarying(VTextureCoord, Vec2)
	}
	if opts.VertexColors {
		col = vs.AddAttribute(AVertexColor, Vec4)
		vcol = vs.AddVarying(VColor, Vec4)
	}
	if opts.Normals {
		nrm = vs.AddAttribute(ANormal, Vec3)
		vnrm = vs.AddVarying(VNormal, Vec3)
	}
	if opts.Points {
		psz = vs.AddUniform(UPointSize, Float)
	}
	vs.SetMain(func() {
		vs.GLPosition().Assign(mvp.Mul(pos))
		if tc != nil {
			vtc.Assign(tc)
		}
		if col != nil {
			vcol.Assign(col)
		}
		if nrm != nil {
			vnrm.Assign(nrm)
		}
		if psz != nil {
			vs.GLPointSize().Assign(psz)
		}
	})

	fs = New(Fragment)
	color := fs.AddUniform(UColor, Vec4)
	influence := fs.AddUniform(UColorInfluence, Float)
	var tex, ftc, fcol *Var
	if opts.Texture || opts.External {
		typ := Sampler2D
		if opts.External {
			typ = SamplerExternalOES
		}
		tex = fs.AddUniform(UTexture, typ)
		ftc = fs.AddVarying(VTextureCoord, Vec2)
	}
	if opts.VertexColors {
		fcol = fs.AddVarying(VColor, Vec4)
	}
	if opts.Normals {
		fs.AddVarying(VNormal, Vec3)
	}
	gColor := fs.AddGlobal(GColor, Vec4)
	fs.SetMain(func() {
		base := color
		if fcol != nil {
			base = fcol
		}
		if tex != nil {
			gColor.Assign(Mix(Texture2D(tex, ftc), base, influence))
		} else {
			gColor.Assign(base)
		}
	})
	fs.SetEnd(func() {
		fs.GLFragColor().Assign(gColor)
	})
	return
}
