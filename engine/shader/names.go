// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package shader

// Names of the variables shared by the built-in shaders
// and fragments.
// Materials refer to uniforms and attributes through
// these names.
const (
	UMVPMatrix        = "uMVPMatrix"
	UNormalMatrix     = "uNormalMatrix"
	UModelMatrix      = "uModelMatrix"
	UModelViewMatrix  = "uModelViewMatrix"
	UColor            = "uColor"
	UColorInfluence   = "uColorInfluence"
	UTexture          = "uTexture"
	UOpacity          = "uOpacity"
	UTime             = "uTime"
	UCameraPosition   = "uCameraPosition"
	UPointSize        = "uPointSize"
	UAmbientColor     = "uAmbientColor"
	UAmbientIntensity = "uAmbientIntensity"
	ULightColor       = "uLightColor"
	ULightPower       = "uLightPower"
	ULightPosition    = "uLightPosition"
	ULightDirection   = "uLightDirection"
	ULightType        = "uLightType"
	UFogNear          = "uFogNear"
	UFogFar           = "uFogFar"
	UFogEnabled       = "uFogEnabled"
	UFogColor         = "uFogColor"
	ULightMVPMatrix   = "uLightMVPMatrix"
	UShadowMap        = "uShadowMapTexture"
	UShadowInfluence  = "uShadowInfluence"
	UNear             = "uNear"
	UFar              = "uFar"
	APosition         = "aPosition"
	ATextureCoord     = "aTextureCoord"
	ANormal           = "aNormal"
	AVertexColor      = "aVertexColor"
	VTextureCoord     = "vTextureCoord"
	VNormal           = "vNormal"
	VPosition         = "vPosition"
	VColor            = "vColor"
	VEyeDir           = "vEyeDir"
	VFogDensity       = "vFogDensity"
	VShadowTexCoord   = "vShadowTexCoord"
	GColor            = "gColor"
	GNormal           = "gNormal"
	GTextureCoord     = "gTextureCoord"
	GShadowValue      = "gShadowValue"
	FuncPackDepth     = "packDepth"
	FuncUnpackDepth   = "unpackDepth"
	DirectionalLight  = 0
	PointLight        = 1
	defaultShadowBias = 0.005
)

// Definitions of the depth packing functions, which
// store a depth value in [0, 1) across the four channels
// of an RGBA8 color.
const (
	PackDepthSrc = `vec4 packDepth(float depth) {
	const vec4 shift = vec4(256.0 * 256.0 * 256.0, 256.0 * 256.0, 256.0, 1.0);
	const vec4 mask = vec4(0.0, 1.0 / 256.0, 1.0 / 256.0, 1.0 / 256.0);
	vec4 res = fract(depth * shift);
	res -= res.xxyz * mask;
	return res;
}
`
	UnpackDepthSrc = `float unpackDepth(vec4 color) {
	const vec4 shift = vec4(1.0 / (256.0 * 256.0 * 256.0), 1.0 / (256.0 * 256.0), 1.0 / 256.0, 1.0);
	return dot(color, shift);
}
`
)
