// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"github.com/gviegas/scenegl/engine/shader"
	"github.com/gviegas/scenegl/linear"
)

// Light defines a light source.
// The zero value for Light is not valid; one must
// call DirectionalLight.Light or PointLight.Light to
// create an initialized Light.
type Light struct {
	params shader.LightParams
	// Whether the light is applied to lit materials.
	enabled bool
}

// SetDirection sets the direction of l.
// It normalizes d.
// Only applies to directional lights.
func (l *Light) SetDirection(d *linear.V3) { l.params.Direction.Norm(d) }

// Direction returns the direction of l.
func (l *Light) Direction() linear.V3 { return l.params.Direction }

// SetPosition sets the position of l.
// Only applies to point lights.
func (l *Light) SetPosition(p *linear.V3) { l.params.Position = *p }

// Position returns the position of l.
func (l *Light) Position() linear.V3 { return l.params.Position }

// SetPower sets the power of l.
// Negative values are clamped to zero.
func (l *Light) SetPower(p float32) { l.params.Power = max(0, p) }

// Power returns the power of l.
func (l *Light) Power() float32 { return l.params.Power }

// SetColor sets the RGB color of l.
func (l *Light) SetColor(r, g, b float32) { l.params.Color = linear.V3{r, g, b} }

// Color returns the RGB color of l.
func (l *Light) Color() (r, g, b float32) {
	c := l.params.Color
	return c[0], c[1], c[2]
}

// SetEnabled sets whether l lights the scene.
func (l *Light) SetEnabled(b bool) { l.enabled = b }

// Enabled returns whether l lights the scene.
func (l *Light) Enabled() bool { return l.enabled }

// IsDirectional returns whether l is a directional
// light.
func (l *Light) IsDirectional() bool { return l.params.Type == shader.DirectionalLight }

// DirectionalLight is a directional light.
// The light is emitted in the given Direction.
// It behaves as if located infinitely far way.
type DirectionalLight struct {
	Direction linear.V3
	Power     float32
	R, G, B   float32
}

// Light creates the light source described by t.
// t.R/G/B must be in the range [0, 1].
func (t *DirectionalLight) Light() (light Light) {
	light.params.Type = shader.DirectionalLight
	light.enabled = true
	light.SetPower(t.Power)
	light.SetColor(t.R, t.G, t.B)
	light.SetDirection(&t.Direction)
	return
}

// PointLight is an omnidirectional, positional light.
// The light is emitted in all directions from the
// given Position and attenuates with the square of
// the distance.
type PointLight struct {
	Position linear.V3
	Power    float32
	R, G, B  float32
}

// Light creates the light source described by t.
// t.R/G/B must be in the range [0, 1].
func (t *PointLight) Light() (light Light) {
	light.params.Type = shader.PointLight
	light.enabled = true
	light.SetPower(t.Power)
	light.SetColor(t.R, t.G, t.B)
	light.SetPosition(&t.Position)
	return
}

// lightParams returns the parameters of the enabled
// lights, at most n of them.
func lightParams(lights []*Light, n int) []shader.LightParams {
	p := make([]shader.LightParams, 0, min(len(lights), n))
	for _, l := range lights {
		if len(p) == n {
			break
		}
		if l.enabled {
			p = append(p, l.params)
		}
	}
	return p
}
