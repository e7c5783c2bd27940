// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"image"
	"log/slog"
	"os"

	"github.com/adinfinit/g"
	"github.com/chewxy/math32"

	"github.com/gviegas/scenegl/engine"
	"github.com/gviegas/scenegl/engine/shader"
	"github.com/gviegas/scenegl/linear"
)

// viewer holds the scene shown by the command.
type viewer struct {
	cfg      *Config
	renderer *engine.Renderer
	scene    *engine.Scene
	orbit    *engine.Camera
	top      *engine.Camera
	model    *engine.Object
	light    *engine.Light
	shadow   *engine.ShadowEffect
	composer *engine.Composer
	angle    float32
	last     float64
}

// geometry returns the geometry of the model, read from
// a mesh file or created from a primitive.
func (c *Config) geometry() (*engine.Geometry, error) {
	if c.Scene.Mesh != "" {
		f, err := os.Open(c.Scene.Mesh)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return engine.LoadGeometry(f)
	}
	switch c.Scene.Primitive {
	case "sphere":
		return engine.NewSphere(1, 32, 16), nil
	case "plane":
		return engine.NewPlane(2, 2, 1, 1), nil
	default:
		return engine.NewCube(1.5), nil
	}
}

func loadImage(name string) (image.Image, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	slog.Debug("image decoded", "name", name, "format", format, "bounds", img.Bounds())
	return img, nil
}

func newViewer(cfg *Config, r *engine.Renderer, geom *engine.Geometry) (*viewer, error) {
	v := &viewer{cfg: cfg, renderer: r}
	s := engine.NewScene("viewer")
	bg := cfg.Scene.Background
	s.SetBackground(bg[0], bg[1], bg[2], bg[3])
	s.SetDepthSort(cfg.Engine.DepthSort)
	if cfg.Scene.Fog {
		s.SetFog(&engine.Fog{Color: linear.V3{bg[0], bg[1], bg[2]}, Near: cfg.Orbit.Radius, Far: 4 * cfg.Orbit.Radius, Enabled: true})
	}

	v.orbit = engine.NewCamera()
	v.orbit.SetName("orbit")
	v.top = engine.NewCamera()
	v.top.SetName("top")
	v.top.SetPosition(0, 2*cfg.Orbit.Radius, 0.01)
	v.top.SetLookAt(0, 0, 0)
	s.AddCamera(v.orbit)
	s.AddCamera(v.top)
	s.SwitchCamera(v.orbit)

	d := engine.DirectionalLight{Direction: linear.V3{-1, -2, -1}, Power: 1, R: 1, G: 1, B: 1}
	v.light = new(engine.Light)
	*v.light = d.Light()
	s.AddLight(v.light)

	var tex *engine.Texture
	if cfg.Scene.Texture != "" {
		img, err := loadImage(cfg.Scene.Texture)
		if err != nil {
			return nil, err
		}
		p := engine.DefaultTexParam()
		if tex, err = engine.New2D(cfg.Scene.Texture, img, &p); err != nil {
			return nil, err
		}
		if err := r.Textures().AddTexture(tex); err != nil {
			return nil, err
		}
	}
	mat := engine.NewBasicMaterial(engine.MaterialOptions{
		Texture:      tex != nil,
		VertexColors: geom.HasColors(),
		Lighting:     geom.HasNormals(),
		Fog:          cfg.Scene.Fog,
	})
	mat.SetName("model")
	if tex != nil {
		if err := mat.AddTexture(shader.UTexture, tex); err != nil {
			return nil, err
		}
	}
	v.model = engine.NewMesh("model", geom, mat)
	s.AddChild(v.model)

	var floor *engine.Object
	if cfg.Scene.Floor {
		fm := engine.NewBasicMaterial(engine.MaterialOptions{Lighting: true, Fog: cfg.Scene.Fog})
		fm.SetName("floor")
		fm.SetColor(&linear.V4{0.6, 0.6, 0.6, 1})
		floor = engine.NewMesh("floor", engine.NewPlane(4*cfg.Orbit.Radius, 4*cfg.Orbit.Radius, 1, 1), fm)
		floor.SetRotation(-90, 0, 0)
		floor.SetPosition(0, -1.5, 0)
		s.AddChild(floor)
	}

	if cfg.Shadow.Enabled {
		sh, err := engine.NewShadowEffect(v.light, cfg.Shadow.Size, cfg.Shadow.Area, cfg.Shadow.Influence)
		if err != nil {
			return nil, err
		}
		if err := sh.AddReceiver(mat); err != nil {
			return nil, err
		}
		if floor != nil {
			if err := sh.AddReceiver(floor.Material()); err != nil {
				return nil, err
			}
		}
		v.shadow = sh
	}
	if v.shadow != nil || len(cfg.Effects) != 0 {
		c, err := newComposer(v.shadow, cfg.Effects)
		if err != nil {
			return nil, err
		}
		v.composer = c
		r.SetComposer(c)
	}

	r.AddScene(s)
	r.SwitchScene(s)
	v.scene = s
	return v, nil
}

// update moves the orbit camera for the time t, in
// seconds.
func (v *viewer) update(t float64) {
	dt := float32(t - v.last)
	v.last = t
	v.angle += dt * v.cfg.Orbit.Speed
	sn, cs := g.Sincos(v.angle)
	v.orbit.SetPosition(sn*v.cfg.Orbit.Radius, v.cfg.Orbit.Height, cs*v.cfg.Orbit.Radius)
	v.orbit.SetLookAt(0, 0, 0)
	v.model.SetRotation(0, v.angle*180/math32.Pi, 0)
}

// toggleCamera switches between the orbit and top
// cameras, starting with the next frame.
func (v *viewer) toggleCamera() {
	if v.scene.Camera() == v.orbit {
		v.scene.SwitchCamera(v.top)
	} else {
		v.scene.SwitchCamera(v.orbit)
	}
}

// toggleComposer enables or disables post-processing.
func (v *viewer) toggleComposer() {
	if v.composer == nil {
		return
	}
	if v.renderer.Composer() == nil {
		v.renderer.SetComposer(v.composer)
	} else {
		v.renderer.SetComposer(nil)
	}
}

// exportGeometry writes geom to the named mesh file.
func exportGeometry(name string, geom *engine.Geometry) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := engine.SaveGeometry(f, geom); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
