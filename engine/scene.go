// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"errors"
	"slices"
	"sync"

	"github.com/gviegas/scenegl/driver"
	"github.com/gviegas/scenegl/engine/internal/ctxt"
	"github.com/gviegas/scenegl/linear"
)

const scenePrefix = "scene: "

func newSceneErr(reason string) error { return errors.New(scenePrefix + reason) }

// Fog is linear fog applied by materials created
// with fog.
type Fog struct {
	Color   linear.V3
	Near    float32
	Far     float32
	Enabled bool
}

// Scene is a tree of objects together with the
// cameras and lights used to render them.
//
// Methods that change the contents of a scene can be
// called from any goroutine. The changes are queued
// and applied in order by BeginFrame, before anything
// is drawn. Once added to a Renderer, the changes are
// queued by the Renderer instead.
type Scene struct {
	name  string
	queue taskQueue

	children []*Object
	cameras  []*Camera
	lights   []*Light
	camera   *Camera

	camMu   sync.Mutex
	nextCam *Camera

	bg        linear.V4
	clear     bool
	fog       *Fog
	depthSort bool
	sceneMat  *Material
	bounds    boundsDrawer
	draws     int
}

// NewScene creates an empty scene with one perspective
// camera.
func NewScene(name string) *Scene {
	c := NewCamera()
	c.SetPosition(0, 0, 4)
	return &Scene{
		name:      name,
		cameras:   []*Camera{c},
		camera:    c,
		bg:        linear.V4{0, 0, 0, 1},
		clear:     true,
		depthSort: cfg.DepthSort,
	}
}

// Name returns the name of s.
func (s *Scene) Name() string { return s.name }

// AddChild queues the addition of o to the top level
// of s.
func (s *Scene) AddChild(o *Object) {
	s.queue.offer(TaskAdd, SubjectObject, func() error {
		return s.addChild(o)
	})
}

func (s *Scene) addChild(o *Object) error {
	switch {
	case o == nil:
		return newSceneErr("nil object")
	case slices.Contains(s.children, o):
		return newSceneErr("object already added: " + o.name)
	}
	s.children = append(s.children, o)
	return nil
}

// AddChildren queues the addition of every object in
// objs.
func (s *Scene) AddChildren(objs ...*Object) {
	objs = slices.Clone(objs)
	s.queue.offer(TaskAddAll, SubjectObject, func() error {
		var errs []error
		for _, o := range objs {
			if err := s.addChild(o); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// RemoveChild queues the removal of o from the top
// level of s.
// o is not destroyed.
func (s *Scene) RemoveChild(o *Object) {
	s.queue.offer(TaskRemove, SubjectObject, func() error {
		i := slices.Index(s.children, o)
		if i < 0 {
			return newSceneErr("object not found")
		}
		s.children = slices.Delete(s.children, i, i+1)
		return nil
	})
}

// RemoveAllChildren queues the removal of every top
// level object.
func (s *Scene) RemoveAllChildren() {
	s.queue.offer(TaskRemoveAll, SubjectObject, func() error {
		s.children = nil
		return nil
	})
}

// ReplaceChild queues the replacement of old with o,
// at the same position.
func (s *Scene) ReplaceChild(old, o *Object) {
	s.queue.offer(TaskReplace, SubjectObject, func() error {
		i := slices.Index(s.children, old)
		switch {
		case o == nil:
			return newSceneErr("nil object")
		case i < 0:
			return newSceneErr("object not found")
		}
		s.children[i] = o
		return nil
	})
}

// AddCamera queues the addition of c.
func (s *Scene) AddCamera(c *Camera) {
	s.queue.offer(TaskAdd, SubjectCamera, func() error {
		if c == nil || slices.Contains(s.cameras, c) {
			return newSceneErr("invalid or duplicate camera")
		}
		s.cameras = append(s.cameras, c)
		return nil
	})
}

// RemoveCamera queues the removal of c.
// The current camera cannot be removed.
func (s *Scene) RemoveCamera(c *Camera) {
	s.queue.offer(TaskRemove, SubjectCamera, func() error {
		i := slices.Index(s.cameras, c)
		switch {
		case i < 0:
			return newSceneErr("camera not found")
		case c == s.camera:
			return newSceneErr("cannot remove current camera")
		}
		s.cameras = slices.Delete(s.cameras, i, i+1)
		return nil
	})
}

// ReplaceCamera queues the replacement of old with c.
// If old is the current camera, c becomes current.
func (s *Scene) ReplaceCamera(old, c *Camera) {
	s.queue.offer(TaskReplace, SubjectCamera, func() error {
		i := slices.Index(s.cameras, old)
		switch {
		case c == nil:
			return newSceneErr("nil camera")
		case i < 0:
			return newSceneErr("camera not found")
		}
		s.cameras[i] = c
		if s.camera == old {
			s.camera = c
		}
		return nil
	})
}

// SwitchCamera makes c the current camera at the start
// of the next frame. c is added to s if needed.
// If called more than once before that, the last call
// wins.
func (s *Scene) SwitchCamera(c *Camera) {
	s.camMu.Lock()
	s.nextCam = c
	s.camMu.Unlock()
}

func (s *Scene) switchCamera() {
	s.camMu.Lock()
	c := s.nextCam
	s.nextCam = nil
	s.camMu.Unlock()
	if c == nil {
		return
	}
	if !slices.Contains(s.cameras, c) {
		s.cameras = append(s.cameras, c)
	}
	c.SetProjection(s.camera.width, s.camera.height)
	s.camera = c
}

// Camera returns the current camera.
func (s *Scene) Camera() *Camera { return s.camera }

// Cameras returns the cameras of s.
func (s *Scene) Cameras() []*Camera { return slices.Clone(s.cameras) }

// AddLight queues the addition of l.
func (s *Scene) AddLight(l *Light) {
	s.queue.offer(TaskAdd, SubjectLight, func() error {
		if l == nil || slices.Contains(s.lights, l) {
			return newSceneErr("invalid or duplicate light")
		}
		s.lights = append(s.lights, l)
		return nil
	})
}

// RemoveLight queues the removal of l.
func (s *Scene) RemoveLight(l *Light) {
	s.queue.offer(TaskRemove, SubjectLight, func() error {
		i := slices.Index(s.lights, l)
		if i < 0 {
			return newSceneErr("light not found")
		}
		s.lights = slices.Delete(s.lights, i, i+1)
		return nil
	})
}

// Lights returns the lights of s.
func (s *Scene) Lights() []*Light { return slices.Clone(s.lights) }

// Reset queues the removal of every object and light
// and of every camera other than the current one.
// The objects are destroyed.
func (s *Scene) Reset() {
	s.queue.offer(TaskReset, SubjectScene, func() error {
		for _, o := range s.children {
			o.Destroy()
		}
		s.children = nil
		s.lights = nil
		s.cameras = []*Camera{s.camera}
		return nil
	})
}

// Children returns the top level objects of s.
func (s *Scene) Children() []*Object { return slices.Clone(s.children) }

// NumChildren returns the number of top level objects.
func (s *Scene) NumChildren() int { return len(s.children) }

// SetBackground sets the color that s is cleared with.
func (s *Scene) SetBackground(r, g, b, a float32) { s.bg = linear.V4{r, g, b, a} }

// Background returns the color that s is cleared with.
func (s *Scene) Background() linear.V4 { return s.bg }

// SetClear sets whether color and depth are cleared
// before s is rendered.
func (s *Scene) SetClear(b bool) { s.clear = b }

// SetFog sets the fog of s. nil disables fog.
func (s *Scene) SetFog(f *Fog) { s.fog = f }

// Fog returns the fog of s.
func (s *Scene) Fog() *Fog { return s.fog }

// SetDepthSort sets whether the top level objects are
// drawn in the order defined by Compare.
func (s *Scene) SetDepthSort(b bool) { s.depthSort = b }

// SetSceneMaterial sets a material that replaces the
// material of every object. nil restores the objects'
// own materials.
func (s *Scene) SetSceneMaterial(m *Material) { s.sceneMat = m }

// SceneMaterial returns the material that replaces the
// material of every object.
func (s *Scene) SceneMaterial() *Material { return s.sceneMat }

// Draws returns the number of draw calls issued by the
// last call to Render.
func (s *Scene) Draws() int { return s.draws }

// SetSize sets the viewport size of every camera.
func (s *Scene) SetSize(width, height int) {
	for _, c := range s.cameras {
		c.SetProjection(width, height)
	}
}

// BeginFrame applies the queued changes and the
// pending camera switch.
// It must be called once per frame on the GPU
// goroutine, before Render. The Renderer does so for
// its current scene.
func (s *Scene) BeginFrame() error {
	err := s.queue.drain()
	s.switchCamera()
	return err
}

// Render draws s into rt, or into the default
// framebuffer if rt is nil.
// Objects that fail to draw do not prevent others from
// drawing; every failure is joined in the returned
// error.
func (s *Scene) Render(rt *RenderTarget) error {
	return s.render(renderOpts{target: rt, clear: s.clear})
}

type renderOpts struct {
	target *RenderTarget
	camera *Camera
	mat    *Material
	clear  bool
	color  *linear.V4
	// Value to clear the stencil buffer with, if set.
	stencil *int
}

func (s *Scene) render(opts renderOpts) error {
	gpu := ctxt.GPU()
	if gpu == nil {
		return newSceneErr("no GPU")
	}
	if opts.target != nil {
		if err := opts.target.Bind(); err != nil {
			return err
		}
		defer opts.target.Unbind()
	} else {
		gpu.BindFramebuf(0)
	}
	if opts.clear {
		c := s.bg
		if opts.color != nil {
			c = *opts.color
		}
		gpu.ClearColor(c[0], c[1], c[2], c[3])
		gpu.DepthMask(true)
		gpu.Clear(driver.ColorBit | driver.DepthBit)
	}
	if opts.stencil != nil {
		gpu.ClearStencil(*opts.stencil)
		gpu.Clear(driver.StencilBit)
	}
	gpu.Enable(driver.CapDepthTest)
	gpu.DepthFunc(driver.CLess)
	gpu.Enable(driver.CapCullFace)
	gpu.CullFace(driver.CBack)

	cam := opts.camera
	if cam == nil {
		cam = s.camera
	}
	cam.Update()
	rs := renderState{
		cam:      cam,
		view:     cam.ViewMatrix(),
		vp:       cam.ViewProjection(),
		camPos:   cam.Position(),
		sceneMat: opts.mat,
		lights:   s.lights,
		fog:      s.fog,
		bounds:   &s.bounds,
	}
	if rs.sceneMat == nil {
		rs.sceneMat = s.sceneMat
	}
	children := s.children
	if s.depthSort {
		children = slices.Clone(children)
		slices.SortStableFunc(children, Compare)
	}
	for _, o := range children {
		o.render(&rs, nil, false)
	}
	s.draws = rs.draws
	return errors.Join(rs.errs...)
}

// Reload recreates the buffers of every object in s.
// It must be called on the GPU goroutine after the
// context is lost. Geometry shared by several objects
// is recreated once. Failures are joined.
func (s *Scene) Reload() error { return s.reload(make(geomSet)) }

func (s *Scene) reload(set geomSet) error {
	var errs []error
	for _, o := range s.children {
		if err := o.reload(set); err != nil {
			errs = append(errs, err)
		}
	}
	if s.bounds.geom != nil {
		if err := set.reload(s.bounds.geom); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Destroy destroys every object in s.
// It must be called on the GPU goroutine.
func (s *Scene) Destroy() {
	for _, o := range s.children {
		o.Destroy()
	}
	s.children = nil
	if s.bounds.geom != nil {
		s.bounds.geom.Destroy()
	}
}
