// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/loov/hrtime"

	"github.com/gviegas/scenegl/engine/internal/ctxt"
)

const rendPrefix = "renderer: "

func newRendErr(reason string) error { return errors.New(rendPrefix + reason) }

// Renderer drives the rendering of scenes on a host
// surface.
//
// The host calls the On* methods as the surface goes
// through its lifecycle and RenderFrame whenever a
// frame is due, always on the goroutine that owns the
// GPU context. Start can be used to produce a steady
// stream of frame signals.
type Renderer struct {
	queue taskQueue
	texs  *TextureManager

	scenes  []*Scene
	scene   *Scene
	sceneMu sync.Mutex
	next    *Scene

	targets  []*RenderTarget
	composer *Composer

	width   int
	height  int
	created bool
	visible bool

	tickMu sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	frames chan struct{}

	statMu    sync.Mutex
	nframe    int
	last      time.Duration
	first     time.Duration
	frameTime time.Duration
}

// NewRenderer creates a renderer with one empty scene.
func NewRenderer() *Renderer {
	r := &Renderer{
		width:   1,
		height:  1,
		visible: true,
		frames:  make(chan struct{}, 1),
	}
	r.texs = newTextureManager(&r.queue)
	s := NewScene("default")
	s.queue.forward(&r.queue)
	r.scenes = []*Scene{s}
	r.scene = s
	return r
}

// Textures returns the texture manager of r.
func (r *Renderer) Textures() *TextureManager { return r.texs }

// Size returns the size of the surface.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// OnSurfaceCreated must be called when the host
// surface is created, with its context current.
// The driver is loaded on the first call. On any later
// call the previous context is assumed to be lost, and
// every material, texture, render target and geometry
// known to r is recreated. Reload failures are joined
// in the returned error.
func (r *Renderer) OnSurfaceCreated() error {
	if !ctxt.Loaded() {
		if err := Load(cfg.Driver); err != nil {
			return fmt.Errorf("%s%w", rendPrefix, err)
		}
	}
	if !r.created {
		r.created = true
		return nil
	}
	logger().Info("reloading resources after context loss")
	errs := []error{
		Materials().Reload(),
		r.texs.Reload(),
	}
	for _, rt := range r.targets {
		errs = append(errs, rt.Reload())
	}
	if r.composer != nil {
		errs = append(errs, r.composer.Reload())
	}
	// Scenes may share geometry.
	set := make(geomSet)
	for _, s := range r.scenes {
		errs = append(errs, s.reload(set))
	}
	err := errors.Join(errs...)
	if err != nil {
		logger().Error("reload failed", "err", err)
	}
	return err
}

// OnSurfaceChanged must be called when the size of the
// host surface changes.
// Cameras and full-screen render targets follow the
// new size.
func (r *Renderer) OnSurfaceChanged(width, height int) error {
	if width <= 0 || height <= 0 {
		return newRendErr("invalid surface size")
	}
	r.width, r.height = width, height
	for _, s := range r.scenes {
		s.SetSize(width, height)
	}
	var errs []error
	for _, rt := range r.targets {
		if rt.fullscreen {
			errs = append(errs, rt.Resize(width, height))
		}
	}
	if r.composer != nil {
		errs = append(errs, r.composer.surfaceChanged(width, height))
	}
	if ctxt.Loaded() {
		ctxt.GPU().Viewport(0, 0, width, height)
	}
	return errors.Join(errs...)
}

// OnVisibilityChanged must be called when the host
// surface is shown or hidden.
// Frame signals stop while the surface is hidden and
// resume when it is shown again, if Start was called.
func (r *Renderer) OnVisibilityChanged(visible bool) {
	r.visible = visible
	if !visible {
		r.Stop()
		return
	}
	r.tickMu.Lock()
	ctx := r.ctx
	r.tickMu.Unlock()
	if ctx != nil && ctx.Err() == nil {
		r.Start(ctx)
	}
}

// OnSurfaceDestroyed must be called when the host
// surface is destroyed.
// GPU resources are not released, since the context is
// assumed to be gone; they are recreated by the next
// OnSurfaceCreated.
func (r *Renderer) OnSurfaceDestroyed() {
	r.Stop()
	r.tickMu.Lock()
	r.ctx = nil
	r.tickMu.Unlock()
}

// Start starts sending frame signals on the channel
// returned by Frames, at the rate of Config.FrameRate.
// Signals are dropped if the previous one was not
// received. It stops when ctx is done or Stop is
// called. Calling Start while started does nothing.
func (r *Renderer) Start(ctx context.Context) {
	r.tickMu.Lock()
	defer r.tickMu.Unlock()
	r.ctx = ctx
	if r.cancel != nil {
		return
	}
	tctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.tick(tctx, r.done)
}

func (r *Renderer) tick(ctx context.Context, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(time.Second / time.Duration(cfg.FrameRate))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			select {
			case r.frames <- struct{}{}:
			default:
			}
		}
	}
}

// Stop stops the frame signals.
// It waits for the ticking goroutine to exit.
func (r *Renderer) Stop() {
	r.tickMu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.tickMu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

// Frames returns the channel on which frame signals
// are sent.
func (r *Renderer) Frames() <-chan struct{} { return r.frames }

// AddScene queues the addition of s.
// From then on, changes to s are queued by r, in order
// with r's own changes.
func (r *Renderer) AddScene(s *Scene) {
	if s != nil {
		s.queue.forward(&r.queue)
	}
	r.queue.offer(TaskAdd, SubjectScene, func() error {
		if s == nil || slices.Contains(r.scenes, s) {
			return newRendErr("invalid or duplicate scene")
		}
		r.scenes = append(r.scenes, s)
		r.initScene(s)
		return nil
	})
}

// initScene queues the sizing of the cameras of s
// after the surface.
func (r *Renderer) initScene(s *Scene) {
	r.queue.offer(TaskInitialize, SubjectScene, func() error {
		s.SetSize(r.width, r.height)
		return nil
	})
}

// RemoveScene queues the removal of s.
// The current scene cannot be removed.
func (r *Renderer) RemoveScene(s *Scene) {
	r.queue.offer(TaskRemove, SubjectScene, func() error {
		i := slices.Index(r.scenes, s)
		switch {
		case i < 0:
			return newRendErr("scene not found")
		case s == r.scene:
			return newRendErr("cannot remove current scene")
		}
		r.scenes = slices.Delete(r.scenes, i, i+1)
		return nil
	})
}

// SwitchScene makes s the current scene at the start
// of the next frame. s is added to r if needed.
func (r *Renderer) SwitchScene(s *Scene) {
	r.sceneMu.Lock()
	r.next = s
	r.sceneMu.Unlock()
}

func (r *Renderer) switchScene() {
	r.sceneMu.Lock()
	s := r.next
	r.next = nil
	r.sceneMu.Unlock()
	if s == nil {
		return
	}
	if !slices.Contains(r.scenes, s) {
		s.queue.forward(&r.queue)
		r.scenes = append(r.scenes, s)
	}
	s.SetSize(r.width, r.height)
	r.scene = s
}

// Scene returns the current scene.
func (r *Renderer) Scene() *Scene { return r.scene }

// AddRenderTarget queues the creation of rt.
// Render targets known to r are recreated after the
// context is lost and, if full-screen, resized with the
// surface.
func (r *Renderer) AddRenderTarget(rt *RenderTarget) {
	r.queue.offer(TaskAdd, SubjectRenderTarget, func() error {
		if rt == nil || slices.Contains(r.targets, rt) {
			return newRendErr("invalid or duplicate render target")
		}
		if rt.fullscreen {
			if err := rt.Resize(r.width, r.height); err != nil {
				return err
			}
		}
		if err := rt.Create(); err != nil {
			return err
		}
		r.targets = append(r.targets, rt)
		return nil
	})
}

// RemoveRenderTarget queues the destruction of rt.
func (r *Renderer) RemoveRenderTarget(rt *RenderTarget) {
	r.queue.offer(TaskRemove, SubjectRenderTarget, func() error {
		i := slices.Index(r.targets, rt)
		if i < 0 {
			return newRendErr("render target not found")
		}
		r.targets = slices.Delete(r.targets, i, i+1)
		rt.Destroy()
		return nil
	})
}

// SetComposer sets the composer that renders each
// frame. nil renders the current scene directly to the
// surface.
func (r *Renderer) SetComposer(c *Composer) {
	r.queue.offer(TaskReplace, SubjectPass, func() error {
		r.composer = c
		if c != nil {
			return c.surfaceChanged(r.width, r.height)
		}
		return nil
	})
}

// Composer returns the composer in use, as of the
// last frame.
func (r *Renderer) Composer() *Composer { return r.composer }

// RenderFrame renders one frame.
// Queued tasks are applied first, then the pending
// scene switch and the scene's own tasks. Every error
// is joined in the returned error.
func (r *Renderer) RenderFrame() error {
	if !ctxt.Loaded() {
		return newRendErr("no GPU")
	}
	start := hrtime.Now()
	errs := []error{r.queue.drain()}
	r.switchScene()
	s := r.scene
	// A scene switched to without AddScene brings its
	// pending tasks along.
	errs = append(errs, r.queue.drain(), s.BeginFrame())
	if r.composer != nil && r.composer.Len() > 0 {
		errs = append(errs, r.composer.Render(s))
	} else {
		ctxt.GPU().Viewport(0, 0, r.width, r.height)
		errs = append(errs, s.Render(nil))
	}
	r.frameDone(start, hrtime.Now())
	return errors.Join(errs...)
}

func (r *Renderer) frameDone(start, end time.Duration) {
	r.statMu.Lock()
	defer r.statMu.Unlock()
	if r.nframe == 0 {
		r.first = start
	}
	r.nframe++
	r.last = end
	r.frameTime = end - start
}

// Stats contains frame statistics.
type Stats struct {
	// Number of frames rendered.
	Frames int
	// Time spent in the last call to RenderFrame.
	FrameTime time.Duration
	// Average number of frames per second since the
	// first frame.
	FPS float64
}

// Stats returns the frame statistics of r.
func (r *Renderer) Stats() Stats {
	r.statMu.Lock()
	defer r.statMu.Unlock()
	s := Stats{Frames: r.nframe, FrameTime: r.frameTime}
	if d := r.last - r.first; r.nframe > 1 && d > 0 {
		s.FPS = float64(r.nframe-1) / d.Seconds()
	}
	return s
}
