// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Viewer shows a mesh orbited by a camera, lit by a
// directional light and optionally post-processed.
//
// Keys: C switches between the orbit and top cameras,
// E toggles post-processing and Escape quits.
package main

import (
	"context"
	"flag"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	_ "github.com/gviegas/scenegl/driver/gles"
	"github.com/gviegas/scenegl/engine"
)

var (
	configFile = flag.String("config", "", "TOML configuration file")
	exportFile = flag.String("export", "", "write the model to a mesh file and exit")
)

const statsInterval = 5 * time.Second

func init() { runtime.LockOSThread() }

func main() {
	flag.Parse()

	cfg := defaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = loadConfig(*configFile); err != nil {
			log.Fatalln("failed to load configuration:", err)
		}
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Engine.LogLevel}))
	slog.SetDefault(logger)
	engine.SetLogger(logger)
	ec := cfg.engineConfig()
	engine.Configure(&ec)

	geom, err := cfg.geometry()
	if err != nil {
		log.Fatalln("failed to create geometry:", err)
	}
	if *exportFile != "" {
		if err := exportGeometry(*exportFile, geom); err != nil {
			log.Fatalln("failed to export geometry:", err)
		}
		return
	}

	if err := glfw.Init(); err != nil {
		log.Fatalln("failed to initialize glfw:", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Samples, 2)
	glfw.WindowHint(glfw.ClientAPI, glfw.OpenGLESAPI)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 0)

	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		log.Fatalln("failed to create window:", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	r := engine.NewRenderer()
	if err := r.OnSurfaceCreated(); err != nil {
		log.Fatalln("failed to create surface:", err)
	}
	if err := r.OnSurfaceChanged(window.GetFramebufferSize()); err != nil {
		log.Fatalln("failed to set surface size:", err)
	}
	v, err := newViewer(&cfg, r, geom)
	if err != nil {
		log.Fatalln("failed to create scene:", err)
	}

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		// Zero while minimized.
		if width == 0 || height == 0 {
			return
		}
		if err := r.OnSurfaceChanged(width, height); err != nil {
			slog.Warn("surface change failed", "err", err)
		}
	})
	window.SetIconifyCallback(func(_ *glfw.Window, iconified bool) {
		r.OnVisibilityChanged(!iconified)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyC:
			v.toggleCamera()
		case glfw.KeyE:
			v.toggleComposer()
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Start(ctx)
	lastStats := time.Now()
	for !window.ShouldClose() {
		glfw.PollEvents()
		select {
		case <-r.Frames():
		case <-time.After(100 * time.Millisecond):
			continue
		}
		v.update(glfw.GetTime())
		if err := r.RenderFrame(); err != nil {
			slog.Error("frame failed", "err", err)
			break
		}
		window.SwapBuffers()
		if time.Since(lastStats) >= statsInterval {
			st := r.Stats()
			slog.Info("frame stats", "frames", st.Frames, "frameTime", st.FrameTime, "fps", st.FPS, "draws", v.scene.Draws())
			lastStats = time.Now()
		}
	}
	r.OnSurfaceDestroyed()
}
