// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines the interface to the low-level
// 3D API that the engine renders with.
// The API follows the model of OpenGL ES 2: a single
// context owning programs, buffers, textures and
// framebuffers, with immediate state changes and draw
// calls. Implementations must only be used from the
// goroutine that owns the context.
package driver

import (
	"errors"
	"log/slog"
	"sync"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same GPU instance.
	// The caller must have made a context current on the
	// calling goroutine.
	Open() (GPU, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	Close()
}

// ErrNotInstalled means that a platform-specific library
// required for the driver to work is not present in the
// system.
var ErrNotInstalled = errors.New("driver: missing required library")

// ErrNoContext means that no context is current on the
// calling goroutine.
var ErrNoContext = errors.New("driver: no current context")

// ErrNoDeviceMemory means that device memory could not
// be allocated.
var ErrNoDeviceMemory = errors.New("driver: out of device memory")

// ErrCompile means that a shader failed to compile or
// a program failed to link. Errors returned by
// GPU.NewProgram wrap it together with the info log.
var ErrCompile = errors.New("driver: shader compilation failed")

// ErrFramebuf means that a framebuffer could not be
// completed with the requested attachments.
var ErrFramebuf = errors.New("driver: incomplete framebuffer")

// Drivers returns the registered Drivers.
// Client code imports specific driver packages, and then
// calls this function. Drivers that do not register
// themselves on init will not be considered for
// selection.
func Drivers() []Driver {
	mu.Lock()
	defer mu.Unlock()
	drv := make([]Driver, len(drivers))
	copy(drv, drivers)
	return drv
}

// Register registers a Driver.
// Driver implementations are expected to call Register
// exactly once, from an init function.
// If a driver with the same name has already been
// registered, it will be replaced by drv.
func Register(drv Driver) {
	mu.Lock()
	defer mu.Unlock()
	for i := range drivers {
		if drivers[i].Name() == drv.Name() {
			drivers[i] = drv
			slog.Warn("driver replaced", "name", drv.Name())
			return
		}
	}
	drivers = append(drivers, drv)
	slog.Debug("driver registered", "name", drv.Name())
}

// Variables used for driver registration.
var (
	mu      sync.Mutex
	drivers = make([]Driver, 0, 1)
)
