// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package ctxt provides the GPU driver used in the engine.
// The GPU is bound to the goroutine that owns the
// underlying context; every call into it must happen on
// that goroutine.
package ctxt

import (
	"errors"
	"strings"

	"github.com/gviegas/scenegl/driver"
)

var (
	drv    driver.Driver
	gpu    driver.GPU
	limits driver.Limits
)

var errNoDriver = errors.New("ctxt: driver not found")

// loadDriver attempts to load any driver whose name
// contains the name string. It is case insensitive.
// If name is the empty string, then all registered
// drivers are considered.
// It replaces drv and gpu on success.
// The limits var is queried from the new gpu.
func loadDriver(name string) error {
	drivers := driver.Drivers()
	err := errNoDriver
	name = strings.ToLower(name)
	for i := range drivers {
		if !strings.Contains(strings.ToLower(drivers[i].Name()), name) {
			continue
		}
		var u driver.GPU
		if u, err = drivers[i].Open(); err != nil {
			continue
		}
		drv = drivers[i]
		gpu = u
		limits = gpu.Limits()
		return nil
	}
	return err
}

// Load opens the first registered driver whose name
// contains name, falling back to any driver that can
// be opened.
// It must be called with the context current.
func Load(name string) error {
	if err := loadDriver(name); err != nil {
		// Try all drivers.
		return loadDriver("")
	}
	return nil
}

// Use replaces the GPU with u.
// Passing nil unloads the current GPU.
func Use(u driver.GPU) {
	if u == nil {
		drv, gpu, limits = nil, nil, driver.Limits{}
		return
	}
	drv = u.Driver()
	gpu = u
	limits = u.Limits()
}

// Loaded returns whether a GPU is available.
func Loaded() bool { return gpu != nil }

// Driver returns the driver.Driver.
func Driver() driver.Driver { return drv }

// GPU returns the driver.GPU.
func GPU() driver.GPU { return gpu }

// Limits returns GPU().Limits().
// This value is retrieved only once. It must not be
// changed by the caller.
func Limits() *driver.Limits { return &limits }
