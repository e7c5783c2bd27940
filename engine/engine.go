// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package engine implements a retained-mode scene graph
// renderer.
package engine

import (
	"log/slog"

	"github.com/gviegas/scenegl/engine/internal/ctxt"
)

const (
	// The maximum number of lights per lit material.
	MaxLight = 8

	// The maximum number of textures per material.
	// The GPU's limit applies if lower.
	MaxTextureUnit = 16

	dflFrameRate  = 60
	dflMaxLight   = 4
	dflMaxTexture = 256
)

// Config is used to configure the engine.
type Config struct {
	// Name of the driver to load when the first
	// surface is created. Any registered driver will
	// be tried if it cannot be loaded.
	//
	// Default is "".
	Driver string

	// The number of frames per second requested by
	// Renderer.Start.
	//
	// Default is 60.
	FrameRate int

	// The number of lights of lit materials.
	// It must not exceed MaxLight.
	//
	// Default is 4.
	MaxLight int

	// The maximum number of textures that a
	// TextureManager holds.
	//
	// Default is 256.
	MaxTexture int

	// Whether the top-level objects of a scene are
	// sorted with Compare before drawing.
	//
	// Default is false.
	DepthSort bool

	// Size of the post-processing render targets.
	// Zero means the size of the surface.
	//
	// Default is 0.
	PostWidth, PostHeight int

	// Minimum level of engine log records.
	//
	// Default is slog.LevelInfo.
	LogLevel slog.Level
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		FrameRate:  dflFrameRate,
		MaxLight:   dflMaxLight,
		MaxTexture: dflMaxTexture,
		LogLevel:   slog.LevelInfo,
	}
}

var cfg Config

// Configure replaces the engine's configuration
// with config.
// Fields that are out of range are replaced with
// their default values.
func Configure(config *Config) {
	c := *config
	dfl := DefaultConfig()
	if c.FrameRate < 1 {
		c.FrameRate = dfl.FrameRate
	}
	if c.MaxLight < 1 || c.MaxLight > MaxLight {
		c.MaxLight = dfl.MaxLight
	}
	if c.MaxTexture < 1 {
		c.MaxTexture = dfl.MaxTexture
	}
	c.PostWidth = max(c.PostWidth, 0)
	c.PostHeight = max(c.PostHeight, 0)
	cfg = c
	level.Set(c.LogLevel)
}

// Load loads the named driver and makes its GPU the
// one used by the engine.
// The caller must have made a context current on the
// calling goroutine.
func Load(name string) error {
	if err := ctxt.Load(name); err != nil {
		return err
	}
	logger().Info("driver loaded", "name", ctxt.Driver().Name())
	return nil
}

func init() {
	config := DefaultConfig()
	Configure(&config)
}
