// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gviegas/scenegl/engine"
)

// Config is the viewer configuration, read from a TOML
// file.
type Config struct {
	// Post-processing effects applied in order.
	// See newEffect for the names.
	Effects []string `toml:"effects"`

	Window struct {
		Width  int    `toml:"width"`
		Height int    `toml:"height"`
		Title  string `toml:"title"`
	} `toml:"window"`

	Engine struct {
		Driver     string     `toml:"driver"`
		FrameRate  int        `toml:"frame_rate"`
		MaxLight   int        `toml:"max_light"`
		DepthSort  bool       `toml:"depth_sort"`
		PostWidth  int        `toml:"post_width"`
		PostHeight int        `toml:"post_height"`
		LogLevel   slog.Level `toml:"log_level"`
	} `toml:"engine"`

	Scene struct {
		// Mesh file to show. If empty, Primitive is used.
		Mesh string `toml:"mesh"`
		// One of "cube", "sphere" or "plane".
		Primitive  string     `toml:"primitive"`
		Texture    string     `toml:"texture"`
		Background [4]float32 `toml:"background"`
		Fog        bool       `toml:"fog"`
		Floor      bool       `toml:"floor"`
	} `toml:"scene"`

	Orbit struct {
		Radius float32 `toml:"radius"`
		Height float32 `toml:"height"`
		// Radians per second.
		Speed float32 `toml:"speed"`
	} `toml:"orbit"`

	Shadow struct {
		Enabled   bool    `toml:"enabled"`
		Size      int     `toml:"size"`
		Area      float32 `toml:"area"`
		Influence float32 `toml:"influence"`
	} `toml:"shadow"`
}

func defaultConfig() Config {
	var c Config
	c.Window.Width = 800
	c.Window.Height = 600
	c.Window.Title = "viewer"
	dfl := engine.DefaultConfig()
	c.Engine.FrameRate = dfl.FrameRate
	c.Engine.MaxLight = dfl.MaxLight
	c.Engine.LogLevel = dfl.LogLevel
	c.Scene.Primitive = "cube"
	c.Scene.Background = [4]float32{0x26 / 255.0, 0x42 / 255.0, 0x6b / 255.0, 1}
	c.Scene.Floor = true
	c.Orbit.Radius = 6
	c.Orbit.Height = 3
	c.Orbit.Speed = 0.3
	c.Shadow.Size = 1024
	c.Shadow.Area = 8
	c.Shadow.Influence = 0.5
	return c
}

const cfgPrefix = "config: "

func newCfgErr(reason string) error { return errors.New(cfgPrefix + reason) }

// readConfig decodes a configuration from r.
// Fields not present in r keep their default values.
// Unknown fields are an error.
func readConfig(r io.Reader) (Config, error) {
	c := defaultConfig()
	d := toml.NewDecoder(r).DisallowUnknownFields()
	if err := d.Decode(&c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			slog.Error("invalid configuration", "row", row, "col", col, "err", derr)
		}
		return Config{}, err
	}
	return c, c.validate()
}

func loadConfig(name string) (Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return readConfig(f)
}

func (c *Config) validate() error {
	var reason string
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		reason = "invalid window size"
	case c.Scene.Mesh == "" && c.Scene.Primitive != "cube" && c.Scene.Primitive != "sphere" && c.Scene.Primitive != "plane":
		reason = "unknown primitive " + c.Scene.Primitive
	case c.Shadow.Enabled && (c.Shadow.Size <= 0 || c.Shadow.Area <= 0):
		reason = "invalid shadow size or area"
	default:
		for _, e := range c.Effects {
			if !knownEffect(e) {
				return newCfgErr("unknown effect " + e)
			}
		}
		return nil
	}
	return newCfgErr(reason)
}

// engineConfig returns the engine.Config described
// by c.
func (c *Config) engineConfig() engine.Config {
	ec := engine.DefaultConfig()
	ec.Driver = c.Engine.Driver
	ec.FrameRate = c.Engine.FrameRate
	ec.MaxLight = c.Engine.MaxLight
	ec.DepthSort = c.Engine.DepthSort
	ec.PostWidth = c.Engine.PostWidth
	ec.PostHeight = c.Engine.PostHeight
	ec.LogLevel = c.Engine.LogLevel
	return ec
}
