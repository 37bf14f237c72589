// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config loads the application configuration from a TOML file,
// falling back to embedded defaults when the file is missing or invalid.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml
var defaultTOML []byte

// Config is the full application configuration.
type Config struct {
	Window  Window  `toml:"window"`
	Vulkan  Vulkan  `toml:"vulkan"`
	Shaders Shaders `toml:"shaders"`
}

// Window configures the application window.
type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Vulkan configures the rendering core.
type Vulkan struct {
	// ValidationEnabled turns on the Vulkan validation layers.
	ValidationEnabled bool `toml:"validation_enabled"`

	// MaxFramesInFlight is the number of frame slots.
	MaxFramesInFlight int `toml:"max_frames_in_flight"`

	// MaxVertices is the device segment buffer capacity.
	MaxVertices int `toml:"max_vertices"`

	// StagingBufferVertexCount is the staging region capacity, and the
	// per-cycle commit batch size.
	StagingBufferVertexCount int `toml:"staging_buffer_vertex_count"`
}

// Shaders holds paths to precompiled SPIR-V shader bytecode.
type Shaders struct {
	Vertex   string `toml:"vertex"`
	Fragment string `toml:"fragment"`
}

// Default returns the embedded default configuration.
func Default() Config {
	var cfg Config
	if err := toml.Unmarshal(defaultTOML, &cfg); err != nil {
		panic(fmt.Sprintf("embedded default config invalid: %v", err))
	}
	return cfg
}

// Load reads the configuration at path. A missing or unreadable file
// yields the embedded defaults with ok = false and a nil error; a file
// that exists but fails to parse or validate is an error.
func Load(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), false, nil
	}
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, false, fmt.Errorf("config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, false, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, true, nil
}

// Validate checks the configured limits are usable.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d invalid", c.Window.Width, c.Window.Height)
	}
	if c.Vulkan.MaxFramesInFlight < 1 {
		return fmt.Errorf("max_frames_in_flight %d must be at least 1", c.Vulkan.MaxFramesInFlight)
	}
	if c.Vulkan.MaxVertices < 1 {
		return fmt.Errorf("max_vertices %d must be at least 1", c.Vulkan.MaxVertices)
	}
	if c.Vulkan.StagingBufferVertexCount < 1 {
		return fmt.Errorf("staging_buffer_vertex_count %d must be at least 1", c.Vulkan.StagingBufferVertexCount)
	}
	if c.Vulkan.StagingBufferVertexCount > c.Vulkan.MaxVertices {
		return fmt.Errorf("staging_buffer_vertex_count %d exceeds max_vertices %d",
			c.Vulkan.StagingBufferVertexCount, c.Vulkan.MaxVertices)
	}
	if c.Shaders.Vertex == "" || c.Shaders.Fragment == "" {
		return fmt.Errorf("shader paths must be set")
	}
	return nil
}
