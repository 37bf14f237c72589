// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "Scribble", cfg.Window.Title)
	assert.Equal(t, 2, cfg.Vulkan.MaxFramesInFlight)
	assert.LessOrEqual(t, cfg.Vulkan.StagingBufferVertexCount, cfg.Vulkan.MaxVertices)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, ok, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
[window]
title = "Test"
width = 320
height = 240

[vulkan]
validation_enabled = true
max_frames_in_flight = 3
max_vertices = 128
staging_buffer_vertex_count = 16

[shaders]
vertex = "v.spv"
fragment = "f.spv"
`), 0o644)
	assert.NoError(t, err)

	cfg, ok, err := Load(path)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Test", cfg.Window.Title)
	assert.Equal(t, 3, cfg.Vulkan.MaxFramesInFlight)
	assert.True(t, cfg.Vulkan.ValidationEnabled)
}

func TestLoadRejectsBadLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	err := os.WriteFile(path, []byte(`
[window]
title = "Test"
width = 320
height = 240

[vulkan]
max_frames_in_flight = 2
max_vertices = 8
staging_buffer_vertex_count = 16

[shaders]
vertex = "v.spv"
fragment = "f.spv"
`), 0o644)
	assert.NoError(t, err)

	_, _, err = Load(path)
	assert.ErrorContains(t, err, "staging_buffer_vertex_count")
}

func TestLoadRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	assert.NoError(t, os.WriteFile(path, []byte("[window\n"), 0o644))
	_, _, err := Load(path)
	assert.Error(t, err)
}
