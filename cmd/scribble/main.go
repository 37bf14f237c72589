// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Scribble is a freehand drawing app: draw strokes with the mouse,
// Ctrl+Z removes the last one. All geometry streams incrementally into
// a device-local buffer while rendering continues.
package main

import (
	"flag"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
	"go.uber.org/zap"

	"github.com/scribblevk/scribble/config"
	"github.com/scribblevk/scribble/gpu"
	"github.com/scribblevk/scribble/renderer"
	"github.com/scribblevk/scribble/sketch"
	"goki.dev/mat32/v2"
)

func init() {
	// must lock main thread for gpu!
	runtime.LockOSThread()
}

func main() {
	cfgPath := flag.String("config", "config.toml", "path to configuration file")
	flag.Parse()

	lg, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer lg.Sync()

	if err := run(*cfgPath, lg); err != nil {
		lg.Fatal("scribble exited", zap.Error(err))
	}
}

func run(cfgPath string, lg *zap.Logger) error {
	cfg, fromFile, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if !fromFile {
		lg.Warn("config file not found, using embedded defaults", zap.String("path", cfgPath))
	}

	if err := gpu.Init(); err != nil {
		return err
	}
	defer gpu.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, nil, nil)
	if err != nil {
		return err
	}
	defer window.Destroy()

	gpu.Debug = cfg.Vulkan.ValidationEnabled
	gp := gpu.NewGPU()
	gp.AddInstanceExt(window.GetRequiredInstanceExtensions()...)
	if err := gp.Config(cfg.Window.Title); err != nil {
		return err
	}
	defer gp.Destroy()

	surfPtr, err := window.CreateWindowSurface(gp.Instance, nil)
	if err != nil {
		return err
	}
	sf, err := gpu.NewSurface(gp, vk.SurfaceFromPointer(surfPtr))
	if err != nil {
		return err
	}
	defer sf.Destroy()
	if err := sf.InitSwapchain(); err != nil {
		return err
	}

	cv, err := renderer.NewCanvas(gp, sf, renderer.Options{
		Slots:       cfg.Vulkan.MaxFramesInFlight,
		MaxSegments: cfg.Vulkan.MaxVertices,
		StagingCap:  cfg.Vulkan.StagingBufferVertexCount,
		VertFile:    cfg.Shaders.Vertex,
		FragFile:    cfg.Shaders.Fragment,
	}, lg)
	if err != nil {
		return err
	}

	log := &sketch.Log{}
	stream := renderer.NewStream(cv, cfg.Vulkan.StagingBufferVertexCount, cfg.Vulkan.MaxVertices)
	sched := renderer.NewScheduler(cv, log, stream, lg)

	// stops new frames, idles the device, and destroys the canvas
	defer sched.Close()

	pressed := false

	// pixel coordinates to [-1,1] normalized device space
	toNDC := func(x, y float64) mat32.Vec2 {
		w, h := window.GetSize()
		return mat32.V2(float32(x/float64(w))*2-1, float32(y/float64(h))*2-1)
	}

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		switch action {
		case glfw.Press:
			pressed = true
			x, y := w.GetCursorPos()
			log.AppendVertex(toNDC(x, y))
		case glfw.Release:
			pressed = false
			sched.EndStroke()
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if pressed {
			log.AppendVertex(toNDC(x, y))
		}
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyZ && action == glfw.Press && mods&glfw.ModControl != 0 {
			log.Undo()
			lg.Info("undo", zap.Int("committedSegments", log.CommittedSegments()))
		}
	})
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		sched.Resized(width, height)
	})

	lg.Info("scribble running",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height))

	// fixed timestep frame pacing
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	for !window.ShouldClose() {
		<-ticker.C
		glfw.PollEvents()
		if err := sched.Render(); err != nil {
			return err
		}
	}
	return nil
}
