// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gpu is a thin Vulkan layer for the scribble renderer: instance
// and device bootstrap, staged memory buffers, the presentation surface
// and swapchain, pipeline setup, and per-frame synchronization objects.
package gpu

import (
	"errors"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"
)

// Debug enables the Vulkan validation layers and extra logging.
var Debug = false

// Init initializes glfw and the Vulkan loader. Must be called on the main
// thread, before anything else in this package.
func Init() error {
	if err := glfw.Init(); err != nil {
		return err
	}
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	return vk.Init()
}

// Terminate shuts down glfw. Call as the last thing before exit.
func Terminate() {
	glfw.Terminate()
}

// GPU holds the Vulkan instance and the selected physical device.
type GPU struct {
	Instance    vk.Instance
	GPU         vk.PhysicalDevice
	GPUProps    vk.PhysicalDeviceProperties
	MemoryProps vk.PhysicalDeviceMemoryProperties

	// InstanceExts are additional instance extensions, e.g. the ones the
	// windowing system requires for surface creation.
	InstanceExts []string

	// DeviceExts are the logical device extensions; the swapchain
	// extension is always included.
	DeviceExts []string

	// ValidationLayers to enable when Debug is set.
	ValidationLayers []string
}

// NewGPU returns a new GPU with default extensions.
func NewGPU() *GPU {
	gp := &GPU{}
	gp.DeviceExts = []string{"VK_KHR_swapchain\x00"}
	return gp
}

// AddInstanceExt adds instance extensions, null-terminating as needed.
func (gp *GPU) AddInstanceExt(exts ...string) {
	for _, ext := range exts {
		gp.InstanceExts = append(gp.InstanceExts, SafeString(ext))
	}
}

// Config creates the Vulkan instance under the given app name and selects
// a physical device, preferring a discrete GPU. When Debug is set, the
// Khronos validation layer is enabled.
func (gp *GPU) Config(name string) error {
	if Debug {
		gp.ValidationLayers = []string{"VK_LAYER_KHRONOS_validation\x00"}
	}
	var inst vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   SafeString(name),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PEngineName:        "scribble\x00",
			EngineVersion:      vk.MakeVersion(1, 0, 0),
			ApiVersion:         vk.MakeVersion(1, 1, 0),
		},
		EnabledExtensionCount:   uint32(len(gp.InstanceExts)),
		PpEnabledExtensionNames: gp.InstanceExts,
		EnabledLayerCount:       uint32(len(gp.ValidationLayers)),
		PpEnabledLayerNames:     gp.ValidationLayers,
	}, nil, &inst)
	if IsError(ret) {
		return NewError(ret)
	}
	gp.Instance = inst
	if err := vk.InitInstance(inst); err != nil {
		return err
	}

	if err := gp.SelectDevice(); err != nil {
		return err
	}
	vk.GetPhysicalDeviceProperties(gp.GPU, &gp.GPUProps)
	gp.GPUProps.Deref()
	vk.GetPhysicalDeviceMemoryProperties(gp.GPU, &gp.MemoryProps)
	gp.MemoryProps.Deref()
	return nil
}

// SelectDevice picks the physical device: the first discrete GPU if one
// exists, otherwise the first device enumerated.
func (gp *GPU) SelectDevice() error {
	var count uint32
	ret := vk.EnumeratePhysicalDevices(gp.Instance, &count, nil)
	if IsError(ret) {
		return NewError(ret)
	}
	if count == 0 {
		return errors.New("vulkan error: no GPU devices found")
	}
	devs := make([]vk.PhysicalDevice, count)
	ret = vk.EnumeratePhysicalDevices(gp.Instance, &count, devs)
	if IsError(ret) {
		return NewError(ret)
	}
	gp.GPU = devs[0]
	for _, dev := range devs {
		var props vk.PhysicalDeviceProperties
		vk.GetPhysicalDeviceProperties(dev, &props)
		props.Deref()
		if props.DeviceType == vk.PhysicalDeviceTypeDiscreteGpu {
			gp.GPU = dev
			break
		}
	}
	return nil
}

// Destroy destroys the instance. All devices and surfaces must already be
// destroyed.
func (gp *GPU) Destroy() {
	if gp.Instance != vk.NullInstance {
		vk.DestroyInstance(gp.Instance, nil)
		gp.Instance = vk.NullInstance
	}
}

// SafeString returns the string null-terminated for passing to Vulkan.
func SafeString(s string) string {
	if len(s) == 0 {
		return "\x00"
	}
	if s[len(s)-1] != '\x00' {
		s += "\x00"
	}
	return s
}
