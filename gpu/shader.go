// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"os"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// LoadShaderModule reads a compiled SPIR-V file and creates a shader
// module from it on the given device.
func LoadShaderModule(dev vk.Device, fname string) (vk.ShaderModule, error) {
	code, err := os.ReadFile(fname)
	if err != nil {
		return vk.NullShaderModule, fmt.Errorf("shader %q: %w", fname, err)
	}
	return NewShaderModule(dev, code)
}

// NewShaderModule creates a shader module from SPIR-V bytes.
func NewShaderModule(dev vk.Device, code []byte) (vk.ShaderModule, error) {
	if len(code) == 0 || len(code)%4 != 0 {
		return vk.NullShaderModule, fmt.Errorf("shader code size %d is not a multiple of 4", len(code))
	}
	var module vk.ShaderModule
	ret := vk.CreateShaderModule(dev, &vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    sliceUint32(code),
	}, nil, &module)
	if IsError(ret) {
		return vk.NullShaderModule, NewError(ret)
	}
	return module, nil
}

// sliceUint32 reinterprets SPIR-V bytes as the uint32 words Vulkan wants.
func sliceUint32(data []byte) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(unsafe.SliceData(data))), len(data)/4)
}
