// Copyright (c) 2026, The Scribble Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"runtime"

	vk "github.com/goki/vulkan"
)

// IsError returns true if the Vulkan result is anything other than Success.
func IsError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError returns an error wrapping the Vulkan result, with the caller's
// location, or nil on Success.
func NewError(ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	if _, file, line, ok := runtime.Caller(1); ok {
		return fmt.Errorf("vulkan error: %s (%d) at %s:%d",
			vk.Error(ret).Error(), ret, file, line)
	}
	return fmt.Errorf("vulkan error: %s (%d)", vk.Error(ret).Error(), ret)
}

// IfPanic panics on a non-nil error, running any finalizers first.
// Used for unrecoverable driver errors during resource creation.
func IfPanic(err error, finalizers ...func()) {
	if err == nil {
		return
	}
	for _, fn := range finalizers {
		fn()
	}
	panic(err)
}

// CheckErr recovers a panic into the given error pointer, so creation
// paths using IfPanic can present a normal error return at the boundary.
func CheckErr(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = e
		} else {
			*err = fmt.Errorf("%v", v)
		}
	}
}
