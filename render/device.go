// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (e.g. a gogpu window) implements DeviceHandle and hands it to the
// painter, which shares the device with every render texture it allocates.
// This package receives the device from the host, it does not create one.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so that any
// gpucontext-compatible host works unchanged.
type DeviceHandle = gpucontext.DeviceProvider

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for CPU-only rendering where no GPU is available.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo returns unknown adapter info for the null device.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}

// DeviceCapabilities describes the capabilities of a GPU device,
// used to derive the hardware Profile.
type DeviceCapabilities struct {
	// MaxTextureSize is the maximum texture dimension supported.
	MaxTextureSize uint32

	// SupportsCompute indicates if compute shaders are supported.
	SupportsCompute bool

	// SupportsStorageTextures indicates if storage textures are supported.
	SupportsStorageTextures bool

	// SupportsReadWriteTargets indicates the hardware can safely sample a
	// render target while it is bound for writing in the same pass.
	// Most baseline hardware cannot.
	SupportsReadWriteTargets bool

	// VendorName is the GPU vendor name.
	VendorName string

	// DeviceName is the GPU device name.
	DeviceName string
}

// Profile classifies hardware capability tiers. The double-buffering
// default for persistent render textures is derived from it: constrained
// and baseline tiers double-buffer, higher tiers do not.
type Profile int

const (
	// ProfileBaselineConstrained is the lowest tier: small texture limits,
	// no compute, render targets cannot be read while bound.
	ProfileBaselineConstrained Profile = iota

	// ProfileBaseline is commodity hardware without read-while-write
	// render target support.
	ProfileBaseline

	// ProfileStandard supports reading a render target that is not bound
	// for writing in the current pass.
	ProfileStandard

	// ProfileStandardExtended additionally supports compute and storage
	// textures.
	ProfileStandardExtended
)

// String returns the profile name.
func (p Profile) String() string {
	switch p {
	case ProfileBaselineConstrained:
		return "baselineConstrained"
	case ProfileBaseline:
		return "baseline"
	case ProfileStandard:
		return "standard"
	case ProfileStandardExtended:
		return "standardExtended"
	default:
		return "unknown"
	}
}

// DetectProfile derives a Profile from device capabilities.
func DetectProfile(caps DeviceCapabilities) Profile {
	switch {
	case caps.MaxTextureSize > 0 && caps.MaxTextureSize <= 2048:
		return ProfileBaselineConstrained
	case !caps.SupportsReadWriteTargets:
		return ProfileBaseline
	case caps.SupportsCompute && caps.SupportsStorageTextures:
		return ProfileStandardExtended
	default:
		return ProfileStandard
	}
}
