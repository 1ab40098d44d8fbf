// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "testing"

func TestDetectProfile(t *testing.T) {
	tests := []struct {
		name string
		caps DeviceCapabilities
		want Profile
	}{
		{
			name: "tiny texture limit",
			caps: DeviceCapabilities{MaxTextureSize: 2048},
			want: ProfileBaselineConstrained,
		},
		{
			name: "no read-write targets",
			caps: DeviceCapabilities{MaxTextureSize: 8192},
			want: ProfileBaseline,
		},
		{
			name: "standard",
			caps: DeviceCapabilities{MaxTextureSize: 8192, SupportsReadWriteTargets: true},
			want: ProfileStandard,
		},
		{
			name: "extended",
			caps: DeviceCapabilities{
				MaxTextureSize:           16384,
				SupportsReadWriteTargets: true,
				SupportsCompute:          true,
				SupportsStorageTextures:  true,
			},
			want: ProfileStandardExtended,
		},
		{
			name: "unknown capabilities default to baseline",
			caps: DeviceCapabilities{},
			want: ProfileBaseline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectProfile(tt.caps); got != tt.want {
				t.Errorf("DetectProfile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfileString(t *testing.T) {
	tests := []struct {
		profile Profile
		want    string
	}{
		{ProfileBaselineConstrained, "baselineConstrained"},
		{ProfileBaseline, "baseline"},
		{ProfileStandard, "standard"},
		{ProfileStandardExtended, "standardExtended"},
		{Profile(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.profile.String(); got != tt.want {
			t.Errorf("Profile(%d).String() = %q, want %q", tt.profile, got, tt.want)
		}
	}
}

func TestNullDeviceHandle(t *testing.T) {
	var h DeviceHandle = NullDeviceHandle{}

	if h.Device() != nil {
		t.Error("Device() should be nil")
	}
	if h.Queue() != nil {
		t.Error("Queue() should be nil")
	}
}
