package hal

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"

	"github.com/gogpu/rtex/render"
)

func TestRegistered(t *testing.T) {
	for _, name := range render.List() {
		if name == "hal" {
			return
		}
	}
	t.Fatal("hal backend not registered")
}

func TestAllocateWithoutDevice(t *testing.T) {
	_, err := render.AllocateByName("hal", render.AllocateOptions{Width: 8, Height: 8})
	if !errors.Is(err, ErrNoDevice) {
		t.Fatalf("err = %v, want ErrNoDevice", err)
	}
}

func TestAllocateFallsThroughToPixmap(t *testing.T) {
	// Without a device the hal factory errors and the registry falls back
	// to the CPU pixmap backend.
	target, err := render.Allocate(render.AllocateOptions{Width: 8, Height: 8})
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer target.Dispose()
	if target.Pixels() == nil {
		t.Error("fallback target should be CPU-backed")
	}
}

func TestNewTextureTargetValidation(t *testing.T) {
	if _, err := NewTextureTarget(nil, render.AllocateOptions{Width: 8, Height: 8}); !errors.Is(err, ErrNoDevice) {
		t.Errorf("nil device err = %v, want ErrNoDevice", err)
	}
}

func TestWGPUFormat(t *testing.T) {
	tests := []struct {
		in   gputypes.TextureFormat
		want types.TextureFormat
	}{
		{gputypes.TextureFormatRGBA8Unorm, types.TextureFormatRGBA8Unorm},
		{gputypes.TextureFormatBGRA8Unorm, types.TextureFormatBGRA8Unorm},
		{gputypes.TextureFormatR8Unorm, types.TextureFormatR8Unorm},
		{gputypes.TextureFormatUndefined, types.TextureFormatRGBA8Unorm},
	}
	for _, tt := range tests {
		if got := wgpuFormat(tt.in); got != tt.want {
			t.Errorf("wgpuFormat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct{ in, want int }{
		{1, 1}, {2, 2}, {3, 4}, {100, 128}, {128, 128}, {129, 256},
	}
	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.in); got != tt.want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
