// Package hal provides a GPU render target backend using gogpu/wgpu.
//
// Importing the package registers the "hal" backend with the render target
// registry at a priority above the CPU pixmap backend:
//
//	import _ "github.com/gogpu/rtex/backend/hal"
//
// Allocation requires a hal.Device in AllocateOptions.Device; without one
// the factory returns an error and allocation falls through to the next
// backend.
package hal

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync"

	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/rtex/render"
)

// Errors.
var (
	// ErrNoDevice is returned when allocating without a HAL device.
	ErrNoDevice = errors.New("hal: no HAL device in allocate options")

	// ErrTargetDestroyed is returned when operating on a destroyed target.
	ErrTargetDestroyed = errors.New("hal: target has been destroyed")
)

// TextureTarget is a GPU texture render target.
//
// It wraps a hal.Texture created with render-attachment and sampling usage.
// The default view is created lazily with sync.Once, following the wgpu
// pattern of on-demand default views.
//
// Clear does not touch GPU memory immediately: wgpu clears through render
// pass load operations, so the target records the pending clear color and
// the renderer consumes it when it begins the next pass on this target.
type TextureTarget struct {
	mu sync.RWMutex

	device  hal.Device
	texture hal.Texture

	width, height int
	scale         float64
	format        gputypes.TextureFormat
	label         string

	viewOnce sync.Once
	view     hal.TextureView
	viewErr  error

	pendingClear *color.RGBA
	onRestore    []func(render.Target)
	destroyed    bool
}

// NewTextureTarget allocates a GPU texture target on the given device.
// The physical size is the logical size times the scale factor, padded to
// powers of two when requested.
func NewTextureTarget(device hal.Device, opts render.AllocateOptions) (*TextureTarget, error) {
	if device == nil {
		return nil, ErrNoDevice
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, render.ErrInvalidSize
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}

	physW := int(math.Ceil(float64(opts.Width) * opts.Scale))
	physH := int(math.Ceil(float64(opts.Height) * opts.Scale))
	if opts.PowerOfTwo {
		physW = nextPowerOfTwo(physW)
		physH = nextPowerOfTwo(physH)
	}

	desc := &hal.TextureDescriptor{
		Label: opts.Label,
		Size: hal.Extent3D{
			Width:              uint32(physW),
			Height:             uint32(physH),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        wgpuFormat(opts.Format),
		Usage: types.TextureUsageRenderAttachment |
			types.TextureUsageTextureBinding |
			types.TextureUsageCopySrc,
	}

	texture, err := device.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("hal: create texture: %w", err)
	}

	return &TextureTarget{
		device:  device,
		texture: texture,
		width:   physW,
		height:  physH,
		scale:   opts.Scale,
		format:  opts.Format,
		label:   opts.Label,
	}, nil
}

// Width returns the physical width in pixels.
func (t *TextureTarget) Width() int { return t.width }

// Height returns the physical height in pixels.
func (t *TextureTarget) Height() int { return t.height }

// Scale returns physical pixels per logical point.
func (t *TextureTarget) Scale() float64 { return t.scale }

// Format returns the pixel format.
func (t *TextureTarget) Format() gputypes.TextureFormat { return t.format }

// Pixels returns nil: the pixel data lives in GPU memory.
func (t *TextureTarget) Pixels() []byte { return nil }

// Stride returns the number of bytes per row.
func (t *TextureTarget) Stride() int { return t.width * 4 }

// Label returns the debug label.
func (t *TextureTarget) Label() string { return t.label }

// Raw returns the underlying HAL texture, or nil after Dispose.
func (t *TextureTarget) Raw() hal.Texture {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return nil
	}
	return t.texture
}

// View returns the default texture view, created lazily on first call.
func (t *TextureTarget) View() (hal.TextureView, error) {
	t.mu.RLock()
	if t.destroyed {
		t.mu.RUnlock()
		return nil, ErrTargetDestroyed
	}
	t.mu.RUnlock()

	t.viewOnce.Do(func() {
		t.view, t.viewErr = t.device.CreateTextureView(t.texture, &hal.TextureViewDescriptor{
			Label:     t.label + " (default view)",
			Format:    types.TextureFormatUndefined,
			Dimension: types.TextureViewDimensionUndefined,
			Aspect:    types.TextureAspectAll,
		})
	})
	return t.view, t.viewErr
}

// Clear records a pending clear color. The renderer applies it as the load
// operation of the next render pass targeting this texture.
func (t *TextureTarget) Clear(c color.RGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return
	}
	t.pendingClear = &c
}

// TakePendingClear returns the recorded clear color, if any, and resets it.
// Called by the renderer when it begins a pass on this target.
func (t *TextureTarget) TakePendingClear() (color.RGBA, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pendingClear == nil {
		return color.RGBA{}, false
	}
	c := *t.pendingClear
	t.pendingClear = nil
	return c, true
}

// OnRestore registers a restore observer.
func (t *TextureTarget) OnRestore(fn func(render.Target)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if fn != nil {
		t.onRestore = append(t.onRestore, fn)
	}
}

// Restore signals that the device recreated the texture resource.
// Called by the owning device after context loss; content is undefined.
func (t *TextureTarget) Restore() {
	t.mu.RLock()
	destroyed := t.destroyed
	observers := t.onRestore
	t.mu.RUnlock()
	if destroyed {
		return
	}
	for _, fn := range observers {
		fn(t)
	}
}

// Dispose destroys the texture and its default view. Idempotent.
func (t *TextureTarget) Dispose() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	device := t.device
	texture := t.texture
	view := t.view
	t.texture = nil
	t.view = nil
	t.mu.Unlock()

	if device == nil {
		return
	}
	if view != nil {
		device.DestroyTextureView(view)
	}
	if texture != nil {
		device.DestroyTexture(texture)
	}
}

// wgpuFormat maps a gputypes pixel format to the wgpu texture format.
func wgpuFormat(f gputypes.TextureFormat) types.TextureFormat {
	switch f {
	case gputypes.TextureFormatBGRA8Unorm:
		return types.TextureFormatBGRA8Unorm
	case gputypes.TextureFormatR8Unorm:
		return types.TextureFormatR8Unorm
	default:
		return types.TextureFormatRGBA8Unorm
	}
}

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Ensure TextureTarget implements render.Target.
var _ render.Target = (*TextureTarget)(nil)

// init registers the "hal" backend above the CPU pixmap backend.
func init() {
	render.Register("hal", 100, func(opts render.AllocateOptions) (render.Target, error) {
		device, ok := opts.Device.(hal.Device)
		if !ok || device == nil {
			return nil, ErrNoDevice
		}
		return NewTextureTarget(device, opts)
	}, nil)
}
