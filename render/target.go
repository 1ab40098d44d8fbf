// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gputypes"
)

// Target is a drawable pixel surface that can later be sampled as a texture.
//
// A Target is an abstraction over different allocation backends:
//   - Pixmap: CPU-backed *image.RGBA for software rendering
//   - backend/hal.TextureTarget: GPU texture via gogpu/wgpu
//
// Targets may be allocated at a padded physical size (power-of-two padding
// on constrained hardware); Width/Height always report the physical size,
// Scale relates physical pixels to logical points.
//
// After a device/context loss the owning device recreates the underlying
// resource and emits Restore; content is undefined at that point. Observers
// registered with OnRestore decide what to do about it (the render-texture
// manager re-clears).
type Target interface {
	// Width returns the physical target width in pixels.
	Width() int

	// Height returns the physical target height in pixels.
	Height() int

	// Scale returns the number of physical pixels per logical point.
	Scale() float64

	// Format returns the pixel format of the target.
	Format() gputypes.TextureFormat

	// Pixels returns direct access to pixel data in premultiplied RGBA,
	// 4 bytes per pixel. Returns nil for GPU-only targets.
	Pixels() []byte

	// Stride returns the number of bytes per row.
	// For RGBA this is typically Width * 4, but may include padding.
	Stride() int

	// Clear fills the entire physical surface with the given premultiplied
	// color. Valid at any time, inside or outside a draw session.
	Clear(c color.RGBA)

	// OnRestore registers an observer invoked after the underlying device
	// resource has been recreated. Content is undefined when it fires.
	OnRestore(fn func(Target))

	// Restore signals that the underlying resource was recreated.
	// Called by the owning device/context, not by renderers.
	Restore()

	// Dispose releases the target's resources. The target must not be
	// used afterwards. Dispose is idempotent.
	Dispose()
}

// Pixmap is a CPU-backed render target using *image.RGBA.
//
// It is the default allocation backend and the reference implementation the
// software painter draws into. Pixel data is premultiplied RGBA.
type Pixmap struct {
	img       *image.RGBA
	scale     float64
	format    gputypes.TextureFormat
	onRestore []func(Target)
	disposed  bool
}

// NewPixmap creates a CPU-backed target of the given logical size at
// scale 1 with no padding.
func NewPixmap(width, height int) *Pixmap {
	p, _ := NewPixmapWithOptions(AllocateOptions{Width: width, Height: height})
	return p
}

// NewPixmapWithOptions creates a CPU-backed target from allocation options.
// The physical size is the logical size multiplied by the scale factor,
// rounded up, and padded to powers of two when requested.
func NewPixmapWithOptions(opts AllocateOptions) (*Pixmap, error) {
	opts.applyDefaults()
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, ErrInvalidSize
	}

	physW := int(math.Ceil(float64(opts.Width) * opts.Scale))
	physH := int(math.Ceil(float64(opts.Height) * opts.Scale))
	if opts.PowerOfTwo {
		physW = nextPowerOfTwo(physW)
		physH = nextPowerOfTwo(physH)
	}

	return &Pixmap{
		img:    image.NewRGBA(image.Rect(0, 0, physW, physH)),
		scale:  opts.Scale,
		format: opts.Format,
	}, nil
}

// Width returns the physical width in pixels.
func (p *Pixmap) Width() int {
	if p.img == nil {
		return 0
	}
	return p.img.Bounds().Dx()
}

// Height returns the physical height in pixels.
func (p *Pixmap) Height() int {
	if p.img == nil {
		return 0
	}
	return p.img.Bounds().Dy()
}

// Scale returns physical pixels per logical point.
func (p *Pixmap) Scale() float64 {
	return p.scale
}

// Format returns the pixel format.
func (p *Pixmap) Format() gputypes.TextureFormat {
	return p.format
}

// Pixels returns the premultiplied RGBA pixel data.
func (p *Pixmap) Pixels() []byte {
	if p.img == nil {
		return nil
	}
	return p.img.Pix
}

// Stride returns the number of bytes per row.
func (p *Pixmap) Stride() int {
	if p.img == nil {
		return 0
	}
	return p.img.Stride
}

// Image returns the underlying *image.RGBA, sharing memory with the target.
// Returns nil after Dispose.
func (p *Pixmap) Image() *image.RGBA {
	return p.img
}

// Clear fills the entire physical surface with c.
func (p *Pixmap) Clear(c color.RGBA) {
	if p.img == nil {
		return
	}
	bounds := p.img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p.img.SetRGBA(x, y, c)
		}
	}
}

// OnRestore registers a restore observer.
func (p *Pixmap) OnRestore(fn func(Target)) {
	if fn != nil {
		p.onRestore = append(p.onRestore, fn)
	}
}

// Restore simulates device recreation: the pixel storage is reallocated, so
// prior content is lost, then observers run. Host applications use this to
// exercise context-loss handling without a real GPU.
func (p *Pixmap) Restore() {
	if p.disposed {
		return
	}
	if p.img != nil {
		p.img = image.NewRGBA(p.img.Bounds())
	}
	for _, fn := range p.onRestore {
		fn(p)
	}
}

// Dispose releases the pixel storage. Idempotent.
func (p *Pixmap) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.img = nil
	p.onRestore = nil
}

// nextPowerOfTwo returns the smallest power of two >= n.
func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Ensure Pixmap implements Target.
var _ Target = (*Pixmap)(nil)
