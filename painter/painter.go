package painter

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/rtex/cache"
	logx "github.com/gogpu/rtex/internal/log"
	"github.com/gogpu/rtex/render"
)

// Painter is the rendering-pipeline context: it owns the device handle, the
// state stack, the per-context shared-data store, and the software
// rasterization path that draws into CPU targets.
//
// One Painter corresponds to one rendering context. All methods must be
// called from the single render thread.
type Painter struct {
	device  render.DeviceHandle
	profile render.Profile
	shared  *cache.Store[string, any]

	state State
	stack []State

	// Mask handling. While maskDepth > 0, draws accumulate coverage into
	// maskBuild instead of painting color; completed masks sit on
	// maskStack and attenuate subsequent draws.
	maskStack []*image.Alpha
	maskBuild *image.Alpha
	maskDepth int

	cacheEnabled bool
	stencilRef   uint32
	valid        bool
	disposed     bool
	drawCount    int
}

// Option configures a Painter during creation.
type Option func(*painterOptions)

type painterOptions struct {
	device     render.DeviceHandle
	caps       *render.DeviceCapabilities
	profile    *render.Profile
	startValid bool
}

// WithDevice hands the host's GPU device to the painter. The painter does
// not create a device of its own.
func WithDevice(h render.DeviceHandle) Option {
	return func(o *painterOptions) {
		o.device = h
	}
}

// WithCapabilities supplies device capabilities; the hardware profile is
// derived from them unless WithProfile overrides it.
func WithCapabilities(caps render.DeviceCapabilities) Option {
	return func(o *painterOptions) {
		o.caps = &caps
	}
}

// WithProfile forces a specific hardware profile.
func WithProfile(p render.Profile) Option {
	return func(o *painterOptions) {
		o.profile = &p
	}
}

// New creates a painter. Without options it runs CPU-only with the
// conservative baseline profile.
func New(opts ...Option) *Painter {
	options := painterOptions{startValid: true}
	for _, opt := range opts {
		opt(&options)
	}

	profile := render.ProfileBaseline
	if options.profile != nil {
		profile = *options.profile
	} else if options.caps != nil {
		profile = render.DetectProfile(*options.caps)
	}

	p := &Painter{
		device:       options.device,
		profile:      profile,
		shared:       cache.NewStore[string, any](),
		state:        defaultState(),
		cacheEnabled: true,
		valid:        options.startValid,
	}

	logx.Logger().Debug("painter created", "profile", profile.String())
	return p
}

// Device returns the host device handle, or nil for CPU-only painters.
func (p *Painter) Device() render.DeviceHandle {
	return p.device
}

// Profile returns the hardware capability profile.
func (p *Painter) Profile() render.Profile {
	return p.profile
}

// SharedData returns the per-context shared-data store. Its lifecycle
// matches the painter's: Dispose clears it.
func (p *Painter) SharedData() *cache.Store[string, any] {
	return p.shared
}

// ContextValid reports whether the device/rendering context is usable.
// While false, all draws degrade to silent no-ops.
func (p *Painter) ContextValid() bool {
	return p.valid && !p.disposed
}

// SetContextValid marks the context usable or lost. The host calls this
// around device loss and recreation.
func (p *Painter) SetContextValid(valid bool) {
	p.valid = valid
}

// CacheEnabled reports whether render-result caching is currently allowed.
func (p *Painter) CacheEnabled() bool {
	return p.cacheEnabled
}

// SetCacheEnabled toggles render-result caching.
func (p *Painter) SetCacheEnabled(enabled bool) {
	p.cacheEnabled = enabled
}

// State returns the current mutable rendering state.
func (p *Painter) State() *State {
	return &p.state
}

// StencilReference returns the current stencil reference value.
func (p *Painter) StencilReference() uint32 {
	return p.stencilRef
}

// DrawCount returns the number of draw operations issued since creation.
func (p *Painter) DrawCount() int {
	return p.drawCount
}

// PushState saves the current state onto the stack.
// Every PushState must be paired with exactly one PopState.
func (p *Painter) PushState() {
	p.stack = append(p.stack, p.state)
}

// PopState restores the most recently pushed state.
// A PopState without a matching PushState is a no-op.
func (p *Painter) PopState() {
	if len(p.stack) == 0 {
		return
	}
	p.state = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
}

// StackDepth returns the current depth of the state stack.
func (p *Painter) StackDepth() int {
	return len(p.stack)
}

// PrepareToDraw applies the pending state to the device. The rasterizer and
// stencil configuration for masking is set deterministically every time,
// whether or not masking is used afterwards.
func (p *Painter) PrepareToDraw() {
	p.stencilRef = 1
}

// Clear immediately clears the bound target to transparent black.
func (p *Painter) Clear() {
	if !p.ContextValid() || p.state.Target == nil {
		return
	}
	p.state.Target.Clear(color.RGBA{})
}

// FillRect paints an axis-aligned rectangle given in modelview coordinates,
// honoring the full current state: transform, alpha, blend mode, clip,
// projection and active masks. The color is premultiplied RGBA.
//
// This is the software rasterization primitive displayables build on; GPU
// backends draw through their own pipelines instead.
func (p *Painter) FillRect(x, y, w, h float64, c color.RGBA) {
	if !p.ContextValid() {
		return
	}
	target := p.state.Target
	img := targetImage(target)
	if img == nil {
		return
	}
	p.drawCount++

	// Apply the accumulated alpha to the premultiplied color.
	a8 := uint8(clamp01(p.state.Alpha)*255 + 0.5)
	sr, sg, sb, sa := mul8(c.R, a8), mul8(c.G, a8), mul8(c.B, a8), mul8(c.A, a8)

	pixelM := p.pixelMatrix()
	inv, ok := pixelM.Invert()
	if !ok {
		return
	}

	bounds := p.drawBounds(img)
	px0, py0, px1, py1 := transformedBBox(pixelM, x, y, w, h)
	x0 := max(int(px0), bounds.Min.X)
	y0 := max(int(py0), bounds.Min.Y)
	x1 := min(int(px1)+1, bounds.Max.X)
	y1 := min(int(py1)+1, bounds.Max.Y)

	mode := p.state.Blend.Resolve()
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			lx, ly := inv.Apply(float64(px)+0.5, float64(py)+0.5)
			if lx < x || lx >= x+w || ly < y || ly >= y+h {
				continue
			}

			if p.maskDepth > 0 {
				// Accumulate mask coverage instead of painting.
				p.maskBuild.SetAlpha(px, py, color.Alpha{A: 255})
				continue
			}

			cr, cg, cb, ca := sr, sg, sb, sa
			if m := p.maskAt(px, py); m < 255 {
				cr, cg, cb, ca = mul8(cr, m), mul8(cg, m), mul8(cb, m), mul8(ca, m)
			}

			off := img.PixOffset(px, py)
			pix := img.Pix[off : off+4 : off+4]
			pix[0], pix[1], pix[2], pix[3] = blendPixel(
				pix[0], pix[1], pix[2], pix[3], cr, cg, cb, ca, mode)
		}
	}
}

// DrawTarget paints the full physical content of src as a textured quad
// covering the rectangle (0, 0, w, h) in modelview points. This is how
// standby-buffer content is carried forward into the active buffer.
func (p *Painter) DrawTarget(src render.Target, w, h float64) {
	if !p.ContextValid() || src == nil {
		return
	}
	dst := targetImage(p.state.Target)
	srcImg := targetImage(src)
	if dst == nil || srcImg == nil {
		return
	}
	p.drawCount++

	pixelM := p.pixelMatrix()
	px0, py0, px1, py1 := transformedBBox(pixelM, 0, 0, w, h)
	mapped := image.Rect(int(px0+0.5), int(py0+0.5), int(px1+0.5), int(py1+0.5))
	dstRect := mapped.Intersect(p.drawBounds(dst))
	if dstRect.Empty() {
		return
	}

	var op xdraw.Op = xdraw.Over
	if p.state.Blend.Resolve() == BlendNone {
		op = xdraw.Src
	}

	source := srcImg
	if alpha := clamp01(p.state.Alpha); alpha < 1 {
		source = attenuated(srcImg, alpha)
	}

	// Scaling is decided by the unclipped mapped size: a clip that trims
	// the destination trims the source region, it never rescales it.
	srcBounds := source.Bounds()
	if mapped.Dx() == srcBounds.Dx() && mapped.Dy() == srcBounds.Dy() {
		sp := srcBounds.Min.Add(dstRect.Min.Sub(mapped.Min))
		xdraw.Draw(dst, dstRect, source, sp, op)
		return
	}

	sx := float64(srcBounds.Dx()) / float64(mapped.Dx())
	sy := float64(srcBounds.Dy()) / float64(mapped.Dy())
	srcRect := image.Rect(
		srcBounds.Min.X+int(float64(dstRect.Min.X-mapped.Min.X)*sx+0.5),
		srcBounds.Min.Y+int(float64(dstRect.Min.Y-mapped.Min.Y)*sy+0.5),
		srcBounds.Min.X+int(float64(dstRect.Max.X-mapped.Min.X)*sx+0.5),
		srcBounds.Min.Y+int(float64(dstRect.Max.Y-mapped.Min.Y)*sy+0.5),
	)
	xdraw.NearestNeighbor.Scale(dst, dstRect, source, srcRect, op, nil)
}

// DrawMask renders the mask object into the mask stack; subsequent draws
// are limited to the pixels the mask covered. Pair with EraseMask.
func (p *Painter) DrawMask(mask, maskee Displayable) {
	if !p.ContextValid() || mask == nil {
		return
	}
	img := targetImage(p.state.Target)
	if img == nil {
		return
	}

	p.maskBuild = image.NewAlpha(img.Bounds())
	p.maskDepth++

	p.PushState()
	p.state.Transform(mask.Transform())
	mask.Render(p)
	p.PopState()

	p.maskDepth--
	p.maskStack = append(p.maskStack, p.maskBuild)
	p.maskBuild = nil
	p.stencilRef++
}

// EraseMask removes the most recently drawn mask.
func (p *Painter) EraseMask(mask, maskee Displayable) {
	if len(p.maskStack) == 0 {
		return
	}
	p.maskStack = p.maskStack[:len(p.maskStack)-1]
	if p.stencilRef > 1 {
		p.stencilRef--
	}
}

// MaskDepth returns the number of active masks.
func (p *Painter) MaskDepth() int {
	return len(p.maskStack)
}

// Dispose releases the painter's state and shared data. The painter must
// not be used afterwards.
func (p *Painter) Dispose() {
	if p.disposed {
		return
	}
	p.disposed = true
	p.shared.Clear()
	p.stack = nil
	p.maskStack = nil
	logx.Logger().Debug("painter disposed", "draws", p.drawCount)
}

// pixelMatrix combines the modelview transform with the projection's
// point-to-pixel mapping for the bound target.
func (p *Painter) pixelMatrix() Matrix {
	sx, sy := p.state.pixelScale()
	toPixels := Scale(sx, sy).Multiply(Translate(-p.state.ProjX, -p.state.ProjY))
	return toPixels.Multiply(p.state.Modelview)
}

// drawBounds returns the writable pixel region: the target bounds
// intersected with the clip rectangle, if any.
func (p *Painter) drawBounds(img *image.RGBA) image.Rectangle {
	bounds := img.Bounds()
	if p.state.HasClip {
		bounds = bounds.Intersect(p.state.Clip)
	}
	return bounds
}

// maskAt returns the combined mask coverage at a pixel, 255 = fully drawn.
func (p *Painter) maskAt(px, py int) uint8 {
	m := uint8(255)
	for _, layer := range p.maskStack {
		m = mul8(m, layer.AlphaAt(px, py).A)
		if m == 0 {
			return 0
		}
	}
	return m
}

// targetImage extracts the CPU image of a target, or nil for GPU-only
// targets.
func targetImage(t render.Target) *image.RGBA {
	type imager interface {
		Image() *image.RGBA
	}
	if t == nil {
		return nil
	}
	if im, ok := t.(imager); ok {
		return im.Image()
	}
	return nil
}

// attenuated returns a copy of img with all premultiplied channels scaled
// by alpha.
func attenuated(img *image.RGBA, alpha float64) *image.RGBA {
	a8 := uint8(alpha*255 + 0.5)
	out := image.NewRGBA(img.Bounds())
	for i := 0; i < len(img.Pix); i++ {
		out.Pix[i] = mul8(img.Pix[i], a8)
	}
	return out
}

// transformedBBox transforms the rectangle (x, y, w, h) by m and returns
// the bounding box of the result.
func transformedBBox(m Matrix, x, y, w, h float64) (minX, minY, maxX, maxY float64) {
	corners := [4][2]float64{
		{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h},
	}
	for i, c := range corners {
		cx, cy := m.Apply(c[0], c[1])
		if i == 0 || cx < minX {
			minX = cx
		}
		if i == 0 || cy < minY {
			minY = cy
		}
		if i == 0 || cx > maxX {
			maxX = cx
		}
		if i == 0 || cy > maxY {
			maxY = cy
		}
	}
	return minX, minY, maxX, maxY
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
