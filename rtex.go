package rtex

import (
	"image"
	"image/color"
	"math"

	logx "github.com/gogpu/rtex/internal/log"
	"github.com/gogpu/rtex/painter"
	"github.com/gogpu/rtex/render"
)

// RenderTexture is a drawable, persistent offscreen canvas: displayable
// objects are painted into it incrementally and the result can be sampled
// like any other texture.
//
// A persistent texture accumulates content across draw calls until it is
// explicitly cleared. On hardware profiles that cannot safely read from a
// target while writing to it, persistent textures transparently keep two
// buffers and swap them on every draw session, carrying the previous content
// forward. A transient texture is implicitly cleared before every
// standalone draw.
//
// All methods must be called from the render thread that owns the painter.
type RenderTexture struct {
	p *painter.Painter

	// width, height are the logical size in points. The buffers may be
	// physically larger (scale factor, power-of-two padding).
	width, height int
	scale         float64

	// buffers is a fixed two-slot arena; active indexes the slot that is
	// currently drawn into and read from. Slot 1 is only allocated when
	// double buffering is on.
	buffers [2]render.Target
	active  int

	persistent     bool
	doubleBuffered bool
	ownsTarget     bool

	// bufferReady records whether the texture has ever received a clear or
	// a completed draw session. It only reverts on device recreation.
	bufferReady bool

	drawing   bool
	disposed  bool
	swapCount int
}

// New creates a render texture of the given logical size in points,
// allocating its buffer(s) through the render target registry.
//
// A persistent texture keeps its content across draws; whether it double
// buffers is decided by the painter's policy (see DoubleBuffering) unless
// WithDoubleBuffering overrides it. A non-persistent texture is cleared
// before every standalone draw and never double buffers.
func New(p *painter.Painter, width, height int, persistent bool, opts ...Option) (*RenderTexture, error) {
	if p == nil {
		return nil, ErrNoContext
	}

	o := defaultTextureOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rt := &RenderTexture{
		p:          p,
		width:      width,
		height:     height,
		persistent: persistent,
	}

	if o.target != nil {
		// Adopted target: external ownership, no double buffering.
		rt.buffers[0] = o.target
		rt.scale = o.target.Scale()
		if rt.width <= 0 || rt.height <= 0 {
			rt.width = int(float64(o.target.Width()) / rt.scale)
			rt.height = int(float64(o.target.Height()) / rt.scale)
		}
		logx.Logger().Info("render texture adopted target",
			"width", rt.width, "height", rt.height, "persistent", persistent)
		return rt, nil
	}

	if width <= 0 || height <= 0 {
		return nil, render.ErrInvalidSize
	}

	rt.scale = o.scale
	rt.ownsTarget = true
	if persistent {
		if o.doubleBuffering != nil {
			rt.doubleBuffered = *o.doubleBuffering
		} else {
			rt.doubleBuffered = DoubleBuffering(p)
		}
	}

	alloc := render.AllocateOptions{
		Width:      width,
		Height:     height,
		Scale:      o.scale,
		Format:     o.format,
		PowerOfTwo: o.powerOfTwo || p.Profile() == render.ProfileBaselineConstrained,
		Device:     p.Device(),
	}

	buf, err := rt.allocate(o.backend, alloc)
	if err != nil {
		return nil, err
	}
	rt.buffers[0] = buf

	if rt.doubleBuffered {
		standby, err := rt.allocate(o.backend, alloc)
		if err != nil {
			buf.Dispose()
			return nil, err
		}
		rt.buffers[1] = standby
	}

	for _, b := range rt.buffers {
		if b != nil {
			b.OnRestore(rt.onTargetRestored)
		}
	}

	logx.Logger().Info("render texture created",
		"width", width, "height", height,
		"persistent", persistent, "doubleBuffered", rt.doubleBuffered)
	return rt, nil
}

// allocate creates one buffer, via a named backend when requested.
func (rt *RenderTexture) allocate(backend string, opts render.AllocateOptions) (render.Target, error) {
	if backend != "" {
		return render.AllocateByName(backend, opts)
	}
	return render.Allocate(opts)
}

// onTargetRestored runs after the device recreated a buffer's resource.
// Content is undefined at that point; the texture re-clears and forgets its
// accumulated content. Restoring it is the caller's responsibility.
func (rt *RenderTexture) onTargetRestored(t render.Target) {
	t.Clear(color.RGBA{})
	rt.bufferReady = false
	logx.Logger().Debug("render texture buffer restored, content cleared")
}

// Width returns the logical width in points.
func (rt *RenderTexture) Width() int { return rt.width }

// Height returns the logical height in points.
func (rt *RenderTexture) Height() int { return rt.height }

// Scale returns the number of physical pixels per point.
func (rt *RenderTexture) Scale() float64 { return rt.scale }

// Persistent reports whether content survives across draw calls.
func (rt *RenderTexture) Persistent() bool { return rt.persistent }

// DoubleBuffered reports whether this texture keeps a standby buffer.
func (rt *RenderTexture) DoubleBuffered() bool { return rt.doubleBuffered }

// BufferReady reports whether the texture has received a clear or a
// completed draw session since creation or the last device recreation.
func (rt *RenderTexture) BufferReady() bool { return rt.bufferReady }

// SwapCount returns the number of buffer swaps performed so far.
// Single-buffered textures never swap.
func (rt *RenderTexture) SwapCount() int { return rt.swapCount }

// IsDrawing reports whether a draw session is currently open.
func (rt *RenderTexture) IsDrawing() bool { return rt.drawing }

// Target returns the active buffer for external read, e.g. to be displayed
// or sampled elsewhere. Callers must not write to it directly; all writes go
// through Clear, Draw or DrawBundled.
func (rt *RenderTexture) Target() render.Target {
	return rt.buffers[rt.active]
}

// Clear immediately fills the active buffer with the given premultiplied
// color. Valid at any time, inside or outside a draw session. With the
// rendering context invalid it is a silent no-op.
func (rt *RenderTexture) Clear(c color.RGBA) {
	if rt.disposed || !rt.p.ContextValid() {
		return
	}
	rt.buffers[rt.active].Clear(c)
	rt.bufferReady = true
}

// Dispose releases the buffers this texture allocated. An adopted target
// (WithTarget) stays with its external owner. Idempotent.
func (rt *RenderTexture) Dispose() {
	if rt.disposed {
		return
	}
	rt.disposed = true
	if rt.ownsTarget && rt.buffers[0] != nil {
		rt.buffers[0].Dispose()
	}
	if rt.buffers[1] != nil {
		rt.buffers[1].Dispose()
	}
	logx.Logger().Debug("render texture disposed", "swaps", rt.swapCount)
}

// renderBundled opens one draw session around block, closing it on every
// exit path. A nested call while a session is open runs block directly,
// without a second swap or state push.
func (rt *RenderTexture) renderBundled(block func() error, opts drawOptions) error {
	if rt.disposed {
		return ErrDisposed
	}
	if !rt.p.ContextValid() {
		logx.Logger().Warn("draw skipped, rendering context invalid")
		return nil
	}
	if rt.drawing {
		return block()
	}

	rt.drawing = true
	markReady := rt.beginSession(opts)
	defer func() {
		rt.p.PopState()
		rt.drawing = false
	}()

	err := block()
	if markReady {
		// Readiness is earned by a completed first session; a panic in
		// block skips this.
		rt.bufferReady = true
	}
	return err
}

// beginSession swaps buffers if needed, binds the active buffer, sets up
// projection, clip and stencil state, and decides clear versus preserve
// versus carry-forward. Close happens in renderBundled via PopState.
// The return value reports whether this is the texture's first session,
// whose completion marks the buffer ready.
func (rt *RenderTexture) beginSession(opts drawOptions) bool {
	p := rt.p

	if rt.doubleBuffered {
		rt.active = 1 - rt.active
		rt.swapCount++
	}
	buf := rt.buffers[rt.active]

	// Projection covers the full physical buffer in points; the clip keeps
	// draws out of any padding beyond the logical area.
	pointsW := float64(buf.Width()) / rt.scale
	pointsH := float64(buf.Height()) / rt.scale

	p.PushState()
	st := p.State()
	st.Target = buf
	st.Modelview = painter.Identity()
	st.Alpha = 1
	st.Blend = painter.BlendNormal
	st.AntiAliasing = opts.antiAliasing
	st.SetProjection(0, 0, pointsW, pointsH,
		float64(rt.width), float64(rt.height), opts.camera)
	st.SetClip(image.Rect(0, 0,
		int(math.Ceil(float64(rt.width)*rt.scale)),
		int(math.Ceil(float64(rt.height)*rt.scale))))

	p.PrepareToDraw()

	if rt.doubleBuffered || !rt.persistent || !rt.bufferReady {
		p.Clear()
	}

	if rt.doubleBuffered && rt.bufferReady {
		// Carry the standby buffer's content forward before new content
		// layers on top.
		p.DrawTarget(rt.buffers[1-rt.active], pointsW, pointsH)
		return false
	}
	return !rt.bufferReady
}
