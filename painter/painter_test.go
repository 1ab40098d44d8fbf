package painter

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/rtex/render"
)

// quad is a minimal Displayable painting a solid rectangle.
type quad struct {
	x, y, w, h float64
	color      color.RGBA
	transform  Matrix
	alpha      float64
	blend      BlendMode
	mask       Displayable
}

func newQuad(x, y, w, h float64, c color.RGBA) *quad {
	return &quad{x: x, y: y, w: w, h: h, color: c, transform: Identity(), alpha: 1, blend: BlendAuto}
}

func (q *quad) Transform() Matrix  { return q.transform }
func (q *quad) Alpha() float64     { return q.alpha }
func (q *quad) Blend() BlendMode   { return q.blend }
func (q *quad) Mask() Displayable  { return q.mask }
func (q *quad) Filter() Filter     { return nil }
func (q *quad) Render(p *Painter)  { p.FillRect(q.x, q.y, q.w, q.h, q.color) }

// newBoundPainter creates a CPU painter with a size x size pixmap bound and a
// matching 1:1 projection.
func newBoundPainter(t *testing.T, size int) (*Painter, *render.Pixmap) {
	t.Helper()
	p := New()
	pm := render.NewPixmap(size, size)
	p.State().Target = pm
	p.State().SetProjection(0, 0, float64(size), float64(size), float64(size), float64(size), nil)
	return p, pm
}

func pixelAt(pm *render.Pixmap, x, y int) color.RGBA {
	return pm.Image().RGBAAt(x, y)
}

func TestNewDefaults(t *testing.T) {
	p := New()
	if p.Profile() != render.ProfileBaseline {
		t.Errorf("default profile = %v, want baseline", p.Profile())
	}
	if !p.ContextValid() {
		t.Error("new painter should have a valid context")
	}
	if !p.CacheEnabled() {
		t.Error("caching should start enabled")
	}
	if p.Device() != nil {
		t.Error("CPU painter should have no device")
	}
	st := p.State()
	if st.Alpha != 1 || st.Blend != BlendNormal || !st.Modelview.IsIdentity() {
		t.Errorf("unexpected default state: %+v", st)
	}
}

func TestNewWithCapabilities(t *testing.T) {
	p := New(WithCapabilities(render.DeviceCapabilities{
		MaxTextureSize:           16384,
		SupportsCompute:          true,
		SupportsStorageTextures:  true,
		SupportsReadWriteTargets: true,
	}))
	if p.Profile() != render.ProfileStandardExtended {
		t.Errorf("profile = %v, want standard extended", p.Profile())
	}
}

func TestNewWithProfileOverride(t *testing.T) {
	p := New(
		WithCapabilities(render.DeviceCapabilities{MaxTextureSize: 16384, SupportsReadWriteTargets: true}),
		WithProfile(render.ProfileBaselineConstrained),
	)
	if p.Profile() != render.ProfileBaselineConstrained {
		t.Errorf("profile = %v, want forced constrained", p.Profile())
	}
}

func TestPushPopState(t *testing.T) {
	p := New()
	p.State().Alpha = 0.5
	p.State().Blend = BlendAdd

	p.PushState()
	if p.StackDepth() != 1 {
		t.Fatalf("stack depth = %d, want 1", p.StackDepth())
	}
	p.State().Alpha = 0.1
	p.State().Blend = BlendErase
	p.State().Transform(Translate(3, 4))
	p.State().SetClip(image.Rect(0, 0, 2, 2))

	p.PopState()
	st := p.State()
	if st.Alpha != 0.5 || st.Blend != BlendAdd {
		t.Errorf("state not restored: alpha=%v blend=%v", st.Alpha, st.Blend)
	}
	if !st.Modelview.IsIdentity() {
		t.Error("modelview not restored")
	}
	if st.HasClip {
		t.Error("clip not restored")
	}

	// Pop with an empty stack is a no-op.
	p.PopState()
	if p.StackDepth() != 0 {
		t.Errorf("stack depth = %d after extra pop", p.StackDepth())
	}
}

func TestPrepareToDraw(t *testing.T) {
	p := New()
	p.stencilRef = 7
	p.PrepareToDraw()
	if p.StencilReference() != 1 {
		t.Errorf("stencil ref = %d, want 1", p.StencilReference())
	}
}

func TestFillRect(t *testing.T) {
	p, pm := newBoundPainter(t, 4)
	p.FillRect(1, 1, 2, 2, color.RGBA{R: 255, A: 255})

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got := pixelAt(pm, x, y)
			inside := x >= 1 && x < 3 && y >= 1 && y < 3
			if inside && got != (color.RGBA{R: 255, A: 255}) {
				t.Errorf("pixel (%d, %d) = %v, want red", x, y, got)
			}
			if !inside && got != (color.RGBA{}) {
				t.Errorf("pixel (%d, %d) = %v, want transparent", x, y, got)
			}
		}
	}
	if p.DrawCount() != 1 {
		t.Errorf("draw count = %d, want 1", p.DrawCount())
	}
}

func TestFillRectTransform(t *testing.T) {
	p, pm := newBoundPainter(t, 4)
	p.State().Transform(Translate(2, 0))
	p.FillRect(0, 0, 1, 1, color.RGBA{G: 255, A: 255})

	if got := pixelAt(pm, 2, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel (2, 0) = %v, want green", got)
	}
	if got := pixelAt(pm, 0, 0); got != (color.RGBA{}) {
		t.Errorf("pixel (0, 0) = %v, want transparent", got)
	}
}

func TestFillRectAlpha(t *testing.T) {
	p, pm := newBoundPainter(t, 2)
	p.State().Alpha = 0.5
	p.FillRect(0, 0, 2, 2, color.RGBA{R: 255, A: 255})

	got := pixelAt(pm, 0, 0)
	if got.R < 126 || got.R > 129 || got.A < 126 || got.A > 129 {
		t.Errorf("half-alpha fill = %v, want ~(128, 0, 0, 128)", got)
	}
}

func TestFillRectClip(t *testing.T) {
	p, pm := newBoundPainter(t, 4)
	p.State().SetClip(image.Rect(0, 0, 2, 4))
	p.FillRect(0, 0, 4, 4, color.RGBA{B: 255, A: 255})

	if got := pixelAt(pm, 1, 1); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("inside clip = %v, want blue", got)
	}
	if got := pixelAt(pm, 3, 1); got != (color.RGBA{}) {
		t.Errorf("outside clip = %v, want transparent", got)
	}
}

func TestFillRectScaledProjection(t *testing.T) {
	// Target is 4x4 physical pixels but the projection covers 2x2 points,
	// so one point maps to two pixels.
	p := New()
	pm := render.NewPixmap(4, 4)
	p.State().Target = pm
	p.State().SetProjection(0, 0, 2, 2, 2, 2, nil)

	p.FillRect(0, 0, 1, 1, color.RGBA{R: 255, A: 255})
	for _, pt := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if got := pixelAt(pm, pt.X, pt.Y); got != (color.RGBA{R: 255, A: 255}) {
			t.Errorf("pixel %v = %v, want red", pt, got)
		}
	}
	if got := pixelAt(pm, 2, 2); got != (color.RGBA{}) {
		t.Errorf("pixel (2, 2) = %v, want transparent", got)
	}
}

func TestFillRectInvalidContext(t *testing.T) {
	p, pm := newBoundPainter(t, 2)
	p.SetContextValid(false)
	p.FillRect(0, 0, 2, 2, color.RGBA{R: 255, A: 255})

	if got := pixelAt(pm, 0, 0); got != (color.RGBA{}) {
		t.Errorf("draw with invalid context wrote %v", got)
	}
	if p.DrawCount() != 0 {
		t.Errorf("draw count = %d, want 0", p.DrawCount())
	}

	p.SetContextValid(true)
	p.FillRect(0, 0, 2, 2, color.RGBA{R: 255, A: 255})
	if got := pixelAt(pm, 0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("draw after restore = %v, want red", got)
	}
}

func TestClear(t *testing.T) {
	p, pm := newBoundPainter(t, 2)
	p.FillRect(0, 0, 2, 2, color.RGBA{R: 255, A: 255})
	p.Clear()
	if got := pixelAt(pm, 0, 0); got != (color.RGBA{}) {
		t.Errorf("after clear = %v, want transparent", got)
	}

	p.FillRect(0, 0, 2, 2, color.RGBA{R: 255, A: 255})
	p.SetContextValid(false)
	p.Clear()
	if got := pixelAt(pm, 0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Error("clear with invalid context should be a no-op")
	}
}

func TestDrawTarget(t *testing.T) {
	p, dst := newBoundPainter(t, 4)

	src := render.NewPixmap(4, 4)
	src.Clear(color.RGBA{G: 255, A: 255})

	p.DrawTarget(src, 4, 4)
	if got := pixelAt(dst, 0, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("copied pixel = %v, want green", got)
	}
	if got := pixelAt(dst, 3, 3); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("copied pixel = %v, want green", got)
	}
}

func TestDrawTargetScaled(t *testing.T) {
	p, dst := newBoundPainter(t, 4)

	src := render.NewPixmap(2, 2)
	src.Clear(color.RGBA{B: 255, A: 255})

	// A 2x2 source drawn over the full 4x4 projection gets scaled up.
	p.DrawTarget(src, 4, 4)
	if got := pixelAt(dst, 3, 3); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("scaled pixel = %v, want blue", got)
	}
}

func TestDrawTargetOver(t *testing.T) {
	p, dst := newBoundPainter(t, 2)
	dst.Clear(color.RGBA{R: 255, A: 255})

	// A transparent source composited Over leaves the destination intact.
	src := render.NewPixmap(2, 2)
	p.DrawTarget(src, 2, 2)
	if got := pixelAt(dst, 0, 0); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("over transparent = %v, want red kept", got)
	}

	// BlendNone replaces, so the same source wipes the destination.
	p.State().Blend = BlendNone
	p.DrawTarget(src, 2, 2)
	if got := pixelAt(dst, 0, 0); got != (color.RGBA{}) {
		t.Errorf("none blit = %v, want transparent", got)
	}
}

func TestDrawTargetClippedCopiesWithoutRescaling(t *testing.T) {
	// The clip trims the blit region; it must never squeeze the whole
	// source into the clipped rectangle.
	p, dst := newBoundPainter(t, 8)
	p.State().SetClip(image.Rect(0, 0, 6, 6))

	src := render.NewPixmap(8, 8)
	src.Image().SetRGBA(5, 5, color.RGBA{R: 255, A: 255})

	p.DrawTarget(src, 8, 8)

	if got := pixelAt(dst, 5, 5); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel (5, 5) = %v, want red copied 1:1", got)
	}
	for _, pt := range []image.Point{{3, 3}, {4, 4}} {
		if got := pixelAt(dst, pt.X, pt.Y); got != (color.RGBA{}) {
			t.Errorf("pixel %v = %v, want transparent (no rescale)", pt, got)
		}
	}
}

func TestDrawTargetNil(t *testing.T) {
	p, _ := newBoundPainter(t, 2)
	p.DrawTarget(nil, 2, 2)
	if p.DrawCount() != 0 {
		t.Error("nil source should not count as a draw")
	}
}

func TestMask(t *testing.T) {
	p, pm := newBoundPainter(t, 4)

	mask := newQuad(0, 0, 2, 4, color.RGBA{A: 255})
	maskee := newQuad(0, 0, 4, 4, color.RGBA{R: 255, A: 255})

	p.DrawMask(mask, maskee)
	if p.MaskDepth() != 1 {
		t.Fatalf("mask depth = %d, want 1", p.MaskDepth())
	}
	if p.StencilReference() != 1 {
		t.Errorf("stencil ref = %d, want 1 after first mask", p.StencilReference())
	}

	maskee.Render(p)

	if got := pixelAt(pm, 1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("masked-in pixel = %v, want red", got)
	}
	if got := pixelAt(pm, 3, 1); got != (color.RGBA{}) {
		t.Errorf("masked-out pixel = %v, want transparent", got)
	}

	p.EraseMask(mask, maskee)
	if p.MaskDepth() != 0 {
		t.Errorf("mask depth = %d after erase, want 0", p.MaskDepth())
	}

	maskee.Render(p)
	if got := pixelAt(pm, 3, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("unmasked pixel = %v, want red", got)
	}
}

func TestMaskWithTransform(t *testing.T) {
	p, pm := newBoundPainter(t, 4)

	// The mask's own transform shifts its coverage right by two pixels.
	mask := newQuad(0, 0, 2, 4, color.RGBA{A: 255})
	mask.transform = Translate(2, 0)
	maskee := newQuad(0, 0, 4, 4, color.RGBA{G: 255, A: 255})

	p.DrawMask(mask, maskee)
	maskee.Render(p)
	p.EraseMask(mask, maskee)

	if got := pixelAt(pm, 3, 0); got != (color.RGBA{G: 255, A: 255}) {
		t.Errorf("pixel (3, 0) = %v, want green", got)
	}
	if got := pixelAt(pm, 0, 0); got != (color.RGBA{}) {
		t.Errorf("pixel (0, 0) = %v, want transparent", got)
	}
}

func TestEraseMaskEmpty(t *testing.T) {
	p := New()
	p.EraseMask(nil, nil)
	if p.MaskDepth() != 0 {
		t.Error("erase on empty mask stack should be a no-op")
	}
}

func TestSharedData(t *testing.T) {
	p := New()
	p.SharedData().Set("answer", 42)
	v, ok := p.SharedData().Get("answer")
	if !ok || v.(int) != 42 {
		t.Errorf("shared data = %v (%v)", v, ok)
	}
}

func TestDispose(t *testing.T) {
	p := New()
	p.SharedData().Set("k", "v")
	p.PushState()
	p.Dispose()

	if p.ContextValid() {
		t.Error("disposed painter should report an invalid context")
	}
	if p.SharedData().Len() != 0 {
		t.Error("dispose should clear shared data")
	}

	p.Dispose() // idempotent
}

func TestSetCacheEnabled(t *testing.T) {
	p := New()
	p.SetCacheEnabled(false)
	if p.CacheEnabled() {
		t.Error("cache should be disabled")
	}
	p.SetCacheEnabled(true)
	if !p.CacheEnabled() {
		t.Error("cache should be enabled again")
	}
}
