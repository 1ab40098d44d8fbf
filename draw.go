package rtex

import (
	"github.com/gogpu/rtex/painter"
)

// Draw renders one object into the texture.
//
// Called on its own, Draw wraps the render in an implicit single-draw
// session. Called from inside a DrawBundled callback it only performs the
// per-object rendering, sharing the surrounding session's swap and setup.
//
// A nil object is a no-op, as is any draw while the rendering context is
// invalid.
func (rt *RenderTexture) Draw(obj painter.Displayable, opts ...DrawOption) {
	if obj == nil {
		return
	}

	o := defaultDrawOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if rt.drawing {
		rt.render(obj, o)
		return
	}
	rt.renderBundled(func() error {
		rt.render(obj, o)
		return nil
	}, o)
}

// DrawBundled opens a single draw session around block to amortize the
// per-session setup over many draws: block is expected to perform zero or
// more Draw calls, all landing in one buffer swap.
//
// The session is closed on every exit path. An error returned by block is
// passed through to the caller after teardown completes.
func (rt *RenderTexture) DrawBundled(block func() error, opts ...DrawOption) error {
	if block == nil {
		return nil
	}
	o := defaultDrawOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return rt.renderBundled(block, o)
}

// render paints one object under a local state scope. The session must
// already be open.
func (rt *RenderTexture) render(obj painter.Displayable, o drawOptions) {
	p := rt.p

	// Render-to-texture content is not static, so render-result caching is
	// suspended for the duration of the object render.
	cacheWas := p.CacheEnabled()
	p.SetCacheEnabled(false)

	p.PushState()
	st := p.State()
	st.Alpha = obj.Alpha() * o.alpha
	st.Modelview = painter.Identity()
	if o.matrix != nil {
		st.Transform(*o.matrix)
	} else {
		st.Transform(obj.Transform())
	}
	if blend := obj.Blend(); blend != painter.BlendAuto {
		st.Blend = blend
	}
	if o.antiAliasing > 0 {
		st.AntiAliasing = o.antiAliasing
	}

	mask := obj.Mask()
	if mask != nil {
		p.DrawMask(mask, obj)
	}

	if filter := obj.Filter(); filter != nil {
		filter.Render(obj, p)
	} else {
		obj.Render(p)
	}

	if mask != nil {
		p.EraseMask(mask, obj)
	}

	p.PopState()
	p.SetCacheEnabled(cacheWas)
}
