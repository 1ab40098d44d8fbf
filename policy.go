package rtex

import (
	"github.com/gogpu/rtex/painter"
	"github.com/gogpu/rtex/render"
)

// doubleBufferingKey is the shared-data key the buffering policy is cached
// under, scoped to one painter/context.
const doubleBufferingKey = "rtex.doubleBuffering"

// DoubleBuffering reports whether persistent render textures on this painter
// use double buffering.
//
// The first call per painter decides the default from the hardware profile:
// baseline-class profiles cannot render a texture into itself, so they get
// double buffering; standard-class profiles support read-write targets and
// run single-buffered. The decision is cached in the painter's shared data
// until SetDoubleBuffering overrides it.
//
// A nil painter reports false.
func DoubleBuffering(p *painter.Painter) bool {
	if p == nil {
		return false
	}
	v := p.SharedData().GetOrCreate(doubleBufferingKey, func() any {
		switch p.Profile() {
		case render.ProfileBaseline, render.ProfileBaselineConstrained:
			return true
		default:
			return false
		}
	})
	enabled, _ := v.(bool)
	return enabled
}

// SetDoubleBuffering overrides the double-buffering policy for all
// persistent render textures subsequently created on this painter.
// Existing textures keep the buffering they were created with.
func SetDoubleBuffering(p *painter.Painter, enabled bool) error {
	if p == nil {
		return ErrNoContext
	}
	p.SharedData().Set(doubleBufferingKey, enabled)
	return nil
}
