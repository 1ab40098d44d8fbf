package rtex

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/rtex/painter"
	"github.com/gogpu/rtex/render"
)

// Option configures a RenderTexture during creation.
// Use functional options to customize allocation and buffering behavior.
//
// Example:
//
//	// Default: size in points, scale 1, buffering per context policy
//	rt := rtex.New(p, 256, 256, true)
//
//	// Retina-scale texture with forced double buffering
//	rt := rtex.New(p, 256, 256, true,
//	    rtex.WithScale(2),
//	    rtex.WithDoubleBuffering(true))
type Option func(*textureOptions)

// textureOptions holds optional configuration for RenderTexture creation.
type textureOptions struct {
	scale           float64
	format          gputypes.TextureFormat
	powerOfTwo      bool
	target          render.Target
	doubleBuffering *bool
	backend         string
}

// defaultTextureOptions returns the default texture options.
func defaultTextureOptions() textureOptions {
	return textureOptions{
		scale: 1,
	}
}

// WithScale sets the number of physical pixels per logical point.
// Defaults to 1. Pass the host's content scale factor for crisp output on
// high-density displays.
func WithScale(scale float64) Option {
	return func(o *textureOptions) {
		if scale > 0 {
			o.scale = scale
		}
	}
}

// WithFormat sets the pixel format of the allocated buffers.
// Defaults to RGBA8Unorm.
func WithFormat(format gputypes.TextureFormat) Option {
	return func(o *textureOptions) {
		o.format = format
	}
}

// WithPowerOfTwo pads the physical buffer size up to powers of two.
// Constrained hardware profiles enable this automatically.
func WithPowerOfTwo(pot bool) Option {
	return func(o *textureOptions) {
		o.powerOfTwo = pot
	}
}

// WithTarget adopts an existing target as the texture's buffer instead of
// allocating one. The caller keeps ownership: Dispose will not release an
// adopted target. Persistent double buffering is unavailable with an
// adopted target.
func WithTarget(t render.Target) Option {
	return func(o *textureOptions) {
		o.target = t
	}
}

// WithDoubleBuffering overrides the context-wide double-buffering policy
// for this texture. Only meaningful for persistent textures.
func WithDoubleBuffering(enabled bool) Option {
	return func(o *textureOptions) {
		o.doubleBuffering = &enabled
	}
}

// WithBackend allocates buffers via a specific named allocation backend
// (e.g. "pixmap" or "hal") instead of the highest-priority available one.
func WithBackend(name string) Option {
	return func(o *textureOptions) {
		o.backend = name
	}
}

// DrawOption configures a single draw call.
//
// Example:
//
//	rt.Draw(obj, rtex.WithMatrix(painter.Translate(10, 10)), rtex.WithAlpha(0.5))
type DrawOption func(*drawOptions)

// drawOptions holds optional per-draw configuration.
type drawOptions struct {
	matrix       *painter.Matrix
	alpha        float64
	antiAliasing int
	camera       *painter.Vec3
}

// defaultDrawOptions returns the default draw options.
func defaultDrawOptions() drawOptions {
	return drawOptions{
		alpha: 1,
	}
}

// WithMatrix positions the object with an explicit transform instead of the
// object's own transformation matrix.
func WithMatrix(m painter.Matrix) DrawOption {
	return func(o *drawOptions) {
		o.matrix = &m
	}
}

// WithAlpha multiplies the object's opacity by alpha, clamped to [0, 1].
func WithAlpha(alpha float64) DrawOption {
	return func(o *drawOptions) {
		o.alpha = alpha
	}
}

// WithAntiAliasing requests a multisampling quality for the draw (0 = off).
// Backends that cannot multisample ignore it.
func WithAntiAliasing(quality int) DrawOption {
	return func(o *drawOptions) {
		o.antiAliasing = quality
	}
}

// WithCamera renders with a 3D camera position, in stage points, for
// perspective-correct drawing of 3D-transformed objects. Nil means the
// default camera centered over the texture.
func WithCamera(camera painter.Vec3) DrawOption {
	return func(o *drawOptions) {
		o.camera = &camera
	}
}
