package painter

import (
	"image"

	"github.com/gogpu/rtex/render"
)

// State is the mutable rendering state the painter applies to every draw:
// modelview transform, alpha, blend mode, clip rectangle, projection and the
// bound render target. States are saved and restored through the painter's
// PushState/PopState stack.
type State struct {
	// Modelview is the current object-to-stage transform, in points.
	Modelview Matrix

	// Alpha is the accumulated opacity in [0, 1].
	Alpha float64

	// Blend is the current blend mode.
	Blend BlendMode

	// Clip is the clip rectangle in physical target pixels.
	// Ignored unless HasClip is set.
	Clip image.Rectangle

	// HasClip reports whether Clip is active.
	HasClip bool

	// Target is the render target draws go to. A nil target means the
	// backbuffer, which this package does not own.
	Target render.Target

	// Projection maps stage points to normalized device coordinates.
	Projection Mat4

	// ProjX, ProjY, ProjWidth, ProjHeight describe the stage-point
	// rectangle the projection covers; the software rasterizer uses them
	// to map points to target pixels.
	ProjX, ProjY, ProjWidth, ProjHeight float64

	// Camera is the camera position the projection was built with,
	// nil for the default centered camera.
	Camera *Vec3

	// AntiAliasing is the requested multisampling quality (0 = off).
	AntiAliasing int
}

// defaultState returns the state a fresh painter starts with.
func defaultState() State {
	return State{
		Modelview:  Identity(),
		Alpha:      1,
		Blend:      BlendNormal,
		Projection: Mat4Identity(),
	}
}

// SetProjection configures the projection to cover the stage-point
// rectangle (x, y, width, height) for a stage of logical size
// stageWidth x stageHeight, with an optional camera position.
func (s *State) SetProjection(x, y, width, height, stageWidth, stageHeight float64, camera *Vec3) {
	s.Projection = PerspectiveProjection(
		float32(x), float32(y), float32(width), float32(height),
		float32(stageWidth), float32(stageHeight), camera)
	s.ProjX, s.ProjY = x, y
	s.ProjWidth, s.ProjHeight = width, height
	s.Camera = camera
}

// SetClip sets the clip rectangle in physical target pixels.
func (s *State) SetClip(r image.Rectangle) {
	s.Clip = r
	s.HasClip = true
}

// ClearClip removes the clip rectangle.
func (s *State) ClearClip() {
	s.Clip = image.Rectangle{}
	s.HasClip = false
}

// Transform prepends m to the modelview matrix.
func (s *State) Transform(m Matrix) {
	s.Modelview = s.Modelview.Multiply(m)
}

// pixelScale returns the physical-pixels-per-point factors of the current
// projection for the bound target, or (1, 1) when no projection is set.
func (s *State) pixelScale() (float64, float64) {
	if s.Target == nil || s.ProjWidth <= 0 || s.ProjHeight <= 0 {
		return 1, 1
	}
	return float64(s.Target.Width()) / s.ProjWidth,
		float64(s.Target.Height()) / s.ProjHeight
}
