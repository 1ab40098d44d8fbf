// Package painter provides the rendering-pipeline context rtex draws
// through: a state stack (modelview transform, alpha, blend mode, clip
// rectangle, projection, bound render target), mask application, and a
// software rasterization path into CPU targets.
//
// The painter mirrors the role a GPU command encoder plays on hardware
// backends; the software path exists so that render-texture semantics are
// exactly testable pixel by pixel. Displayable objects never touch targets
// directly; they paint through the painter's current state:
//
//	p := painter.New()
//	p.State().Target = target
//	p.PushState()
//	p.State().Alpha = 0.5
//	p.FillRect(10, 10, 20, 20, color.RGBA{R: 255, A: 255})
//	p.PopState()
package painter
