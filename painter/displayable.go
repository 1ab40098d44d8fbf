package painter

// Displayable is any object that can be painted into a render target.
// It is the boundary to the display system: the painter never inspects
// how an object draws itself, it only supplies the state the object's
// Render method paints under.
type Displayable interface {
	// Transform returns the object's own transformation matrix, in points.
	Transform() Matrix

	// Alpha returns the object's opacity in [0, 1].
	Alpha() float64

	// Blend returns the object's blend mode. BlendAuto means "inherit
	// from the surrounding context".
	Blend() BlendMode

	// Mask returns the object's mask, or nil. Only pixels covered by the
	// mask are painted.
	Mask() Displayable

	// Filter returns the object's fragment filter, or nil. When present,
	// the filter renders the object instead of the object itself.
	Filter() Filter

	// Render paints the object through the painter's current state.
	Render(p *Painter)
}

// Filter renders a displayable with a post-processing effect applied.
// Implementations live outside this module; the painter only invokes them.
type Filter interface {
	Render(obj Displayable, p *Painter)
}
