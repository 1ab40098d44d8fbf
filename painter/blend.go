package painter

// BlendMode determines how source pixels are composited onto a target.
// All compositing operates on premultiplied-alpha RGBA.
type BlendMode uint8

const (
	// BlendAuto inherits the blend mode from the surrounding context.
	// Draw operations resolve it to BlendNormal before rendering.
	BlendAuto BlendMode = iota

	// BlendNone replaces the destination, ignoring alpha.
	BlendNone

	// BlendNormal is standard source-over compositing.
	BlendNormal

	// BlendAdd adds source to destination, clamped.
	BlendAdd

	// BlendMultiply multiplies source and destination.
	BlendMultiply

	// BlendErase removes destination coverage by source alpha.
	BlendErase
)

// String returns the blend mode name.
func (b BlendMode) String() string {
	switch b {
	case BlendAuto:
		return "auto"
	case BlendNone:
		return "none"
	case BlendNormal:
		return "normal"
	case BlendAdd:
		return "add"
	case BlendMultiply:
		return "multiply"
	case BlendErase:
		return "erase"
	default:
		return "unknown"
	}
}

// Resolve returns the concrete mode: BlendAuto becomes BlendNormal,
// everything else is returned unchanged.
func (b BlendMode) Resolve() BlendMode {
	if b == BlendAuto {
		return BlendNormal
	}
	return b
}

// mul8 multiplies two 8-bit color values as fractions of 255.
func mul8(a, b uint8) uint8 {
	return uint8((uint32(a)*uint32(b) + 127) / 255)
}

// add8 adds two 8-bit color values, clamped to 255.
func add8(a, b uint8) uint8 {
	s := uint32(a) + uint32(b)
	if s > 255 {
		return 255
	}
	return uint8(s)
}

// blendPixel composites a premultiplied source pixel onto a premultiplied
// destination pixel using the given mode.
func blendPixel(dr, dg, db, da, sr, sg, sb, sa uint8, mode BlendMode) (uint8, uint8, uint8, uint8) {
	switch mode {
	case BlendNone:
		return sr, sg, sb, sa

	case BlendAdd:
		return add8(dr, sr), add8(dg, sg), add8(db, sb), add8(da, sa)

	case BlendMultiply:
		// W3C multiply for premultiplied colors:
		// out = Cs*Cd + Cs*(1-ad) + Cd*(1-as)
		invSa := 255 - sa
		invDa := 255 - da
		r := add8(mul8(sr, dr), add8(mul8(sr, invDa), mul8(dr, invSa)))
		g := add8(mul8(sg, dg), add8(mul8(sg, invDa), mul8(dg, invSa)))
		b := add8(mul8(sb, db), add8(mul8(sb, invDa), mul8(db, invSa)))
		a := add8(sa, mul8(da, invSa))
		return r, g, b, a

	case BlendErase:
		invSa := 255 - sa
		return mul8(dr, invSa), mul8(dg, invSa), mul8(db, invSa), mul8(da, invSa)

	default: // BlendNormal, BlendAuto
		invSa := 255 - sa
		r := add8(sr, mul8(dr, invSa))
		g := add8(sg, mul8(dg, invSa))
		b := add8(sb, mul8(db, invSa))
		a := add8(sa, mul8(da, invSa))
		return r, g, b, a
	}
}
