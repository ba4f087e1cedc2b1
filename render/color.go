package render

// Color is an RGBA color in 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color     { return Color{R: r, G: g, B: b, A: 0xFF} }
func RGBA(r, g, b, a uint8) Color { return Color{R: r, G: g, B: b, A: a} }

// ColorF is a normalized color as handed to shader uniforms.
type ColorF struct {
	R, G, B, A float32
}

// Slice returns the color as a vec4 uniform value.
func (c ColorF) Slice() []float32 { return []float32{c.R, c.G, c.B, c.A} }

// RGBA8 converts to 8-bit channels, clamping each channel to [0, 1].
func (c ColorF) RGBA8() Color {
	ch := func(v float32) uint8 {
		return uint8(clampF32(v, 0, 1)*255 + 0.5)
	}
	return Color{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: ch(c.A)}
}

func clampF32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
