package render

import (
	"image"
	"image/color"
)

// Target is a minimal pixel target for software rendering.
//
// Implementations should clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c Color)
	Clear(c Color)
}

// ImageTarget draws into an *image.RGBA.
type ImageTarget struct {
	Img *image.RGBA
}

// NewImageTarget allocates a w×h target.
func NewImageTarget(w, h int) *ImageTarget {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &ImageTarget{Img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (t *ImageTarget) Size() (w, h int) {
	b := t.Img.Bounds()
	return b.Dx(), b.Dy()
}

func (t *ImageTarget) SetPixel(x, y int, c Color) {
	b := t.Img.Bounds()
	if x < 0 || y < 0 || x >= b.Dx() || y >= b.Dy() {
		return
	}
	off := t.Img.PixOffset(b.Min.X+x, b.Min.Y+y)
	pix := t.Img.Pix[off : off+4 : off+4]
	pix[0] = c.R
	pix[1] = c.G
	pix[2] = c.B
	pix[3] = c.A
}

func (t *ImageTarget) Clear(c Color) {
	pix := t.Img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
}

// At reports the pixel at (x, y).
func (t *ImageTarget) At(x, y int) Color {
	c := t.Img.RGBAAt(t.Img.Bounds().Min.X+x, t.Img.Bounds().Min.Y+y)
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}

func toRGBA(c Color) color.RGBA { return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A} }

func fromRGBA(c color.RGBA) Color { return Color{R: c.R, G: c.G, B: c.B, A: c.A} }
