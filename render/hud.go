package render

import (
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// HUD draws a few lines of status text in the top-left corner of a target.
type HUD struct {
	Font  tinyfont.Fonter
	Color Color
	// Scale repeats every font pixel Scale×Scale times; 0 means 1.
	Scale int
}

// DefaultHUD uses the TomThumb 3x5 font scaled 2x.
func DefaultHUD() HUD {
	return HUD{Font: &tinyfont.TomThumb, Color: RGB(0xC0, 0xC0, 0xC0), Scale: 2}
}

// LineHeight is the pixel advance between HUD lines.
func (h HUD) LineHeight() int {
	return int(h.font().GetYAdvance()) * h.scale()
}

// Draw writes lines to t starting at (x, y). Pixels outside t are dropped.
func (h HUD) Draw(t Target, x, y int, lines ...string) {
	if t == nil {
		return
	}
	d := hudDisplay{t: t, scale: h.scale(), ox: x, oy: y}
	f := h.font()
	adv := int16(f.GetYAdvance())
	for i, line := range lines {
		// tinyfont positions text by its baseline.
		tinyfont.WriteLine(d, f, 0, adv*int16(i+1)-1, line, toRGBA(h.Color))
	}
}

// Width returns the pixel width of the widest line.
func (h HUD) Width(lines ...string) int {
	var w uint32
	for _, line := range lines {
		_, outbox := tinyfont.LineWidth(h.font(), line)
		if outbox > w {
			w = outbox
		}
	}
	return int(w) * h.scale()
}

func (h HUD) font() tinyfont.Fonter {
	if h.Font == nil {
		return &tinyfont.TomThumb
	}
	return h.Font
}

func (h HUD) scale() int {
	if h.Scale <= 0 {
		return 1
	}
	return h.Scale
}

// hudDisplay adapts a Target to the tinyfont display interface with an offset and
// integer scaling.
type hudDisplay struct {
	t      Target
	scale  int
	ox, oy int
}

var _ drivers.Displayer = hudDisplay{}

func (d hudDisplay) Size() (x, y int16) {
	w, h := d.t.Size()
	return int16((w - d.ox) / d.scale), int16((h - d.oy) / d.scale)
}

func (d hudDisplay) SetPixel(x, y int16, c color.RGBA) {
	px := d.ox + int(x)*d.scale
	py := d.oy + int(y)*d.scale
	cc := fromRGBA(c)
	for j := 0; j < d.scale; j++ {
		for i := 0; i < d.scale; i++ {
			d.t.SetPixel(px+i, py+j, cc)
		}
	}
}

func (d hudDisplay) Display() error { return nil }
