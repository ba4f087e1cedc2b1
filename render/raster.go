package render

// Raster is a software line renderer.
//
// Create it once and reuse it; it keeps no per-frame state besides its settings.
type Raster struct {
	ClearColor Color
}

// NewRaster creates a raster that clears to black.
func NewRaster() *Raster {
	return &Raster{ClearColor: RGB(0, 0, 0)}
}

// Render clears t and draws every line of m in c.
func (r *Raster) Render(t Target, m *LineMesh, c Color) {
	if r == nil || t == nil {
		return
	}
	w, h := t.Size()
	if w <= 0 || h <= 0 {
		return
	}
	t.Clear(r.ClearColor)
	if m == nil {
		return
	}

	for i := 0; i < m.LineCount(); i++ {
		a, b, ok := m.Line(i)
		if !ok {
			continue
		}
		x0, y0 := screenPixel(NDCToScreen(a, w, h))
		x1, y1 := screenPixel(NDCToScreen(b, w, h))
		drawLine(t, x0, y0, x1, y1, c)
	}
}

func screenPixel(x, y float32) (int, int) {
	return int(x), int(y)
}

func drawLine(t Target, x0, y0, x1, y1 int, c Color) {
	dx := absInt(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -absInt(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
