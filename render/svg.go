package render

import (
	"bufio"
	"fmt"
	"io"
)

// WriteSVG writes m as an SVG document of size×size pixels, one path per run of
// connected lines.
func WriteSVG(w io.Writer, m *LineMesh, size int, stroke Color) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n", size, size, size, size)
	fmt.Fprintf(bw, `<rect width="100%%" height="100%%" fill="black"/>`+"\n")
	fmt.Fprintf(bw, `<path fill="none" stroke="#%02x%02x%02x" stroke-width="1" d="`, stroke.R, stroke.G, stroke.B)

	var lastX, lastY float32
	open := false
	if m != nil {
		for i := 0; i < m.LineCount(); i++ {
			a, b, ok := m.Line(i)
			if !ok {
				continue
			}
			x0, y0 := NDCToScreen(a, size, size)
			x1, y1 := NDCToScreen(b, size, size)
			if !open || x0 != lastX || y0 != lastY {
				fmt.Fprintf(bw, "M%.2f %.2f", x0, y0)
				open = true
			}
			if x1 != x0 || y1 != y0 {
				fmt.Fprintf(bw, "L%.2f %.2f", x1, y1)
			}
			lastX, lastY = x1, y1
		}
	}
	fmt.Fprintf(bw, `"/>`+"\n</svg>\n")
	return bw.Flush()
}
