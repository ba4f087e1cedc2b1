package hal

import (
	"fmt"

	"snowflake/render"
	"snowflake/shaders"
)

// SoftGPU is a GPU that keeps the uploaded mesh in memory and rasterizes it on demand.
type SoftGPU struct {
	raster   *render.Raster
	target   *render.ImageTarget
	program  shaders.Source
	programs int
	mesh     *render.LineMesh
	uploads  int
	color    render.ColorF
	frames   uint64
	hud      []string
}

// NewSoftGPU creates a software GPU rendering w×h frames.
func NewSoftGPU(w, h int) *SoftGPU {
	return &SoftGPU{
		raster: render.NewRaster(),
		target: render.NewImageTarget(w, h),
	}
}

func (g *SoftGPU) Name() string { return "software" }

// LoadProgram accepts any source with at least one program section.
func (g *SoftGPU) LoadProgram(src shaders.Source) error {
	if src == (shaders.Source{}) {
		return fmt.Errorf("software gpu: %w", shaders.ErrMissingSection)
	}
	g.program = src
	g.programs++
	return nil
}

func (g *SoftGPU) Upload(m *render.LineMesh) error {
	g.mesh = m
	g.uploads++
	return nil
}

// SetColor is called once per frame and doubles as the frame counter.
func (g *SoftGPU) SetColor(c render.ColorF) {
	g.color = c
	g.frames++
}

func (g *SoftGPU) SetHUD(lines []string) { g.hud = append(g.hud[:0], lines...) }

func (g *SoftGPU) Frames() uint64         { return g.frames }
func (g *SoftGPU) Uploads() int           { return g.uploads }
func (g *SoftGPU) Programs() int          { return g.programs }
func (g *SoftGPU) Color() render.ColorF   { return g.color }
func (g *SoftGPU) Mesh() *render.LineMesh { return g.mesh }
func (g *SoftGPU) HUD() []string          { return g.hud }

// Depth reports the depth of the uploaded mesh, or -1 before the first upload.
func (g *SoftGPU) Depth() int {
	if g.mesh == nil {
		return -1
	}
	return g.mesh.Depth
}

// Render rasterizes the current mesh, color and HUD.
func (g *SoftGPU) Render() *render.ImageTarget {
	g.raster.Render(g.target, g.mesh, g.color.RGBA8())
	if len(g.hud) > 0 {
		render.DefaultHUD().Draw(g.target, 4, 4, g.hud...)
	}
	return g.target
}
