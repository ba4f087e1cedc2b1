//go:build cgo && !gl

package hal

import (
	"context"
	"fmt"
	"image"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"snowflake/internal/buildinfo"
	"snowflake/render"
	"snowflake/shaders"
)

// RunWindow opens an Ebitengine window and drives newApp once per frame.
// It blocks until the window closes, ctx is done or the app returns ErrQuit.
func RunWindow(ctx context.Context, cfg WindowConfig, logger *zap.Logger, newApp NewApp) error {
	cfg = cfg.withDefaults()
	gpu := newEbitenGPU(cfg.Width, cfg.Height, cfg.LineWidth)
	kbd := newHostKeyboard()
	g := &hostGame{
		ctx:    ctx,
		h:      New(logger, kbd, gpu),
		kbd:    kbd,
		gpu:    gpu,
		newApp: newApp,
		width:  cfg.Width,
		height: cfg.Height,
	}

	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetVsyncEnabled(cfg.VSync)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.err
}

type hostGame struct {
	ctx    context.Context
	h      HAL
	kbd    *hostKeyboard
	gpu    *ebitenGPU
	newApp NewApp
	step   func() error
	err    error

	width, height int
}

func (g *hostGame) Update() error {
	// Ebitengine objects are only usable once the game loop runs, so the app is built
	// on the first frame.
	if g.step == nil {
		step, err := g.newApp(g.h)
		if err != nil {
			g.err = err
			return ebiten.Termination
		}
		g.step = step
	}

	g.kbd.pollEbiten()
	if done, err := stepFrame(g.ctx, g.step); done {
		g.err = err
		return ebiten.Termination
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	g.gpu.draw(screen)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

type ebitenBatch struct {
	vertices []ebiten.Vertex
	indices  []uint16
}

// ebitenGPU draws lines as quads through a Kage program. Ebitengine has no line
// primitive, so every uploaded mesh is expanded once into uint16-indexed batches.
type ebitenGPU struct {
	width, height int
	lineWidth     float32

	shader  *ebiten.Shader
	batches []ebitenBatch
	color   render.ColorF
	opts    ebiten.DrawTrianglesShaderOptions

	hud      []string
	hudDirty bool
	hudImg   *ebiten.Image
	hudTgt   *render.ImageTarget
}

func newEbitenGPU(w, h int, lineWidth float32) *ebitenGPU {
	return &ebitenGPU{
		width:     w,
		height:    h,
		lineWidth: lineWidth,
		opts:      ebiten.DrawTrianglesShaderOptions{Uniforms: map[string]any{}},
	}
}

func (g *ebitenGPU) Name() string { return "ebiten" }

func (g *ebitenGPU) LoadProgram(src shaders.Source) error {
	if err := src.Require(shaders.KindKage); err != nil {
		return err
	}
	sh, err := ebiten.NewShader([]byte(src.Kage))
	if err != nil {
		return fmt.Errorf("compile kage shader: %w", err)
	}
	if g.shader != nil {
		g.shader.Deallocate()
	}
	g.shader = sh
	return nil
}

func (g *ebitenGPU) Upload(m *render.LineMesh) error {
	quads := render.Quads(m, g.width, g.height, g.lineWidth)
	batches := make([]ebitenBatch, 0, len(quads))
	for _, q := range quads {
		vs := make([]ebiten.Vertex, len(q.Vertices))
		for i, v := range q.Vertices {
			vs[i] = ebiten.Vertex{
				DstX:   v.X,
				DstY:   v.Y,
				ColorR: 1,
				ColorG: 1,
				ColorB: 1,
				ColorA: 1,
			}
		}
		batches = append(batches, ebitenBatch{vertices: vs, indices: q.Indices})
	}
	g.batches = batches
	return nil
}

func (g *ebitenGPU) SetColor(c render.ColorF) { g.color = c }

func (g *ebitenGPU) SetHUD(lines []string) {
	if slices.Equal(lines, g.hud) {
		return
	}
	g.hud = slices.Clone(lines)
	g.hudDirty = true
}

func (g *ebitenGPU) draw(screen *ebiten.Image) {
	if g.shader != nil {
		g.opts.Uniforms["Color"] = g.color.Slice()
		for _, b := range g.batches {
			screen.DrawTrianglesShader(b.vertices, b.indices, g.shader, &g.opts)
		}
	}
	g.drawHUD(screen)
}

func (g *ebitenGPU) drawHUD(screen *ebiten.Image) {
	if len(g.hud) == 0 {
		return
	}
	if g.hudDirty || g.hudImg == nil {
		hud := render.DefaultHUD()
		w := hud.Width(g.hud...) + 8
		h := hud.LineHeight()*len(g.hud) + 8
		if g.hudTgt == nil || g.hudTgt.Img.Bounds() != image.Rect(0, 0, w, h) {
			g.hudTgt = render.NewImageTarget(w, h)
			if g.hudImg != nil {
				g.hudImg.Deallocate()
			}
			g.hudImg = ebiten.NewImage(w, h)
		}
		g.hudTgt.Clear(render.RGBA(0, 0, 0, 0))
		hud.Draw(g.hudTgt, 4, 4, g.hud...)
		g.hudImg.WritePixels(g.hudTgt.Img.Pix)
		g.hudDirty = false
	}
	screen.DrawImage(g.hudImg, nil)
}
