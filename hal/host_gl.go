//go:build cgo && gl

package hal

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"snowflake/internal/buildinfo"
	"snowflake/render"
	"snowflake/shaders"
)

func init() {
	// GLFW event handling and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

var glfwKeys = map[glfw.Key]KeyCode{
	glfw.KeyUp:     KeyUp,
	glfw.KeyDown:   KeyDown,
	glfw.KeyLeft:   KeyLeft,
	glfw.KeyRight:  KeyRight,
	glfw.KeyEscape: KeyEscape,
	glfw.KeyHome:   KeyHome,
	glfw.KeyEnd:    KeyEnd,
	glfw.KeyF1:     KeyF1,
}

// RunGL opens a GLFW window with an OpenGL 3.3 core context and drives newApp once per
// frame. It blocks until the window closes, ctx is done or the app returns ErrQuit.
func RunGL(ctx context.Context, cfg WindowConfig, logger *zap.Logger, newApp NewApp) error {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	title := cfg.Title + " (" + buildinfo.Short() + ")"
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, title, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Destroy()
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		return fmt.Errorf("could not initialise OpenGL context: %w", err)
	}
	logger.Info("OpenGL context ready",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	kbd := newHostKeyboard()
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		code, ok := glfwKeys[key]
		if !ok {
			return
		}
		switch action {
		case glfw.Press:
			kbd.emit(code, true)
		case glfw.Release:
			kbd.emit(code, false)
		}
	})

	gpu := &glGPU{}
	defer gpu.release()

	step, err := newApp(New(logger, kbd, gpu))
	if err != nil {
		return err
	}

	for !win.ShouldClose() {
		if done, err := stepFrame(ctx, step); done {
			return err
		}
		if gpu.hudDirty {
			win.SetTitle(strings.Join(append([]string{title}, gpu.hud...), " | "))
			gpu.hudDirty = false
		}

		fbw, fbh := win.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbw), int32(fbh))
		gpu.draw()

		win.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// glGPU uploads the mesh into a VAO with one VBO/EBO pair and draws it as GL_LINES.
// Core profiles only guarantee 1px lines, so the configured line width is not applied.
type glGPU struct {
	program  uint32
	colorLoc int32

	vao, vbo, ebo uint32
	count         int32

	color render.ColorF

	hud      []string
	hudDirty bool
}

func (g *glGPU) Name() string { return "gl" }

func (g *glGPU) LoadProgram(src shaders.Source) error {
	if err := src.Require(shaders.KindVertex, shaders.KindFragment); err != nil {
		return err
	}
	prog, err := newProgram(src.Vertex, src.Fragment)
	if err != nil {
		return err
	}
	if g.program != 0 {
		gl.DeleteProgram(g.program)
	}
	g.program = prog
	g.colorLoc = gl.GetUniformLocation(prog, gl.Str("u_color\x00"))
	return nil
}

func (g *glGPU) Upload(m *render.LineMesh) error {
	g.deleteBuffers()
	if m == nil || len(m.Points) == 0 || len(m.Indices) == 0 {
		return nil
	}

	gl.GenVertexArrays(1, &g.vao)
	gl.GenBuffers(1, &g.vbo)
	gl.GenBuffers(1, &g.ebo)

	gl.BindVertexArray(g.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Points)*4, gl.Ptr(m.Points), gl.STATIC_DRAW)

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	// Position (location 0): two floats per vertex.
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)

	g.count = int32(len(m.Indices))
	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("upload %d indices: gl error 0x%x", g.count, e)
	}
	return nil
}

func (g *glGPU) SetColor(c render.ColorF) { g.color = c }

func (g *glGPU) SetHUD(lines []string) {
	if slices.Equal(lines, g.hud) {
		return
	}
	g.hud = slices.Clone(lines)
	g.hudDirty = true
}

func (g *glGPU) draw() {
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	if g.program == 0 || g.count == 0 {
		return
	}
	gl.UseProgram(g.program)
	gl.Uniform4f(g.colorLoc, g.color.R, g.color.G, g.color.B, g.color.A)
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.LINES, g.count, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (g *glGPU) deleteBuffers() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	g.vao, g.vbo, g.ebo, g.count = 0, 0, 0, 0
}

func (g *glGPU) release() {
	g.deleteBuffers()
	if g.program != 0 {
		gl.DeleteProgram(g.program)
		g.program = 0
	}
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logBytes := make([]byte, logLength+1)
		gl.GetShaderInfoLog(shader, logLength, nil, &logBytes[0])
		gl.DeleteShader(shader)
		kind := "vertex"
		if shaderType == gl.FRAGMENT_SHADER {
			kind = "fragment"
		}
		return 0, fmt.Errorf("compile %s shader: %s", kind, strings.TrimRight(string(logBytes), "\x00\n"))
	}
	return shader, nil
}

func newProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logBytes := make([]byte, logLength+1)
		gl.GetProgramInfoLog(program, logLength, nil, &logBytes[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link shader program: %s", strings.TrimRight(string(logBytes), "\x00\n"))
	}
	return program, nil
}
