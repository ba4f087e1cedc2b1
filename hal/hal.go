package hal

import (
	"errors"

	"go.uber.org/zap"

	"snowflake/render"
	"snowflake/shaders"
)

// ErrQuit is returned by an app step to end the render loop without an error.
var ErrQuit = errors.New("quit requested")

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEscape
	KeyHome
	KeyEnd
	KeyF1
)

func (k KeyCode) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyEscape:
		return "esc"
	case KeyHome:
		return "home"
	case KeyEnd:
		return "end"
	case KeyF1:
		return "f1"
	default:
		return "unknown"
	}
}

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
}

// GPU owns one shader program and one vertex/index buffer pair.
//
// All methods must be called from the render loop's goroutine.
type GPU interface {
	// Name identifies the backend.
	Name() string
	// LoadProgram compiles src and makes it current. On error the previous program
	// stays in use.
	LoadProgram(src shaders.Source) error
	// Upload replaces the buffer pair with m.
	Upload(m *render.LineMesh) error
	// SetColor sets the color uniform for the next frames.
	SetColor(c render.ColorF)
	// SetHUD replaces the status overlay; nil hides it.
	SetHUD(lines []string)
}

// HAL provides the only contact point between the app and the outside world.
type HAL interface {
	Logger() *zap.Logger
	Input() Input
	GPU() GPU
}

// NewApp builds the per-frame step function once the backend is ready.
type NewApp func(HAL) (func() error, error)
