package hal

import (
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"snowflake/koch"
	"snowflake/render"
	"snowflake/shaders"
)

func TestParseKeys(t *testing.T) {
	keys, err := ParseKeys("right, Right left,ESC,escape home end f1 up down")
	require.NoError(t, err)
	assert.Equal(t, []KeyCode{
		KeyRight, KeyRight, KeyLeft, KeyEscape, KeyEscape,
		KeyHome, KeyEnd, KeyF1, KeyUp, KeyDown,
	}, keys)

	keys, err = ParseKeys("")
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = ParseKeys("right,space")
	assert.ErrorContains(t, err, `"space"`)
}

func TestKeyCodeNamesRoundTrip(t *testing.T) {
	for name, code := range keyNames {
		if name == "escape" {
			continue
		}
		assert.Equal(t, name, code.String())
	}
	assert.Equal(t, "unknown", KeyUnknown.String())
}

func TestScriptKeyboardOneKeyPerPoll(t *testing.T) {
	k := newScriptKeyboard([]KeyCode{KeyRight, KeyEscape})

	k.poll()
	assert.Equal(t, KeyEvent{Code: KeyRight, Press: true}, <-k.Events())
	assert.Equal(t, KeyEvent{Code: KeyRight, Press: false}, <-k.Events())
	assert.Empty(t, k.Events())

	k.poll()
	assert.Equal(t, KeyEvent{Code: KeyEscape, Press: true}, <-k.Events())
	<-k.Events()

	k.poll()
	assert.Empty(t, k.Events())
}

func TestHostKeyboardDropsWhenFull(t *testing.T) {
	k := newHostKeyboard()
	for i := 0; i < 100; i++ {
		k.emit(KeyUp, true)
	}
	assert.Len(t, k.ch, cap(k.ch))
}

func TestNewDefaultsLogger(t *testing.T) {
	h := New(nil, nil, NewSoftGPU(4, 4))
	assert.NotNil(t, h.Logger())
	assert.Nil(t, h.Input().Keyboard())
	assert.Equal(t, "software", h.GPU().Name())
}

func TestWindowConfigDefaults(t *testing.T) {
	c := WindowConfig{}.withDefaults()
	assert.Equal(t, WindowConfig{Width: 600, Height: 600, Title: "Fractal", LineWidth: 1}, c)

	c = WindowConfig{Width: 320, Height: 200, Title: "x", LineWidth: 2}.withDefaults()
	assert.Equal(t, WindowConfig{Width: 320, Height: 200, Title: "x", LineWidth: 2}, c)
}

func TestSoftGPU(t *testing.T) {
	g := NewSoftGPU(32, 32)
	assert.Equal(t, -1, g.Depth())
	assert.ErrorIs(t, g.LoadProgram(shaders.Source{}), shaders.ErrMissingSection)
	require.NoError(t, g.LoadProgram(shaders.Default()))
	assert.Equal(t, 1, g.Programs())

	require.NoError(t, g.Upload(render.BuildLineMesh(1, koch.DefaultTriangle)))
	assert.Equal(t, 1, g.Depth())
	assert.Equal(t, 1, g.Uploads())

	g.SetColor(render.ColorF{R: 1, A: 1})
	g.SetHUD([]string{"a"})
	assert.Equal(t, uint64(1), g.Frames())
	assert.Equal(t, []string{"a"}, g.HUD())

	img := g.Render()
	lit := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if img.At(x, y).R == 0xFF {
				lit++
			}
		}
	}
	assert.Positive(t, lit)

	g.SetHUD(nil)
	assert.Empty(t, g.HUD())
}

func TestRunTicksStopsAfterFrames(t *testing.T) {
	n := 0
	err := runTicks(context.Background(), time.Millisecond, 5, func() error {
		n++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestRunTicksReturnsStepError(t *testing.T) {
	boom := errors.New("boom")
	err := runTicks(context.Background(), time.Millisecond, 0, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRunTicksHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runTicks(ctx, time.Hour, 0, func() error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

// depthStep is a tiny app: arrows move the depth, escape quits.
func depthStep(t *testing.T, h HAL) (func() error, error) {
	t.Helper()
	depth := 0
	upload := func() error {
		return h.GPU().Upload(render.BuildLineMesh(depth, koch.DefaultTriangle))
	}
	if err := h.GPU().LoadProgram(shaders.Default()); err != nil {
		return nil, err
	}
	if err := upload(); err != nil {
		return nil, err
	}
	return func() error {
		for {
			select {
			case ev := <-h.Input().Keyboard().Events():
				if !ev.Press {
					continue
				}
				switch ev.Code {
				case KeyEscape:
					return ErrQuit
				case KeyRight:
					depth++
				case KeyLeft:
					depth--
				}
				if err := upload(); err != nil {
					return err
				}
			default:
				h.GPU().SetColor(render.ColorF{B: 1, A: 1})
				return nil
			}
		}
	}, nil
}

func TestRunHeadlessScriptedSession(t *testing.T) {
	snap := filepath.Join(t.TempDir(), "frame.png")
	keys, err := ParseKeys("right,right,left,esc")
	require.NoError(t, err)

	var gpu *SoftGPU
	err = RunHeadless(context.Background(), HeadlessConfig{
		Width:    64,
		Height:   64,
		Hz:       1000,
		Frames:   100,
		Keys:     keys,
		Snapshot: snap,
	}, zaptest.NewLogger(t), func(h HAL) (func() error, error) {
		gpu = h.GPU().(*SoftGPU)
		return depthStep(t, h)
	})
	require.NoError(t, err, "escape ends the run cleanly")

	require.NotNil(t, gpu)
	assert.Equal(t, 1, gpu.Depth())
	assert.Equal(t, 4, gpu.Uploads())
	assert.Equal(t, uint64(3), gpu.Frames(), "the escape frame draws nothing")

	f, err := os.Open(snap)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
}

func TestRunHeadlessFrameLimit(t *testing.T) {
	var gpu *SoftGPU
	err := RunHeadless(context.Background(), HeadlessConfig{Hz: 1000, Frames: 7}, nil, func(h HAL) (func() error, error) {
		gpu = h.GPU().(*SoftGPU)
		return depthStep(t, h)
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), gpu.Frames())
	assert.Equal(t, 0, gpu.Depth())
}

func TestRunHeadlessNewAppError(t *testing.T) {
	boom := errors.New("no program")
	err := RunHeadless(context.Background(), HeadlessConfig{}, nil, func(HAL) (func() error, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunHeadlessSnapshotError(t *testing.T) {
	err := RunHeadless(context.Background(), HeadlessConfig{
		Hz:       1000,
		Frames:   1,
		Snapshot: filepath.Join(t.TempDir(), "missing", "frame.png"),
	}, nil, func(h HAL) (func() error, error) {
		return depthStep(t, h)
	})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// frameLoop drives step the way the window backends do and returns the frame count.
func frameLoop(ctx context.Context, step func() error) (int, error) {
	for frames := 0; ; frames++ {
		if done, err := stepFrame(ctx, step); done {
			return frames, err
		}
	}
}

func TestStepFrameStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	frames, err := frameLoop(ctx, func() error {
		calls++
		if calls == 3 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err, "cancellation is a clean exit")
	assert.Equal(t, 3, frames)
	assert.Equal(t, 3, calls)
}

func TestStepFrameSkipsStepWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done, err := stepFrame(ctx, func() error {
		t.Fatal("step ran after cancel")
		return nil
	})
	assert.True(t, done)
	assert.NoError(t, err)
}

func TestStepFrameQuitAndError(t *testing.T) {
	done, err := stepFrame(context.Background(), func() error { return ErrQuit })
	assert.True(t, done)
	assert.NoError(t, err)

	boom := errors.New("boom")
	done, err = stepFrame(context.Background(), func() error { return boom })
	assert.True(t, done)
	assert.ErrorIs(t, err, boom)

	done, err = stepFrame(context.Background(), func() error { return nil })
	assert.False(t, done)
	assert.NoError(t, err)
}
