package hal

import (
	"fmt"
	"strings"
)

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// emit drops the event when the consumer is 64 events behind.
func (k *hostKeyboard) emit(code KeyCode, press bool) {
	select {
	case k.ch <- KeyEvent{Code: code, Press: press}:
	default:
	}
}

// scriptKeyboard replays a fixed key sequence, one press/release per frame.
type scriptKeyboard struct {
	*hostKeyboard
	keys []KeyCode
}

func newScriptKeyboard(keys []KeyCode) *scriptKeyboard {
	return &scriptKeyboard{hostKeyboard: newHostKeyboard(), keys: keys}
}

func (k *scriptKeyboard) poll() {
	if len(k.keys) == 0 {
		return
	}
	code := k.keys[0]
	k.keys = k.keys[1:]
	k.emit(code, true)
	k.emit(code, false)
}

// ParseKeys parses a comma or space separated key script such as "right,right,esc".
func ParseKeys(s string) ([]KeyCode, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	keys := make([]KeyCode, 0, len(fields))
	for _, f := range fields {
		code, ok := keyNames[strings.ToLower(f)]
		if !ok {
			return nil, fmt.Errorf("unknown key %q", f)
		}
		keys = append(keys, code)
	}
	return keys, nil
}

var keyNames = map[string]KeyCode{
	"up":     KeyUp,
	"down":   KeyDown,
	"left":   KeyLeft,
	"right":  KeyRight,
	"esc":    KeyEscape,
	"escape": KeyEscape,
	"home":   KeyHome,
	"end":    KeyEnd,
	"f1":     KeyF1,
}
