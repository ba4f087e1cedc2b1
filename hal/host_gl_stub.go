//go:build !cgo || !gl

package hal

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// RunGL needs cgo and the gl build tag (go build -tags gl).
func RunGL(context.Context, WindowConfig, *zap.Logger, NewApp) error {
	return errors.New("gl mode requires cgo and the gl build tag")
}
