//go:build !cgo || gl

package hal

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

func RunWindow(context.Context, WindowConfig, *zap.Logger, NewApp) error {
	return errors.New("ebiten mode requires cgo and a build without the gl tag")
}
