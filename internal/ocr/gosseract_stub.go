//go:build !ocr

package ocr

import (
	"context"
	"errors"
)

// ErrOCRNotEnabled is returned when the in-process engine was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("gosseract support not enabled; rebuild with -tags ocr")

// GosseractEngine is a stub used when the "ocr" build tag is not set.
type GosseractEngine struct{}

// NewGosseractEngine returns ErrOCRNotEnabled.
func NewGosseractEngine(Config, Runner) (*GosseractEngine, error) {
	return nil, ErrOCRNotEnabled
}

func (g *GosseractEngine) RecognizePage(context.Context, string, int) (string, error) {
	return "", ErrOCRNotEnabled
}

// Close is a no-op; safe on a nil engine.
func (g *GosseractEngine) Close() error {
	return nil
}
