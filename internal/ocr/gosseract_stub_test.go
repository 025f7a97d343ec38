//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestNewGosseractEngineReturnsError(t *testing.T) {
	engine, err := NewGosseractEngine(Config{}, nil)
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if engine != nil {
		t.Error("Expected nil engine when OCR is disabled")
	}
}

func TestStubEngineRecognize(t *testing.T) {
	var engine *GosseractEngine
	if _, err := engine.RecognizePage(context.Background(), "x.pdf", 1); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("Close on nil engine should not error: %v", err)
	}
}

func TestExtractorGosseractBackendWithoutTag(t *testing.T) {
	_, err := NewExtractor(Config{OCREnabled: true, OCRBackend: "gosseract"}, nil)
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Expected ErrOCRNotEnabled, got: %v", err)
	}
}
