//go:build ocr

package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// GosseractEngine runs Tesseract in-process through gosseract. Pages are still
// rasterised with pdftoppm.
type GosseractEngine struct {
	cfg    Config
	runner Runner

	mu     sync.Mutex // the client holds one image at a time
	client *gosseract.Client
}

// NewGosseractEngine creates an in-process engine. Close releases it.
func NewGosseractEngine(cfg Config, r Runner) (*GosseractEngine, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(cfg.TesseractLang); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("gosseract language: %w", err)
	}
	if cfg.TessdataDir != "" {
		client.TessdataPrefix = cfg.TessdataDir
	}
	if cfg.PSM > 0 {
		if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PSM)); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("gosseract psm: %w", err)
		}
	}
	return &GosseractEngine{cfg: cfg, runner: r, client: client}, nil
}

func (g *GosseractEngine) RecognizePage(ctx context.Context, path string, pageNr int) (string, error) {
	img, cleanup, err := renderPage(ctx, g.runner, g.cfg, path, pageNr)
	if err != nil {
		return "", err
	}
	defer cleanup()

	data, err := os.ReadFile(img)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := g.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Close releases OCR resources.
func (g *GosseractEngine) Close() error {
	if g != nil && g.client != nil {
		return g.client.Close()
	}
	return nil
}
