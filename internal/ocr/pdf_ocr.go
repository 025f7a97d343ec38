package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// TesseractEngine rasterises a page with pdftoppm and runs the tesseract CLI on it.
type TesseractEngine struct {
	cfg    Config
	runner Runner
}

func (t *TesseractEngine) RecognizePage(ctx context.Context, path string, pageNr int) (string, error) {
	img, cleanup, err := renderPage(ctx, t.runner, t.cfg, path, pageNr)
	if err != nil {
		return "", err
	}
	defer cleanup()

	args := []string{img, "stdout", "-l", t.cfg.TesseractLang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// renderPage writes one PNG for pageNr and returns its path plus a cleanup func.
func renderPage(ctx context.Context, r Runner, cfg Config, path string, pageNr int) (string, func(), error) {
	tmpDir, err := os.MkdirTemp(cfg.TempDir, "is-pp-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	prefix := filepath.Join(tmpDir, "page")
	page := strconv.Itoa(pageNr)
	// pdftoppm -f N -l N -r 300 -png -singlefile <in.pdf> <tmp/page>
	_, errb, err := r.Run(ctx, cfg.Pdftoppm,
		"-f", page, "-l", page,
		"-r", strconv.Itoa(cfg.DPI),
		"-png", "-singlefile",
		path, prefix,
	)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("pdftoppm page %d: %w: %s", pageNr, err, truncate(string(errb), 512))
	}

	out := prefix + ".png"
	if _, statErr := os.Stat(out); statErr != nil {
		cleanup()
		return "", nil, fmt.Errorf("pdftoppm produced no image for page %d: %w", pageNr, statErr)
	}
	return out, cleanup, nil
}
