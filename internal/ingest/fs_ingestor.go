package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/invoice-sorter/constants"
	"github.com/joseph-ayodele/invoice-sorter/internal/common"
)

var pdfMagic = []byte("%PDF-")

// FSIngestor reads uploads from the local filesystem or a stream.
type FSIngestor struct {
	MaxSize int64 // bytes; <= 0 means unlimited
	logger  *slog.Logger
}

func NewFSIngestor(maxSize int64, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{MaxSize: maxSize, logger: logger}
}

func (i *FSIngestor) IngestPath(ctx context.Context, path string) (Upload, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Upload{}, fmt.Errorf("abs path: %w", err)
	}
	if err := checkExt(abs); err != nil {
		return Upload{}, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return Upload{}, common.Newf(common.CodeInput, common.ErrInvalidInput, err, "open %s", path)
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			i.logger.Warn("ingest.close_error", "path", abs, "error", err)
		}
	}(f)

	up, err := i.IngestReader(ctx, filepath.Base(abs), f)
	if err != nil {
		return Upload{}, err
	}
	up.SourcePath = abs
	return up, nil
}

func (i *FSIngestor) IngestReader(ctx context.Context, name string, r io.Reader) (Upload, error) {
	if err := ctx.Err(); err != nil {
		return Upload{}, err
	}
	if err := checkExt(name); err != nil {
		return Upload{}, err
	}

	src := r
	if i.MaxSize > 0 {
		src = io.LimitReader(r, i.MaxSize+1)
	}
	h := sha256.New()
	data, err := io.ReadAll(io.TeeReader(src, h))
	if err != nil {
		return Upload{}, common.Newf(common.CodeInput, common.ErrInvalidInput, err, "read %s", name)
	}
	if i.MaxSize > 0 && int64(len(data)) > i.MaxSize {
		return Upload{}, common.Newf(common.CodeInput, common.ErrInvalidInput, nil,
			"%s exceeds the upload limit of %d bytes", name, i.MaxSize)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return Upload{}, common.Newf(common.CodeInput, common.ErrInvalidInput, nil, "%s is not a PDF document", name)
	}

	up := Upload{
		Name:       name,
		Data:       data,
		HashHex:    hex.EncodeToString(h.Sum(nil)),
		Format:     constants.MapExtToFormat(filepath.Ext(name)),
		ReceivedAt: time.Now().UTC(),
	}
	i.logger.Info("ingest.upload.ok", "name", name, "bytes", len(data), "sha256", up.HashHex)
	return up, nil
}

// ListDirectory walks root and returns every accepted file, skipping hidden
// entries if requested.
func (i *FSIngestor) ListDirectory(ctx context.Context, root string, skipHidden bool) ([]string, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var paths []string
	var stats DirStats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return walkErr
		}
		if path != root && skipHidden && IsHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		stats.Scanned++
		if !AllowedExt(filepath.Ext(path)) {
			stats.Skipped++
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, stats, fmt.Errorf("walk: %w", err)
	}
	return paths, stats, nil
}

func checkExt(name string) error {
	ext := constants.NormalizeExt(filepath.Ext(name))
	if ext == "" || !AllowedExt(ext) {
		return common.Newf(common.CodeInput, common.ErrInvalidInput, nil, "unsupported or missing extension %q", ext)
	}
	return nil
}
