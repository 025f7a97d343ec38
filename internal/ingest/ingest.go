package ingest

import (
	"context"
	"io"
	"time"
)

// Upload is one accepted input document held in memory for a run.
type Upload struct {
	Name       string // base name as given by the caller
	SourcePath string // absolute path; empty for stream uploads
	Data       []byte
	HashHex    string
	Format     string // constants.PDF
	ReceivedAt time.Time
}

// Size is the upload length in bytes.
func (u Upload) Size() int64 { return int64(len(u.Data)) }

// DirStats summarizes a directory scan.
type DirStats struct {
	Scanned uint32
	Matched uint32
	Skipped uint32
}

// Ingestor accepts uploads from paths or streams.
type Ingestor interface {
	IngestPath(ctx context.Context, path string) (Upload, error)
	IngestReader(ctx context.Context, name string, r io.Reader) (Upload, error)
	// ListDirectory returns the accepted files under root in lexical order.
	ListDirectory(ctx context.Context, root string, skipHidden bool) ([]string, DirStats, error)
}
