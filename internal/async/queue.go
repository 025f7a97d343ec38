package async

import (
	"context"
	"time"
)

// Job is one input file waiting to be sorted.
type Job struct {
	Path        string
	SubmittedAt time.Time
}

// Handler processes a single job. Its error is reported on the job's Outcome.
type Handler func(ctx context.Context, job Job) error

// Outcome reports how a job finished.
type Outcome struct {
	Job      Job
	Err      error
	Duration time.Duration
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context) []Outcome
}
