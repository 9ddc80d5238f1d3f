package service

import (
	"context"
	"time"
)

// Query outcomes reported to a Recorder.
const (
	OutcomeSuccess  = "success"
	OutcomeCached   = "cached"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

// Recorder receives pipeline measurements.
type Recorder interface {
	QueryCompleted(ctx context.Context, outcome string, elapsed time.Duration)
	StageCompleted(ctx context.Context, stage string, elapsed time.Duration)
	CacheLookup(ctx context.Context, kind string, hit bool)
}

type nopRecorder struct{}

func (nopRecorder) QueryCompleted(context.Context, string, time.Duration) {}
func (nopRecorder) StageCompleted(context.Context, string, time.Duration) {}
func (nopRecorder) CacheLookup(context.Context, string, bool)             {}
