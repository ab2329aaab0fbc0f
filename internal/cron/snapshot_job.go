package cron

import (
	"context"
	"errors"
)

// Flusher writes every terminal slot to the snapshot store.
type Flusher interface {
	Flush(ctx context.Context) error
}

// SnapshotFlushJob rewrites the full snapshot so a slot whose save failed on
// mutation catches up on the next tick.
type SnapshotFlushJob struct {
	flusher Flusher
}

func NewSnapshotFlushJob(flusher Flusher) (*SnapshotFlushJob, error) {
	if flusher == nil {
		return nil, errors.New("flusher required")
	}
	return &SnapshotFlushJob{flusher: flusher}, nil
}

func (j *SnapshotFlushJob) Name() string { return "snapshot_flush" }

func (j *SnapshotFlushJob) Run(ctx context.Context) error {
	return j.flusher.Flush(ctx)
}
