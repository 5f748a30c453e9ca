package jobs

import (
	"context"

	"github.com/Dias221467/SocialGraph/pkg/logger"
)

// Flusher persists state that an earlier write failed to save.
type Flusher interface {
	Flush(ctx context.Context) error
}

// SnapshotFlusher retries a failed snapshot write without waiting for the
// next mutation.
type SnapshotFlusher struct {
	Target Flusher
}

func NewSnapshotFlusher(target Flusher) *SnapshotFlusher {
	return &SnapshotFlusher{Target: target}
}

func (f *SnapshotFlusher) Run(ctx context.Context) error {
	if err := f.Target.Flush(ctx); err != nil {
		logger.Log.WithError(err).Warn("Snapshot flush failed, will retry")
		return err
	}
	return nil
}
