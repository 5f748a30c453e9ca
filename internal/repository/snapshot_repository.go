package repository

import (
	"context"

	"github.com/Dias221467/SocialGraph/internal/models"
)

// SnapshotRepository stores the full account table. Save replaces the
// previous snapshot as a whole; Load on an empty store returns no records
// and no error.
type SnapshotRepository interface {
	Load(ctx context.Context) ([]models.AccountRecord, error)
	Save(ctx context.Context, records []models.AccountRecord) error
	Close() error
}
