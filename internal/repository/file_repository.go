package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/sirupsen/logrus"
)

// FileRepository keeps the snapshot in a single JSON document keyed by
// username.
type FileRepository struct {
	path string
}

// NewFileRepository creates a repository backed by the file at path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

// Load reads the snapshot. A missing file is a cold start.
func (r *FileRepository) Load(ctx context.Context) ([]models.AccountRecord, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Log.WithField("path", r.path).Info("No snapshot file found, starting with an empty graph")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var doc map[string]models.AccountRecord
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	records := make([]models.AccountRecord, 0, len(doc))
	for username, rec := range doc {
		rec.Username = username
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Username < records[j].Username })

	logger.Log.WithFields(logrus.Fields{"path": r.path, "users": len(records)}).Info("Snapshot loaded")
	return records, nil
}

// Save writes the snapshot to a temporary file in the same directory,
// syncs it and renames it over the previous one.
func (r *FileRepository) Save(ctx context.Context, records []models.AccountRecord) error {
	doc := make(map[string]models.AccountRecord, len(records))
	for _, rec := range records {
		doc[rec.Username] = rec
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

func (r *FileRepository) Close() error { return nil }
