package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/dgraph-io/badger/v4"
)

const badgerAccountPrefix = "account/"

// BadgerRepository stores one key per account in an embedded BadgerDB.
type BadgerRepository struct {
	db *badger.DB
}

// NewBadgerRepository wraps an open database. The repository owns db and
// closes it on Close.
func NewBadgerRepository(db *badger.DB) *BadgerRepository {
	return &BadgerRepository{db: db}
}

func (r *BadgerRepository) Load(ctx context.Context) ([]models.AccountRecord, error) {
	var records []models.AccountRecord

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerAccountPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var rec models.AccountRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("failed to decode account %q: %w", item.Key(), err)
			}
			rec.Username = strings.TrimPrefix(string(item.Key()), badgerAccountPrefix)
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot from badger: %w", err)
	}

	logger.Log.WithField("users", len(records)).Info("Snapshot loaded from badger")
	return records, nil
}

// Save replaces every account key in one transaction.
func (r *BadgerRepository) Save(ctx context.Context, records []models.AccountRecord) error {
	keep := make(map[string]struct{}, len(records))
	for _, rec := range records {
		keep[badgerAccountPrefix+rec.Username] = struct{}{}
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		stale, err := staleKeys(txn, keep)
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		for _, rec := range records {
			val, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := txn.Set([]byte(badgerAccountPrefix+rec.Username), val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot to badger: %w", err)
	}
	return nil
}

func staleKeys(txn *badger.Txn, keep map[string]struct{}) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(badgerAccountPrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	var stale [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		if _, ok := keep[string(it.Item().Key())]; !ok {
			stale = append(stale, it.Item().KeyCopy(nil))
		}
	}
	return stale, nil
}

// RunGC reclaims value-log space. Nothing to collect is not an error.
func (r *BadgerRepository) RunGC(discardRatio float64) error {
	err := r.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}

func (r *BadgerRepository) Close() error {
	return r.db.Close()
}
