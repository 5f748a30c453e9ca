package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/internal/repository"
	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/Dias221467/SocialGraph/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

// SocialGraph owns every account, every session and the friend-request
// workflow. A single mutex guards all of it, including the snapshot write
// that follows each mutation.
type SocialGraph struct {
	mu       sync.Mutex
	accounts map[string]*models.Account
	sessions *SessionTable

	repo       repository.SnapshotRepository
	bcryptCost int
	// dirty is set when the last snapshot write failed.
	dirty bool
}

// Option customises a SocialGraph.
type Option func(*SocialGraph)

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(g *SocialGraph) {
		g.bcryptCost = cost
	}
}

// NewSocialGraph loads the snapshot from repo and returns a ready graph.
func NewSocialGraph(ctx context.Context, repo repository.SnapshotRepository, opts ...Option) (*SocialGraph, error) {
	g := &SocialGraph{
		accounts:   make(map[string]*models.Account),
		sessions:   NewSessionTable(),
		repo:       repo,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(g)
	}

	records, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	for _, rec := range records {
		g.accounts[rec.Username] = rec.Account()
	}
	if dropped := g.repairLocked(); dropped > 0 {
		// The next flush or mutation writes the repaired table back.
		g.dirty = true
		logger.Log.WithField("dropped", dropped).Warn("Snapshot had inconsistent relations, dropped them")
	}

	logger.Log.WithField("users", len(g.accounts)).Info("Social graph ready")
	return g, nil
}

// persistLocked writes the whole account table. The caller holds g.mu.
// On failure the in-memory change is kept and a persistence error is
// returned; the next mutation writes the full table again.
func (g *SocialGraph) persistLocked(ctx context.Context) error {
	start := time.Now()
	err := g.repo.Save(ctx, g.recordsLocked())
	metrics.PersistDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		g.dirty = true
		metrics.PersistFailures.Inc()
		logger.Log.WithError(err).Error("Failed to persist snapshot")
		return &apperrors.Error{
			Kind:    apperrors.KindPersistence,
			Message: "change applied in memory but could not be saved",
			Err:     err,
		}
	}
	if g.dirty {
		logger.Log.Info("Snapshot persisted again after an earlier failure")
		g.dirty = false
	}
	return nil
}

// repairLocked drops relation entries that point at unknown accounts,
// at the account itself, or that the other side does not mirror. A
// request between two friends is dropped too. It returns how many
// entries were removed.
func (g *SocialGraph) repairLocked() int {
	dropped := 0
	drop := func(set map[string]struct{}, key string) {
		delete(set, key)
		dropped++
	}

	for name, acct := range g.accounts {
		for f := range acct.Friends {
			other, ok := g.accounts[f]
			if !ok || f == name || !has(other.Friends, name) {
				drop(acct.Friends, f)
			}
		}
	}
	for name, acct := range g.accounts {
		for s := range acct.Sent {
			other, ok := g.accounts[s]
			if !ok || s == name || has(acct.Friends, s) || !has(other.Pending, name) {
				drop(acct.Sent, s)
			}
		}
		for p := range acct.Pending {
			other, ok := g.accounts[p]
			if !ok || p == name || has(acct.Friends, p) || !has(other.Sent, name) {
				drop(acct.Pending, p)
			}
		}
	}
	// Requests in both directions at once: keep neither.
	for name, acct := range g.accounts {
		for s := range acct.Sent {
			if has(acct.Pending, s) {
				drop(acct.Sent, s)
				drop(acct.Pending, s)
				drop(g.accounts[s].Sent, name)
				drop(g.accounts[s].Pending, name)
			}
		}
	}
	return dropped
}

func (g *SocialGraph) recordsLocked() []models.AccountRecord {
	records := make([]models.AccountRecord, 0, len(g.accounts))
	for _, acct := range g.accounts {
		records = append(records, acct.Record())
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Username < records[j].Username })
	return records
}

// Dirty reports whether the durable snapshot is behind memory.
func (g *SocialGraph) Dirty() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.dirty
}

func (g *SocialGraph) accountLocked(username string) (*models.Account, error) {
	acct, ok := g.accounts[username]
	if !ok {
		return nil, apperrors.NotFound("user '%s' does not exist", username)
	}
	return acct, nil
}

func requireName(name string) error {
	if name == "" {
		return apperrors.Validation("you must specify a user")
	}
	return nil
}

// Flush rewrites the snapshot if an earlier write failed.
func (g *SocialGraph) Flush(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.dirty {
		return nil
	}
	return g.persistLocked(ctx)
}
