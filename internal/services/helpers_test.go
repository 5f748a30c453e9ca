package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memRepository keeps the last saved snapshot in memory.
type memRepository struct {
	mu      sync.Mutex
	records []models.AccountRecord
	saves   int
	fail    error
}

func (m *memRepository) Load(ctx context.Context) ([]models.AccountRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AccountRecord(nil), m.records...), nil
}

func (m *memRepository) Save(ctx context.Context, records []models.AccountRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.saves++
	m.records = records
	return nil
}

func (m *memRepository) Close() error { return nil }

func (m *memRepository) setFail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *memRepository) saveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

var errDiskFull = errors.New("disk full")

func newTestGraph(t *testing.T) (*SocialGraph, *memRepository) {
	t.Helper()
	logger.Discard()
	repo := &memRepository{}
	g, err := NewSocialGraph(context.Background(), repo, WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	return g, repo
}

// register creates accounts with password "secret".
func register(t *testing.T, g *SocialGraph, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, g.Register(context.Background(), n, "secret"))
	}
}

// befriend runs the full request/accept workflow for a and b.
func befriend(t *testing.T, g *SocialGraph, a, b string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, g.SendRequest(ctx, a, b))
	require.NoError(t, g.AcceptRequest(ctx, b, a))
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, apperrors.KindOf(err), "error: %v", err)
}

// checkInvariants asserts the structural invariants of the account table.
func checkInvariants(t *testing.T, g *SocialGraph) {
	t.Helper()
	g.mu.Lock()
	defer g.mu.Unlock()

	for name, acct := range g.accounts {
		assert.NotContains(t, acct.Friends, name, "self friendship for %s", name)
		assert.NotContains(t, acct.Sent, name, "self request for %s", name)
		assert.NotContains(t, acct.Pending, name, "self pending for %s", name)

		for f := range acct.Friends {
			other, ok := g.accounts[f]
			if assert.True(t, ok, "%s has unknown friend %s", name, f) {
				assert.Contains(t, other.Friends, name, "asymmetric friendship %s-%s", name, f)
			}
			assert.NotContains(t, acct.Pending, f, "%s both friend and pending of %s", f, name)
			assert.NotContains(t, acct.Sent, f, "%s both friend and sent of %s", f, name)
		}
		for s := range acct.Sent {
			other, ok := g.accounts[s]
			if assert.True(t, ok, "%s sent to unknown %s", name, s) {
				assert.Contains(t, other.Pending, name, "sent %s->%s without pending", name, s)
			}
			assert.NotContains(t, acct.Pending, s, "requests in both directions between %s and %s", name, s)
		}
		for p := range acct.Pending {
			other, ok := g.accounts[p]
			if assert.True(t, ok, "%s pending from unknown %s", name, p) {
				assert.Contains(t, other.Sent, name, "pending %s<-%s without sent", name, p)
			}
		}
	}
}
