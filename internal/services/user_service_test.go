package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "secret"},
		{"blank username", "   ", "secret"},
		{"empty password", "alice", ""},
		{"short username", "al", "secret"},
		{"short password", "alice", "abc"},
		{"password over bcrypt limit", "alice", strings.Repeat("x", 73)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, repo := newTestGraph(t)

			err := g.Register(context.Background(), tt.username, tt.password)

			assertKind(t, err, apperrors.KindValidation)
			assert.Empty(t, g.AllUsernames())
			assert.Zero(t, repo.saveCount())
		})
	}
}

func TestRegisterCreatesEmptyAccount(t *testing.T) {
	g, repo := newTestGraph(t)

	require.NoError(t, g.Register(context.Background(), "  alice ", "secret"))

	assert.Equal(t, []string{"alice"}, g.AllUsernames())
	profile, err := g.Profile("alice")
	require.NoError(t, err)
	assert.Empty(t, profile.Friends)
	assert.Empty(t, profile.Description)
	assert.Empty(t, profile.PhotoURL)
	assert.Equal(t, 1, repo.saveCount())

	rec := repo.records[0]
	assert.NotEqual(t, "secret", rec.PasswordHash)
	assert.True(t, strings.HasPrefix(rec.PasswordHash, "$2"), "bcrypt hash expected")
}

func TestRegisterDuplicate(t *testing.T) {
	g, _ := newTestGraph(t)
	register(t, g, "alice")

	err := g.Register(context.Background(), "alice", "another")

	assertKind(t, err, apperrors.KindConflict)
}

func TestRegisterIsCaseSensitive(t *testing.T) {
	g, _ := newTestGraph(t)
	register(t, g, "alice", "Alice")

	assert.Equal(t, []string{"Alice", "alice"}, g.AllUsernames())
}

func TestConcurrentRegistrationSameUsername(t *testing.T) {
	g, _ := newTestGraph(t)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = g.Register(context.Background(), "racer", fmt.Sprintf("password%d", i))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assertKind(t, err, apperrors.KindConflict)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, []string{"racer"}, g.AllUsernames())
}

func TestAuthenticate(t *testing.T) {
	g, _ := newTestGraph(t)
	register(t, g, "alice")

	assert.NoError(t, g.Authenticate("alice", "secret"))

	wrongPassword := g.Authenticate("alice", "nope!")
	unknownUser := g.Authenticate("mallory", "secret")

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestLoginReturnsPendingCount(t *testing.T) {
	g, _ := newTestGraph(t)
	register(t, g, "alice", "bob", "carol")
	ctx := context.Background()
	require.NoError(t, g.SendRequest(ctx, "bob", "alice"))
	require.NoError(t, g.SendRequest(ctx, "carol", "alice"))

	pending, err := g.Login("conn-1", "alice", "secret")

	require.NoError(t, err)
	assert.Equal(t, 2, pending)
	user, ok := g.CurrentUser("conn-1")
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
}

func TestLoginSingleSession(t *testing.T) {
	g, _ := newTestGraph(t)
	register(t, g, "alice", "bob")

	_, err := g.Login("conn-1", "alice", "secret")
	require.NoError(t, err)

	_, err = g.Login("conn-2", "alice", "secret")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyActive)

	_, err = g.Login("conn-1", "bob", "secret")
	assertKind(t, err, apperrors.KindAlreadyActive)

	require.NoError(t, g.Logout("conn-1"))
	_, err = g.Login("conn-2", "alice", "secret")
	assert.NoError(t, err)
}

func TestLoginWrongPasswordDoesNotBind(t *testing.T) {
	g, _ := newTestGraph(t)
	register(t, g, "alice")

	_, err := g.Login("conn-1", "alice", "wrong")

	assertKind(t, err, apperrors.KindInvalidCredentials)
	_, ok := g.CurrentUser("conn-1")
	assert.False(t, ok)
}

func TestLogoutWithoutSession(t *testing.T) {
	g, _ := newTestGraph(t)

	assertKind(t, g.Logout("conn-1"), apperrors.KindUnauthenticated)
}

func TestDisconnectReleasesSession(t *testing.T) {
	g, _ := newTestGraph(t)
	register(t, g, "alice")
	_, err := g.Login("conn-1", "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, 1, g.ActiveSessions())

	g.Disconnect("conn-1")
	g.Disconnect("conn-1")

	assert.Equal(t, 0, g.ActiveSessions())
	_, err = g.Login("conn-2", "alice", "secret")
	assert.NoError(t, err)
}

func TestDeleteAccountCascade(t *testing.T) {
	g, _ := newTestGraph(t)
	ctx := context.Background()
	register(t, g, "xavier", "alice", "bob", "carol")
	befriend(t, g, "xavier", "alice")
	require.NoError(t, g.SendRequest(ctx, "xavier", "bob"))
	require.NoError(t, g.SendRequest(ctx, "carol", "xavier"))
	_, err := g.Login("conn-x", "xavier", "secret")
	require.NoError(t, err)

	require.NoError(t, g.DeleteAccount(ctx, "xavier"))

	assert.Equal(t, []string{"alice", "bob", "carol"}, g.AllUsernames())
	for _, name := range []string{"alice", "bob", "carol"} {
		friends, _ := g.Friends(name)
		pending, _ := g.PendingRequests(name)
		sent, _ := g.SentRequests(name)
		assert.NotContains(t, friends, "xavier")
		assert.NotContains(t, pending, "xavier")
		assert.NotContains(t, sent, "xavier")
	}
	_, ok := g.CurrentUser("conn-x")
	assert.False(t, ok)
	checkInvariants(t, g)

	assertKind(t, g.DeleteAccount(ctx, "xavier"), apperrors.KindNotFound)
}

func TestDeletedUsernameCanBeReused(t *testing.T) {
	g, _ := newTestGraph(t)
	register(t, g, "alice")
	require.NoError(t, g.DeleteAccount(context.Background(), "alice"))

	require.NoError(t, g.Register(context.Background(), "alice", "fresh-password"))

	assert.True(t, errors.Is(g.Authenticate("alice", "secret"), apperrors.ErrInvalidCredentials))
	assert.NoError(t, g.Authenticate("alice", "fresh-password"))
}
