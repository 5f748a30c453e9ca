package handlers

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/internal/repository"
	"github.com/Dias221467/SocialGraph/internal/services"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	logger.Discard()
	repo := repository.NewFileRepository(filepath.Join(t.TempDir(), "users.json"))
	graph, err := services.NewSocialGraph(context.Background(), repo, services.WithBcryptCost(bcrypt.MinCost))
	require.NoError(t, err)
	return NewDispatcher(graph)
}

// send encodes req and dispatches it on connID.
func send(t *testing.T, d *Dispatcher, connID string, req map[string]any) models.Response {
	t.Helper()
	raw, err := json.Marshal(req)
	require.NoError(t, err)
	return d.Dispatch(context.Background(), connID, raw)
}

// ok dispatches req and fails the test on an error response.
func ok(t *testing.T, d *Dispatcher, connID string, req map[string]any) models.Response {
	t.Helper()
	resp := send(t, d, connID, req)
	require.Equal(t, models.StatusSuccess, resp.Status, "action %v: %s", req["action"], resp.Message)
	return resp
}

// signUp registers and logs in username on a connection of the same name.
func signUp(t *testing.T, d *Dispatcher, username string) string {
	t.Helper()
	ok(t, d, username, map[string]any{"action": "register", "username": username, "password": "secret"})
	ok(t, d, username, map[string]any{"action": "login", "username": username, "password": "secret"})
	return username
}
