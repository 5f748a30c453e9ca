package handlers

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchMalformedPayload(t *testing.T) {
	d := newTestDispatcher(t)

	resp := d.Dispatch(context.Background(), "c1", []byte("{not json"))
	assert.Equal(t, models.StatusError, resp.Status)
	assert.Equal(t, "transport", resp.ErrorKind)
	assert.Equal(t, "invalid message format", resp.Message)

	// The connection keeps working afterwards.
	ok(t, d, "c1", map[string]any{"action": "register", "username": "alice", "password": "secret"})
}

func TestDispatchUnknownAction(t *testing.T) {
	d := newTestDispatcher(t)

	resp := send(t, d, "c1", map[string]any{"action": "fly"})
	assert.Equal(t, models.StatusError, resp.Status)
	assert.Equal(t, "unknown action: fly", resp.Message)
}

func TestProtectedActionsRequireLogin(t *testing.T) {
	d := newTestDispatcher(t)

	for action, r := range d.routes {
		if !r.auth {
			continue
		}
		resp := send(t, d, "anon", map[string]any{"action": action})
		assert.Equal(t, "unauthenticated", resp.ErrorKind, action)
		assert.Equal(t, "you must log in first", resp.Message, action)
	}
}

func TestLoginResponse(t *testing.T) {
	d := newTestDispatcher(t)
	signUp(t, d, "alice")
	ok(t, d, "bob", map[string]any{"action": "register", "username": "bob", "password": "secret"})
	ok(t, d, "alice", map[string]any{"action": "send_friend_request", "to_user": "bob"})

	resp := ok(t, d, "bob", map[string]any{"action": "login", "username": " bob ", "password": "secret"})
	assert.Equal(t, "bob", resp.Payload["username"])
	assert.Equal(t, 1, resp.Payload["pending_requests"])

	resp = send(t, d, "other", map[string]any{"action": "login", "username": "bob", "password": "secret"})
	assert.Equal(t, "already_active", resp.ErrorKind)

	resp = send(t, d, "other", map[string]any{"action": "login", "username": "bob", "password": "wrong"})
	assert.Equal(t, "invalid_credentials", resp.ErrorKind)
	resp = send(t, d, "other", map[string]any{"action": "login", "username": "nobody", "password": "wrong"})
	assert.Equal(t, "invalid_credentials", resp.ErrorKind)

	resp = send(t, d, "other", map[string]any{"action": "login", "username": "bob"})
	assert.Equal(t, "validation", resp.ErrorKind)
	assert.Equal(t, "username and password are required", resp.Message)
}

func TestFriendWorkflowOverProtocol(t *testing.T) {
	d := newTestDispatcher(t)
	signUp(t, d, "alice")
	signUp(t, d, "bob")

	ok(t, d, "alice", map[string]any{"action": "send_friend_request", "to_user": "bob"})

	resp := ok(t, d, "alice", map[string]any{"action": "get_sent_requests"})
	assert.Equal(t, []string{"bob"}, resp.Payload["sent_requests"])
	resp = ok(t, d, "bob", map[string]any{"action": "get_pending_requests"})
	assert.Equal(t, []string{"alice"}, resp.Payload["pending_requests"])

	resp = send(t, d, "bob", map[string]any{"action": "send_friend_request", "to_user": "alice"})
	assert.Equal(t, "conflict", resp.ErrorKind)
	assert.Equal(t, "reverse_pending", resp.ErrorCode)

	ok(t, d, "bob", map[string]any{"action": "accept_friend_request", "from_user": "alice"})

	resp = ok(t, d, "alice", map[string]any{"action": "are_friends", "other_user": "bob"})
	assert.Equal(t, true, resp.Payload["are_friends"])
	resp = ok(t, d, "bob", map[string]any{"action": "get_friends"})
	assert.Equal(t, []string{"alice"}, resp.Payload["friends"])

	resp = send(t, d, "alice", map[string]any{"action": "remove_friend"})
	assert.Equal(t, "validation", resp.ErrorKind)
	assert.Equal(t, "you must specify a user", resp.Message)

	ok(t, d, "alice", map[string]any{"action": "remove_friend", "friend": "bob"})
	resp = ok(t, d, "alice", map[string]any{"action": "are_friends", "other_user": "bob"})
	assert.Equal(t, false, resp.Payload["are_friends"])
}

func TestFindPathAndStatistics(t *testing.T) {
	d := newTestDispatcher(t)
	for _, name := range []string{"ann", "ben", "cat"} {
		signUp(t, d, name)
	}
	ok(t, d, "ann", map[string]any{"action": "send_friend_request", "to_user": "ben"})
	ok(t, d, "ben", map[string]any{"action": "accept_friend_request", "from_user": "ann"})

	resp := ok(t, d, "cat", map[string]any{"action": "find_path", "from_user": "ann", "to_user": "ben"})
	assert.Equal(t, []string{"ann", "ben"}, resp.Payload["path"])

	resp = ok(t, d, "cat", map[string]any{"action": "find_path", "from_user": "ann", "to_user": "cat"})
	assert.Equal(t, []string{}, resp.Payload["path"])

	resp = send(t, d, "cat", map[string]any{"action": "find_path", "from_user": "ann"})
	assert.Equal(t, "validation", resp.ErrorKind)

	resp = ok(t, d, "cat", map[string]any{"action": "get_statistics"})
	stats, isStats := resp.Payload["statistics"].(*models.Statistics)
	require.True(t, isStats)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalFriendships)
	assert.Equal(t, []string{"cat"}, stats.MinFriendsUsers)
}

func TestProfileActions(t *testing.T) {
	d := newTestDispatcher(t)
	signUp(t, d, "alice")

	ok(t, d, "alice", map[string]any{"action": "update_profile", "description": "hello"})
	resp := ok(t, d, "alice", map[string]any{"action": "get_user_profile"})
	profile, isProfile := resp.Payload["profile"].(*models.Profile)
	require.True(t, isProfile)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "hello", profile.Description)

	resp = send(t, d, "alice", map[string]any{"action": "get_user_profile", "username": "ghost"})
	assert.Equal(t, "not_found", resp.ErrorKind)
}

func TestDeleteAccountLogsOut(t *testing.T) {
	d := newTestDispatcher(t)
	signUp(t, d, "alice")
	signUp(t, d, "bob")

	resp := ok(t, d, "alice", map[string]any{"action": "delete_account"})
	assert.Equal(t, true, resp.Payload["logout"])

	resp = send(t, d, "alice", map[string]any{"action": "get_friends"})
	assert.Equal(t, "unauthenticated", resp.ErrorKind)

	resp = ok(t, d, "bob", map[string]any{"action": "get_all_users"})
	assert.Equal(t, []string{"bob"}, resp.Payload["users"])
}

func TestResponseWireFormat(t *testing.T) {
	d := newTestDispatcher(t)
	signUp(t, d, "alice")

	resp := ok(t, d, "alice", map[string]any{"action": "search_users", "query": "ALI"})
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","users":["alice"]}`, string(raw))

	resp = send(t, d, "alice", map[string]any{"action": "send_friend_request", "to_user": "alice"})
	raw, err = json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","error_kind":"validation","message":"`+resp.Message+`"}`, string(raw))
}

func TestDisconnectReleasesSession(t *testing.T) {
	d := newTestDispatcher(t)
	signUp(t, d, "alice")

	d.Disconnect("alice")
	resp := send(t, d, "alice", map[string]any{"action": "get_friends"})
	assert.Equal(t, "unauthenticated", resp.ErrorKind)

	ok(t, d, "again", map[string]any{"action": "login", "username": "alice", "password": "secret"})
}
