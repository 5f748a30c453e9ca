package services

import "github.com/Dias221467/SocialGraph/pkg/metrics"

// SessionTable binds connections to logged-in accounts, at most one
// connection per account. It does no locking of its own; SocialGraph
// calls it with its mutex held.
type SessionTable struct {
	byConn map[string]string
	byUser map[string]string
}

func NewSessionTable() *SessionTable {
	return &SessionTable{
		byConn: make(map[string]string),
		byUser: make(map[string]string),
	}
}

// Lookup returns the account bound to connID.
func (t *SessionTable) Lookup(connID string) (string, bool) {
	u, ok := t.byConn[connID]
	return u, ok
}

// Active reports whether username has a live session.
func (t *SessionTable) Active(username string) bool {
	_, ok := t.byUser[username]
	return ok
}

func (t *SessionTable) Bind(connID, username string) {
	t.byConn[connID] = username
	t.byUser[username] = connID
	metrics.ActiveSessions.Set(float64(len(t.byConn)))
}

// Release unbinds connID and returns the account it was bound to.
func (t *SessionTable) Release(connID string) (string, bool) {
	u, ok := t.byConn[connID]
	if !ok {
		return "", false
	}
	delete(t.byConn, connID)
	delete(t.byUser, u)
	metrics.ActiveSessions.Set(float64(len(t.byConn)))
	return u, true
}

// ReleaseUser ends the session of username, wherever it is.
func (t *SessionTable) ReleaseUser(username string) {
	if connID, ok := t.byUser[username]; ok {
		t.Release(connID)
	}
}

func (t *SessionTable) Len() int {
	return len(t.byConn)
}
