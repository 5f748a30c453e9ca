package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	minPasswordLen = 4
	// bcrypt ignores input past 72 bytes; reject it instead of truncating.
	maxPasswordBytes = 72
)

// dummyHash is compared against when the username is unknown so that a
// failed login costs the same either way.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

func validateCredentials(username, password string) error {
	if username == "" || password == "" {
		return apperrors.Validation("username and password are required")
	}
	if utf8.RuneCountInString(username) < minUsernameLen {
		return apperrors.Validation("username must be at least %d characters", minUsernameLen)
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return apperrors.Validation("password must be at least %d characters", minPasswordLen)
	}
	if len(password) > maxPasswordBytes {
		return apperrors.Validation("password must be at most %d bytes", maxPasswordBytes)
	}
	return nil
}

// Register creates an account with empty relationship sets and profile.
func (g *SocialGraph) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if err := validateCredentials(username, password); err != nil {
		return err
	}

	// Hashing is slow; do it before taking the lock.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Password hashing failed")
		return apperrors.Wrap(err, apperrors.KindInternal, "failed to hash password")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.accounts[username]; exists {
		logger.Log.WithField("username", username).Warn("Username already registered")
		return apperrors.Conflict("user '%s' already exists", username)
	}
	g.accounts[username] = models.NewAccount(username, string(hash))

	logger.Log.WithField("username", username).Info("User registered")
	return g.persistLocked(ctx)
}

// Authenticate checks a password. Unknown users and wrong passwords
// produce the same error.
func (g *SocialGraph) Authenticate(username, password string) error {
	_, err := g.verify(strings.TrimSpace(username), password)
	return err
}

// verify returns the hash that matched so callers can detect a concurrent
// password change or account deletion.
func (g *SocialGraph) verify(username, password string) (string, error) {
	if username == "" || password == "" {
		return "", apperrors.Validation("username and password are required")
	}

	g.mu.Lock()
	acct, ok := g.accounts[username]
	hash := dummyHash
	if ok {
		hash = []byte(acct.PasswordHash)
	}
	g.mu.Unlock()

	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	if !ok || err != nil {
		if err != nil && !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Log.WithError(err).WithField("username", username).Warn("Stored password hash is unreadable")
		}
		return "", apperrors.ErrInvalidCredentials
	}
	return string(hash), nil
}

// Login authenticates username and binds it to connID. It returns the
// number of friend requests waiting for the user.
func (g *SocialGraph) Login(connID, username, password string) (int, error) {
	username = strings.TrimSpace(username)
	hash, err := g.verify(username, password)
	if err != nil {
		logger.Log.WithField("username", username).Warn("Login failed")
		return 0, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	acct, ok := g.accounts[username]
	if !ok || acct.PasswordHash != hash {
		return 0, apperrors.ErrInvalidCredentials
	}
	if current, bound := g.sessions.Lookup(connID); bound {
		return 0, apperrors.New(apperrors.KindAlreadyActive, fmt.Sprintf("this connection is already logged in as '%s'", current))
	}
	if g.sessions.Active(username) {
		logger.Log.WithField("username", username).Warn("Login rejected, session already active")
		return 0, apperrors.ErrAlreadyActive
	}

	g.sessions.Bind(connID, username)
	logger.Log.WithFields(logrus.Fields{"username": username, "conn": connID}).Info("User logged in")
	return len(acct.Pending), nil
}

// CurrentUser returns the account bound to connID.
func (g *SocialGraph) CurrentUser(connID string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessions.Lookup(connID)
}

// Logout ends the session on connID.
func (g *SocialGraph) Logout(connID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	username, ok := g.sessions.Release(connID)
	if !ok {
		return apperrors.New(apperrors.KindUnauthenticated, "no active session")
	}
	logger.Log.WithField("username", username).Info("User logged out")
	return nil
}

// Disconnect releases whatever session connID held. Called when a
// connection ends.
func (g *SocialGraph) Disconnect(connID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if username, ok := g.sessions.Release(connID); ok {
		logger.Log.WithFields(logrus.Fields{"username": username, "conn": connID}).Info("Session closed by disconnect")
	}
}

// ActiveSessions returns the number of logged-in connections.
func (g *SocialGraph) ActiveSessions() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessions.Len()
}

// DeleteAccount removes username, every reference to it in other
// accounts, and its session.
func (g *SocialGraph) DeleteAccount(ctx context.Context, username string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.accountLocked(username); err != nil {
		return err
	}

	for _, other := range g.accounts {
		delete(other.Friends, username)
		delete(other.Pending, username)
		delete(other.Sent, username)
	}
	delete(g.accounts, username)
	g.sessions.ReleaseUser(username)

	logger.Log.WithField("username", username).Info("Account deleted")
	return g.persistLocked(ctx)
}
