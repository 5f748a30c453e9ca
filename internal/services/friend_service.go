package services

import (
	"context"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Codes attached to send-request conflicts.
const (
	CodeAlreadyFriends   = "already_friends"
	CodeDuplicateRequest = "duplicate_request"
	CodeReversePending   = "reverse_pending"
)

// relationLocked returns the state of the pair (a, b) seen from a.
func relationLocked(a *models.Account, b string) models.RelationState {
	switch {
	case has(a.Friends, b):
		return models.RelationFriends
	case has(a.Sent, b):
		return models.RelationRequested
	case has(a.Pending, b):
		return models.RelationRequestedBy
	default:
		return models.RelationNone
	}
}

func has(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

// Relation returns the friend-request state between a and b, seen from a.
func (g *SocialGraph) Relation(a, b string) (models.RelationState, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	acct, err := g.accountLocked(a)
	if err != nil {
		return models.RelationNone, err
	}
	if _, err := g.accountLocked(b); err != nil {
		return models.RelationNone, err
	}
	return relationLocked(acct, b), nil
}

// SendRequest moves (from, to) from NONE to "from requested".
func (g *SocialGraph) SendRequest(ctx context.Context, from, to string) error {
	if err := requireName(to); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	sender, err := g.accountLocked(from)
	if err != nil {
		return err
	}
	recipient, err := g.accountLocked(to)
	if err != nil {
		return err
	}
	if from == to {
		return apperrors.Validation("you cannot send a friend request to yourself")
	}

	switch relationLocked(sender, to) {
	case models.RelationFriends:
		return apperrors.Conflict("you are already friends with '%s'", to).WithCode(CodeAlreadyFriends)
	case models.RelationRequested:
		return apperrors.Conflict("you already sent a friend request to '%s'", to).WithCode(CodeDuplicateRequest)
	case models.RelationRequestedBy:
		return apperrors.Conflict("'%s' already sent you a friend request, accept it from your pending requests", to).WithCode(CodeReversePending)
	}

	sender.Sent[to] = struct{}{}
	recipient.Pending[from] = struct{}{}

	logger.Log.WithFields(logrus.Fields{"from": from, "to": to}).Info("Friend request sent")
	return g.persistLocked(ctx)
}

// AcceptRequest turns the pending request from requester into a friendship.
func (g *SocialGraph) AcceptRequest(ctx context.Context, accepter, requester string) error {
	if err := requireName(requester); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	acct, err := g.accountLocked(accepter)
	if err != nil {
		return err
	}
	if !has(acct.Pending, requester) {
		return apperrors.NotFound("no pending friend request from '%s'", requester)
	}
	other := g.accounts[requester]

	delete(acct.Pending, requester)
	delete(other.Sent, accepter)
	acct.Friends[requester] = struct{}{}
	other.Friends[accepter] = struct{}{}

	logger.Log.WithFields(logrus.Fields{"user": accepter, "friend": requester}).Info("Friend request accepted")
	return g.persistLocked(ctx)
}

// RejectRequest drops the pending request from requester.
func (g *SocialGraph) RejectRequest(ctx context.Context, rejecter, requester string) error {
	if err := requireName(requester); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	acct, err := g.accountLocked(rejecter)
	if err != nil {
		return err
	}
	if !has(acct.Pending, requester) {
		return apperrors.NotFound("no pending friend request from '%s'", requester)
	}

	delete(acct.Pending, requester)
	delete(g.accounts[requester].Sent, rejecter)

	logger.Log.WithFields(logrus.Fields{"user": rejecter, "from": requester}).Info("Friend request rejected")
	return g.persistLocked(ctx)
}

// CancelRequest withdraws a request sender made to recipient.
func (g *SocialGraph) CancelRequest(ctx context.Context, sender, recipient string) error {
	if err := requireName(recipient); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	acct, err := g.accountLocked(sender)
	if err != nil {
		return err
	}
	if !has(acct.Sent, recipient) {
		return apperrors.NotFound("no friend request sent to '%s'", recipient)
	}

	delete(acct.Sent, recipient)
	delete(g.accounts[recipient].Pending, sender)

	logger.Log.WithFields(logrus.Fields{"from": sender, "to": recipient}).Info("Friend request cancelled")
	return g.persistLocked(ctx)
}

// RemoveFriend deletes both directions of the friend edge.
func (g *SocialGraph) RemoveFriend(ctx context.Context, a, b string) error {
	if err := requireName(b); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	acct, err := g.accountLocked(a)
	if err != nil {
		return err
	}
	if !has(acct.Friends, b) {
		return apperrors.NotFound("you are not friends with '%s'", b)
	}

	delete(acct.Friends, b)
	delete(g.accounts[b].Friends, a)

	logger.Log.WithFields(logrus.Fields{"user": a, "friend": b}).Info("Friend removed")
	return g.persistLocked(ctx)
}

// Friends returns the sorted friend list of username.
func (g *SocialGraph) Friends(username string) ([]string, error) {
	return g.sortedSet(username, func(a *models.Account) map[string]struct{} { return a.Friends })
}

// PendingRequests returns who asked username for friendship, sorted.
func (g *SocialGraph) PendingRequests(username string) ([]string, error) {
	return g.sortedSet(username, func(a *models.Account) map[string]struct{} { return a.Pending })
}

// SentRequests returns who username asked for friendship, sorted.
func (g *SocialGraph) SentRequests(username string) ([]string, error) {
	return g.sortedSet(username, func(a *models.Account) map[string]struct{} { return a.Sent })
}

func (g *SocialGraph) sortedSet(username string, pick func(*models.Account) map[string]struct{}) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	acct, err := g.accountLocked(username)
	if err != nil {
		return nil, err
	}
	return models.SortedKeys(pick(acct)), nil
}
