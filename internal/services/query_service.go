package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/Dias221467/SocialGraph/internal/graph"
	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/Dias221467/SocialGraph/pkg/logger"
)

// MutualFriends returns the sorted intersection of the friend sets of a
// and b.
func (g *SocialGraph) MutualFriends(a, b string) ([]string, error) {
	if err := requireName(b); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	acctA, err := g.accountLocked(a)
	if err != nil {
		return nil, err
	}
	acctB, err := g.accountLocked(b)
	if err != nil {
		return nil, err
	}

	mutual := []string{}
	for f := range acctA.Friends {
		if has(acctB.Friends, f) {
			mutual = append(mutual, f)
		}
	}
	sort.Strings(mutual)
	return mutual, nil
}

func (g *SocialGraph) AreFriends(a, b string) (bool, error) {
	if err := requireName(b); err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	acctA, err := g.accountLocked(a)
	if err != nil {
		return false, err
	}
	if _, err := g.accountLocked(b); err != nil {
		return false, err
	}
	return has(acctA.Friends, b), nil
}

// Profile returns the public profile of username.
func (g *SocialGraph) Profile(username string) (*models.Profile, error) {
	if err := requireName(username); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	acct, err := g.accountLocked(username)
	if err != nil {
		return nil, err
	}
	return profileOf(acct), nil
}

func profileOf(acct *models.Account) *models.Profile {
	friends := models.SortedKeys(acct.Friends)
	return &models.Profile{
		Username:     acct.Username,
		FriendsCount: len(friends),
		Friends:      friends,
		Description:  acct.Description,
		PhotoURL:     acct.PhotoURL,
	}
}

// UpdateProfile sets the fields that are non-nil. An empty string clears
// a field.
func (g *SocialGraph) UpdateProfile(ctx context.Context, username string, description, photoURL *string) (*models.Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	acct, err := g.accountLocked(username)
	if err != nil {
		return nil, err
	}
	if description == nil && photoURL == nil {
		return profileOf(acct), nil
	}

	if description != nil {
		acct.Description = *description
	}
	if photoURL != nil {
		acct.PhotoURL = *photoURL
	}

	logger.Log.WithField("username", username).Info("Profile updated")
	return profileOf(acct), g.persistLocked(ctx)
}

// Search returns usernames containing query, case-insensitively, sorted.
func (g *SocialGraph) Search(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))

	g.mu.Lock()
	defer g.mu.Unlock()

	matches := []string{}
	for name := range g.accounts {
		if strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}

// AllUsernames returns every registered username, sorted.
func (g *SocialGraph) AllUsernames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	names := make([]string, 0, len(g.accounts))
	for name := range g.accounts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Network returns every user with its sorted friend list.
func (g *SocialGraph) Network() map[string][]string {
	g.mu.Lock()
	defer g.mu.Unlock()

	network := make(map[string][]string, len(g.accounts))
	for name, acct := range g.accounts {
		network[name] = models.SortedKeys(acct.Friends)
	}
	return network
}

// FindPath returns a shortest friend path from `from` to `to`. An empty
// path means the two are not connected.
func (g *SocialGraph) FindPath(from, to string) ([]string, error) {
	if from == "" || to == "" {
		return nil, apperrors.Validation("you must specify both users")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := g.accountLocked(from); err != nil {
		return nil, err
	}
	if _, err := g.accountLocked(to); err != nil {
		return nil, err
	}

	neighbors := func(u string) []string {
		acct, ok := g.accounts[u]
		if !ok {
			return nil
		}
		return models.SortedKeys(acct.Friends)
	}
	return graph.ShortestPath(neighbors, from, to), nil
}

// Statistics summarises friend counts across all accounts.
func (g *SocialGraph) Statistics() (*models.Statistics, error) {
	g.mu.Lock()
	counts := make(map[string]int, len(g.accounts))
	for name, acct := range g.accounts {
		counts[name] = len(acct.Friends)
	}
	g.mu.Unlock()

	stats, err := graph.ComputeStatistics(counts)
	if errors.Is(err, graph.ErrEmptyNetwork) {
		return nil, apperrors.NotFound("no users registered")
	}
	return stats, err
}
