package models

import "sort"

// Account represents a registered user and its social-graph state.
type Account struct {
	Username     string
	PasswordHash string
	Description  string
	PhotoURL     string

	Friends map[string]struct{}
	// Pending holds users who requested friendship with this account.
	Pending map[string]struct{}
	// Sent holds users this account has requested.
	Sent map[string]struct{}
}

// NewAccount returns an account with empty relationship sets.
func NewAccount(username, passwordHash string) *Account {
	return &Account{
		Username:     username,
		PasswordHash: passwordHash,
		Friends:      make(map[string]struct{}),
		Pending:      make(map[string]struct{}),
		Sent:         make(map[string]struct{}),
	}
}

// AccountRecord is the durable form of an Account.
type AccountRecord struct {
	Username        string   `json:"-" bson:"_id"`
	PasswordHash    string   `json:"password_hash" bson:"password_hash"`
	Friends         []string `json:"friends" bson:"friends"`
	PendingRequests []string `json:"pending_requests" bson:"pending_requests"`
	SentRequests    []string `json:"sent_requests" bson:"sent_requests"`
	Description     string   `json:"description" bson:"description"`
	PhotoURL        string   `json:"photo_url" bson:"photo_url"`
}

// Record converts the account to its durable form with sorted sets.
func (a *Account) Record() AccountRecord {
	return AccountRecord{
		Username:        a.Username,
		PasswordHash:    a.PasswordHash,
		Friends:         SortedKeys(a.Friends),
		PendingRequests: SortedKeys(a.Pending),
		SentRequests:    SortedKeys(a.Sent),
		Description:     a.Description,
		PhotoURL:        a.PhotoURL,
	}
}

// Account rebuilds the in-memory account from a record.
func (r AccountRecord) Account() *Account {
	a := NewAccount(r.Username, r.PasswordHash)
	a.Description = r.Description
	a.PhotoURL = r.PhotoURL
	for _, f := range r.Friends {
		a.Friends[f] = struct{}{}
	}
	for _, p := range r.PendingRequests {
		a.Pending[p] = struct{}{}
	}
	for _, s := range r.SentRequests {
		a.Sent[s] = struct{}{}
	}
	return a
}

// SortedKeys returns the members of a set in lexicographic order.
func SortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
