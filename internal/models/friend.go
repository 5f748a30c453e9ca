package models

// RelationState is the friend-request state of an ordered pair (A, B),
// seen from A.
type RelationState int

const (
	// RelationNone means no request and no friendship.
	RelationNone RelationState = iota
	// RelationRequested means A sent a request that B has not answered.
	RelationRequested
	// RelationRequestedBy means B sent a request that A has not answered.
	RelationRequestedBy
	RelationFriends
)

func (s RelationState) String() string {
	switch s {
	case RelationRequested:
		return "requested"
	case RelationRequestedBy:
		return "requested_by"
	case RelationFriends:
		return "friends"
	default:
		return "none"
	}
}

// Profile is the public view of an account.
type Profile struct {
	Username     string   `json:"username"`
	FriendsCount int      `json:"friends_count"`
	Friends      []string `json:"friends"`
	Description  string   `json:"description"`
	PhotoURL     string   `json:"photo_url"`
}

// Statistics summarises friend counts over the whole network.
type Statistics struct {
	MaxFriendsUsers  []string `json:"max_friends_users"`
	MaxFriendsCount  int      `json:"max_friends_count"`
	MinFriendsUsers  []string `json:"min_friends_users"`
	MinFriendsCount  int      `json:"min_friends_count"`
	AverageFriends   float64  `json:"average_friends"`
	TotalUsers       int      `json:"total_users"`
	TotalFriendships int      `json:"total_friendships"`
}
