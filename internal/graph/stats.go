package graph

import (
	"errors"
	"math"
	"sort"

	"github.com/Dias221467/SocialGraph/internal/models"
)

// ErrEmptyNetwork is returned when there are no users to summarise.
var ErrEmptyNetwork = errors.New("no users in the network")

// ComputeStatistics summarises friend counts keyed by username.
func ComputeStatistics(counts map[string]int) (*models.Statistics, error) {
	if len(counts) == 0 {
		return nil, ErrEmptyNetwork
	}

	maxCount, minCount := math.MinInt, math.MaxInt
	sum := 0
	for _, c := range counts {
		sum += c
		if c > maxCount {
			maxCount = c
		}
		if c < minCount {
			minCount = c
		}
	}

	var maxUsers, minUsers []string
	for user, c := range counts {
		if c == maxCount {
			maxUsers = append(maxUsers, user)
		}
		if c == minCount {
			minUsers = append(minUsers, user)
		}
	}
	sort.Strings(maxUsers)
	sort.Strings(minUsers)

	avg := float64(sum) / float64(len(counts))

	return &models.Statistics{
		MaxFriendsUsers:  maxUsers,
		MaxFriendsCount:  maxCount,
		MinFriendsUsers:  minUsers,
		MinFriendsCount:  minCount,
		AverageFriends:   math.Round(avg*100) / 100,
		TotalUsers:       len(counts),
		TotalFriendships: sum / 2,
	}, nil
}
