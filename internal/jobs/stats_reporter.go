package jobs

import (
	"context"

	"github.com/Dias221467/SocialGraph/internal/models"
	"github.com/Dias221467/SocialGraph/pkg/apperrors"
	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/Dias221467/SocialGraph/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// StatisticsSource is the part of the social graph the reporter reads.
type StatisticsSource interface {
	Statistics() (*models.Statistics, error)
	ActiveSessions() int
}

type StatsReporter struct {
	Source StatisticsSource
}

// NewStatsReporter creates a new instance of StatsReporter
func NewStatsReporter(source StatisticsSource) *StatsReporter {
	return &StatsReporter{Source: source}
}

// Run logs a network summary and updates the network gauges.
func (r *StatsReporter) Run(ctx context.Context) error {
	stats, err := r.Source.Statistics()
	if err != nil && apperrors.KindOf(err) == apperrors.KindNotFound {
		metrics.NetworkUsers.Set(0)
		metrics.NetworkFriendships.Set(0)
		logger.Log.Info("Statistics report: no users registered")
		return nil
	}
	if err != nil {
		return err
	}

	metrics.NetworkUsers.Set(float64(stats.TotalUsers))
	metrics.NetworkFriendships.Set(float64(stats.TotalFriendships))

	logger.Log.WithFields(logrus.Fields{
		"users":           stats.TotalUsers,
		"friendships":     stats.TotalFriendships,
		"average_friends": stats.AverageFriends,
		"max_friends":     stats.MaxFriendsCount,
		"most_connected":  stats.MaxFriendsUsers,
		"active_sessions": r.Source.ActiveSessions(),
	}).Info("Statistics report")
	return nil
}
