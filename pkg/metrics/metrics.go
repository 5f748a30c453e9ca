// Package metrics declares the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "socialgraph",
		Name:      "requests_total",
		Help:      "Protocol requests handled, by action and outcome.",
	}, []string{"action", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "socialgraph",
		Name:      "request_duration_seconds",
		Help:      "Time spent dispatching one request.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	}, []string{"action"})

	PersistDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "socialgraph",
		Name:      "persist_duration_seconds",
		Help:      "Time spent writing a full snapshot.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	PersistFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "socialgraph",
		Name:      "persist_failures_total",
		Help:      "Snapshot writes that failed.",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "socialgraph",
		Name:      "active_sessions",
		Help:      "Connections bound to a logged-in account.",
	})

	OpenConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "socialgraph",
		Name:      "open_connections",
		Help:      "Open client connections by transport.",
	}, []string{"transport"})

	NetworkUsers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "socialgraph",
		Name:      "network_users",
		Help:      "Registered accounts at the last statistics run.",
	})

	NetworkFriendships = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "socialgraph",
		Name:      "network_friendships",
		Help:      "Undirected friend edges at the last statistics run.",
	})
)
