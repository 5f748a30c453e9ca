package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Dias221467/SocialGraph/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadSchedule(t *testing.T) {
	logger.Discard()
	_, err := New(context.Background(), Entry{
		Name:     "broken",
		Schedule: "every now and then",
		Job:      JobFunc(func(context.Context) error { return nil }),
	})
	assert.Error(t, err)
}

func TestSchedulerRunsJobs(t *testing.T) {
	logger.Discard()
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := New(ctx,
		Entry{Name: "tick", Schedule: "@every 1s", Job: JobFunc(func(context.Context) error {
			runs.Add(1)
			return nil
		})},
		Entry{Name: "stats", Schedule: "@hourly", Job: JobFunc(func(context.Context) error { return nil })},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
