package logger

import (
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLoggerKeepsSameInstance(t *testing.T) {
	before := Log
	InitLogger("debug", "text")
	defer Discard()

	assert.Same(t, before, Log)
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, Log.Formatter)

	InitLogger("nonsense", "json")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Log.Formatter)
}

func TestDiscardWhileLogging(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				Log.WithField("n", j).Info("concurrent")
			}
		}()
	}
	for i := 0; i < 10; i++ {
		Discard()
	}
	wg.Wait()
}
