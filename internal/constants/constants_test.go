package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLockDefaults(t *testing.T) {
	t.Run("poll interval is finer than the default timeout", func(t *testing.T) {
		assert.Less(t, DefaultPollInterval, DefaultLockTimeout)
	})

	t.Run("max wait is positive", func(t *testing.T) {
		assert.Greater(t, DefaultMaxWait, time.Duration(0))
	})
}

func TestContendDefaults(t *testing.T) {
	assert.Positive(t, DefaultContendWorkers)
	assert.Positive(t, DefaultContendIterations)
	assert.Positive(t, DefaultContendDepth)
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, ".lock", LockFileExt)
	assert.Equal(t, "relock.log", CLILogFileName)
	assert.Equal(t, ".relock", RelockHome)
}
