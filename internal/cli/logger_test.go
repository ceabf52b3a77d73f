package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/relock/internal/constants"
	"github.com/mrz1836/relock/internal/goid"
	"github.com/mrz1836/relock/internal/logging"
)

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		verbose       bool
		quiet         bool
		expectedLevel zerolog.Level
	}{
		{name: "default returns info", expectedLevel: zerolog.InfoLevel},
		{name: "verbose returns debug", verbose: true, expectedLevel: zerolog.DebugLevel},
		{name: "quiet returns warn", quiet: true, expectedLevel: zerolog.WarnLevel},
		{name: "verbose takes precedence", verbose: true, quiet: true, expectedLevel: zerolog.DebugLevel},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expectedLevel, selectLevel(tc.verbose, tc.quiet))
		})
	}
}

func TestInitLoggerWithWriter_Levels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := InitLoggerWithWriter(false, true, &buf)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitLoggerWithWriter_EventFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := InitLoggerWithWriter(true, false, &buf)
	logger.Debug().Dur("waited", 1500*time.Microsecond).Msg("timed lock deadline expired")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "timed lock deadline expired", entry["message"])
	assert.Contains(t, entry, "ts")
	assert.InDelta(t, 1500, entry["waited"], 0.001)
	assert.InDelta(t, float64(goid.Current()), entry[logging.GoroutineField], 0)
}

func TestGetRelockHome(t *testing.T) {
	t.Run("environment override", func(t *testing.T) {
		t.Setenv("RELOCK_HOME", "/custom/relock/home")

		home, err := getRelockHome()
		require.NoError(t, err)
		assert.Equal(t, "/custom/relock/home", home)
	})

	t.Run("defaults to user home", func(t *testing.T) {
		userHome := t.TempDir()
		t.Setenv("RELOCK_HOME", "")
		t.Setenv("HOME", userHome)

		home, err := getRelockHome()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(userHome, constants.RelockHome), home)
	})
}

func TestLogFilePath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("RELOCK_HOME", tmpDir)

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, constants.LogsDir, constants.CLILogFileName), path)
}

func TestCreateLogFileWriter(t *testing.T) {
	t.Run("creates directory and file", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("RELOCK_HOME", tmpDir)

		writer, err := createLogFileWriter()
		require.NoError(t, err)

		_, err = writer.Write([]byte(`{"level":"info","message":"test"}`))
		require.NoError(t, err)
		require.NoError(t, writer.Close())

		info, err := os.Stat(filepath.Join(tmpDir, constants.LogsDir, constants.CLILogFileName))
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	})

	t.Run("fails when home is a file", func(t *testing.T) {
		filePath := filepath.Join(t.TempDir(), "not_a_directory")
		require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o600))
		t.Setenv("RELOCK_HOME", filePath)

		writer, err := createLogFileWriter()
		require.Error(t, err)
		assert.Nil(t, writer)
		assert.Contains(t, err.Error(), "failed to create log directory")
	})
}

func TestInitLogger_WritesToFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("RELOCK_HOME", tmpDir)

	logger := InitLogger(false, false)
	logger.Info().Str("lock", "deploy").Msg("lock acquired")
	CloseLogFile()

	data, err := os.ReadFile(filepath.Join(tmpDir, constants.LogsDir, constants.CLILogFileName)) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lock":"deploy"`)
	assert.Contains(t, string(data), "lock acquired")
	assert.Contains(t, string(data), `"`+logging.GoroutineField+`"`)
}

func TestInitLogger_FileCreationFailure(t *testing.T) {
	filePath := filepath.Join(t.TempDir(), "not_a_directory")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o600))
	t.Setenv("RELOCK_HOME", filePath)

	logger := InitLogger(true, false)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
	CloseLogFile()
}

func TestCloseLogFile_Idempotent(_ *testing.T) {
	CloseLogFile()
	CloseLogFile()
}
