package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/relock/internal/config"
	"github.com/mrz1836/relock/internal/constants"
	"github.com/mrz1836/relock/internal/errors"
)

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestNewConfigShowCmd(t *testing.T) {
	t.Parallel()

	cmd := newConfigShowCmd(&ConfigShowFlags{})

	assert.Equal(t, "show", cmd.Use)
	assert.Contains(t, cmd.Long, "source annotations")

	formatFlag := cmd.Flags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "yaml", formatFlag.DefValue)
}

func TestRunConfigShow_YAMLDefaults(t *testing.T) {
	home := isolateHome(t)

	var buf bytes.Buffer
	require.NoError(t, runConfigShow(context.Background(), &buf, &ConfigShowFlags{OutputFormat: "yaml"}))

	output := buf.String()
	assert.Contains(t, output, "Effective relock Configuration")
	assert.Contains(t, output, "lock:")
	assert.Contains(t, output, "contend:")
	assert.Contains(t, output, "timeout: 5s")
	assert.Contains(t, output, "workers: 8")
	assert.Contains(t, output, filepath.Join(home, constants.RelockHome, constants.LocksDir))
	assert.Contains(t, output, "# default")
	assert.NotContains(t, output, "# env")
	assert.Contains(t, output, "(not found)")
}

func TestRunConfigShow_JSONSources(t *testing.T) {
	home := isolateHome(t)
	writeYAML(t, filepath.Join(home, constants.RelockHome, constants.GlobalConfigName),
		"lock:\n  poll_interval: 20ms\n")
	writeYAML(t, config.ProjectConfigPath(), "contend:\n  depth: 7\n")
	t.Setenv("RELOCK_LOCK_TIMEOUT", "750ms")

	var buf bytes.Buffer
	require.NoError(t, runConfigShow(context.Background(), &buf, &ConfigShowFlags{OutputFormat: "json"}))

	var annotated AnnotatedConfig
	require.NoError(t, json.Unmarshal(buf.Bytes(), &annotated))

	assert.Equal(t, SourceEnv, annotated.Lock["timeout"].Source)
	assert.Equal(t, "750ms", annotated.Lock["timeout"].Value)
	assert.Equal(t, SourceGlobal, annotated.Lock["poll_interval"].Source)
	assert.Equal(t, "20ms", annotated.Lock["poll_interval"].Value)
	assert.Equal(t, SourceProject, annotated.Contend["depth"].Source)
	assert.InDelta(t, 7, annotated.Contend["depth"].Value, 0)
	assert.Equal(t, SourceDefault, annotated.Contend["workers"].Source)
}

func TestRunConfigShow_InvalidFormat(t *testing.T) {
	isolateHome(t)

	var buf bytes.Buffer
	err := runConfigShow(context.Background(), &buf, &ConfigShowFlags{OutputFormat: "toml"})
	require.Error(t, err)
	require.ErrorIs(t, err, errors.ErrUnsupportedOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRunConfigShow_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := runConfigShow(ctx, &buf, &ConfigShowFlags{OutputFormat: "yaml"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}

func TestConfigShowCommand_FollowsGlobalJSON(t *testing.T) {
	isolateHome(t)

	out, err := runCLI(t, "--output", "json", "config", "show")
	require.NoError(t, err)

	var annotated AnnotatedConfig
	require.NoError(t, json.Unmarshal([]byte(out), &annotated))
	assert.Contains(t, annotated.Lock, "max_wait")
}

func TestFlattenConfig(t *testing.T) {
	t.Parallel()

	out := make(configValues)
	flattenConfig("", map[string]any{
		"lock":    map[string]any{"timeout": "1s", "dir": "/tmp/locks"},
		"contend": map[string]any{"workers": 2},
	}, out)

	assert.Equal(t, configValues{
		"lock.timeout":    "1s",
		"lock.dir":        "/tmp/locks",
		"contend.workers": 2,
	}, out)
}

func TestLoadConfigFile_MissingOrInvalid(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.Nil(t, loadConfigFile(""))
	assert.Nil(t, loadConfigFile(filepath.Join(dir, "missing.yaml")))

	bad := filepath.Join(dir, "bad.yaml")
	writeYAML(t, bad, "lock: [unclosed")
	assert.Nil(t, loadConfigFile(bad))
}
