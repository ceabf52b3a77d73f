package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relockerrors "github.com/mrz1836/relock/internal/errors"
)

func TestNewOutput(t *testing.T) {
	var buf bytes.Buffer
	assert.IsType(t, &JSONOutput{}, NewOutput(&buf, "json"))
	assert.IsType(t, &TTYOutput{}, NewOutput(&buf, "text"))
}

func TestTTYOutput_Messages(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	tests := []struct {
		name  string
		write func(o Output)
		icon  string
		text  string
	}{
		{name: "success", write: func(o Output) { o.Success("acquired") }, icon: "✓", text: "acquired"},
		{name: "warning", write: func(o Output) { o.Warning("deadline expired") }, icon: "⚠", text: "deadline expired"},
		{name: "info", write: func(o Output) { o.Info("holding") }, icon: "ℹ", text: "holding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.write(NewTTYOutput(&buf))
			assert.Contains(t, buf.String(), tt.icon)
			assert.Contains(t, buf.String(), tt.text)
		})
	}
}

func TestTTYOutput_ErrorShowsAction(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	NewTTYOutput(&buf).Error(fmt.Errorf("lock deploy: %w", relockerrors.ErrLockTimeout))

	out := buf.String()
	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "▸ Try:")
	assert.Contains(t, out, "relock holder")
}

func TestTTYOutput_FieldsAligned(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	NewTTYOutput(&buf).Fields([]Field{
		{Key: "acquired", Value: "false"},
		{Key: "strategy", Value: "native"},
		{Key: "elapsed", Value: "10ms"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "acquired: false", lines[0])
	assert.Equal(t, "elapsed:  10ms", lines[2])
}

func TestTTYOutput_Table(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer

	NewTTYOutput(&buf).Table([]string{"UNIT", "VALUE"}, [][]string{
		{"seconds", "1"},
		{"ms", "1500"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "UNIT     VALUE"))
	assert.True(t, strings.HasPrefix(lines[2], "ms       1500"))
}

func TestJSONOutput(t *testing.T) {
	t.Run("messages carry their type", func(t *testing.T) {
		var buf bytes.Buffer
		NewJSONOutput(&buf).Success("acquired")

		var msg map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
		assert.Equal(t, "success", msg["type"])
		assert.Equal(t, "acquired", msg["message"])
	})

	t.Run("error carries suggestion and details", func(t *testing.T) {
		var buf bytes.Buffer
		NewJSONOutput(&buf).Error(fmt.Errorf("lock deploy: %w", relockerrors.ErrLockTimeout))

		var msg map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
		assert.Equal(t, "error", msg["type"])
		assert.NotEmpty(t, msg["suggestion"])
		assert.Contains(t, msg["details"], "lock deploy")
	})

	t.Run("fields become an object", func(t *testing.T) {
		var buf bytes.Buffer
		NewJSONOutput(&buf).Fields([]Field{{Key: "ticks", Value: "1500"}})

		var obj map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
		assert.Equal(t, map[string]string{"ticks": "1500"}, obj)
	})

	t.Run("table becomes an array of objects", func(t *testing.T) {
		var buf bytes.Buffer
		NewJSONOutput(&buf).Table([]string{"a", "b"}, [][]string{{"1"}})

		var rows []map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
		assert.Equal(t, []map[string]string{{"a": "1", "b": ""}}, rows)
	})
}

func TestHasColorSupport(t *testing.T) {
	t.Run("NO_COLOR disables", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, HasColorSupport())
	})

	t.Run("dumb terminal disables", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, HasColorSupport())
	})
}
