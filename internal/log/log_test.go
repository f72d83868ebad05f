package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
	})
	return &buf
}

func TestInfo_WritesKeyValues(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelInfo)

	Info("month processed", "month", "2025-05", "days", 3)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "month processed", line["message"])
	assert.Equal(t, "2025-05", line["month"])
	assert.EqualValues(t, 3, line["days"])
	assert.Equal(t, "campuscal", line["service"])
}

func TestError_IncludesErr(t *testing.T) {
	buf := capture(t)

	Error("fetch failed", errors.New("boom"), "id", "uni")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "uni", line["id"])
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)

	SetLevel(LevelError)
	Info("hidden")
	Debug("hidden")
	assert.Empty(t, buf.String())

	SetLevel(LevelDebug)
	Debug("shown")
	assert.True(t, strings.Contains(buf.String(), "shown"))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel(" Error "))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}
