package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoWritesKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	Info("recommend_done", "trace_id", "abc", "count", 9, "latency_ms", 12.5)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "recommend_done", line["message"])
	assert.Equal(t, "abc", line["trace_id"])
	assert.EqualValues(t, 9, line["count"])
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "production", line["env"])
}

func TestErrorWithBareError(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	Error("search failed", errors.New("connection refused"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "connection refused", line["error"])
}

func TestDebugSuppressedOutsideDevelopment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	var buf bytes.Buffer
	InitWithWriter("production", &buf)

	Debug("hidden")
	assert.Empty(t, buf.String())
}
