package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructuredLogger_LogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LogLevelInfo, &buf)

	// Debug should not be logged (below info level)
	logger.Debug("debug message")
	assert.Empty(t, buf.String())

	// Info should be logged
	buf.Reset()
	logger.Info("info message")
	assert.NotEmpty(t, buf.String())

	var entry LogEntry
	err := json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, entry.Level)
	assert.Equal(t, "info message", entry.Message)

	// Error should be logged with the error string attached
	buf.Reset()
	testErr := errors.New("test error")
	logger.Error("error message", testErr)

	err = json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err)
	assert.Equal(t, LogLevelError, entry.Level)
	assert.Equal(t, "test error", entry.Error)
}

func TestStructuredLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LogLevelInfo, &buf)

	logger.Info("test message",
		String("table", "legal_documents"),
		Int("count", 42))

	var entry LogEntry
	err := json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err)

	assert.Equal(t, "test message", entry.Message)
	assert.Equal(t, "legal_documents", entry.Fields["table"])
	assert.Equal(t, float64(42), entry.Fields["count"]) // JSON unmarshals numbers as float64
}

func TestStructuredLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LogLevelInfo, &buf)

	contextLogger := logger.With(String("run_id", "run-123"))
	contextLogger.Info("scan started", Int("limit", 20))

	var entry LogEntry
	err := json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err)

	assert.Equal(t, "run-123", entry.Fields["run_id"])
	assert.Equal(t, float64(20), entry.Fields["limit"])

	// The base logger is unaffected
	buf.Reset()
	logger.Info("plain message")
	entry = LogEntry{} // json.Unmarshal leaves absent fields untouched, so clear stale state
	err = json.Unmarshal(buf.Bytes(), &entry)
	require.NoError(t, err)
	assert.Nil(t, entry.Fields)
}

func TestStructuredLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(LogLevel("bogus"), &buf)

	logger.Debug("debug message")
	assert.Empty(t, buf.String())

	logger.Info("info message")
	assert.NotEmpty(t, buf.String())
}
