package taskslab

import (
	"errors"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/require"
)

type captureLogger struct {
	entries []LogEntry
}

func (c *captureLogger) Log(entry LogEntry) {
	c.entries = append(c.entries, entry)
}

func (c *captureLogger) IsEnabled(LogLevel) bool { return true }

func TestNewLogifaceLogger_RoutesToTarget(t *testing.T) {
	capture := &captureLogger{}
	logger := NewLogifaceLogger(capture, logiface.LevelDebug)

	logger.Info().Str("category", "page").Uint64("key", 42).Log("page grown")

	require.Len(t, capture.entries, 1)
	require.Equal(t, LevelInfo, capture.entries[0].Level)
	require.Equal(t, "page grown", capture.entries[0].Message)
	require.Equal(t, "page", capture.entries[0].Context["category"])
	// logifaceEvent has no AddUint64, so the generic Event protocol falls
	// back to Builder.Str's decimal-string encoding (see Builder.Uint64's
	// doc), not a native uint64 value.
	require.Equal(t, "42", capture.entries[0].Context["key"])
}

func TestNewLogifaceLogger_ErrField(t *testing.T) {
	capture := &captureLogger{}
	logger := NewLogifaceLogger(capture, logiface.LevelDebug)
	boom := errors.New("boom")

	logger.Err().Err(boom).Log("handle finalized")

	require.Len(t, capture.entries, 1)
	require.Equal(t, "handle finalized", capture.entries[0].Message)
	require.Equal(t, LevelError, capture.entries[0].Level)
	require.ErrorIs(t, capture.entries[0].Err, boom)
}

func TestLogifaceLevelMapping(t *testing.T) {
	require.Equal(t, LevelError, logifaceLevelToLocal(logiface.LevelCritical))
	require.Equal(t, LevelError, logifaceLevelToLocal(logiface.LevelError))
	require.Equal(t, LevelWarn, logifaceLevelToLocal(logiface.LevelWarning))
	require.Equal(t, LevelInfo, logifaceLevelToLocal(logiface.LevelInformational))
	require.Equal(t, LevelDebug, logifaceLevelToLocal(logiface.LevelDebug))
}
