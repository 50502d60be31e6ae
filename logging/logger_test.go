package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*ConversationLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = buf
	return NewLogger(cfg), buf
}

func TestConversationLogger_AttachesContext(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)
	l = l.WithComponent("mc").WithConversation("conv-1").WithContext("scene", "facility")

	l.Info("Turn completed", "speaker", "Ava")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Turn completed", entry["msg"])
	assert.Equal(t, "mc", entry["component"])
	assert.Equal(t, "conv-1", entry["conversation_id"])
	assert.Equal(t, "facility", entry["scene"])
	assert.Equal(t, "Ava", entry["speaker"])
}

func TestConversationLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogHelpers(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)

	LogSelection(l, "Ava", []string{"Ava", "Kael"}, true, errors.New("bad answer"))
	LogTurn(l, "Ava", 12, time.Millisecond, nil)
	LogTurn(l, "Kael", 0, time.Millisecond, errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "fell back")
	assert.Contains(t, lines[0], "bad answer")
	assert.Contains(t, lines[1], "Turn completed")
	assert.Contains(t, lines[2], "Turn failed")
}

func TestLogPanic(t *testing.T) {
	boom := errors.New("participant Ava: recovered panic: adapter bug")

	t.Run("stack snapshot", func(t *testing.T) {
		l, buf := newBufferLogger(LogLevelDebug)
		LogPanic(l, boom, "Participant panicked", "participant", "Ava")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "Participant panicked", entry["msg"])
		assert.Equal(t, "Ava", entry["participant"])
		assert.Equal(t, boom.Error(), entry["error"])
		assert.Contains(t, entry["stack_trace"], "TestLogPanic")
	})

	t.Run("plain logger", func(t *testing.T) {
		l, buf := newBufferLogger(LogLevelDebug)
		LogPanic(NewSlogAdapter(l.logger), boom, "Participant panicked")

		assert.Contains(t, buf.String(), "adapter bug")
		assert.NotContains(t, buf.String(), "stack_trace")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("debug"))
	assert.Equal(t, LogLevelWarn, ParseLevel(" WARNING "))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel("nonsense"))
}

func TestOrNoOp(t *testing.T) {
	assert.IsType(t, NoOpLogger{}, OrNoOp(nil))
	l := NewDefaultSlogLogger()
	assert.Same(t, l, OrNoOp(l))
}
