package logger

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureOutput(t *testing.T, fn func()) string {
	var buf bytes.Buffer
	prevWriter := log.Writer()
	prevFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevWriter)
		log.SetFlags(prevFlags)
	})
	fn()
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		isErr    bool
	}{
		{input: "debug", expected: DebugLevel},
		{input: "INFO", expected: InfoLevel},
		{input: "notice", expected: NoticeLevel},
		{input: "Error", expected: ErrorLevel},
		{input: "verbose", expected: InfoLevel, isErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, err := ParseLevel(tt.input)
			if tt.isErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, level)
		})
	}
}

func TestStdLoggerLevelFiltering(t *testing.T) {
	l := NewStdLogger(false, NoticeLevel)

	out := captureOutput(t, func() {
		l.Debug("debug %d", 1)
		l.Info("info %d", 2)
		l.Notice("notice %d", 3)
		l.Error("error %d", 4)
	})

	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[NOTICE] notice 3")
	assert.Contains(t, out, "[ERROR]  error 4")
}

func TestStdLoggerActionPrefix(t *testing.T) {
	l := NewStdLogger(false, DebugLevel)

	out := captureOutput(t, func() {
		l.InfoWithAction("withdrawal", "sent %s", "0x1")
		l.ErrorWithAction("deposit", "failed")
		l.InfoWithAction("unknown", "plain")
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "[INFO]   [WITHDRAW] sent 0x1", lines[0])
	assert.Equal(t, "[ERROR]  [DEPOSIT]  failed", lines[1])
	assert.Equal(t, "[INFO]   plain", lines[2])
}
