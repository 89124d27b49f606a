package render

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogBuffer_Wraps(t *testing.T) {
	lb := NewLogBuffer(3)
	for i, msg := range []string{"a", "b", "c", "d"} {
		lb.Add(LogEntry{Time: time.Unix(int64(i), 0), Message: msg})
	}

	recent := lb.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "d", recent[0].Message)
	assert.Equal(t, "b", recent[2].Message)

	assert.Len(t, lb.Recent(2), 2)

	lb.Clear()
	assert.Nil(t, lb.Recent(5))
	assert.Zero(t, lb.Len())
}

func TestLogBuffer_FoldsRepeats(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     []string // newest first
		repeats  []int
	}{
		{"identical run", []string{"halted", "halted", "halted"}, []string{"halted"}, []int{3}},
		{"interleaved", []string{"a", "b", "a"}, []string{"a", "b", "a"}, []int{1, 1, 1}},
		{"run after wrap", []string{"a", "b", "c", "d", "d"}, []string{"d", "c", "b"}, []int{2, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lb := NewLogBuffer(3)
			for i, msg := range tt.messages {
				lb.Add(LogEntry{Time: time.Unix(int64(i), 0), Level: slog.LevelWarn, Message: msg})
			}

			recent := lb.Recent(0)
			require.Len(t, recent, len(tt.want))
			for i := range recent {
				assert.Equal(t, tt.want[i], recent[i].Message)
				assert.Equal(t, tt.repeats[i], recent[i].Repeat)
			}
		})
	}
}

func TestLogBuffer_RepeatKeepsLatestTime(t *testing.T) {
	lb := NewLogBuffer(4)
	lb.Add(LogEntry{Time: time.Unix(1, 0), Level: slog.LevelError, Message: "fault"})
	lb.Add(LogEntry{Time: time.Unix(9, 0), Level: slog.LevelError, Message: "fault"})
	lb.Add(LogEntry{Time: time.Unix(10, 0), Level: slog.LevelWarn, Message: "fault"})

	recent := lb.Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, slog.LevelWarn, recent[0].Level)
	assert.Equal(t, 1, recent[0].Repeat)
	assert.Equal(t, 2, recent[1].Repeat)
	assert.Equal(t, time.Unix(9, 0), recent[1].Time)
}

func TestLogBufferHandler(t *testing.T) {
	lb := NewLogBuffer(10)
	level := new(slog.LevelVar)
	logger := slog.New(NewLogBufferHandler(lb, level))

	logger.Debug("hidden")
	logger.With("pc", "0x200").WithGroup("cpu").Info("fault", "op", 7)

	recent := lb.Recent(0)
	require.Len(t, recent, 1)
	assert.Equal(t, "fault pc=0x200 cpu.op=7", recent[0].Message)

	level.Set(slog.LevelDebug)
	logger.Debug("shown")
	assert.Len(t, lb.Recent(0), 2)
}

func TestFormatLogEntry(t *testing.T) {
	entry := LogEntry{Time: time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC), Level: slog.LevelWarn, Message: "hi"}
	assert.Equal(t, "12:30:00 [WRN] hi", FormatLogEntry(entry))

	entry.Repeat = 4
	assert.Equal(t, "12:30:00 [WRN] hi (x4)", FormatLogEntry(entry))
}

func TestHalfBlock(t *testing.T) {
	assert.Equal(t, ' ', HalfBlock(0, 0))
	assert.Equal(t, '▀', HalfBlock(1, 0))
	assert.Equal(t, '▄', HalfBlock(0, 1))
	assert.Equal(t, '█', HalfBlock(1, 1))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "he...", Truncate("hello world", 5))
	assert.Equal(t, "he", Truncate("hello", 2))
	assert.Equal(t, "", Truncate("hello", 0))
}
