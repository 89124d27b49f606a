package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

func newTestHandler(clock *time.Time) *Handler {
	h := NewHandler()
	h.now = func() time.Time { return *clock }
	return h
}

func TestHandler_Debouncing(t *testing.T) {
	tests := []struct {
		name           string
		action         action.Action
		eventType      event.Type
		timeBetween    time.Duration
		expectDebounce bool
	}{
		{
			name:           "UI action rapid press - should debounce",
			action:         action.EmulatorPauseToggle,
			eventType:      event.Press,
			timeBetween:    100 * time.Millisecond,
			expectDebounce: true,
		},
		{
			name:           "UI action slow press - should not debounce",
			action:         action.EmulatorPauseToggle,
			eventType:      event.Press,
			timeBetween:    400 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "keypad rapid press - should not debounce",
			action:         action.Key5,
			eventType:      event.Press,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "UI action release event - should not debounce",
			action:         action.EmulatorPauseToggle,
			eventType:      event.Release,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
		{
			name:           "Hold event type - should not debounce",
			action:         action.EmulatorPauseToggle,
			eventType:      event.Hold,
			timeBetween:    10 * time.Millisecond,
			expectDebounce: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := time.Unix(0, 0)
			handler := newTestHandler(&clock)

			evt := backend.InputEvent{Action: tt.action, Type: tt.eventType}
			assert.True(t, handler.ProcessEvent(evt), "First event should always pass")

			clock = clock.Add(tt.timeBetween)
			result := handler.ProcessEvent(evt)

			if tt.expectDebounce {
				assert.False(t, result, "Second event should be debounced")
			} else {
				assert.True(t, result, "Second event should not be debounced")
			}
		})
	}
}

func TestHandler_MultipleActions(t *testing.T) {
	clock := time.Unix(0, 0)
	handler := newTestHandler(&clock)

	// Different actions shouldn't interfere with each other
	pause := backend.InputEvent{Action: action.EmulatorPauseToggle, Type: event.Press}
	snapshot := backend.InputEvent{Action: action.EmulatorSnapshot, Type: event.Press}

	assert.True(t, handler.ProcessEvent(pause))
	assert.True(t, handler.ProcessEvent(snapshot))

	assert.False(t, handler.ProcessEvent(pause), "Rapid pause should be debounced")
	assert.False(t, handler.ProcessEvent(snapshot), "Rapid snapshot should be debounced")
}
