package input

import (
	"time"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
)

// DebounceDelay is the minimum time between two presses of the same UI action.
const DebounceDelay = 300 * time.Millisecond

// Handler filters input events, debouncing presses of UI actions.
// Keypad actions and release/hold events always pass.
type Handler struct {
	lastActionTime map[action.Action]time.Time
	debounceDelay  time.Duration
	now            func() time.Time
}

func NewHandler() *Handler {
	return &Handler{
		lastActionTime: make(map[action.Action]time.Time),
		debounceDelay:  DebounceDelay,
		now:            time.Now,
	}
}

// ProcessEvent returns true if the event should be handled, false if it was debounced
func (h *Handler) ProcessEvent(evt backend.InputEvent) bool {
	if evt.Type != event.Press {
		return true
	}
	if action.GetInfo(evt.Action).Category == action.CategoryGameInput {
		return true
	}

	now := h.now()
	if lastTime, exists := h.lastActionTime[evt.Action]; exists {
		if now.Sub(lastTime) < h.debounceDelay {
			return false
		}
	}
	h.lastActionTime[evt.Action] = now
	return true
}
