package input

import (
	"log/slog"

	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
)

// Manager handles input actions and their associated callbacks
type Manager struct {
	handlers map[action.Action]map[event.Type][]func()
	keypad   *memory.Keypad
}

func NewManager(k *memory.Keypad) *Manager {
	return &Manager{
		handlers: make(map[action.Action]map[event.Type][]func()),
		keypad:   k,
	}
}

// On registers a callback for a specific action and event type
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type. Debouncing is the
// caller's job, see Handler.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	// keypad keys, written directly to the keypad state
	if key, ok := action.KeypadKey(act); ok && m.keypad != nil {
		var err error
		switch evt {
		case event.Press, event.Hold:
			err = m.keypad.Press(key)
		case event.Release:
			err = m.keypad.Release(key)
		}
		if err != nil {
			slog.Warn("Keypad update failed", "key", key, "error", err)
		}
		return
	}

	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}
