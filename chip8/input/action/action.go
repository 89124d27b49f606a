package action

import "fmt"

// Action represents input actions that can be performed in the emulator
type Action int

const (
	// Hex keypad, Key0 through KeyF map to key indices 0x0-0xF.
	Key0 Action = iota
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF

	// Emulator features
	EmulatorSnapshot
	EmulatorPauseToggle
	EmulatorStepInstruction
	EmulatorRestart
	EmulatorTestPatternCycle
	EmulatorQuit

	// Debug controls
	DebugLogLevelIncrease
	DebugLogLevelDecrease
)

// Category groups actions by who consumes them.
type Category int

const (
	CategoryGameInput Category = iota
	CategoryEmulator
	CategoryDebug
)

func (c Category) String() string {
	switch c {
	case CategoryGameInput:
		return "game"
	case CategoryEmulator:
		return "emulator"
	case CategoryDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Info describes an action for logs and help text.
type Info struct {
	Name        string
	Description string
	Category    Category
}

var emulatorInfo = map[Action]Info{
	EmulatorSnapshot:         {"snapshot", "Save a PNG of the display", CategoryEmulator},
	EmulatorPauseToggle:      {"pause", "Pause or resume execution", CategoryEmulator},
	EmulatorStepInstruction:  {"step", "Run one instruction while paused", CategoryEmulator},
	EmulatorRestart:          {"restart", "Restart the program", CategoryEmulator},
	EmulatorTestPatternCycle: {"test-pattern", "Cycle display test patterns", CategoryEmulator},
	EmulatorQuit:             {"quit", "Quit", CategoryEmulator},
	DebugLogLevelIncrease:    {"log-more", "Increase log verbosity", CategoryDebug},
	DebugLogLevelDecrease:    {"log-less", "Decrease log verbosity", CategoryDebug},
}

// GetInfo returns the description of act.
func GetInfo(act Action) Info {
	if key, ok := KeypadKey(act); ok {
		return Info{
			Name:        fmt.Sprintf("key-%X", key),
			Description: fmt.Sprintf("Keypad %X", key),
			Category:    CategoryGameInput,
		}
	}
	if info, ok := emulatorInfo[act]; ok {
		return info
	}
	return Info{Name: "unknown", Description: fmt.Sprintf("action(%d)", int(act)), Category: CategoryEmulator}
}

func (a Action) String() string {
	return GetInfo(a).Name
}

// KeypadKey returns the keypad index for a keypad action.
func KeypadKey(act Action) (uint8, bool) {
	if act >= Key0 && act <= KeyF {
		return uint8(act - Key0), true
	}
	return 0, false
}

// ForKey returns the keypad action for key index 0x0-0xF.
func ForKey(key uint8) (Action, bool) {
	if key > 0xF {
		return 0, false
	}
	return Key0 + Action(key), true
}
