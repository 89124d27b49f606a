package backend

import (
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend represents a complete emulator platform (rendering + input + audio)
// Backends are responsible for:
// - Rendering frames to their specific output (terminal, SDL window, etc.)
// - Translating platform-specific input events to Actions
// - Handling backend-specific features (snapshots, test patterns)
type Backend interface {
	// Init configures the backend with the provided configuration.
	// This is a required step before calling Update.
	Init(config BackendConfig) error

	// Update renders the provided frame (or a test pattern if configured)
	// and returns the input events collected since the previous call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Cleanup resources when shutting down
	Cleanup() error
}

// Beeper is implemented by backends that can make the beep audible.
// The host loop calls Beep once per beep raised by the machine.
type Beeper interface {
	Beep()
}

// ActionHandler is implemented by backends with actions of their own, such as
// snapshots or cycling test patterns. The host loop forwards every UI action.
type ActionHandler interface {
	HandleAction(act action.Action)
}

// Status is a read-only view of the machine for backends that display it.
type Status struct {
	PC         uint16
	I          uint16
	SP         uint8
	V          [16]uint8
	DelayTimer uint8
	SoundTimer uint8
	Opcode     uint16
	State      string
	Paused     bool
	Halted     bool
	Executed   uint64
	Frames     uint64
	Backlog    int // steps paid for but not yet run
}

// StatusProvider exposes machine state to backends.
type StatusProvider interface {
	Status() Status
}

// InputEvent is a platform key event already translated to an Action.
type InputEvent struct {
	Action action.Action
	Type   event.Type
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title       string
	Scale       int
	ShowDebug   bool             // Backends may ignore unsupported features
	TestPattern bool             // Display test pattern instead of emulation
	Callbacks   BackendCallbacks // Callbacks for backend communication
	Status      StatusProvider   // Optional, shown by backends with a debug panel
}

// BackendCallbacks allows backends to communicate with the emulator
type BackendCallbacks struct {
	// Control callbacks
	OnQuit func() // Backend requests shutdown (e.g., window close)
}
