package chip8

import (
	"time"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Emulator is the interface driven by the host loop.
type Emulator interface {
	// RunFrame credits elapsed wall time and runs what it pays for.
	RunFrame(elapsed time.Duration) error
	GetCurrentFrame() *video.FrameBuffer
	HandleAction(act action.Action, evt event.Type)
	// DrainBeeps returns the beeps raised since the previous call.
	DrainBeeps() int
	Status() backend.Status
}

var (
	_ Emulator = (*Machine)(nil)
	_ Emulator = (*TestPatternEmulator)(nil)
)
