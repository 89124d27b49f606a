package chip8

import (
	"time"

	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// TestPatternAnimationFrames is the number of frames between pattern shifts.
const TestPatternAnimationFrames = 8

// TestPatternEmulator displays test patterns without running a program.
type TestPatternEmulator struct {
	frameBuffer      *video.FrameBuffer
	patternType      int
	animationCounter int
	offset           int
	frames           uint64
}

func NewTestPatternEmulator() *TestPatternEmulator {
	e := &TestPatternEmulator{}
	e.generateTestPattern()
	return e
}

func (e *TestPatternEmulator) RunFrame(time.Duration) error {
	e.frames++
	e.animationCounter++
	if e.animationCounter%TestPatternAnimationFrames == 0 {
		e.offset++
		e.generateTestPattern()
	}
	return nil
}

func (e *TestPatternEmulator) GetCurrentFrame() *video.FrameBuffer {
	return e.frameBuffer
}

func (e *TestPatternEmulator) HandleAction(act action.Action, evt event.Type) {
	if act == action.EmulatorTestPatternCycle && evt == event.Press {
		e.CycleTestPattern()
	}
}

func (e *TestPatternEmulator) DrainBeeps() int { return 0 }

func (e *TestPatternEmulator) Status() backend.Status {
	return backend.Status{
		State:  "test-pattern " + video.TestPatternNames[e.patternType],
		Frames: e.frames,
	}
}

// PatternType is the index of the pattern on display.
func (e *TestPatternEmulator) PatternType() int {
	return e.patternType
}

func (e *TestPatternEmulator) CycleTestPattern() {
	e.patternType = (e.patternType + 1) % video.TestPatternCount
	e.offset = 0
	e.generateTestPattern()
}

func (e *TestPatternEmulator) generateTestPattern() {
	e.frameBuffer = video.TestPattern(e.patternType, e.offset)
}
