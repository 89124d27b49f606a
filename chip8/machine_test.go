package chip8

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
)

func newMachine(t *testing.T, config Config, rom ...byte) *Machine {
	t.Helper()
	m := New(config)
	require.NoError(t, m.LoadProgram(rom))
	return m
}

func runFrames(t *testing.T, m *Machine, n int) {
	t.Helper()
	for range n {
		require.NoError(t, m.RunFrame(timing.FrameDuration()))
	}
}

func TestMachine_RunFrameOneStepPerFrame(t *testing.T) {
	m := newMachine(t, Config{},
		0x60, 0x05, // V0 = 5
		0x61, 0x07, // V1 = 7
		0x12, 0x04, // loop
	)

	runFrames(t, m, 1)
	status := m.Status()
	assert.Equal(t, uint8(5), status.V[0])
	assert.Equal(t, uint8(0), status.V[1])
	assert.Equal(t, uint16(0x202), status.PC)

	runFrames(t, m, 2)
	status = m.Status()
	assert.Equal(t, uint8(7), status.V[1])
	assert.Equal(t, uint16(0x204), status.PC)
	assert.Equal(t, uint64(3), status.Executed)
	assert.Equal(t, uint64(3), status.Frames)
}

func TestMachine_FaultHalts(t *testing.T) {
	m := newMachine(t, Config{}, 0x00, 0xEE) // return with an empty stack

	runFrames(t, m, 1)
	assert.True(t, m.Halted())
	require.Error(t, m.Fault())
	assert.ErrorIs(t, m.Fault(), cpu.ErrStackUnderflow)
	assert.Equal(t, uint16(0x200), m.Status().PC)

	// halted machines do not run
	runFrames(t, m, 3)
	assert.Equal(t, uint16(0x200), m.Status().PC)
	assert.True(t, m.Status().Halted)

	m.HandleAction(action.EmulatorRestart, event.Press)
	assert.False(t, m.Halted())
	assert.NoError(t, m.Fault())
}

func TestMachine_PauseAndStep(t *testing.T) {
	m := newMachine(t, Config{},
		0x60, 0x01,
		0x60, 0x02,
		0x60, 0x03,
	)

	m.HandleAction(action.EmulatorPauseToggle, event.Press)
	require.True(t, m.Paused())

	runFrames(t, m, 5)
	assert.Equal(t, uint16(0x200), m.Status().PC)

	m.HandleAction(action.EmulatorStepInstruction, event.Press)
	assert.Equal(t, uint8(1), m.Status().V[0])
	m.HandleAction(action.EmulatorStepInstruction, event.Press)
	assert.Equal(t, uint8(2), m.Status().V[0])

	m.HandleAction(action.EmulatorPauseToggle, event.Press)
	assert.False(t, m.Paused())
	runFrames(t, m, 1)
	assert.Equal(t, uint8(3), m.Status().V[0])
}

func TestMachine_StepIgnoredWhileRunning(t *testing.T) {
	m := newMachine(t, Config{}, 0x60, 0x01)

	m.StepInstruction()
	assert.Equal(t, uint16(0x200), m.Status().PC)
}

func TestMachine_KeypadActions(t *testing.T) {
	m := newMachine(t, Config{},
		0xF3, 0x0A, // V3 = key
		0x12, 0x02,
	)

	runFrames(t, m, 1)
	assert.Equal(t, "awaiting-key", m.Status().State)

	m.HandleAction(action.KeyB, event.Press)
	runFrames(t, m, 1)
	status := m.Status()
	assert.Equal(t, "running", status.State)
	assert.Equal(t, uint8(0xB), status.V[3])

	m.HandleAction(action.KeyB, event.Release)
	pressed, err := m.keypad.IsPressed(0xB)
	require.NoError(t, err)
	assert.False(t, pressed)
}

func TestMachine_Beeps(t *testing.T) {
	m := newMachine(t, Config{},
		0x60, 0x02, // V0 = 2
		0xF0, 0x18, // sound timer = V0
		0x12, 0x04,
	)

	runFrames(t, m, 2)
	assert.Equal(t, 0, m.DrainBeeps())
	assert.Equal(t, uint8(1), m.Status().SoundTimer)

	runFrames(t, m, 1)
	assert.Equal(t, 1, m.DrainBeeps())
	assert.Equal(t, 0, m.DrainBeeps())
}

func TestMachine_SeedIsReproducible(t *testing.T) {
	rom := []byte{0xC0, 0xFF, 0xC1, 0xFF, 0xC2, 0xFF}
	a := newMachine(t, Config{Seed: 42}, rom...)
	b := newMachine(t, Config{Seed: 42}, rom...)

	runFrames(t, a, 3)
	runFrames(t, b, 3)
	assert.Equal(t, a.Status().V, b.Status().V)
}

func TestMachine_SpriteAtDisplayEdge(t *testing.T) {
	// the "0" glyph is 4 pixels wide, so columns x..x+3 are lit on its top row
	testCases := []struct {
		desc       string
		x, y       byte
		wantHalted bool
	}{
		{desc: "flush with right edge", x: 60, y: 0},
		{desc: "flush with bottom edge", x: 0, y: 27},
		{desc: "crosses right edge", x: 61, y: 0, wantHalted: true},
		{desc: "crosses bottom edge", x: 0, y: 28, wantHalted: true},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			m := newMachine(t, Config{StepsPerUpdate: 4, ClockRate: 240},
				0x60, tC.x, // V0 = x
				0x61, tC.y, // V1 = y
				0xF2, 0x29, // I = glyph for V2 (0)
				0xD0, 0x15, // draw 5 rows at V0, V1
			)

			runFrames(t, m, 1)
			assert.Equal(t, tC.wantHalted, m.Halted())
			if !tC.wantHalted {
				assert.NoError(t, m.Fault())
				assert.Equal(t, uint8(1), m.GetCurrentFrame().GetPixel(uint(tC.x), uint(tC.y)))
				return
			}
			assert.ErrorIs(t, m.Fault(), cpu.ErrDrawOutOfRange)
			assert.Equal(t, uint16(0x206), m.Status().PC, "faulting draw does not advance")
		})
	}
}

func TestMachine_StepsPerUpdate(t *testing.T) {
	m := newMachine(t, Config{StepsPerUpdate: 4, ClockRate: 240},
		0x70, 0x01, 0x70, 0x01, 0x70, 0x01, 0x70, 0x01,
		0x70, 0x01, 0x70, 0x01, 0x70, 0x01, 0x70, 0x01,
	)

	runFrames(t, m, 1)
	assert.Equal(t, uint8(4), m.Status().V[0])
}

func TestMachine_StatusBacklog(t *testing.T) {
	// a frame pays for 4 steps but only one may run, one more stays banked
	m := newMachine(t, Config{StepsPerUpdate: 1, ClockRate: 240}, 0x12, 0x00)

	runFrames(t, m, 1)
	status := m.Status()
	assert.Equal(t, uint64(1), status.Executed)
	assert.Equal(t, 1, status.Backlog)
}

func TestNewWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "loop.ch8")
	require.NoError(t, os.WriteFile(path, []byte{0x12, 0x00}, 0o644))

	m, err := NewWithFile(path, Config{})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Interpreter().ProgramSize())

	_, err = NewWithFile(filepath.Join(dir, "missing.ch8"), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read rom")

	big := filepath.Join(dir, "big.ch8")
	require.NoError(t, os.WriteFile(big, make([]byte, 4096), 0o644))
	_, err = NewWithFile(big, Config{})
	assert.ErrorIs(t, err, cpu.ErrProgramTooLarge)
}

func TestTestPatternEmulator(t *testing.T) {
	e := NewTestPatternEmulator()

	e.HandleAction(action.EmulatorTestPatternCycle, event.Release)
	assert.Equal(t, 0, e.PatternType())
	e.HandleAction(action.EmulatorTestPatternCycle, event.Press)
	assert.Equal(t, 1, e.PatternType())
	assert.Contains(t, e.Status().State, "Stripes")

	first := e.GetCurrentFrame().ToSlice()
	for range TestPatternAnimationFrames {
		require.NoError(t, e.RunFrame(0))
	}
	assert.NotEqual(t, first, e.GetCurrentFrame().ToSlice(), "stripes scroll")

	assert.Equal(t, 0, e.DrainBeeps())
	assert.Equal(t, uint64(TestPatternAnimationFrames), e.Status().Frames)
}
