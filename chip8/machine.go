package chip8

import (
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

// Config holds the machine tunables. Zero values pick the interpreter defaults.
type Config struct {
	StepsPerUpdate int
	ClockRate      int
	// Seed makes CXNN reproducible. Zero seeds from the current time.
	Seed uint64
}

func (c Config) cpuConfig() cpu.Config {
	config := cpu.Config{
		StepsPerUpdate: c.StepsPerUpdate,
		ClockRate:      c.ClockRate,
	}
	if c.Seed != 0 {
		config.Rand = rand.New(rand.NewPCG(c.Seed, c.Seed))
	}
	return config
}

// Machine wires the interpreter to its memory, display, keypad and beep
// signal, and adds the pause, single step and halt controls of the host.
//
// Any fault halts the machine. Sprites are neither wrapped nor clipped, so
// a ROM that draws a set pixel past the display edge stops there.
type Machine struct {
	memory *memory.Memory
	keypad *memory.Keypad
	frame  *video.FrameBuffer
	beeps  *audio.Signal
	cpu    *cpu.Interpreter
	input  *input.Manager

	paused bool
	halted bool
	fault  error
	frames uint64
}

// New returns an initialized machine with an empty program.
func New(config Config) *Machine {
	m := &Machine{
		memory: memory.New(),
		keypad: memory.NewKeypad(),
		frame:  video.NewFrameBuffer(),
		beeps:  audio.NewSignal(),
	}
	m.cpu = cpu.New(m.memory, m.frame, m.keypad, m.beeps, config.cpuConfig())
	m.cpu.Init()

	m.input = input.NewManager(m.keypad)
	m.input.On(action.EmulatorPauseToggle, event.Press, m.TogglePause)
	m.input.On(action.EmulatorStepInstruction, event.Press, m.StepInstruction)
	m.input.On(action.EmulatorRestart, event.Press, m.Restart)

	return m
}

// NewWithFile returns a machine with the ROM at path loaded.
func NewWithFile(path string, config Config) (*Machine, error) {
	rom, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read rom %s", path)
	}

	m := New(config)
	if err := m.LoadProgram(rom); err != nil {
		return nil, errors.Wrapf(err, "load rom %s", path)
	}

	slog.Info("ROM loaded", "path", path, "bytes", len(rom))
	return m, nil
}

// LoadProgram copies rom into program memory.
func (m *Machine) LoadProgram(rom []byte) error {
	return m.cpu.LoadProgram(rom)
}

// RunFrame advances the interpreter by elapsed. Nothing runs while paused
// or halted. A fault halts the machine and is not returned.
func (m *Machine) RunFrame(elapsed time.Duration) error {
	m.frames++
	if m.paused || m.halted {
		return nil
	}

	_, err := m.cpu.Advance(elapsed)
	return m.check(err)
}

func (m *Machine) check(err error) error {
	if err == nil {
		return nil
	}

	var fault *cpu.Fault
	if !errors.As(err, &fault) {
		return err
	}

	m.halted = true
	m.fault = fault
	slog.Error("Machine halted", "error", fault)
	return nil
}

func (m *Machine) GetCurrentFrame() *video.FrameBuffer {
	return m.frame
}

// HandleAction routes keypad actions to the keypad and UI actions to the
// machine controls.
func (m *Machine) HandleAction(act action.Action, evt event.Type) {
	m.input.Trigger(act, evt)
}

func (m *Machine) DrainBeeps() int {
	return m.beeps.Drain()
}

func (m *Machine) TogglePause() {
	m.paused = !m.paused
	slog.Info("Pause toggled", "paused", m.paused)
}

// StepInstruction runs a single step while paused.
func (m *Machine) StepInstruction() {
	if !m.paused || m.halted {
		slog.Debug("Step ignored", "paused", m.paused, "halted", m.halted)
		return
	}
	if err := m.check(m.cpu.Step()); err != nil {
		slog.Error("Step failed", "error", err)
	}
}

// Restart rewinds the program and clears a halt.
func (m *Machine) Restart() {
	m.cpu.Restart()
	m.halted = false
	m.fault = nil
	slog.Info("Program restarted")
}

func (m *Machine) Paused() bool   { return m.paused }
func (m *Machine) Halted() bool   { return m.halted }
func (m *Machine) Fault() error   { return m.fault }
func (m *Machine) Frames() uint64 { return m.frames }

// Interpreter exposes the underlying interpreter for inspection.
func (m *Machine) Interpreter() *cpu.Interpreter {
	return m.cpu
}

func (m *Machine) Status() backend.Status {
	c := m.cpu
	return backend.Status{
		PC:         c.PC(),
		I:          c.I(),
		SP:         c.SP(),
		V:          c.Registers(),
		DelayTimer: c.DelayTimer(),
		SoundTimer: c.SoundTimer(),
		Opcode:     c.Opcode(),
		State:      c.State().String(),
		Paused:     m.paused,
		Halted:     m.halted,
		Executed:   c.Executed(),
		Frames:     m.frames,
		Backlog:    c.Backlog(),
	}
}
