package cpu

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/audio"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/timing"
	"github.com/valerio/go-chip8/chip8/video"
)

// State is the execution state of the interpreter.
type State uint8

const (
	// Running fetches and executes a new instruction on every step.
	Running State = iota
	// AwaitingKey is entered by FX0A when no key is held. Steps do nothing
	// until the keypad reports a press.
	AwaitingKey
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case AwaitingKey:
		return "awaiting-key"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Config holds the tunables of an Interpreter. Zero values pick defaults.
type Config struct {
	// StepsPerUpdate is the maximum number of steps a single Advance or
	// Cycle call may run.
	StepsPerUpdate int
	// ClockRate is the number of steps per second of wall time.
	ClockRate int
	// Rand is the source for CXNN. Nil seeds one from the current time.
	Rand *rand.Rand
	// Now is the reference clock used by Cycle. Nil means time.Now.
	Now func() time.Time
}

const (
	DefaultStepsPerUpdate = 1
	DefaultClockRate      = timing.TargetFPS
)

func (c Config) withDefaults() Config {
	if c.StepsPerUpdate <= 0 {
		c.StepsPerUpdate = DefaultStepsPerUpdate
	}
	if c.ClockRate <= 0 {
		c.ClockRate = DefaultClockRate
	}
	if c.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		c.Rand = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Interpreter holds all mutable machine state and executes instructions
// against the memory, framebuffer and keypad it was built with. Separate
// instances share nothing.
type Interpreter struct {
	// registers
	v     [addr.RegisterCount]uint8
	i     uint16
	pc    uint16
	sp    uint8
	stack [addr.StackDepth]uint16

	delayTimer uint8
	soundTimer uint8

	// metadata
	opcode       uint16
	state        State
	waitRegister uint8
	initialized  bool
	programSize  int
	executed     uint64

	// reference clock
	startedAt time.Time
	lastTick  time.Time
	clock     *timing.Accumulator
	steps     int

	mem   *memory.Memory
	fb    *video.FrameBuffer
	keys  *memory.Keypad
	sound audio.Sink
	rng   *rand.Rand
	now   func() time.Time
}

// New returns an interpreter wired to its collaborators. It must be
// initialized with Init before programs can be loaded or run.
func New(mem *memory.Memory, fb *video.FrameBuffer, keys *memory.Keypad, sound audio.Sink, config Config) *Interpreter {
	config = config.withDefaults()
	if sound == nil {
		sound = audio.Discard
	}

	return &Interpreter{
		mem:   mem,
		fb:    fb,
		keys:  keys,
		sound: sound,
		rng:   config.Rand,
		now:   config.Now,
		steps: config.StepsPerUpdate,
		clock: timing.NewAccumulator(timing.PeriodFor(config.ClockRate), config.StepsPerUpdate),
	}
}

// Init resets registers, timers, stack and framebuffer, points the program
// counter at addr.ProgramStart and starts the reference clock.
// Only the first call has any effect.
func (c *Interpreter) Init() {
	if c.initialized {
		return
	}

	c.v = [addr.RegisterCount]uint8{}
	c.stack = [addr.StackDepth]uint16{}
	c.resetControlFlow()
	c.fb.Clear()

	c.startedAt = c.now()
	c.lastTick = c.startedAt
	c.clock.Reset()
	c.initialized = true
}

// LoadProgram copies rom into memory at addr.ProgramStart.
func (c *Interpreter) LoadProgram(rom []byte) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if len(rom) > addr.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrProgramTooLarge, len(rom), addr.MaxProgramSize)
	}
	if err := c.mem.WriteBlock(addr.ProgramStart, rom); err != nil {
		return err
	}

	c.programSize = len(rom)
	slog.Debug("Program loaded", "bytes", len(rom), "at", fmt.Sprintf("0x%03X", addr.ProgramStart))
	return nil
}

// Restart rewinds control flow to the program start. Memory contents,
// general registers, the framebuffer and the reference clock are kept.
func (c *Interpreter) Restart() {
	c.resetControlFlow()
}

func (c *Interpreter) resetControlFlow() {
	c.pc = addr.ProgramStart
	c.opcode = 0
	c.i = 0
	c.sp = 0
	c.delayTimer = 0
	c.soundTimer = 0
	c.state = Running
	c.waitRegister = 0
}

// Fetch reads the big-endian instruction word at PC.
func (c *Interpreter) Fetch() (uint16, error) {
	opcode, err := c.mem.ReadWord(c.pc)
	if err != nil {
		return 0, fmt.Errorf("%w: 0x%04X", ErrPCOutOfRange, c.pc)
	}
	return opcode, nil
}

// Step runs one fetch/decode/execute/timer cycle. While AwaitingKey it only
// polls the keypad. A returned *Fault means nothing was changed.
func (c *Interpreter) Step() error {
	if !c.initialized {
		return ErrNotInitialized
	}

	if c.state == AwaitingKey {
		c.pollKeyWait()
		return nil
	}

	opcode, err := c.Fetch()
	if err != nil {
		return c.fault(0, err)
	}

	ins := Decode(opcode)
	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("exec", "pc", fmt.Sprintf("0x%03X", c.pc), "instr", ins.String())
	}

	if err := c.execute(ins); err != nil {
		return c.fault(opcode, err)
	}
	c.opcode = opcode

	if c.state == AwaitingKey {
		slog.Debug("Waiting for key", "register", fmt.Sprintf("V%X", c.waitRegister))
		return nil
	}

	c.UpdateTimers()
	c.executed++
	return nil
}

func (c *Interpreter) fault(opcode uint16, err error) error {
	f := &Fault{PC: c.pc, Opcode: opcode, Err: err}
	slog.Warn("Instruction fault", "pc", fmt.Sprintf("0x%03X", f.PC), "opcode", fmt.Sprintf("0x%04X", opcode), "error", err)
	return f
}

// pollKeyWait completes a pending FX0A once a key is held.
func (c *Interpreter) pollKeyWait() {
	key, ok := c.keys.FirstPressed()
	if !ok {
		return
	}

	slog.Debug("Key wait satisfied", "key", fmt.Sprintf("0x%X", key))
	c.v[c.waitRegister] = key
	c.pc += addr.InstructionSize
	c.state = Running
	c.UpdateTimers()
	c.executed++
}

// Debug getter methods for register display
func (c *Interpreter) PC() uint16              { return c.pc }
func (c *Interpreter) I() uint16               { return c.i }
func (c *Interpreter) SP() uint8               { return c.sp }
func (c *Interpreter) DelayTimer() uint8       { return c.delayTimer }
func (c *Interpreter) SoundTimer() uint8       { return c.soundTimer }
func (c *Interpreter) Opcode() uint16          { return c.opcode }
func (c *Interpreter) State() State            { return c.state }
func (c *Interpreter) ProgramSize() int        { return c.programSize }
func (c *Interpreter) Executed() uint64        { return c.executed }
func (c *Interpreter) Registers() [16]uint8    { return c.v }
