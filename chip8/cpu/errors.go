package cpu

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

var (
	ErrNotInitialized  = errors.New("interpreter not initialized")
	ErrProgramTooLarge = errors.New("program does not fit in memory")
	ErrStackOverflow   = errors.New("call stack overflow")
	ErrStackUnderflow  = errors.New("return with empty call stack")
	ErrPCOutOfRange    = errors.New("program counter out of range")
	ErrDrawOutOfRange  = errors.New("sprite drawn outside the display")

	ErrAddressOutOfRange = memory.ErrAddressOutOfRange
	ErrKeyOutOfRange     = memory.ErrKeyOutOfRange
)

// Fault is an instruction that could not complete because it touched state
// outside the machine's bounds. The interpreter is left exactly as it was
// before the faulting instruction.
type Fault struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%03x: %04x: %v", f.PC, f.Opcode, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// drawError tags a framebuffer bounds failure with ErrDrawOutOfRange while
// keeping the underlying video error reachable.
func drawError(err error) error {
	if errors.Is(err, video.ErrOutOfBounds) {
		return fmt.Errorf("%w: %w", ErrDrawOutOfRange, err)
	}
	return err
}
