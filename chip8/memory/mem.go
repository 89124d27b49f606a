package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/addr"
	"github.com/valerio/go-chip8/chip8/bit"
)

// ErrAddressOutOfRange is returned by every accessor that would touch a byte past addr.MaxAddress.
var ErrAddressOutOfRange = errors.New("address out of range")

// fontSet holds the 4x5 hex glyphs 0-F, 5 bytes each.
var fontSet = [addr.GlyphCount * addr.GlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4KB address space of the machine.
// All accessors are bounds-checked: an access that would fall outside
// 0x000-0xFFF returns ErrAddressOutOfRange and leaves memory untouched.
type Memory struct {
	data [addr.MemorySize]byte
}

// New returns a zeroed memory with the font glyphs loaded at addr.FontStart.
func New() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset zeroes the whole address space and reloads the font glyphs.
func (m *Memory) Reset() {
	m.data = [addr.MemorySize]byte{}
	copy(m.data[addr.FontStart:], fontSet[:])
}

func checkRange(address uint16, length int) error {
	if length < 0 || int(address)+length > addr.MemorySize {
		return fmt.Errorf("%w: 0x%04X+%d", ErrAddressOutOfRange, address, length)
	}
	return nil
}

// Read returns the byte at address.
func (m *Memory) Read(address uint16) (byte, error) {
	if err := checkRange(address, 1); err != nil {
		return 0, err
	}
	return m.data[address], nil
}

// Write stores value at address.
func (m *Memory) Write(address uint16, value byte) error {
	if err := checkRange(address, 1); err != nil {
		return err
	}
	m.data[address] = value
	return nil
}

// ReadWord reads the big-endian word at [address, address+1].
func (m *Memory) ReadWord(address uint16) (uint16, error) {
	if err := checkRange(address, 2); err != nil {
		return 0, err
	}
	return bit.Combine(m.data[address], m.data[address+1]), nil
}

// ReadBlock returns a copy of length bytes starting at address.
func (m *Memory) ReadBlock(address uint16, length int) ([]byte, error) {
	if err := checkRange(address, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.data[address:])
	return out, nil
}

// WriteBlock copies data into memory starting at address.
// Nothing is written if any byte would fall out of range.
func (m *Memory) WriteBlock(address uint16, data []byte) error {
	if err := checkRange(address, len(data)); err != nil {
		return err
	}
	copy(m.data[address:], data)
	return nil
}

// GlyphAddress returns the address of the built-in glyph for digit. Values above
// 0xF are not masked and point past the font.
func GlyphAddress(digit uint8) uint16 {
	return addr.FontStart + uint16(digit)*addr.GlyphSize
}
