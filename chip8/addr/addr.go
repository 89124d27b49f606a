package addr

// memory map
const (
	// FontStart is where the built-in hex glyphs live.
	FontStart uint16 = 0x000
	// ProgramStart is where ROM bytes are copied and where execution begins.
	ProgramStart uint16 = 0x200
	// MaxAddress is the last addressable byte.
	MaxAddress uint16 = 0xFFF
	// MemorySize is the size of the addressable space in bytes.
	MemorySize = int(MaxAddress) + 1
	// MaxProgramSize is the largest ROM that fits between ProgramStart and MaxAddress.
	MaxProgramSize = MemorySize - int(ProgramStart)
)

// font layout
const (
	// GlyphSize is the height in bytes of a single hex glyph.
	GlyphSize = 5
	// GlyphCount is the number of built-in glyphs (0-F).
	GlyphCount = 16
)

// machine shape
const (
	// RegisterCount is the number of general purpose registers, V0..VF.
	RegisterCount = 16
	// FlagRegister is the index of VF, which doubles as carry/borrow/collision flag.
	FlagRegister = 0xF
	// StackDepth is the number of return addresses the call stack can hold.
	StackDepth = 16
	// KeyCount is the number of keys on the hex keypad.
	KeyCount = 16
	// InstructionSize is the width of every instruction word in bytes.
	InstructionSize = 2
)
