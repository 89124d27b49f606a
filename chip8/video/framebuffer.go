package video

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/bit"
)

const (
	FramebufferWidth  = 64
	FramebufferHeight = 32

	// SpriteWidth is the fixed width in pixels of every sprite row.
	SpriteWidth = 8
)

// ErrOutOfBounds is returned when a pixel write would fall outside the grid.
var ErrOutOfBounds = errors.New("pixel out of bounds")

// Pixel colors used by backends when rendering the monochrome grid.
const (
	OffColor uint32 = 0x000000FF
	OnColor  uint32 = 0xFFFFFFFF
)

// FrameBuffer is the 64x32 monochrome display. Each cell holds 0 or 1.
type FrameBuffer struct {
	width  uint
	height uint
	buffer []uint8
}

// NewFrameBuffer creates a cleared frame buffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{
		width:  FramebufferWidth,
		height: FramebufferHeight,
		buffer: make([]uint8, FramebufferWidth*FramebufferHeight),
	}
}

func (fb *FrameBuffer) Width() uint  { return fb.width }
func (fb *FrameBuffer) Height() uint { return fb.height }

func (fb *FrameBuffer) inBounds(x, y uint) bool {
	return x < fb.width && y < fb.height
}

// GetPixel returns the cell at (x, y), or 0 when outside the grid.
func (fb *FrameBuffer) GetPixel(x, y uint) uint8 {
	if !fb.inBounds(x, y) {
		return 0
	}
	return fb.buffer[y*fb.width+x]
}

// SetPixel sets the cell at (x, y) to 0 or 1. Only backends' test patterns use
// this; the interpreter always goes through Clear and DrawSprite.
func (fb *FrameBuffer) SetPixel(x, y uint, value uint8) error {
	if !fb.inBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, x, y)
	}
	fb.buffer[y*fb.width+x] = value & 1
	return nil
}

// Clear turns every cell off.
func (fb *FrameBuffer) Clear() {
	clear(fb.buffer)
}

// DrawSprite XORs rows onto the grid with the top-left corner at (x, y).
// Each row byte is 8 pixels wide, most significant bit leftmost. It returns
// true when any set sprite bit hit a cell that was already on.
//
// All target cells are validated first: if a set bit would land outside the
// grid nothing is drawn and ErrOutOfBounds is returned.
func (fb *FrameBuffer) DrawSprite(x, y uint, rows []byte) (bool, error) {
	for r, row := range rows {
		for c := uint(0); c < SpriteWidth; c++ {
			if !bit.IsSet(uint8(SpriteWidth-1-c), row) {
				continue
			}
			if px, py := x+c, y+uint(r); !fb.inBounds(px, py) {
				return false, fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, px, py)
			}
		}
	}

	collision := false
	for r, row := range rows {
		for c := uint(0); c < SpriteWidth; c++ {
			if !bit.IsSet(uint8(SpriteWidth-1-c), row) {
				continue
			}
			idx := (y+uint(r))*fb.width + x + c
			if fb.buffer[idx] == 1 {
				collision = true
			}
			fb.buffer[idx] ^= 1
		}
	}
	return collision, nil
}

// ToSlice returns the row-major backing slice. Callers must not modify it.
func (fb *FrameBuffer) ToSlice() []uint8 {
	return fb.buffer
}

// Grid returns a copy of the display as rows of cells.
func (fb *FrameBuffer) Grid() [FramebufferHeight][FramebufferWidth]uint8 {
	var g [FramebufferHeight][FramebufferWidth]uint8
	for y := 0; y < FramebufferHeight; y++ {
		copy(g[y][:], fb.buffer[y*FramebufferWidth:(y+1)*FramebufferWidth])
	}
	return g
}

// Lit returns the number of cells that are on.
func (fb *FrameBuffer) Lit() int {
	n := 0
	for _, p := range fb.buffer {
		n += int(p)
	}
	return n
}

// Color maps a cell value to its RGBA color.
func Color(pixel uint8) uint32 {
	if pixel != 0 {
		return OnColor
	}
	return OffColor
}
