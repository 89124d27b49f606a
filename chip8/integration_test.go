package chip8_test

import (
	"context"
	"crypto/md5"
	"fmt"
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/memory"
	"github.com/valerio/go-chip8/chip8/video"
)

// glyphROM draws the hex glyphs 0-7 side by side along the top row, then
// spins.
var glyphROM = []byte{
	0x00, 0xE0, // 200 CLS
	0x60, 0x00, // 202 LD V0, 0
	0x61, 0x00, // 204 LD V1, 0
	0x62, 0x00, // 206 LD V2, 0
	0xF0, 0x29, // 208 LD F, V0
	0xD1, 0x25, // 20A DRW V1, V2, 5
	0x70, 0x01, // 20C ADD V0, 1
	0x71, 0x05, // 20E ADD V1, 5
	0x30, 0x08, // 210 SE V0, 8
	0x12, 0x08, // 212 JP 208
	0x12, 0x14, // 214 JP 214
}

const glyphCount = 8

// expectedGlyphs renders the same picture straight from the font table.
func expectedGlyphs(t *testing.T) *video.FrameBuffer {
	t.Helper()
	mem := memory.New()
	fb := video.NewFrameBuffer()
	for digit := range uint8(glyphCount) {
		rows, err := mem.ReadBlock(memory.GlyphAddress(digit), 5)
		require.NoError(t, err)
		_, err = fb.DrawSprite(uint(digit)*5, 0, rows)
		require.NoError(t, err)
	}
	return fb
}

func frameHash(fb *video.FrameBuffer) string {
	return fmt.Sprintf("%x", md5.Sum(fb.ToSlice()))
}

func runHeadless(t *testing.T, frames int, snapshots headless.SnapshotConfig) (*chip8.Machine, *headless.Backend) {
	t.Helper()

	m := chip8.New(chip8.Config{Seed: 7})
	require.NoError(t, m.LoadProgram(glyphROM))

	b := headless.New(frames, snapshots)
	require.NoError(t, b.Init(backend.BackendConfig{Title: "glyphs", Status: m}))
	require.NoError(t, chip8.Run(context.Background(), m, b, nil))
	require.NoError(t, b.Cleanup())
	return m, b
}

func TestIntegration_GlyphROM(t *testing.T) {
	m, b := runHeadless(t, 120, headless.SnapshotConfig{})

	assert.Equal(t, 120, b.Frames())
	assert.False(t, m.Halted())
	assert.Equal(t, uint16(0x214), m.Status().PC)
	assert.Equal(t, frameHash(expectedGlyphs(t)), frameHash(m.GetCurrentFrame()))
	assert.Equal(t, 0, b.Beeps())
}

func TestIntegration_Deterministic(t *testing.T) {
	first, _ := runHeadless(t, 30, headless.SnapshotConfig{})
	second, _ := runHeadless(t, 30, headless.SnapshotConfig{})

	assert.Equal(t, first.Status().PC, second.Status().PC)
	assert.Equal(t, frameHash(first.GetCurrentFrame()), frameHash(second.GetCurrentFrame()))
}

func TestIntegration_PNGSnapshot(t *testing.T) {
	dir := t.TempDir()
	_, b := runHeadless(t, 120, headless.SnapshotConfig{
		Enabled:   true,
		Interval:  120,
		Directory: dir,
		ROMName:   "glyphs",
	})

	paths := b.Snapshots()
	require.Len(t, paths, 1)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	want := expectedGlyphs(t)
	for y := range 5 {
		for x := range glyphCount * 5 {
			r, _, _, _ := img.At(x*debug.SnapshotScale, y*debug.SnapshotScale).RGBA()
			lit := r > 0x8000
			assert.Equal(t, want.GetPixel(uint(x), uint(y)) != 0, lit, "pixel %d,%d", x, y)
		}
	}
}
