package sdl2

import (
	"time"

	"github.com/valerio/go-chip8/chip8/video"
)

const (
	bytesPerPixel = 4
	defaultScale  = 10

	sampleRate    = 44100
	toneFrequency = 440
	toneDuration  = 80 * time.Millisecond
)

func windowScale(scale int) int {
	if scale <= 0 {
		return defaultScale
	}
	return scale
}

// framePixels writes frame into dst as RGBA8888 texels. On little-endian
// hosts that format stores bytes as A, B, G, R.
func framePixels(frame *video.FrameBuffer, dst []byte) {
	for i, cell := range frame.ToSlice() {
		c := video.Color(cell)
		idx := i * bytesPerPixel
		dst[idx] = byte(c)         // Alpha (first byte)
		dst[idx+1] = byte(c >> 8)  // Blue
		dst[idx+2] = byte(c >> 16) // Green
		dst[idx+3] = byte(c >> 24) // Red (last byte)
	}
}

// squareWave returns unsigned 8-bit mono samples of a square wave.
func squareWave(freq, rate int, d time.Duration) []byte {
	n := int(int64(rate) * int64(d) / int64(time.Second))
	period := rate / freq
	if period < 2 {
		period = 2
	}

	samples := make([]byte, n)
	for i := range samples {
		if (i % period) < period/2 {
			samples[i] = 0xC0
		} else {
			samples[i] = 0x40
		}
	}
	return samples
}
