package ansi

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	tm "github.com/buger/goterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/video"
)

func TestRender(t *testing.T) {
	fb := video.NewFrameBuffer()
	require.NoError(t, fb.SetPixel(0, 0, 1))
	require.NoError(t, fb.SetPixel(1, 1, 1))

	lines := strings.Split(strings.TrimSuffix(Render(fb), "\n"), "\n")

	require.Len(t, lines, video.FramebufferHeight/2)
	first := []rune(lines[0])
	assert.Len(t, first, video.FramebufferWidth)
	assert.Equal(t, '▀', first[0])
	assert.Equal(t, '▄', first[1])
	assert.Equal(t, ' ', first[2])
}

func TestBackend_Update(t *testing.T) {
	var out bytes.Buffer
	prev := tm.Output
	tm.Output = bufio.NewWriter(&out)
	t.Cleanup(func() { tm.Output = prev })

	b := New()
	require.NoError(t, b.Init(backend.BackendConfig{Title: "pong"}))

	fb := video.NewFrameBuffer()
	require.NoError(t, fb.SetPixel(5, 0, 1))
	b.Beep()

	events, err := b.Update(fb)
	require.NoError(t, err)
	assert.Nil(t, events)

	assert.Contains(t, out.String(), "pong")
	assert.Contains(t, out.String(), "▀")
	assert.Contains(t, out.String(), "\a")

	out.Reset()
	_, err = b.Update(fb)
	require.NoError(t, err)
	assert.NotContains(t, out.String(), "\a", "bell rings once per beep")
	assert.NoError(t, b.Cleanup())
}
