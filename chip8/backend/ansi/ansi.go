// Package ansi renders the display on any ANSI terminal by redrawing the whole
// screen every frame. It reads no input, so it suits demos and ROMs that
// never wait for a key.
package ansi

import (
	"log/slog"
	"strings"

	tm "github.com/buger/goterm"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend implements the Backend interface with buger/goterm.
type Backend struct {
	config     backend.BackendConfig
	frameCount int
	bell       bool
}

var (
	_ backend.Backend = (*Backend)(nil)
	_ backend.Beeper  = (*Backend)(nil)
)

func New() *Backend {
	return &Backend{}
}

func (a *Backend) Init(config backend.BackendConfig) error {
	a.config = config
	slog.Info("ANSI backend initialized, keyboard input is not available")
	return nil
}

// Update redraws the frame. It never reports input events.
func (a *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	a.frameCount++

	if a.config.TestPattern {
		frame = video.TestPattern(a.frameCount/60, a.frameCount/8)
	}

	title := a.config.Title
	if title == "" {
		title = "CHIP-8"
	}
	out := tm.MoveTo(tm.Bold(title)+"\n"+Render(frame), 1, 1)
	if a.bell {
		out += "\a"
		a.bell = false
	}

	// goterm's Screen buffer is cut to the terminal height, which is unknown
	// when stdout is not a tty, so the frame goes straight to Output.
	tm.Clear()
	if _, err := tm.Output.WriteString(out); err != nil {
		return nil, err
	}
	if err := tm.Output.Flush(); err != nil {
		return nil, err
	}

	return nil, nil
}

// Beep rings the terminal bell on the next redraw.
func (a *Backend) Beep() {
	a.bell = true
}

func (a *Backend) Cleanup() error {
	return nil
}

// Render draws frame as half-block text, two display rows per line.
func Render(frame *video.FrameBuffer) string {
	var sb strings.Builder
	w, h := frame.Width(), frame.Height()
	for y := uint(0); y < h; y += 2 {
		for x := uint(0); x < w; x++ {
			sb.WriteRune(render.HalfBlock(frame.GetPixel(x, y), frame.GetPixel(x, y+1)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
