//go:build sdl2

package sdl2

import (
	"log/slog"
	"unsafe"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
	"github.com/veandco/go-sdl2/sdl"
)

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	audio    sdl.AudioDeviceID
	tone     []byte
	running  bool
	config   backend.BackendConfig
	pixels   []byte

	// Test pattern state
	testPatternType int
	testFrameCount  int

	// Snapshot state
	currentFrame *video.FrameBuffer
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.Beeper        = (*Backend)(nil)
	_ backend.ActionHandler = (*Backend)(nil)
)

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		pixels: make([]byte, video.FramebufferWidth*video.FramebufferHeight*bytesPerPixel),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	scale := int32(windowScale(config.Scale))

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return errors.Wrap(err, "failed to initialize SDL2")
	}

	title := config.Title
	if title == "" {
		title = "CHIP-8"
	}
	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		video.FramebufferWidth*scale,
		video.FramebufferHeight*scale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return errors.Wrap(err, "failed to create window")
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return errors.Wrap(err, "failed to create renderer")
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_RGBA8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.FramebufferHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return errors.Wrap(err, "failed to create texture")
	}
	s.texture = texture

	s.openAudio()
	s.running = true

	if config.TestPattern {
		slog.Info("SDL2 backend initialized in test pattern mode")
	} else {
		slog.Info("SDL2 backend initialized", "scale", scale)
	}

	return nil
}

// openAudio prepares the beep tone. Failing to open a device only
// disables sound.
func (s *Backend) openAudio() {
	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}
	dev, err := sdl.OpenAudioDevice("", false, spec, nil, 0)
	if err != nil {
		slog.Warn("Audio unavailable, beeps will be silent", "error", err)
		return
	}
	s.audio = dev
	s.tone = squareWave(toneFrequency, sampleRate, toneDuration)
	sdl.PauseAudioDevice(dev, false)
}

// Update renders a frame and processes events
func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		events = append(events, s.handleEvent(e)...)
	}

	if !s.running {
		return events, nil
	}

	renderFrame := frame
	if s.config.TestPattern {
		s.testFrameCount++
		renderFrame = video.TestPattern(s.testPatternType, s.testFrameCount/8)
	}

	s.currentFrame = renderFrame
	if err := s.renderFrame(renderFrame); err != nil {
		return events, err
	}

	return events, nil
}

// Beep queues a short square wave tone.
func (s *Backend) Beep() {
	if s.audio == 0 || len(s.tone) == 0 {
		return
	}
	if err := sdl.QueueAudio(s.audio, s.tone); err != nil {
		slog.Debug("Failed to queue beep", "error", err)
	}
}

// HandleAction processes backend-specific actions
func (s *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(s.currentFrame, s.config.TestPattern, s.testPatternType)
	case action.EmulatorTestPatternCycle:
		if s.config.TestPattern {
			s.testPatternType = (s.testPatternType + 1) % video.TestPatternCount
			slog.Info("Switched to test pattern", "pattern", video.TestPatternNames[s.testPatternType])
		}
	}
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.audio != 0 {
		sdl.CloseAudioDevice(s.audio)
	}
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(e sdl.Event) []backend.InputEvent {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		s.running = false
		if s.config.Callbacks.OnQuit != nil {
			s.config.Callbacks.OnQuit()
		}
		return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}

	case *sdl.KeyboardEvent:
		act, ok := keyMapping[e.Keysym.Sym]
		if !ok {
			return nil
		}
		isKeypad := action.GetInfo(act).Category == action.CategoryGameInput

		switch {
		case e.Type == sdl.KEYDOWN && e.Repeat != 0:
			// Key repeats only matter for keys that are held.
			if isKeypad {
				return []backend.InputEvent{{Action: act, Type: event.Hold}}
			}
		case e.Type == sdl.KEYDOWN:
			if act == action.EmulatorQuit {
				s.running = false
			}
			return []backend.InputEvent{{Action: act, Type: event.Press}}
		case e.Type == sdl.KEYUP && isKeypad:
			return []backend.InputEvent{{Action: act, Type: event.Release}}
		}
	}
	return nil
}

// sdlKeyNames converts SDL2 keys to key names used in default mappings
var sdlKeyNames = map[sdl.Keycode]string{
	sdl.K_1: "1", sdl.K_2: "2", sdl.K_3: "3", sdl.K_4: "4",
	sdl.K_q: "q", sdl.K_w: "w", sdl.K_e: "e", sdl.K_r: "r",
	sdl.K_a: "a", sdl.K_s: "s", sdl.K_d: "d", sdl.K_f: "f",
	sdl.K_z: "z", sdl.K_x: "x", sdl.K_c: "c", sdl.K_v: "v",

	sdl.K_SPACE:  "Space",
	sdl.K_p:      "p",
	sdl.K_n:      "n",
	sdl.K_F5:     "F5",
	sdl.K_F9:     "F9",
	sdl.K_F12:    "F12",
	sdl.K_ESCAPE: "Escape",
	sdl.K_EQUALS: "=",
	sdl.K_MINUS:  "-",
}

// keyMapping maps SDL2 keys to actions
var keyMapping = func() map[sdl.Keycode]action.Action {
	mapping := make(map[sdl.Keycode]action.Action)
	for key, name := range sdlKeyNames {
		if act, ok := input.GetDefaultMapping(name); ok {
			mapping[key] = act
		}
	}
	return mapping
}()

func (s *Backend) renderFrame(frame *video.FrameBuffer) error {
	framePixels(frame, s.pixels)

	if err := s.texture.Update(nil, unsafe.Pointer(&s.pixels[0]), video.FramebufferWidth*bytesPerPixel); err != nil {
		return errors.Wrap(err, "failed to update texture")
	}

	if err := s.renderer.SetDrawColor(0, 0, 0, 0xFF); err != nil {
		return errors.Wrap(err, "failed to set draw color")
	}
	if err := s.renderer.Clear(); err != nil {
		return errors.Wrap(err, "failed to clear renderer")
	}
	if err := s.renderer.Copy(s.texture, nil, nil); err != nil {
		return errors.Wrap(err, "failed to copy texture")
	}
	s.renderer.Present()
	return nil
}
