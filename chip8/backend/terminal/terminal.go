package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/terminal/render"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	// two display rows per terminal row, plus title and help lines
	gameAreaHeight = height/2 + 2
	registerHeight = 12
	minTermWidth   = width + 2
	minTermHeight  = gameAreaHeight

	logBufferSize = 100
)

// Key expiry timeout. Terminals only report key presses, so a key counts as
// held while repeats keep arriving within this window.
const keyTimeout = 250 * time.Millisecond

// Backend implements the Backend interface using tcell for terminal rendering
type Backend struct {
	screen     tcell.Screen
	running    bool
	logBuffer  *render.LogBuffer
	logLevel   *slog.LevelVar
	config     backend.BackendConfig
	eventQueue []backend.InputEvent // UI events collected since the last Update
	signals    chan os.Signal

	keyStates  map[action.Action]time.Time // Last time each key was pressed
	activeKeys map[action.Action]bool      // Keys active in previous frame
	now        func() time.Time

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

// New creates a new terminal backend drawing to the controlling terminal.
func New() *Backend {
	return &Backend{now: time.Now}
}

// NewWithScreen creates a terminal backend drawing to screen, which must not
// have been initialized yet.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, now: time.Now}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.keyStates = make(map[action.Action]time.Time)
	t.activeKeys = make(map[action.Action]bool)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return errors.Wrap(err, "failed to initialize terminal")
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize terminal")
	}
	t.running = true

	// Route logs into the side panel; writing to stderr would corrupt the screen.
	t.logBuffer = render.NewLogBuffer(logBufferSize)
	t.logLevel = new(slog.LevelVar)
	t.logLevel.Set(slog.LevelInfo)
	if config.ShowDebug {
		t.logLevel.Set(slog.LevelDebug)
	}
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, t.logLevel)))

	if config.TestPattern {
		slog.Info("Terminal backend initialized in test pattern mode")
	} else {
		slog.Info("Terminal backend initialized")
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Update renders a frame and processes events
func (t *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	now := t.now()

	select {
	case sig := <-t.signals:
		slog.Info("Received signal, quitting", "signal", sig)
		t.running = false
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: action.EmulatorQuit, Type: event.Press})
	default:
	}

	// Poll for input events synchronously
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	events := t.keypadEvents(now)

	// Add UI events (pause, snapshot, etc)
	for _, evt := range t.eventQueue {
		slog.Debug("UI event", "action", action.GetInfo(evt.Action).Description, "type", evt.Type)
	}
	events = append(events, t.eventQueue...)
	t.eventQueue = nil

	if !t.running {
		return events, nil
	}

	renderFrame := frame
	if t.config.TestPattern {
		t.testFrameCount++
		renderFrame = video.TestPattern(t.testPatternType, t.testFrameCount/8)
	}

	t.currentFrame = renderFrame
	t.render(renderFrame)
	t.screen.Show()

	return events, nil
}

// keypadEvents turns the key-repeat timestamps into Press, Hold and Release
// events for the keypad.
func (t *Backend) keypadEvents(now time.Time) []backend.InputEvent {
	var events []backend.InputEvent
	currentlyActive := make(map[action.Action]bool)

	for act, lastPressed := range t.keyStates {
		if now.Sub(lastPressed) >= keyTimeout {
			delete(t.keyStates, act)
			continue
		}

		currentlyActive[act] = true
		if !t.activeKeys[act] {
			slog.Debug("Key press", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Press})
		} else {
			events = append(events, backend.InputEvent{Action: act, Type: event.Hold})
		}
	}

	for act := range t.activeKeys {
		if !currentlyActive[act] {
			slog.Debug("Key release", "action", action.GetInfo(act).Description)
			events = append(events, backend.InputEvent{Action: act, Type: event.Release})
		}
	}

	t.activeKeys = currentlyActive
	return events
}

// Beep rings the terminal bell.
func (t *Backend) Beep() {
	if t.screen == nil {
		return
	}
	if err := t.screen.Beep(); err != nil {
		slog.Debug("Terminal bell failed", "error", err)
	}
}

// Cleanup cleans up terminal resources
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.EmulatorSnapshot:
		debug.TakeSnapshot(t.currentFrame, t.config.TestPattern, t.testPatternType)
	case action.EmulatorTestPatternCycle:
		if t.config.TestPattern {
			t.testPatternType = (t.testPatternType + 1) % video.TestPatternCount
			slog.Info("Switched to test pattern", "pattern", video.TestPatternNames[t.testPatternType])
		}
	case action.DebugLogLevelIncrease:
		t.changeLogLevel(1)
	case action.DebugLogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// LogLevel returns the level currently captured in the log panel.
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel.Level()
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if act == action.EmulatorQuit {
		t.running = false
	}

	if action.GetInfo(act).Category == action.CategoryGameInput {
		t.keyStates[act] = now
		return
	}
	t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF5:     "F5",
	tcell.KeyF9:     "F9",
	tcell.KeyF12:    "F12",
}

// buildKeyMapping creates the key mapping from default mappings
func buildKeyMapping() map[tcell.Key]action.Action {
	mapping := make(map[tcell.Key]action.Action)

	for key, keyName := range tcellKeyNameMap {
		if act, ok := input.GetDefaultMapping(keyName); ok {
			mapping[key] = act
		}
	}

	mapping[tcell.KeyCtrlC] = action.EmulatorQuit

	return mapping
}

// buildRuneMapping creates the rune mapping from default mappings. Single
// character names map to their rune, upper case included.
func buildRuneMapping() map[rune]action.Action {
	mapping := make(map[rune]action.Action)

	for keyName, act := range input.DefaultKeyMap {
		runes := []rune(keyName)
		if keyName == "Space" {
			runes = []rune{' '}
		}
		if len(runes) != 1 {
			continue
		}
		r := runes[0]
		mapping[r] = act
		if r >= 'a' && r <= 'z' {
			mapping[r-'a'+'A'] = act
		}
	}

	return mapping
}

// keyMapping maps tcell keys to actions
var keyMapping = buildKeyMapping()

// runeMapping maps runes to actions
var runeMapping = buildRuneMapping()

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel.Level()
	newLevel := oldLevel
	switch direction {
	case -1:
		switch oldLevel {
		case slog.LevelDebug:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelError
		}
	case 1:
		switch oldLevel {
		case slog.LevelError:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelDebug
		}
	}
	if oldLevel != newLevel {
		t.logLevel.Set(newLevel)
		slog.Warn("Log filter changed", "from", oldLevel, "to", newLevel)
	}
}

func (t *Backend) render(frame *video.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	dividerX := width + 1
	rightPanelX := dividerX + 2
	rightPanelWidth := termWidth - rightPanelX

	t.drawBorders(termWidth, termHeight, dividerX)
	t.drawDisplay(frame)

	logsY := 1
	if t.config.ShowDebug && t.config.Status != nil && rightPanelWidth > 0 {
		t.drawRegisters(rightPanelX, 1, rightPanelWidth, termHeight)
		logsY = registerHeight + 2
	}
	t.drawLogs(rightPanelX, logsY, rightPanelWidth, termHeight)
}

func (t *Backend) drawText(x, y, maxWidth int, text string, style tcell.Style) {
	for i, ch := range []rune(render.Truncate(text, maxWidth)) {
		t.screen.SetContent(x+i, y, ch, nil, style)
	}
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	if dividerX < termWidth {
		for y := 0; y < termHeight-1; y++ {
			t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
		}
	}

	title := " CHIP-8 "
	if t.config.TestPattern {
		title = fmt.Sprintf(" Test Pattern: %s ", video.TestPatternNames[t.testPatternType])
	} else if t.config.Title != "" {
		title = fmt.Sprintf(" %s ", t.config.Title)
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)

	if t.config.ShowDebug && t.config.Status != nil {
		t.drawText(dividerX+2, 0, termWidth-dividerX-2, " Registers ", titleStyle)
		if registerHeight+1 < termHeight {
			levelTitle := fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel.Level())
			t.drawText(dividerX+2, registerHeight+1, termWidth-dividerX-2, levelTitle, titleStyle)
		}
	}

	var helpText string
	if t.config.TestPattern {
		helpText = " Test Pattern Mode: F12=cycle patterns F9=snapshot ESC=exit "
	} else {
		helpText = " Keys: 1234/QWER/ASDF/ZXCV | SPACE=pause N=step F5=restart F9=snapshot ESC=quit | Logs: +/- "
	}
	t.drawText(0, termHeight-1, termWidth, helpText, borderStyle)
}

// drawDisplay packs two display rows into each terminal row with half blocks.
func (t *Backend) drawDisplay(frame *video.FrameBuffer) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := frame.GetPixel(uint(x), uint(y))
			bottom := frame.GetPixel(uint(x), uint(y+1))
			t.screen.SetContent(x, y/2+1, render.HalfBlock(top, bottom), nil, style)
		}
	}
}

func (t *Backend) drawRegisters(startX, startY, panelWidth, termHeight int) {
	s := t.config.Status.Status()

	status := s.State
	switch {
	case s.Halted:
		status = "HALTED"
	case s.Paused:
		status = "PAUSED"
	}

	lines := []string{
		fmt.Sprintf("Status: %s", status),
		fmt.Sprintf("PC: 0x%03X  I: 0x%03X", s.PC, s.I),
		fmt.Sprintf("SP: %-2d     OP: 0x%04X", s.SP, s.Opcode),
		fmt.Sprintf("DT: %-3d    ST: %-3d", s.DelayTimer, s.SoundTimer),
	}
	for row := 0; row < 4; row++ {
		line := ""
		for col := 0; col < 4; col++ {
			r := row*4 + col
			line += fmt.Sprintf("V%X:%02X ", r, s.V[r])
		}
		lines = append(lines, line)
	}
	lines = append(lines,
		fmt.Sprintf("Executed: %d", s.Executed),
		fmt.Sprintf("Frames: %d", s.Frames),
		fmt.Sprintf("Backlog: %d", s.Backlog),
	)

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		y := startY + i
		if y >= termHeight || i >= registerHeight {
			break
		}
		t.drawText(startX, y, panelWidth, line, style)
	}
}

func (t *Backend) drawLogs(startX, startY, panelWidth, termHeight int) {
	if panelWidth <= 0 || startY >= termHeight {
		return
	}

	availableHeight := termHeight - startY - 1
	if availableHeight <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, logEntry := range t.logBuffer.Recent(availableHeight) {
		style := infoStyle
		switch {
		case logEntry.Level >= slog.LevelError:
			style = errStyle
		case logEntry.Level >= slog.LevelWarn:
			style = warnStyle
		case logEntry.Level < slog.LevelInfo:
			style = debugStyle
		}
		t.drawText(startX, startY+i, panelWidth, render.FormatLogEntry(logEntry), style)
	}
}
