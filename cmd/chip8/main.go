package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/ansi"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/timing"
	"golang.org/x/term"
)

func main() {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 interpreter. Sprites are not wrapped or clipped: a ROM drawing past the display edge halts."
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Backend to use: auto, terminal, sdl2, ansi or headless",
			Value: "auto",
		},
		cli.IntFlag{
			Name:  "steps",
			Usage: "Maximum instructions per update",
			Value: chip8DefaultSteps,
		},
		cli.IntFlag{
			Name:  "clock-rate",
			Usage: "Instructions per second",
			Value: chip8DefaultClockRate,
		},
		cli.Uint64Flag{
			Name:  "seed",
			Usage: "Seed for the random number instruction (0 = time based)",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save PNG snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window scale for the sdl2 backend",
			Value: 10,
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame limiter for interactive backends: adaptive or ticker",
			Value: "adaptive",
		},
		cli.BoolFlag{
			Name:  "test-pattern",
			Usage: "Display a test pattern instead of running a ROM",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Show the register panel in backends that support it",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn or error",
			Value: "info",
		},
	}
	app.Action = runEmulator

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

const (
	chip8DefaultSteps     = 1
	chip8DefaultClockRate = timing.TargetFPS
)

func runEmulator(c *cli.Context) error {
	level, err := parseLogLevel(c.String("log-level"))
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	testPattern := c.Bool("test-pattern")

	romPath := c.String("rom")
	if romPath == "" && c.NArg() > 0 {
		romPath = c.Args().Get(0)
	}
	if romPath == "" && !testPattern {
		cli.ShowAppHelp(c)
		return errors.New("no ROM path provided")
	}

	var emu chip8.Emulator
	if testPattern {
		slog.Info("Running in test pattern mode")
		emu = chip8.NewTestPatternEmulator()
	} else {
		emu, err = chip8.NewWithFile(romPath, chip8.Config{
			StepsPerUpdate: c.Int("steps"),
			ClockRate:      c.Int("clock-rate"),
			Seed:           c.Uint64("seed"),
		})
		if err != nil {
			return err
		}
	}

	name := resolveBackend(c.String("backend"), term.IsTerminal(int(os.Stdout.Fd())))
	b, err := createBackend(name, c, romPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := backend.BackendConfig{
		Title:       "chip8",
		Scale:       c.Int("scale"),
		ShowDebug:   c.Bool("debug"),
		TestPattern: testPattern,
		Status:      emu,
		Callbacks: backend.BackendCallbacks{
			OnQuit: stop,
		},
	}
	if err := b.Init(config); err != nil {
		return errors.Wrapf(err, "init %s backend", name)
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Error("Backend cleanup failed", "error", err)
		}
	}()

	// headless runs are unthrottled and deterministic
	var limiter timing.Limiter
	if name != "headless" {
		limiter, err = createLimiter(c.String("limiter"), c.Int("clock-rate"), c.Int("steps"))
		if err != nil {
			return err
		}
		if t, ok := limiter.(*timing.TickerLimiter); ok {
			defer t.Stop()
		}
		defer reportDropped(limiter)
	}

	return chip8.Run(ctx, emu, b, limiter)
}

// resolveBackend picks the terminal backend for interactive sessions and
// headless otherwise when asked for "auto".
func resolveBackend(name string, interactive bool) string {
	if name != "auto" {
		return name
	}
	if interactive {
		return "terminal"
	}
	return "headless"
}

func createBackend(name string, c *cli.Context, romPath string) (backend.Backend, error) {
	switch name {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	case "ansi":
		return ansi.New(), nil
	case "headless":
		frames := c.Int("frames")
		if frames <= 0 && !c.Bool("test-pattern") {
			return nil, errors.New("headless mode requires --frames option with a positive value")
		}
		snapshots, err := headless.CreateSnapshotConfig(c.Int("snapshot-interval"), c.String("snapshot-dir"), romPath)
		if err != nil {
			return nil, err
		}
		return headless.New(frames, snapshots), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

// createLimiter paces the host fast enough for the requested clock rate
// given how many steps a single frame may run.
func createLimiter(name string, clockRate, steps int) (timing.Limiter, error) {
	period := timing.FramePeriod(clockRate, steps)
	slog.Debug("Frame limiter", "type", name, "period", period)

	switch name {
	case "adaptive":
		return timing.NewAdaptiveLimiter(period, timing.PeriodFor(clockRate)), nil
	case "ticker":
		return timing.NewTickerLimiter(period), nil
	default:
		return nil, fmt.Errorf("unknown limiter %q", name)
	}
}

func reportDropped(l timing.Limiter) {
	d, ok := l.(interface{ Dropped() uint64 })
	if !ok || d.Dropped() == 0 {
		return
	}
	slog.Warn("Host could not keep up", "dropped", d.Dropped())
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, errors.Wrapf(err, "invalid log level %q", s)
	}
	return level, nil
}
