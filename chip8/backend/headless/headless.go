package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/debug"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/video"
)

// Backend implements the Backend interface for automated testing and batch processing
type Backend struct {
	config         backend.BackendConfig
	frameCount     int
	maxFrames      int
	beeps          int
	snapshotConfig SnapshotConfig
	saved          []string
}

var (
	_ backend.Backend = (*Backend)(nil)
	_ backend.Beeper  = (*Backend)(nil)
)

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
}

func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		maxFrames:      maxFrames,
		snapshotConfig: snapshotConfig,
	}
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	if config.TestPattern {
		slog.Info("Headless test pattern mode - will exit after the first frame")
		return nil
	}

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

// Update processes a frame and handles snapshots
func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	// For test pattern mode, save the pattern if asked to and quit immediately
	if h.config.TestPattern {
		if h.snapshotConfig.Enabled {
			h.saveSnapshot(video.TestPattern(0, 0), "test_pattern")
		}
		return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, nil
	}

	h.frameCount++

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot(frame, h.frameName())
	}

	if h.frameCount%60 == 0 {
		slog.Info("Frame progress", "completed", h.frameCount, "total", h.maxFrames, "beeps", h.beeps)
	}

	if h.maxFrames <= 0 || h.frameCount < h.maxFrames {
		return nil, nil
	}

	// Save final snapshot if enabled and we haven't just saved one
	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
		h.saveSnapshot(frame, h.frameName())
	}

	if h.snapshotConfig.Enabled {
		slog.Info("Headless execution completed", "frames", h.frameCount, "beeps", h.beeps, "png_snapshots_saved_to", h.snapshotConfig.Directory)
	} else {
		slog.Info("Headless execution completed", "frames", h.frameCount, "beeps", h.beeps)
	}

	return []backend.InputEvent{{Action: action.EmulatorQuit, Type: event.Press}}, nil
}

// Beep counts the beep; there is no audio device in headless mode.
func (h *Backend) Beep() {
	h.beeps++
}

func (h *Backend) Cleanup() error {
	return nil
}

// Frames returns the number of frames processed so far.
func (h *Backend) Frames() int { return h.frameCount }

// Beeps returns the number of beeps received.
func (h *Backend) Beeps() int { return h.beeps }

// Snapshots returns the paths of the PNG files written so far.
func (h *Backend) Snapshots() []string { return h.saved }

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	// Set up snapshot directory
	if directory == "" {
		tempDir, err := os.MkdirTemp("", "chip8-snapshots-*")
		if err != nil {
			return config, errors.Wrap(err, "failed to create snapshot directory")
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, errors.Wrapf(err, "failed to create snapshot directory %s", directory)
		}
		config.Directory = directory
	}

	// Extract ROM name for snapshot filenames
	config.ROMName = filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(config.ROMName, filepath.Ext(config.ROMName))
	if config.ROMName == "" || config.ROMName == "." {
		config.ROMName = "chip8"
	}

	return config, nil
}

func (h *Backend) frameName() string {
	return fmt.Sprintf("%s_frame_%d", h.snapshotConfig.ROMName, h.frameCount)
}

// saveSnapshot saves a PNG snapshot for the current frame
func (h *Backend) saveSnapshot(frame *video.FrameBuffer, baseName string) {
	path, err := debug.SaveFramePNGToDir(frame, baseName, h.snapshotConfig.Directory)
	if err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
		return
	}
	h.saved = append(h.saved, path)
}
