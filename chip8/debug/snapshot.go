package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-chip8/chip8/video"
)

// SnapshotScale is the number of image pixels per display cell.
const SnapshotScale = 8

// TakeSnapshot handles snapshot logic for backends
func TakeSnapshot(frame *video.FrameBuffer, isTestPattern bool, testPatternType int) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	var baseName string
	if isTestPattern {
		name := video.TestPatternNames[testPatternType%video.TestPatternCount]
		baseName = fmt.Sprintf("chip8_snapshot_%s", name)
	} else {
		baseName = "chip8_snapshot"
	}

	if _, err := SaveFramePNGToDir(frame, baseName, ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// FrameImage converts a framebuffer into an RGBA image, each cell becoming a
// scale x scale block.
func FrameImage(frame *video.FrameBuffer, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	width, height := int(frame.Width()), int(frame.Height())
	img := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := rgba(video.Color(frame.GetPixel(uint(x), uint(y))))
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}

// EncodePNG writes frame to w as a PNG.
func EncodePNG(w io.Writer, frame *video.FrameBuffer, scale int) error {
	if err := png.Encode(w, FrameImage(frame, scale)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// SaveFramePNGToDir saves a framebuffer as PNG with timestamp to a specific
// directory, or the working directory when directory is empty. It returns the
// written path.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		outputDir = cwd
	}

	filePath := filepath.Join(outputDir, filename)
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer file.Close()

	if err := EncodePNG(file, frame, SnapshotScale); err != nil {
		return "", err
	}

	slog.Info("Snapshot saved", "path", filePath, "size", fmt.Sprintf("%dx%d", frame.Width()*SnapshotScale, frame.Height()*SnapshotScale), "format", "PNG")
	return filePath, nil
}

// rgba unpacks a 0xRRGGBBAA color.
func rgba(packed uint32) color.RGBA {
	return color.RGBA{
		R: uint8(packed >> 24),
		G: uint8(packed >> 16),
		B: uint8(packed >> 8),
		A: uint8(packed),
	}
}
