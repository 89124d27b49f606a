package chip8

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/input"
	"github.com/valerio/go-chip8/chip8/input/action"
	"github.com/valerio/go-chip8/chip8/input/event"
	"github.com/valerio/go-chip8/chip8/timing"
)

// Run drives emu and b until a quit action or a backend error, or until ctx
// is cancelled. Events returned by the backend are debounced and handed to
// emu; UI presses also reach the backend when it is an ActionHandler.
//
// Each iteration credits emu with the time the limiter reports. A nil
// limiter never waits and credits one frame duration per iteration, so
// headless runs are deterministic.
func Run(ctx context.Context, emu Emulator, b backend.Backend, limiter timing.Limiter) error {
	if limiter == nil {
		limiter = timing.NewFixedLimiter(timing.FrameDuration())
	}

	filter := input.NewHandler()
	beeper, _ := b.(backend.Beeper)
	handler, _ := b.(backend.ActionHandler)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Run cancelled", "reason", ctx.Err())
			return nil
		default:
		}

		elapsed := limiter.WaitForNextFrame()
		if err := emu.RunFrame(elapsed); err != nil {
			return errors.Wrap(err, "run frame")
		}

		beeps := emu.DrainBeeps()
		if beeper != nil {
			for range beeps {
				beeper.Beep()
			}
		}

		events, err := b.Update(emu.GetCurrentFrame())
		if err != nil {
			return errors.Wrap(err, "backend update")
		}

		for _, evt := range events {
			if !filter.ProcessEvent(evt) {
				continue
			}
			if evt.Action == action.EmulatorQuit && evt.Type == event.Press {
				slog.Info("Quit requested")
				return nil
			}

			emu.HandleAction(evt.Action, evt.Type)

			if _, isKey := action.KeypadKey(evt.Action); handler != nil && !isKey && evt.Type == event.Press {
				handler.HandleAction(evt.Action)
			}
		}
	}
}
