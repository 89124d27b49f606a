package cpu

import "log/slog"

// UpdateTimers decrements the delay and sound timers. The sound timer
// reaching zero from 1 emits exactly one beep.
func (c *Interpreter) UpdateTimers() {
	if c.delayTimer > 0 {
		c.delayTimer--
	}

	if c.soundTimer > 0 {
		before := c.soundTimer
		c.soundTimer--
		if before == 1 {
			slog.Debug("Beep")
			c.sound.Beep()
		}
	}
}

// SetDelayTimer and SetSoundTimer exist for hosts and tests; programs use FX15/FX18.
func (c *Interpreter) SetDelayTimer(value uint8) { c.delayTimer = value }
func (c *Interpreter) SetSoundTimer(value uint8) { c.soundTimer = value }
