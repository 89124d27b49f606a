package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTimers_Beep(t *testing.T) {
	f := newFixture(t, Config{})
	c := f.cpu

	c.SetSoundTimer(1)
	c.UpdateTimers()

	assert.Equal(t, uint8(0), c.SoundTimer())
	assert.Equal(t, 1, f.beeps.Drain())

	c.UpdateTimers()
	assert.Equal(t, uint8(0), c.SoundTimer())
	assert.Equal(t, 0, f.beeps.Drain())
}

func TestUpdateTimers_CountDown(t *testing.T) {
	f := newFixture(t, Config{})
	c := f.cpu

	c.SetDelayTimer(3)
	c.SetSoundTimer(3)
	for i := 0; i < 2; i++ {
		c.UpdateTimers()
	}
	assert.Equal(t, uint8(1), c.DelayTimer())
	assert.Equal(t, uint8(1), c.SoundTimer())
	assert.Equal(t, 0, f.beeps.Drain(), "no beep before reaching zero")

	for i := 0; i < 5; i++ {
		c.UpdateTimers()
	}
	assert.Equal(t, uint8(0), c.DelayTimer())
	assert.Equal(t, uint8(0), c.SoundTimer())
	assert.Equal(t, uint64(1), f.beeps.Total())
}

func TestUpdateTimers_RunsAfterEachInstruction(t *testing.T) {
	testCases := []struct {
		desc      string
		opcode    uint16
		wantDelay uint8
	}{
		{desc: "regular instruction", opcode: 0x6000, wantDelay: 4},
		{desc: "unknown instruction", opcode: 0x5001, wantDelay: 4},
		{desc: "off-screen draw", opcode: 0xD011, wantDelay: 4},
		{desc: "entering key wait", opcode: 0xF00A, wantDelay: 5},
		{desc: "faulting return", opcode: 0x00EE, wantDelay: 5},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			f := newFixture(t, Config{})
			f.cpu.SetDelayTimer(5)
			f.cpu.v[0] = 0xFF

			_ = f.run(t, tC.opcode)
			assert.Equal(t, tC.wantDelay, f.cpu.DelayTimer())
		})
	}
}

func TestUpdateTimers_PausedWhileAwaitingKey(t *testing.T) {
	f := newFixture(t, Config{})
	c := f.cpu
	c.SetSoundTimer(1)

	require.NoError(t, f.run(t, 0xF00A))
	require.NoError(t, c.Step())
	assert.Equal(t, uint8(1), c.SoundTimer())
	assert.Equal(t, 0, f.beeps.Drain())

	require.NoError(t, f.keys.Press(0))
	require.NoError(t, c.Step())
	assert.Equal(t, uint8(0), c.SoundTimer())
	assert.Equal(t, 1, f.beeps.Drain())
	assert.Equal(t, uint64(1), c.Executed())
}
