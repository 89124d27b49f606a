package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypadKey(t *testing.T) {
	for key := uint8(0); key <= 0xF; key++ {
		act, ok := ForKey(key)
		assert.True(t, ok)

		got, ok := KeypadKey(act)
		assert.True(t, ok)
		assert.Equal(t, key, got)
		assert.Equal(t, CategoryGameInput, GetInfo(act).Category)
	}

	_, ok := ForKey(0x10)
	assert.False(t, ok)
	_, ok = KeypadKey(EmulatorQuit)
	assert.False(t, ok)
}

func TestGetInfo(t *testing.T) {
	assert.Equal(t, "key-A", GetInfo(KeyA).Name)
	assert.Equal(t, CategoryEmulator, GetInfo(EmulatorPauseToggle).Category)
	assert.Equal(t, CategoryDebug, GetInfo(DebugLogLevelDecrease).Category)
	assert.Equal(t, "unknown", GetInfo(Action(999)).Name)
	assert.Equal(t, "quit", EmulatorQuit.String())
}
