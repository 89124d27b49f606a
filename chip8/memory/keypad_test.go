package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeypad_PressRelease(t *testing.T) {
	k := NewKeypad()

	down, err := k.IsPressed(0xA)
	require.NoError(t, err)
	assert.False(t, down)

	require.NoError(t, k.Press(0xA))
	down, _ = k.IsPressed(0xA)
	assert.True(t, down)

	require.NoError(t, k.Release(0xA))
	down, _ = k.IsPressed(0xA)
	assert.False(t, down)
}

func TestKeypad_OutOfRange(t *testing.T) {
	k := NewKeypad()

	assert.ErrorIs(t, k.Press(0x10), ErrKeyOutOfRange)
	assert.ErrorIs(t, k.Release(0x10), ErrKeyOutOfRange)
	_, err := k.IsPressed(0xFF)
	assert.ErrorIs(t, err, ErrKeyOutOfRange)
}

func TestKeypad_FirstPressed(t *testing.T) {
	k := NewKeypad()

	_, ok := k.FirstPressed()
	assert.False(t, ok)

	require.NoError(t, k.Press(0xC))
	require.NoError(t, k.Press(0x3))

	key, ok := k.FirstPressed()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x3), key)

	k.ReleaseAll()
	_, ok = k.FirstPressed()
	assert.False(t, ok)
}
