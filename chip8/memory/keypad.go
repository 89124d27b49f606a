package memory

import (
	"errors"
	"fmt"

	"github.com/valerio/go-chip8/chip8/addr"
)

// ErrKeyOutOfRange is returned when a key index is not in 0x0-0xF.
var ErrKeyOutOfRange = errors.New("key out of range")

// Keypad holds the pressed state of the 16 hex keys.
// It is written by the input layer and only read by the interpreter.
type Keypad struct {
	pressed [addr.KeyCount]bool
}

// NewKeypad creates a keypad with every key released.
func NewKeypad() *Keypad {
	return &Keypad{}
}

func checkKey(key uint8) error {
	if int(key) >= addr.KeyCount {
		return fmt.Errorf("%w: 0x%X", ErrKeyOutOfRange, key)
	}
	return nil
}

// Press marks key as held down.
func (k *Keypad) Press(key uint8) error {
	if err := checkKey(key); err != nil {
		return err
	}
	k.pressed[key] = true
	return nil
}

// Release marks key as released.
func (k *Keypad) Release(key uint8) error {
	if err := checkKey(key); err != nil {
		return err
	}
	k.pressed[key] = false
	return nil
}

// ReleaseAll releases every key.
func (k *Keypad) ReleaseAll() {
	k.pressed = [addr.KeyCount]bool{}
}

// IsPressed reports whether key is currently held down.
func (k *Keypad) IsPressed(key uint8) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	return k.pressed[key], nil
}

// FirstPressed returns the lowest index of a held key, if any.
func (k *Keypad) FirstPressed() (uint8, bool) {
	for i, down := range k.pressed {
		if down {
			return uint8(i), true
		}
	}
	return 0, false
}

// State returns a copy of all key states, indexed 0x0-0xF.
func (k *Keypad) State() [addr.KeyCount]bool {
	return k.pressed
}
