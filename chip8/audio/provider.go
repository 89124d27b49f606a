package audio

import "sync/atomic"

// Sink receives the discrete beep raised when the sound timer expires.
type Sink interface {
	Beep()
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func()

func (f SinkFunc) Beep() { f() }

// Signal counts beeps raised by the machine until a backend drains them.
// Raise and Drain may be called from different goroutines.
type Signal struct {
	pending atomic.Int64
	total   atomic.Uint64
}

var _ Sink = (*Signal)(nil)

func NewSignal() *Signal {
	return &Signal{}
}

// Beep records one beep.
func (s *Signal) Beep() {
	s.pending.Add(1)
	s.total.Add(1)
}

// Drain returns the number of beeps since the previous Drain and resets it.
func (s *Signal) Drain() int {
	return int(s.pending.Swap(0))
}

// Total returns the number of beeps raised since creation.
func (s *Signal) Total() uint64 {
	return s.total.Load()
}

// Discard is a Sink that drops every beep.
var Discard Sink = SinkFunc(func() {})
