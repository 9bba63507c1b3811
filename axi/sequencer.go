package axi

import (
	"fmt"

	"github.com/ultraembedded/core-ft60x-axi/protocol"
)

// Sequencer issues the 16-bit sequence numbers that correlate commands
// with their status blocks. It starts at 1 and wraps at 65536.
//
// The zero value is ready to use.
type Sequencer struct {
	// last is the number most recently issued; 0 before the first.
	last uint16
}

// NewSequencer returns a sequencer whose first number is 1.
func NewSequencer() Sequencer {
	return Sequencer{}
}

// Next returns the current number and advances the counter.
func (s *Sequencer) Next() uint16 {
	s.last++
	return s.last
}

// Peek returns the number the next command will carry.
func (s *Sequencer) Peek() uint16 {
	return s.last + 1
}

// Verify checks that st answers the command sent with sequence expected.
func (s *Sequencer) Verify(st protocol.Status, expected uint16) error {
	if st.Seq != expected {
		return fmt.Errorf("%w: got 0x%04x, want 0x%04x", ErrSequenceMismatch, st.Seq, expected)
	}
	return nil
}
