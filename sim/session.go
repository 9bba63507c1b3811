package sim

import (
	"github.com/ultraembedded/core-ft60x-axi/internal/queue"
	"github.com/ultraembedded/core-ft60x-axi/protocol"
)

// Session is the command parser of one byte stream attached to a Target.
// A Session is not goroutine-safe.
type Session struct {
	target *Target
	in     queue.ByteFIFO
	out    []byte

	drained uint64
}

// NewSession attaches a new stream parser to t.
func (t *Target) NewSession() *Session {
	return &Session{target: t}
}

// Feed consumes host bytes and returns the responses they produced, in
// order. Incomplete commands are kept until more bytes arrive. The returned
// slice is only valid until the next call.
func (s *Session) Feed(data []byte) []byte {
	s.in.Write(data)
	s.out = s.out[:0]

	for s.in.Len() > 0 {
		pending := s.in.Bytes()

		if protocol.CommandID(pending[0]) == protocol.CmdDrain {
			s.in.Discard(1)
			s.drained++
			continue
		}

		if len(pending) < protocol.HeaderSize {
			break
		}

		h := protocol.ParseHeader(pending)
		size := h.WireSize()
		if !h.Cmd.Valid() {
			// unknown ids carry no payload we could size, only the header
			size = protocol.HeaderSize
		}
		if len(pending) < size {
			break
		}

		cmd := s.in.Next(size)
		s.out = s.target.execute(h, cmd[protocol.HeaderSize:], s.out)
	}

	return s.out
}

// Buffered returns the number of bytes of an incomplete command waiting
// for more input.
func (s *Session) Buffered() int {
	return s.in.Len()
}

// Drained returns the number of DRAIN filler bytes skipped so far.
func (s *Session) Drained() uint64 {
	return s.drained
}
