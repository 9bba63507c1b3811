package axi

import (
	"errors"
	"fmt"

	"github.com/ultraembedded/core-ft60x-axi/protocol"
)

var (
	// ErrTransport indicates a failed transport write or read, including
	// timeouts. The underlying transport error is wrapped as well.
	ErrTransport = errors.New("axi: transport error")

	// ErrShortWrite indicates the transport accepted fewer bytes than sent.
	ErrShortWrite = errors.New("axi: short write")

	// ErrShortRead indicates a response arrived incomplete.
	ErrShortRead = errors.New("axi: short read")

	// ErrSequenceMismatch indicates a status block answering a different
	// command than expected; the command stream is out of sync.
	ErrSequenceMismatch = errors.New("axi: sequence number mismatch")

	// ErrContentMismatch indicates echoed or read back data differing from
	// what was expected. See MismatchError.
	ErrContentMismatch = errors.New("axi: content mismatch")

	// ErrPayloadTooLarge indicates a single command payload above
	// protocol.MaxPayloadSize.
	ErrPayloadTooLarge = protocol.ErrPayloadTooLarge
)

var (
	// ErrConfigNil indicates that a nil DriverConfig was provided.
	ErrConfigNil = errors.New("axi: driver config is nil")

	// ErrPortNil indicates that a nil transport port was provided.
	ErrPortNil = errors.New("axi: transport port is nil")
)

// MismatchError reports the first differing byte of an echo or verify.
type MismatchError struct {
	// Index is the offset of the byte within the compared buffer.
	Index    int
	Expected byte
	Actual   byte
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("axi: content mismatch at index %d: got 0x%02x, want 0x%02x", e.Index, e.Actual, e.Expected)
}

// Unwrap makes MismatchError match ErrContentMismatch.
func (e *MismatchError) Unwrap() error {
	return ErrContentMismatch
}
