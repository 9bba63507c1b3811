package transport

import (
	"errors"
	"time"
)

var (
	// ErrTimeout is returned by Read when no byte arrived within the
	// timeout, and by Write when the device stopped accepting bytes.
	ErrTimeout = errors.New("transport: timeout")

	// ErrNotOpen is returned by I/O on a port that is not open.
	ErrNotOpen = errors.New("transport: port not open")

	// ErrClosed is returned when the remote end closed the stream.
	ErrClosed = errors.New("transport: port closed")

	// ErrUnsupported is returned by ports that are unavailable on this platform.
	ErrUnsupported = errors.New("transport: not supported on this platform")
)

// Port is a bidirectional byte stream with bounded blocking calls.
type Port interface {
	// Open acquires the underlying device or connection.
	Open() error

	// Close releases the underlying device or connection.
	Close() error

	// Write sends all of data within timeout, returning the number of bytes
	// accepted. A count below len(data) is always accompanied by an error.
	Write(data []byte, timeout time.Duration) (int, error)

	// Read blocks until buf is full or timeout elapses and returns the
	// number of bytes read. When the timeout elapses after a partial read
	// the count is returned with a nil error; when nothing was read at all
	// the error is ErrTimeout.
	Read(buf []byte, timeout time.Duration) (int, error)

	// Sleep pauses the caller, used to let the target settle.
	Sleep(d time.Duration)
}
