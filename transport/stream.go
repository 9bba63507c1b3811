package transport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/internal/pool"
	"github.com/ultraembedded/core-ft60x-axi/internal/util"
)

// writeAll writes all bytes in data, stopping at the first error.
func writeAll(w io.Writer, data []byte) (int, error) {
	written := 0
	for written < len(data) {
		n, err := w.Write(data[written:])
		written += n
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, io.ErrShortWrite
		}
	}

	return written, nil
}

// countingWriter counts the bytes accepted by w.
type countingWriter struct {
	w io.Writer
	n *atomic.Int64
}

func (c countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n.Add(int64(n))

	return n, err
}

// writeBounded runs writeAll on w in its own goroutine and gives up after
// timeout. On expiry abort is called to unblock the device, typically by
// closing it, and the bytes accepted so far are returned with ErrTimeout.
// The goroutine writes from a private copy of data, so the caller may reuse
// data as soon as writeBounded returns. A non-positive timeout waits forever.
func writeBounded(w io.Writer, data []byte, timeout time.Duration, abort func()) (int, error) {
	if timeout <= 0 {
		return writeAll(w, data)
	}

	var written atomic.Int64
	buf := util.CloneSlice(data, 0)
	done := make(chan error, 1)

	go func() {
		_, err := writeAll(countingWriter{w: w, n: &written}, buf)
		done <- err
	}()

	timer := pool.GetTimer(timeout)
	defer pool.PutTimer(timer)

	select {
	case err := <-done:
		return int(written.Load()), err
	case <-timer.C:
		abort()
		n := int(written.Load())
		return n, fmt.Errorf("%w: write stalled after %d of %d bytes", ErrTimeout, n, len(data))
	}
}

// pollRead fills buf from a reader whose Read returns after a fixed poll
// interval with (0, nil) or (0, io.EOF) when no data arrived. Reading
// continues until buf is full or the deadline passes.
func pollRead(r io.Reader, buf []byte, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	read := 0

	for read < len(buf) {
		n, err := r.Read(buf[read:])
		read += n

		if err != nil && !errors.Is(err, io.EOF) {
			return read, err
		}
		if n == 0 && !time.Now().Before(deadline) {
			break
		}
	}

	return finishRead(read)
}

// finishRead maps a timed out read to the Port contract.
func finishRead(n int) (int, error) {
	if n == 0 {
		return 0, ErrTimeout
	}
	return n, nil
}

// isTimeout reports whether err is a deadline expiry.
func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
