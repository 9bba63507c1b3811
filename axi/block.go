package axi

import (
	"errors"
	"fmt"

	"github.com/ultraembedded/core-ft60x-axi/internal/util"
	"github.com/ultraembedded/core-ft60x-axi/protocol"
	"github.com/ultraembedded/core-ft60x-axi/transport"
)

// chunkSize returns the size of the next body chunk for remaining bytes.
func (d *Driver) chunkSize(remaining int) int {
	if remaining < d.cfg.maxChunkSize {
		return remaining &^ (protocol.WordSize - 1)
	}
	return d.cfg.maxChunkSize
}

// lastOfRound reports whether a chunk closes its round, given the bytes
// left after it and the number of chunks already queued before it.
func (d *Driver) lastOfRound(remainingAfter, queued, depth int) bool {
	return remainingAfter < d.cfg.maxChunkSize || queued >= depth-1
}

// Write writes data to the bus at addr. Any address and length are
// accepted; a zero length write is a no-op.
//
// Unaligned head and tail bytes are posted byte writes. The aligned body
// is written in rounds, each closed by an acknowledged chunk whose status
// is awaited before the next round starts.
func (d *Driver) Write(addr uint32, data []byte) error {
	for addr&3 != 0 && len(data) > 0 {
		if err := d.write8(addr, data[0], true); err != nil {
			return err
		}
		addr++
		data = data[1:]
	}

	buf := d.writeBuf[:0]
	queued := 0

	for len(data) >= protocol.WordSize {
		size := d.chunkSize(len(data))
		last := d.lastOfRound(len(data)-size, queued, d.cfg.maxWriteChunks)

		seq := d.seq.Next()
		d.metrics.incCommandCount()
		buf = protocol.AppendCommand(buf, protocol.WriteCommand(!last), seq, addr, size, data[:size])

		addr += uint32(size) //nolint:gosec // size <= MaxChunkSize
		data = data[size:]
		queued++

		if last {
			if err := d.flushWriteRound(buf, seq, queued); err != nil {
				return err
			}
			buf = d.writeBuf[:0]
			queued = 0
		}
	}

	for len(data) > 0 {
		if err := d.write8(addr, data[0], true); err != nil {
			return err
		}
		addr++
		data = data[1:]
	}

	return nil
}

// flushWriteRound sends a staged write round and waits for the status of
// its closing chunk.
func (d *Driver) flushWriteRound(buf []byte, seq uint16, chunks int) error {
	d.metrics.incRoundCount()

	if err := d.send(buf); err != nil {
		return err
	}

	if _, err := d.recvResponse(seq, 0); err != nil {
		d.logger.Error("axi: write round failed", "seq", seq, "chunks", chunks, "error", err)
		return err
	}

	d.logger.Debug("axi: write round done", "seq", seq, "chunks", chunks, "bytes", len(buf))

	return nil
}

// Read fills dst from the bus starting at addr. Any address and length
// are accepted; a zero length read is a no-op. On error dst is zeroed, so
// a failed read never hands out payload.
func (d *Driver) Read(addr uint32, dst []byte) error {
	if err := d.read(addr, dst); err != nil {
		clear(dst)
		return err
	}

	return nil
}

func (d *Driver) read(addr uint32, dst []byte) error {
	if off := addr & 3; off != 0 && len(dst) > 0 {
		word, err := d.Read32(addr &^ 3)
		if err != nil {
			return err
		}

		n := min(protocol.WordSize-int(off), len(dst))
		for i := 0; i < n; i++ {
			dst[i] = byte(word >> protocol.LaneShift(addr+uint32(i))) //nolint:gosec // i < 4
		}
		addr += uint32(n) //nolint:gosec // n < 4
		dst = dst[n:]
	}

	cmds := d.writeBuf[:0]
	d.chunks = d.chunks[:0]
	queued := 0 // bytes of dst covered by queued chunks

	for len(dst)-queued >= protocol.WordSize {
		remaining := len(dst) - queued
		size := d.chunkSize(remaining)
		last := d.lastOfRound(remaining-size, len(d.chunks), d.cfg.maxReadChunks)

		seq := d.seq.Next()
		d.metrics.incCommandCount()
		cmds = protocol.AppendCommand(cmds, protocol.CmdRead, seq, addr, size, nil)
		d.chunks = append(d.chunks, readChunk{seq: seq, size: size})

		addr += uint32(size) //nolint:gosec // size <= MaxChunkSize
		queued += size

		if last {
			if err := d.readRound(cmds, dst[:queued]); err != nil {
				return err
			}
			dst = dst[queued:]
			queued = 0
			cmds = d.writeBuf[:0]
			d.chunks = d.chunks[:0]
		}
	}

	if len(dst) > 0 {
		word, err := d.Read32(addr)
		if err != nil {
			return err
		}
		for i := range dst {
			dst[i] = byte(word >> (8 * uint(i)))
		}
	}

	return nil
}

// readRound sends the queued READ commands of a round and scatters the
// returned payloads into dst.
func (d *Driver) readRound(cmds []byte, dst []byte) error {
	d.metrics.incRoundCount()

	if err := d.send(cmds); err != nil {
		return err
	}

	expected := len(dst) + len(d.chunks)*protocol.StatusSize
	buf := d.readBuf[:expected]

	n, err := d.recv(buf)
	if err != nil && !errors.Is(err, transport.ErrTimeout) {
		d.metrics.incTransportErrCount()
		return err
	}

	if n < expected {
		// the bridge may split a large response; allow exactly one more read
		d.logger.Warn("axi: short read, retrying", "got", n, "expected", expected)

		m, err := d.recv(buf[n:])
		if err != nil && !errors.Is(err, transport.ErrTimeout) {
			d.metrics.incTransportErrCount()
			return err
		}
		if m != expected-n {
			d.metrics.incTransportErrCount()
			d.logger.Error("axi: data underflow", "got", n+m, "expected", expected)
			return fmt.Errorf("%w: %w: got %d of %d bytes", ErrTransport, ErrShortRead, n+m, expected)
		}
		d.metrics.incShortReadRecoveryCount()
	}

	// each chunk's payload is followed by its own status block; the last
	// one is always checked
	p := 0
	for i, c := range d.chunks {
		p += c.size
		if d.cfg.chunkStatusCheck || i == len(d.chunks)-1 {
			if err := d.verifyStatus(protocol.ParseStatus(buf[p:]), c.seq); err != nil {
				return err
			}
		}
		p += protocol.StatusSize
	}

	p, out := 0, 0
	for _, c := range d.chunks {
		copy(dst[out:out+c.size], buf[p:p+c.size])
		out += c.size
		p += c.size + protocol.StatusSize
	}

	d.logger.Debug("axi: read round done", "chunks", len(d.chunks), "bytes", expected)

	return nil
}

// Verify reads len(expected) bytes at addr and compares them with
// expected. The first differing byte is reported as *MismatchError with
// Index relative to addr.
func (d *Driver) Verify(addr uint32, expected []byte) error {
	actual := make([]byte, len(expected))
	if err := d.Read(addr, actual); err != nil {
		return err
	}

	if i := util.FirstMismatch(expected, actual); i >= 0 {
		return &MismatchError{Index: i, Expected: expected[i], Actual: actual[i]}
	}

	return nil
}
