package axi

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/internal/util"
	"github.com/ultraembedded/core-ft60x-axi/logger"
	"github.com/ultraembedded/core-ft60x-axi/protocol"
	"github.com/ultraembedded/core-ft60x-axi/transport"
)

// Driver is an AXI bus master behind a byte-stream bridge.
//
// Driver is NOT goroutine-safe; see the package documentation.
type Driver struct {
	port   transport.Port
	cfg    *DriverConfig
	logger logger.Logger
	seq    Sequencer

	// cmdBuf stages single commands, respBuf receives their responses.
	cmdBuf  []byte
	respBuf []byte

	// writeBuf stages the commands of one round, readBuf receives the
	// responses of one read round.
	writeBuf []byte
	readBuf  []byte

	// chunks describes the read chunks of the round being assembled.
	chunks []readChunk

	metrics DriverMetrics
}

// readChunk is one queued READ command of a read round.
type readChunk struct {
	seq  uint16
	size int
}

// New creates a driver on an already opened port.
func New(port transport.Port, cfg *DriverConfig) (*Driver, error) {
	if port == nil {
		return nil, ErrPortNil
	}
	if cfg == nil {
		return nil, ErrConfigNil
	}

	maxRound := max(cfg.maxWriteChunks, cfg.maxReadChunks)

	return &Driver{
		port:     port,
		cfg:      cfg,
		logger:   cfg.logger,
		seq:      NewSequencer(),
		cmdBuf:   make([]byte, 0, protocol.CommandSize(protocol.MaxPayloadSize)),
		respBuf:  make([]byte, protocol.MaxPayloadSize+protocol.StatusSize),
		writeBuf: make([]byte, 0, maxRound*protocol.CommandSize(cfg.maxChunkSize)),
		readBuf:  make([]byte, cfg.maxReadChunks*(cfg.maxChunkSize+protocol.StatusSize)),
		chunks:   make([]readChunk, 0, cfg.maxReadChunks),
	}, nil
}

// Open opens port, drains the target's command parser and waits for it to
// settle, returning a driver ready for traffic.
func Open(port transport.Port, cfg *DriverConfig) (*Driver, error) {
	d, err := New(port, cfg)
	if err != nil {
		return nil, err
	}

	if err := port.Open(); err != nil {
		return nil, fmt.Errorf("axi: open port: %w", err)
	}

	d.Drain(cfg.drainTimeout)
	if cfg.settleDelay > 0 {
		port.Sleep(cfg.settleDelay)
	}

	d.logger.Debug("axi: driver ready", "seq", d.seq.Peek())

	return d, nil
}

// Close closes the underlying port.
func (d *Driver) Close() error {
	return d.port.Close()
}

// Config returns the driver configuration.
func (d *Driver) Config() *DriverConfig {
	return d.cfg
}

// Metrics returns the driver's counters.
func (d *Driver) Metrics() *DriverMetrics {
	return &d.metrics
}

// NextSeq returns the sequence number the next command will carry.
func (d *Driver) NextSeq() uint16 {
	return d.seq.Peek()
}

// --- transport helpers ---

// send writes buf in one transport call.
func (d *Driver) send(buf []byte) error {
	n, err := d.port.Write(buf, d.cfg.timeout)
	if n > 0 {
		d.metrics.addTxBytes(n)
	}
	if err != nil {
		d.metrics.incTransportErrCount()
		return fmt.Errorf("%w: write %d bytes: %w", ErrTransport, len(buf), err)
	}
	if n != len(buf) {
		d.metrics.incTransportErrCount()
		return fmt.Errorf("%w: %w: sent %d of %d bytes", ErrTransport, ErrShortWrite, n, len(buf))
	}

	return nil
}

// recv reads into buf in one transport call. Callers count the failure
// once they decide it is not recoverable.
func (d *Driver) recv(buf []byte) (int, error) {
	n, err := d.port.Read(buf, d.cfg.timeout)
	if n > 0 {
		d.metrics.addRxBytes(n)
	}
	if err != nil {
		return n, fmt.Errorf("%w: read %d bytes: %w", ErrTransport, len(buf), err)
	}

	return n, nil
}

// verifyStatus checks st against the expected sequence number.
func (d *Driver) verifyStatus(st protocol.Status, expected uint16) error {
	if err := d.seq.Verify(st, expected); err != nil {
		d.metrics.incSeqMismatchCount()
		d.logger.Error("axi: sequence mismatch", "got", st.Seq, "expected", expected)
		return err
	}
	if st.Code != 0 {
		d.logger.Debug("axi: non-zero status", "seq", st.Seq, "status", st.Code)
	}

	return nil
}

// sendCommand encodes a single command with a fresh sequence number and
// writes it. The sequence number is consumed even when the write fails.
func (d *Driver) sendCommand(cmd protocol.CommandID, addr uint32, length int, payload []byte) (uint16, error) {
	seq := d.seq.Next()
	d.metrics.incCommandCount()
	d.cmdBuf = protocol.AppendCommand(d.cmdBuf[:0], cmd, seq, addr, length, payload)

	if err := d.send(d.cmdBuf); err != nil {
		d.logger.Debug("axi: send command failed", "cmd", cmd.String(), "seq", seq, "addr", addr, "error", err)
		return seq, err
	}

	return seq, nil
}

// recvResponse reads a response of length payload bytes (word padded on
// the wire) plus its status block, and checks the status against seq.
// The returned payload aliases the driver's response buffer.
func (d *Driver) recvResponse(seq uint16, length int) ([]byte, error) {
	padded := protocol.PaddedLen(length)
	buf := d.respBuf[:padded+protocol.StatusSize]

	n, err := d.recv(buf)
	if err != nil {
		d.metrics.incTransportErrCount()
		return nil, err
	}
	if n != len(buf) {
		d.metrics.incTransportErrCount()
		return nil, fmt.Errorf("%w: %w: got %d of %d bytes for seq 0x%04x", ErrTransport, ErrShortRead, n, len(buf), seq)
	}

	if err := d.verifyStatus(protocol.ParseStatus(buf[padded:]), seq); err != nil {
		return nil, err
	}

	return buf[:length], nil
}

// command sends one command and, unless it is posted, waits for its
// response carrying respLen payload bytes.
func (d *Driver) command(cmd protocol.CommandID, addr uint32, length int, payload []byte, respLen int) ([]byte, error) {
	seq, err := d.sendCommand(cmd, addr, length, payload)
	if err != nil {
		return nil, err
	}
	if cmd.Posted() {
		return nil, nil
	}

	return d.recvResponse(seq, respLen)
}

// --- simple operations ---

// Drain sends the drain filler pattern so the target's command parser
// skips any partial command left from a previous session. The result is
// not checked; failures are only logged.
func (d *Driver) Drain(timeout time.Duration) {
	pattern := protocol.DrainPattern()
	n, err := d.port.Write(pattern, timeout)
	if n > 0 {
		d.metrics.addTxBytes(n)
	}
	if err != nil || n != len(pattern) {
		d.logger.Debug("axi: drain incomplete", "sent", n, "error", err)
	}
}

// Echo sends data as an echo command and checks that the target returns
// it unchanged. A differing byte is reported as *MismatchError.
func (d *Driver) Echo(data []byte) error {
	if len(data) > protocol.MaxPayloadSize {
		return fmt.Errorf("%w: echo of %d bytes", ErrPayloadTooLarge, len(data))
	}

	resp, err := d.command(protocol.CmdEcho, 0, len(data), data, len(data))
	if err != nil {
		return err
	}

	if i := util.FirstMismatch(data, resp); i >= 0 {
		d.logger.Error("axi: echo mismatch", "index", i, "got", resp[i], "expected", data[i])
		return &MismatchError{Index: i, Expected: data[i], Actual: resp[i]}
	}

	return nil
}

func (d *Driver) write8(addr uint32, v uint8, posted bool) error {
	var payload [protocol.WordSize]byte
	binary.LittleEndian.PutUint32(payload[:], uint32(v)<<protocol.LaneShift(addr))
	_, err := d.command(protocol.Write8Command(posted), addr, protocol.WordSize, payload[:], 0)

	return err
}

func (d *Driver) write16(addr uint32, v uint16, posted bool) error {
	var payload [protocol.WordSize]byte
	binary.LittleEndian.PutUint32(payload[:], uint32(v)<<protocol.LaneShift(addr&^1))
	_, err := d.command(protocol.Write16Command(posted), addr, protocol.WordSize, payload[:], 0)

	return err
}

func (d *Driver) write32(addr uint32, v uint32, posted bool) error {
	var payload [protocol.WordSize]byte
	binary.LittleEndian.PutUint32(payload[:], v)
	_, err := d.command(protocol.WriteCommand(posted), addr, protocol.WordSize, payload[:], 0)

	return err
}

// Write8 writes one byte and waits for the acknowledgment. The byte is
// placed in its lane of the containing word; the target strobes only that
// lane.
func (d *Driver) Write8(addr uint32, v uint8) error {
	return d.write8(addr, v, false)
}

// PostWrite8 writes one byte without waiting for an acknowledgment.
func (d *Driver) PostWrite8(addr uint32, v uint8) error {
	return d.write8(addr, v, true)
}

// Write16 writes a halfword at a 2-byte aligned address and waits for the
// acknowledgment.
func (d *Driver) Write16(addr uint32, v uint16) error {
	return d.write16(addr, v, false)
}

// PostWrite16 writes a halfword without waiting for an acknowledgment.
func (d *Driver) PostWrite16(addr uint32, v uint16) error {
	return d.write16(addr, v, true)
}

// Write32 writes a word at a 4-byte aligned address and waits for the
// acknowledgment. The address is not checked.
func (d *Driver) Write32(addr uint32, v uint32) error {
	return d.write32(addr, v, false)
}

// PostWrite32 writes a word without waiting for an acknowledgment.
func (d *Driver) PostWrite32(addr uint32, v uint32) error {
	return d.write32(addr, v, true)
}

// Read32 reads the word at a 4-byte aligned address. The address is not
// checked.
func (d *Driver) Read32(addr uint32) (uint32, error) {
	resp, err := d.command(protocol.CmdRead, addr, protocol.WordSize, nil, protocol.WordSize)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(resp), nil
}

// GPIOWrite sets the bridge's GPIO output register.
func (d *Driver) GPIOWrite(v uint32) error {
	var payload [protocol.WordSize]byte
	binary.LittleEndian.PutUint32(payload[:], v)
	_, err := d.command(protocol.CmdGPIOWrite, 0, protocol.WordSize, payload[:], 0)

	return err
}

// GPIORead returns the bridge's GPIO register.
func (d *Driver) GPIORead() (uint32, error) {
	resp, err := d.command(protocol.CmdGPIORead, 0, protocol.WordSize, nil, protocol.WordSize)
	if err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(resp), nil
}
