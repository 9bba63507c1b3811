package sim

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ultraembedded/core-ft60x-axi/internal/util"
	"github.com/ultraembedded/core-ft60x-axi/logger"
	"github.com/ultraembedded/core-ft60x-axi/protocol"
)

// Status codes returned by the simulated gateware.
const (
	StatusOK             uint16 = 0x0000
	StatusUnknownCommand uint16 = 0x0001
)

// Target is a simulated bridge: bus memory plus a GPIO register.
// It is safe for concurrent use by several sessions.
type Target struct {
	// mem maps word aligned bus addresses to their contents; absent words
	// read as zero.
	mem  *xsync.MapOf[uint32, uint32]
	gpio atomic.Uint32

	logger       logger.Logger
	responseHook func([]byte) []byte

	cmdCount atomic.Uint64
}

// Option configures a Target.
type Option func(*Target)

// WithLogger sets the target's logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Target) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithResponseHook installs fn to rewrite every response before it is
// handed to the host. It is used to inject faults such as corrupted
// payloads or wrong sequence numbers. fn receives a private copy.
func WithResponseHook(fn func([]byte) []byte) Option {
	return func(t *Target) {
		t.responseHook = fn
	}
}

// NewTarget creates a target with empty memory.
func NewTarget(opts ...Option) *Target {
	t := &Target{
		mem:    xsync.NewMapOf[uint32, uint32](),
		logger: logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// ReadWord returns the bus word containing addr.
func (t *Target) ReadWord(addr uint32) uint32 {
	v, _ := t.mem.Load(addr &^ 3)
	return v
}

// WriteWord stores v at the word containing addr.
func (t *Target) WriteWord(addr uint32, v uint32) {
	t.mem.Store(addr&^3, v)
}

// writeLanes merges the bytes of v selected by mask into the word at addr.
func (t *Target) writeLanes(addr uint32, v uint32, mask uint32) {
	t.mem.Compute(addr&^3, func(old uint32, _ bool) (uint32, bool) {
		return (old &^ mask) | (v & mask), false
	})
}

// ReadBytes copies n bytes of bus memory starting at addr.
func (t *Target) ReadBytes(addr uint32, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		a := addr + uint32(i) //nolint:gosec // test helper, wraps like the bus
		out[i] = byte(t.ReadWord(a) >> protocol.LaneShift(a))
	}

	return out
}

// LoadBytes writes data into bus memory at addr, byte by byte.
func (t *Target) LoadBytes(addr uint32, data []byte) {
	for i, b := range data {
		a := addr + uint32(i) //nolint:gosec // test helper, wraps like the bus
		shift := protocol.LaneShift(a)
		t.writeLanes(a, uint32(b)<<shift, 0xFF<<shift)
	}
}

// GPIO returns the GPIO output register.
func (t *Target) GPIO() uint32 {
	return t.gpio.Load()
}

// SetGPIO sets the GPIO register as if driven by the host.
func (t *Target) SetGPIO(v uint32) {
	t.gpio.Store(v)
}

// WordCount returns the number of bus words ever written.
func (t *Target) WordCount() int {
	return t.mem.Size()
}

// CommandCount returns the number of command blocks executed.
func (t *Target) CommandCount() uint64 {
	return t.cmdCount.Load()
}

// execute runs one decoded command and appends its response to out.
func (t *Target) execute(h protocol.Header, payload []byte, out []byte) []byte {
	t.cmdCount.Add(1)
	start := len(out)

	switch h.Cmd {
	case protocol.CmdEcho:
		out = append(out, payload...)

	case protocol.CmdRead:
		for i := 0; i < int(h.Words); i++ {
			out = binary.LittleEndian.AppendUint32(out, t.ReadWord(h.Addr+uint32(i*protocol.WordSize))) //nolint:gosec // at most 255 words
		}

	case protocol.CmdWrite8, protocol.CmdWrite8NP:
		if len(payload) >= protocol.WordSize {
			t.writeLanes(h.Addr, binary.LittleEndian.Uint32(payload), 0xFF<<protocol.LaneShift(h.Addr))
		}

	case protocol.CmdWrite16, protocol.CmdWrite16NP:
		if len(payload) >= protocol.WordSize {
			t.writeLanes(h.Addr, binary.LittleEndian.Uint32(payload), 0xFFFF<<protocol.LaneShift(h.Addr&^1))
		}

	case protocol.CmdWrite, protocol.CmdWriteNP:
		for i := 0; i+protocol.WordSize <= len(payload); i += protocol.WordSize {
			t.WriteWord(h.Addr+uint32(i), binary.LittleEndian.Uint32(payload[i:])) //nolint:gosec // at most 1020
		}

	case protocol.CmdGPIOWrite:
		if len(payload) >= protocol.WordSize {
			t.gpio.Store(binary.LittleEndian.Uint32(payload))
		}

	case protocol.CmdGPIORead:
		out = binary.LittleEndian.AppendUint32(out, t.gpio.Load())
		for i := 1; i < int(h.Words); i++ {
			out = binary.LittleEndian.AppendUint32(out, 0)
		}

	default:
		t.logger.Warn("sim: unknown command", "cmd", h.Cmd.String(), "seq", h.Seq)
		return protocol.Status{Seq: h.Seq, Code: StatusUnknownCommand}.Append(out)
	}

	if h.Cmd.Posted() {
		return out
	}

	out = protocol.Status{Seq: h.Seq, Code: StatusOK}.Append(out)
	if t.responseHook != nil {
		resp := t.responseHook(util.CloneSlice(out[start:], 0))
		out = append(out[:start], resp...)
	}

	return out
}
