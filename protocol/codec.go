package protocol

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderSize is the size of a command block header.
	HeaderSize = 8
	// StatusSize is the size of a status block.
	StatusSize = 4
	// WordSize is the bus word width in bytes.
	WordSize = 4
	// MaxPayloadWords is the largest word count a header can carry.
	MaxPayloadWords = 255
	// MaxPayloadSize is the largest payload of a single command, in bytes.
	MaxPayloadSize = MaxPayloadWords * WordSize
	// DrainSize is the length of the drain filler pattern.
	DrainSize = 256
)

// Header is the decoded form of a command block header.
type Header struct {
	Cmd   CommandID
	Words uint8
	Seq   uint16
	Addr  uint32
}

// PayloadSize returns the number of payload bytes announced by the header.
func (h Header) PayloadSize() int {
	return int(h.Words) * WordSize
}

// WireSize returns the number of bytes the command occupies on the wire,
// header included.
func (h Header) WireSize() int {
	if h.Cmd.HasPayload() {
		return HeaderSize + h.PayloadSize()
	}
	return HeaderSize
}

// Append appends the encoded header to dst.
func (h Header) Append(dst []byte) []byte {
	dst = append(dst, byte(h.Cmd), h.Words)
	dst = binary.LittleEndian.AppendUint16(dst, h.Seq)
	return binary.LittleEndian.AppendUint32(dst, h.Addr)
}

// ParseHeader decodes the first HeaderSize bytes of b.
func ParseHeader(b []byte) Header {
	_ = b[HeaderSize-1]
	return Header{
		Cmd:   CommandID(b[0]),
		Words: b[1],
		Seq:   binary.LittleEndian.Uint16(b[2:4]),
		Addr:  binary.LittleEndian.Uint32(b[4:8]),
	}
}

// PaddedLen rounds n up to the next multiple of WordSize.
func PaddedLen(n int) int {
	return (n + WordSize - 1) &^ (WordSize - 1)
}

// CommandSize returns the encoded size of a command carrying n payload bytes.
func CommandSize(n int) int {
	return HeaderSize + PaddedLen(n)
}

// AppendCommand appends a command block to dst and returns the extended
// slice.
//
// length is the logical transfer size in bytes; the header records it
// rounded up to whole words. payload is copied after the header and padded
// with zeros to the word boundary; pass nil for requests that only announce
// a size (READ, GPIO_RD), in which case only the header is appended.
//
// A length above MaxPayloadSize cannot be expressed on the wire and panics:
// the chunking logic must never produce one.
func AppendCommand(dst []byte, cmd CommandID, seq uint16, addr uint32, length int, payload []byte) []byte {
	padded := PaddedLen(length)
	if padded/WordSize > MaxPayloadWords {
		panic(fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, length))
	}

	dst = Header{Cmd: cmd, Words: uint8(padded / WordSize), Seq: seq, Addr: addr}.Append(dst) //nolint:gosec // bounded above

	if payload == nil || length == 0 {
		return dst
	}

	dst = append(dst, payload[:length]...)
	for i := length; i < padded; i++ {
		dst = append(dst, 0)
	}

	return dst
}

// Status is the decoded form of a status block.
type Status struct {
	Seq  uint16
	Code uint16
}

// ParseStatus decodes the first StatusSize bytes of b.
func ParseStatus(b []byte) Status {
	_ = b[StatusSize-1]
	return Status{
		Seq:  binary.LittleEndian.Uint16(b[0:2]),
		Code: binary.LittleEndian.Uint16(b[2:4]),
	}
}

// Append appends the encoded status block to dst.
func (s Status) Append(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint16(dst, s.Seq)
	return binary.LittleEndian.AppendUint16(dst, s.Code)
}

// DrainPattern returns the filler sent to resynchronise the gateware's
// command parser: DrainSize bytes, each equal to the DRAIN id.
func DrainPattern() []byte {
	buf := make([]byte, DrainSize)
	for i := range buf {
		buf[i] = byte(CmdDrain)
	}
	return buf
}

// LaneShift returns the bit shift that moves a value into the byte lane
// selected by the low address bits.
func LaneShift(addr uint32) uint {
	return 8 * uint(addr&(WordSize-1))
}
