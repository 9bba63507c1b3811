package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendCommand_Layout(t *testing.T) {
	buf := AppendCommand(nil, CmdWriteNP, 0x1234, 0xA0B0C0D0, 4, []byte{0x11, 0x22, 0x33, 0x44})

	expected := []byte{
		0x22,       // cmd
		0x01,       // words
		0x34, 0x12, // seq
		0xD0, 0xC0, 0xB0, 0xA0, // addr
		0x11, 0x22, 0x33, 0x44,
	}
	assert.Equal(t, expected, buf)
}

func TestAppendCommand_Padding(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		words   byte
		wireLen int
	}{
		{"empty", 0, 0, 8},
		{"one byte", 1, 1, 12},
		{"three bytes", 3, 1, 12},
		{"one word", 4, 1, 12},
		{"five bytes", 5, 2, 16},
		{"max", MaxPayloadSize, 255, 8 + MaxPayloadSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := make([]byte, tt.length)
			for i := range payload {
				payload[i] = 0xFF
			}

			buf := AppendCommand(nil, CmdEcho, 1, 0, tt.length, payload)
			require.Len(t, buf, tt.wireLen)
			assert.Equal(t, tt.words, buf[1])
			assert.Equal(t, tt.wireLen, CommandSize(tt.length))

			for i := HeaderSize + tt.length; i < len(buf); i++ {
				assert.Equal(t, byte(0), buf[i], "padding byte %d should be zero", i)
			}
		})
	}
}

func TestAppendCommand_SizeOnly(t *testing.T) {
	buf := AppendCommand(nil, CmdRead, 7, 0x1000, 512, nil)
	require.Len(t, buf, HeaderSize)

	h := ParseHeader(buf)
	assert.Equal(t, CmdRead, h.Cmd)
	assert.Equal(t, uint8(128), h.Words)
	assert.Equal(t, 512, h.PayloadSize())
	assert.Equal(t, HeaderSize, h.WireSize())
}

func TestAppendCommand_AppendsToExisting(t *testing.T) {
	buf := make([]byte, 0, 64)
	buf = AppendCommand(buf, CmdWrite, 1, 0x0, 4, []byte{1, 2, 3, 4})
	buf = AppendCommand(buf, CmdWriteNP, 2, 0x4, 4, []byte{5, 6, 7, 8})
	require.Len(t, buf, 24)

	first := ParseHeader(buf)
	second := ParseHeader(buf[12:])
	assert.Equal(t, CmdWrite, first.Cmd)
	assert.Equal(t, uint16(1), first.Seq)
	assert.Equal(t, CmdWriteNP, second.Cmd)
	assert.Equal(t, uint16(2), second.Seq)
	assert.Equal(t, uint32(4), second.Addr)
}

func TestAppendCommand_TooLarge(t *testing.T) {
	assert.PanicsWithError(t, "protocol: payload exceeds 255 words: 1021 bytes", func() {
		AppendCommand(nil, CmdWrite, 1, 0, MaxPayloadSize+1, nil)
	})
}

func TestHeader_RoundTrip(t *testing.T) {
	h := Header{Cmd: CmdGPIOWrite, Words: 1, Seq: 0xFFFF, Addr: 0xDEADBEEF}
	buf := h.Append(nil)
	require.Len(t, buf, HeaderSize)
	assert.Equal(t, h, ParseHeader(buf))
	assert.Equal(t, HeaderSize+4, h.WireSize())
}

func TestStatus(t *testing.T) {
	buf := Status{Seq: 0x0102, Code: 0x0304}.Append(nil)
	assert.Equal(t, []byte{0x02, 0x01, 0x04, 0x03}, buf)

	st := ParseStatus([]byte{0xCD, 0xAB, 0x00, 0x00, 0xFF})
	assert.Equal(t, uint16(0xABCD), st.Seq)
	assert.Equal(t, uint16(0), st.Code)
}

func TestDrainPattern(t *testing.T) {
	p := DrainPattern()
	require.Len(t, p, DrainSize)
	for _, b := range p {
		assert.Equal(t, byte(CmdDrain), b)
	}
}

func TestPaddedLen(t *testing.T) {
	assert.Equal(t, 0, PaddedLen(0))
	assert.Equal(t, 4, PaddedLen(1))
	assert.Equal(t, 4, PaddedLen(4))
	assert.Equal(t, 8, PaddedLen(5))
	assert.Equal(t, 1020, PaddedLen(1017))
}

func TestLaneShift(t *testing.T) {
	assert.Equal(t, uint(0), LaneShift(0x1000))
	assert.Equal(t, uint(8), LaneShift(0x1001))
	assert.Equal(t, uint(16), LaneShift(0x1002))
	assert.Equal(t, uint(24), LaneShift(0x1003))
}
