package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraembedded/core-ft60x-axi/protocol"
)

func TestSession_Echo(t *testing.T) {
	s := NewTarget().NewSession()

	resp := s.Feed(encode(protocol.CmdEcho, 1, 0, []byte{1, 2, 3, 4, 5}))
	want := append([]byte{1, 2, 3, 4, 5, 0, 0, 0}, status(1, StatusOK)...)
	assert.Equal(t, want, resp)
}

func TestSession_WriteRead(t *testing.T) {
	target := NewTarget()
	s := target.NewSession()

	payload := append(word(0x11111111), word(0x22222222)...)
	assert.Equal(t, status(5, StatusOK), s.Feed(encode(protocol.CmdWriteNP, 5, 0x100, payload)))
	assert.Empty(t, s.Feed(encode(protocol.CmdWrite, 6, 0x108, word(0x33333333))))

	resp := s.Feed(encodeRead(7, 0x100, 12))
	want := append(append(append(word(0x11111111), word(0x22222222)...), word(0x33333333)...), status(7, StatusOK)...)
	assert.Equal(t, want, resp)
	assert.Equal(t, uint64(3), target.CommandCount())
}

func TestSession_ByteLanes(t *testing.T) {
	target := NewTarget()
	s := target.NewSession()

	target.WriteWord(0x40, 0xFFFFFFFF)
	s.Feed(encode(protocol.CmdWrite8, 1, 0x41, word(0x0000AB00)))
	assert.Equal(t, uint32(0xFFFFABFF), target.ReadWord(0x40))

	s.Feed(encode(protocol.CmdWrite16, 2, 0x42, word(0x12340000)))
	assert.Equal(t, uint32(0x1234ABFF), target.ReadWord(0x40))

	// bytes outside the strobed lane are ignored
	s.Feed(encode(protocol.CmdWrite8NP, 3, 0x40, word(0xEEEEEE01)))
	assert.Equal(t, uint32(0x1234AB01), target.ReadWord(0x40))
}

func TestSession_GPIO(t *testing.T) {
	target := NewTarget()
	s := target.NewSession()

	assert.Equal(t, status(1, StatusOK), s.Feed(encode(protocol.CmdGPIOWrite, 1, 0, word(0x5A))))
	assert.Equal(t, uint32(0x5A), target.GPIO())

	resp := s.Feed(protocol.AppendCommand(nil, protocol.CmdGPIORead, 2, 0, 4, nil))
	assert.Equal(t, append(word(0x5A), status(2, StatusOK)...), resp)
}

func TestSession_PartialCommands(t *testing.T) {
	s := NewTarget().NewSession()
	cmd := encode(protocol.CmdEcho, 9, 0, []byte{1, 2, 3, 4, 5, 6, 7, 8})

	// header split, then payload split
	assert.Empty(t, s.Feed(cmd[:3]))
	assert.Equal(t, 3, s.Buffered())
	assert.Empty(t, s.Feed(cmd[3:10]))
	assert.Equal(t, 10, s.Buffered())

	resp := s.Feed(cmd[10:])
	assert.Equal(t, append([]byte{1, 2, 3, 4, 5, 6, 7, 8}, status(9, StatusOK)...), resp)
	assert.Equal(t, 0, s.Buffered())
}

func TestSession_MultipleCommands(t *testing.T) {
	s := NewTarget().NewSession()

	var stream []byte
	stream = append(stream, encode(protocol.CmdWrite, 1, 0, word(7))...)
	stream = append(stream, encode(protocol.CmdWrite, 2, 4, word(8))...)
	stream = append(stream, encodeRead(3, 0, 8)...)

	resp := s.Feed(stream)
	assert.Equal(t, append(append(word(7), word(8)...), status(3, StatusOK)...), resp)
}

func TestSession_Drain(t *testing.T) {
	s := NewTarget().NewSession()

	// filler bytes on a header boundary are skipped one at a time
	stream := append(protocol.DrainPattern(), encode(protocol.CmdEcho, 1, 0, word(0xCAFEF00D))...)
	resp := s.Feed(stream)

	assert.Equal(t, append(word(0xCAFEF00D), status(1, StatusOK)...), resp)
	assert.Equal(t, uint64(protocol.DrainSize), s.Drained())
	assert.Equal(t, 0, s.Buffered())
}

func TestSession_UnknownCommand(t *testing.T) {
	target := NewTarget()
	s := target.NewSession()

	hdr := protocol.Header{Cmd: protocol.CommandID(0x7F), Words: 2, Seq: 4}.Append(nil)
	resp := s.Feed(hdr)
	assert.Equal(t, status(4, StatusUnknownCommand), resp)

	// parsing continues with the next header
	resp = s.Feed(encodeRead(5, 0, 4))
	assert.Equal(t, append(word(0), status(5, StatusOK)...), resp)
}

func TestTarget_ResponseHook(t *testing.T) {
	var calls int
	target := NewTarget(WithResponseHook(func(resp []byte) []byte {
		calls++
		resp[0] = 0xFF
		return resp
	}))
	s := target.NewSession()

	resp := s.Feed(encode(protocol.CmdEcho, 1, 0, word(0)))
	assert.Equal(t, append([]byte{0xFF, 0, 0, 0}, status(1, StatusOK)...), resp)

	// posted commands produce nothing to rewrite
	s.Feed(encode(protocol.CmdWrite, 2, 0, word(1)))
	assert.Equal(t, 1, calls)
}

func TestTarget_Bytes(t *testing.T) {
	target := NewTarget()

	target.LoadBytes(0x101, []byte{0xAA, 0xBB, 0xCC, 0xDD})
	assert.Equal(t, uint32(0xCCBBAA00), target.ReadWord(0x100))
	assert.Equal(t, uint32(0x000000DD), target.ReadWord(0x104))
	assert.Equal(t, []byte{0, 0xAA, 0xBB, 0xCC, 0xDD, 0}, target.ReadBytes(0x100, 6))
	assert.Equal(t, 2, target.WordCount())

	require.Equal(t, uint32(0), target.ReadWord(0x9999))
}
