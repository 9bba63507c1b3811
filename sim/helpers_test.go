package sim

import (
	"encoding/binary"

	"github.com/ultraembedded/core-ft60x-axi/protocol"
)

// encode builds one command block.
func encode(cmd protocol.CommandID, seq uint16, addr uint32, payload []byte) []byte {
	return protocol.AppendCommand(nil, cmd, seq, addr, len(payload), payload)
}

// encodeRead builds a READ of n bytes.
func encodeRead(seq uint16, addr uint32, n int) []byte {
	return protocol.AppendCommand(nil, protocol.CmdRead, seq, addr, n, nil)
}

func word(v uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, v)
}

func status(seq uint16, code uint16) []byte {
	return protocol.Status{Seq: seq, Code: code}.Append(nil)
}
