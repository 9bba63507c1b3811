package protocol

import "fmt"

// CommandID identifies a bridge command.
type CommandID uint8

// Command identifiers. The _NP suffix marks non-posted (acknowledged)
// writes, the bare write ids are posted.
const (
	CmdEcho      CommandID = 0x01
	CmdDrain     CommandID = 0x02
	CmdRead      CommandID = 0x10
	CmdWrite8NP  CommandID = 0x20
	CmdWrite16NP CommandID = 0x21
	CmdWriteNP   CommandID = 0x22
	CmdWrite8    CommandID = 0x30
	CmdWrite16   CommandID = 0x31
	CmdWrite     CommandID = 0x32
	CmdGPIOWrite CommandID = 0x40
	CmdGPIORead  CommandID = 0x41
)

var cmdNames = map[CommandID]string{
	CmdEcho:      "ECHO",
	CmdDrain:     "DRAIN",
	CmdRead:      "READ",
	CmdWrite8NP:  "WRITE8_NP",
	CmdWrite16NP: "WRITE16_NP",
	CmdWriteNP:   "WRITE_NP",
	CmdWrite8:    "WRITE8",
	CmdWrite16:   "WRITE16",
	CmdWrite:     "WRITE",
	CmdGPIOWrite: "GPIO_WR",
	CmdGPIORead:  "GPIO_RD",
}

// String returns the mnemonic of the command, or its hex value when unknown.
func (c CommandID) String() string {
	if name, ok := cmdNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CMD(0x%02x)", uint8(c))
}

// Valid reports whether c is a known command id.
func (c CommandID) Valid() bool {
	_, ok := cmdNames[c]
	return ok
}

// IsWrite reports whether c is one of the bus write commands.
func (c CommandID) IsWrite() bool {
	switch c {
	case CmdWrite8, CmdWrite16, CmdWrite, CmdWrite8NP, CmdWrite16NP, CmdWriteNP:
		return true
	default:
		return false
	}
}

// Posted reports whether c expects no response.
func (c CommandID) Posted() bool {
	return c == CmdWrite8 || c == CmdWrite16 || c == CmdWrite
}

// HasPayload reports whether a command of this kind carries its payload on
// the wire. READ and GPIO_RD only announce the response size.
func (c CommandID) HasPayload() bool {
	return c.IsWrite() || c == CmdEcho || c == CmdGPIOWrite
}

// HasResponseData reports whether the response to c carries a payload in
// front of the status block.
func (c CommandID) HasResponseData() bool {
	return c == CmdEcho || c == CmdRead || c == CmdGPIORead
}

// WriteCommand returns the 32-bit write command, acknowledged or posted.
func WriteCommand(posted bool) CommandID {
	if posted {
		return CmdWrite
	}
	return CmdWriteNP
}

// Write8Command returns the byte write command, acknowledged or posted.
func Write8Command(posted bool) CommandID {
	if posted {
		return CmdWrite8
	}
	return CmdWrite8NP
}

// Write16Command returns the halfword write command, acknowledged or posted.
func Write16Command(posted bool) CommandID {
	if posted {
		return CmdWrite16
	}
	return CmdWrite16NP
}
