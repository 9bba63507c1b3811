package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandID_String(t *testing.T) {
	assert.Equal(t, "ECHO", CmdEcho.String())
	assert.Equal(t, "WRITE_NP", CmdWriteNP.String())
	assert.Equal(t, "GPIO_RD", CmdGPIORead.String())
	assert.Equal(t, "CMD(0x7f)", CommandID(0x7F).String())
}

func TestCommandID_Classification(t *testing.T) {
	tests := []struct {
		cmd          CommandID
		write        bool
		posted       bool
		payload      bool
		responseData bool
	}{
		{CmdEcho, false, false, true, true},
		{CmdRead, false, false, false, true},
		{CmdWrite8NP, true, false, true, false},
		{CmdWrite16NP, true, false, true, false},
		{CmdWriteNP, true, false, true, false},
		{CmdWrite8, true, true, true, false},
		{CmdWrite16, true, true, true, false},
		{CmdWrite, true, true, true, false},
		{CmdGPIOWrite, false, false, true, false},
		{CmdGPIORead, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.String(), func(t *testing.T) {
			assert.True(t, tt.cmd.Valid())
			assert.Equal(t, tt.write, tt.cmd.IsWrite())
			assert.Equal(t, tt.posted, tt.cmd.Posted())
			assert.Equal(t, tt.payload, tt.cmd.HasPayload())
			assert.Equal(t, tt.responseData, tt.cmd.HasResponseData())
		})
	}

	assert.False(t, CommandID(0x00).Valid())
}

func TestWriteCommandSelectors(t *testing.T) {
	assert.Equal(t, CmdWrite, WriteCommand(true))
	assert.Equal(t, CmdWriteNP, WriteCommand(false))
	assert.Equal(t, CmdWrite8, Write8Command(true))
	assert.Equal(t, CmdWrite8NP, Write8Command(false))
	assert.Equal(t, CmdWrite16, Write16Command(true))
	assert.Equal(t, CmdWrite16NP, Write16Command(false))
}
