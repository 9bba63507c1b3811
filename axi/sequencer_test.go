package axi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraembedded/core-ft60x-axi/protocol"
)

func TestSequencer_StartsAtOne(t *testing.T) {
	s := NewSequencer()
	assert.Equal(t, uint16(1), s.Peek())
	assert.Equal(t, uint16(1), s.Next())
	assert.Equal(t, uint16(2), s.Next())
	assert.Equal(t, uint16(3), s.Peek())
}

func TestSequencer_ZeroValue(t *testing.T) {
	var s Sequencer
	assert.Equal(t, uint16(1), s.Peek())
	assert.Equal(t, uint16(1), s.Next())
	assert.Equal(t, uint16(2), s.Peek())
}

func TestSequencer_Wraps(t *testing.T) {
	s := Sequencer{last: 0xFFFE}
	assert.Equal(t, uint16(0xFFFF), s.Next())
	assert.Equal(t, uint16(0), s.Next())
	assert.Equal(t, uint16(1), s.Next())
}

func TestSequencer_Verify(t *testing.T) {
	s := NewSequencer()

	require.NoError(t, s.Verify(protocol.Status{Seq: 7}, 7))
	require.NoError(t, s.Verify(protocol.Status{Seq: 7, Code: 3}, 7))

	err := s.Verify(protocol.Status{Seq: 8}, 7)
	require.ErrorIs(t, err, ErrSequenceMismatch)
	assert.Contains(t, err.Error(), "got 0x0008, want 0x0007")
}
