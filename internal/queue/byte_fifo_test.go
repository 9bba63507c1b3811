package queue

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteFIFO(t *testing.T) {
	var f ByteFIFO
	assert.Equal(t, 0, f.Len())
	assert.Empty(t, f.Next(4))

	f.Write([]byte{1, 2, 3})
	f.Write([]byte{4, 5})
	assert.Equal(t, 5, f.Len())
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, f.Bytes())

	assert.Equal(t, []byte{1, 2}, f.Next(2))
	f.Discard(1)
	assert.Equal(t, []byte{4, 5}, f.Next(10))
	assert.Equal(t, 0, f.Len())

	f.Write([]byte{6})
	assert.Equal(t, []byte{6}, f.Bytes())

	f.Reset()
	assert.Equal(t, 0, f.Len())
}

func TestByteFIFO_Compaction(t *testing.T) {
	var f ByteFIFO
	var want bytes.Buffer

	chunk := make([]byte, 1000)
	for i := range chunk {
		chunk[i] = byte(i)
	}

	// interleave writes and partial reads so the head moves past the
	// compaction threshold while data is still buffered
	for i := 0; i < 50; i++ {
		f.Write(chunk)
		want.Write(chunk)
		got := f.Next(900)
		require.Equal(t, want.Next(900), got)
	}

	assert.Equal(t, want.Len(), f.Len())
	assert.Equal(t, want.Bytes(), f.Bytes())
}
