package sim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraembedded/core-ft60x-axi/protocol"
	"github.com/ultraembedded/core-ft60x-axi/transport"
)

func newOpenLoopback(t *testing.T, opts ...LoopbackOption) *Loopback {
	t.Helper()

	l := NewLoopback(NewTarget(), opts...)
	require.NoError(t, l.Open())
	t.Cleanup(func() { _ = l.Close() })

	return l
}

func TestLoopback_WriteRead(t *testing.T) {
	l := newOpenLoopback(t)

	cmd := encode(protocol.CmdEcho, 1, 0, word(0x01020304))
	n, err := l.Write(cmd, time.Second)
	require.NoError(t, err)
	assert.Equal(t, len(cmd), n)

	buf := make([]byte, 8)
	n, err = l.Read(buf, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, append(word(0x01020304), status(1, StatusOK)...), buf)
}

func TestLoopback_ReadAcrossSegments(t *testing.T) {
	l := newOpenLoopback(t)

	_, err := l.Write(encodeRead(1, 0, 4), time.Second)
	require.NoError(t, err)
	_, err = l.Write(encodeRead(2, 0, 4), time.Second)
	require.NoError(t, err)

	buf := make([]byte, 16)
	n, err := l.Read(buf, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	assert.Equal(t, status(2, StatusOK), buf[12:])
}

func TestLoopback_ReadPartial(t *testing.T) {
	l := newOpenLoopback(t)

	_, err := l.Write(encode(protocol.CmdWriteNP, 1, 0, word(0)), time.Second)
	require.NoError(t, err)

	// only the status block is pending; nothing else can arrive
	buf := make([]byte, 16)
	n, err := l.Read(buf, time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusSize, n)
}

func TestLoopback_ReadTimeout(t *testing.T) {
	l := newOpenLoopback(t)

	start := time.Now()
	n, err := l.Read(make([]byte, 4), time.Second)
	require.ErrorIs(t, err, transport.ErrTimeout)
	assert.Equal(t, 0, n)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestLoopback_Latency(t *testing.T) {
	l := newOpenLoopback(t, WithLatency(50*time.Millisecond))

	_, err := l.Write(encode(protocol.CmdWriteNP, 1, 0, word(0)), time.Second)
	require.NoError(t, err)

	buf := make([]byte, protocol.StatusSize)
	n, err := l.Read(buf, 5*time.Millisecond)
	require.ErrorIs(t, err, transport.ErrTimeout)
	assert.Equal(t, 0, n)

	n, err = l.Read(buf, time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.StatusSize, n)
	assert.Equal(t, status(1, StatusOK), buf)
}

func TestLoopback_NotOpen(t *testing.T) {
	l := NewLoopback(NewTarget())

	_, err := l.Write([]byte{0}, time.Second)
	require.ErrorIs(t, err, transport.ErrNotOpen)

	_, err = l.Read(make([]byte, 1), time.Second)
	require.ErrorIs(t, err, transport.ErrNotOpen)
}

func TestLoopback_ReopenDiscardsPending(t *testing.T) {
	l := newOpenLoopback(t)

	_, err := l.Write(encodeRead(1, 0, 4), time.Second)
	require.NoError(t, err)
	require.NoError(t, l.Close())
	require.NoError(t, l.Open())

	_, err = l.Read(make([]byte, 4), time.Second)
	require.ErrorIs(t, err, transport.ErrTimeout)
}

func TestLoopback_Sleep(t *testing.T) {
	var slept time.Duration
	l := NewLoopback(NewTarget(), WithSleep(func(d time.Duration) { slept += d }))

	l.Sleep(3 * time.Millisecond)
	l.Sleep(4 * time.Millisecond)
	assert.Equal(t, 7*time.Millisecond, slept)
}
