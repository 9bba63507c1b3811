package pool

import "sync"

// BufferSize is the capacity of buffers handed out by GetBuffer, used for
// stream reads in the simulator server.
const BufferSize = 64 * 1024

var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, BufferSize)
		return &b
	},
}

// GetBuffer returns a BufferSize byte slice from the pool.
func GetBuffer() *[]byte {
	b, _ := bufferPool.Get().(*[]byte)
	*b = (*b)[:BufferSize]
	return b
}

// PutBuffer returns b to the pool. Buffers of the wrong capacity are dropped.
func PutBuffer(b *[]byte) {
	if b == nil || cap(*b) != BufferSize {
		return
	}
	bufferPool.Put(b)
}
