package queue

// ByteFIFO is a growable byte stream buffer. Bytes are appended at the tail
// with Write and consumed from the head with Next or Discard.
//
// The zero value is ready to use. ByteFIFO is not goroutine-safe.
type ByteFIFO struct {
	buf  []byte
	head int
}

// Write appends p to the tail.
func (f *ByteFIFO) Write(p []byte) {
	if f.head > 0 && f.head == len(f.buf) {
		f.Reset()
	}
	f.compact()
	f.buf = append(f.buf, p...)
}

// Len returns the number of unread bytes.
func (f *ByteFIFO) Len() int {
	return len(f.buf) - f.head
}

// Bytes returns the unread bytes without consuming them. The slice is only
// valid until the next Write.
func (f *ByteFIFO) Bytes() []byte {
	return f.buf[f.head:]
}

// Next consumes and returns the next n bytes, or fewer if less are buffered.
// The slice is only valid until the next Write.
func (f *ByteFIFO) Next(n int) []byte {
	if n > f.Len() {
		n = f.Len()
	}
	out := f.buf[f.head : f.head+n]
	f.head += n

	return out
}

// Discard drops the next n bytes.
func (f *ByteFIFO) Discard(n int) {
	_ = f.Next(n)
}

// Reset empties the buffer, keeping its storage.
func (f *ByteFIFO) Reset() {
	f.buf = f.buf[:0]
	f.head = 0
}

// compact moves unread bytes to the front once more than half of the
// storage has been consumed. Slices handed out by Next are invalidated.
func (f *ByteFIFO) compact() {
	if f.head < 4096 || f.head < len(f.buf)/2 {
		return
	}
	n := copy(f.buf, f.buf[f.head:])
	f.buf = f.buf[:n]
	f.head = 0
}
