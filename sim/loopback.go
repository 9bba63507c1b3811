package sim

import (
	"sync"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/internal/pool"
	"github.com/ultraembedded/core-ft60x-axi/internal/queue"
	"github.com/ultraembedded/core-ft60x-axi/transport"
)

// segment is a block of response bytes that becomes readable at readyAt.
type segment struct {
	data    []byte
	readyAt time.Time
}

// Loopback is an in-process transport.Port connected to a simulated
// target. Commands are executed synchronously inside Write; their
// responses become readable after the configured latency.
type Loopback struct {
	mu      sync.Mutex
	session *Session
	latency time.Duration
	pending queue.Queue[*segment]
	open    bool

	sleepFn func(time.Duration)
}

var _ transport.Port = (*Loopback)(nil)

// LoopbackOption configures a Loopback.
type LoopbackOption func(*Loopback)

// WithLatency delays every response by d after the command is written.
func WithLatency(d time.Duration) LoopbackOption {
	return func(l *Loopback) {
		l.latency = d
	}
}

// WithSleep replaces the function used by Sleep, e.g. to record calls.
func WithSleep(fn func(time.Duration)) LoopbackOption {
	return func(l *Loopback) {
		if fn != nil {
			l.sleepFn = fn
		}
	}
}

// NewLoopback creates a loopback port attached to a new session of t.
func NewLoopback(t *Target, opts ...LoopbackOption) *Loopback {
	l := &Loopback{
		session: t.NewSession(),
		pending: queue.NewSliceQueue[*segment](16),
		sleepFn: time.Sleep,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Session returns the parser behind the port.
func (l *Loopback) Session() *Session {
	return l.session
}

// Open marks the port open. Responses still queued from a previous use are
// discarded.
func (l *Loopback) Open() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending.Reset()
	l.open = true

	return nil
}

// Close marks the port closed.
func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.open = false

	return nil
}

// Write feeds data to the simulated target.
func (l *Loopback) Write(data []byte, _ time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.open {
		return 0, transport.ErrNotOpen
	}

	resp := l.session.Feed(data)
	if len(resp) > 0 {
		seg := &segment{data: append([]byte(nil), resp...), readyAt: time.Now().Add(l.latency)}
		l.pending.Enqueue(seg)
	}

	return len(data), nil
}

// Read collects ready response bytes until buf is full or timeout elapses.
func (l *Loopback) Read(buf []byte, timeout time.Duration) (int, error) {
	deadline := time.Now().Add(timeout)
	read := 0

	for {
		l.mu.Lock()
		if !l.open {
			l.mu.Unlock()
			return read, transport.ErrNotOpen
		}
		n, next := l.take(buf[read:], time.Now())
		l.mu.Unlock()

		read += n
		if read == len(buf) {
			return read, nil
		}

		// nothing more will ever arrive without another Write
		if next.IsZero() {
			break
		}

		wait := time.Until(next)
		if remaining := time.Until(deadline); remaining <= 0 {
			break
		} else if wait > remaining {
			wait = remaining
		}

		timer := pool.GetTimer(wait)
		<-timer.C
		pool.PutTimer(timer)
	}

	if read == 0 {
		return 0, transport.ErrTimeout
	}

	return read, nil
}

// take copies ready bytes into buf. It returns the count and, when bytes
// are still pending, the time the next segment becomes ready.
func (l *Loopback) take(buf []byte, now time.Time) (int, time.Time) {
	n := 0
	for n < len(buf) {
		seg, ok := l.pending.Peek()
		if !ok {
			return n, time.Time{}
		}
		if seg.readyAt.After(now) {
			return n, seg.readyAt
		}

		c := copy(buf[n:], seg.data)
		n += c
		seg.data = seg.data[c:]
		if len(seg.data) == 0 {
			l.pending.Dequeue()
		}
	}

	return n, time.Time{}
}

// Sleep pauses for d.
func (l *Loopback) Sleep(d time.Duration) {
	l.sleepFn(d)
}
