package axi

import (
	"math/rand"
	"testing"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/sim"
	"github.com/ultraembedded/core-ft60x-axi/transport"
)

// newTestConfig creates a DriverConfig with short timeouts and no settle
// delay suitable for tests.
func newTestConfig(t *testing.T, opts ...DriverOption) *DriverConfig {
	t.Helper()

	defaults := []DriverOption{
		WithTimeout(50 * time.Millisecond),
		WithSettleDelay(0),
	}

	cfg, err := NewDriverConfig(append(defaults, opts...)...)
	if err != nil {
		t.Fatalf("newTestConfig: %v", err)
	}

	return cfg
}

// newTestDriver opens a driver on a loopback port attached to target.
func newTestDriver(t *testing.T, target *sim.Target, opts ...DriverOption) (*Driver, *sim.Loopback) {
	t.Helper()

	port := sim.NewLoopback(target)
	d, err := Open(port, newTestConfig(t, opts...))
	if err != nil {
		t.Fatalf("newTestDriver: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	return d, port
}

// faultPort wraps a port and limits the size of successive reads, to
// simulate a bridge that splits responses.
type faultPort struct {
	transport.Port

	// timeouts makes the first reads time out without consuming anything.
	timeouts int

	// readLimits caps the n-th Read to readLimits[n] bytes; later reads
	// are not capped.
	readLimits []int
	reads      int
}

func (p *faultPort) Read(buf []byte, timeout time.Duration) (int, error) {
	if p.timeouts > 0 {
		p.timeouts--
		p.reads++
		return 0, transport.ErrTimeout
	}
	if p.reads < len(p.readLimits) && p.readLimits[p.reads] < len(buf) {
		buf = buf[:p.readLimits[p.reads]]
	}
	p.reads++

	return p.Port.Read(buf, timeout)
}

// randomBytes returns n bytes from a seeded source.
func randomBytes(seed int64, n int) []byte {
	r := rand.New(rand.NewSource(seed)) //nolint:gosec // test data
	buf := make([]byte, n)
	_, _ = r.Read(buf)

	return buf
}

// patternBytes returns n bytes counting up from start.
func patternBytes(start byte, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = start + byte(i)
	}

	return buf
}
