//go:build !(linux || darwin)

package transport

import "time"

// TTYPort is unavailable on this platform; every call fails with
// ErrUnsupported. Use SerialPort instead.
type TTYPort struct {
	cfg *Config
}

var _ Port = (*TTYPort)(nil)

// NewTTY creates a placeholder port.
func NewTTY(cfg *Config) *TTYPort {
	return &TTYPort{cfg: cfg}
}

func (p *TTYPort) Open() error { return ErrUnsupported }

func (p *TTYPort) Close() error { return nil }

func (p *TTYPort) Write(_ []byte, _ time.Duration) (int, error) { return 0, ErrUnsupported }

func (p *TTYPort) Read(_ []byte, _ time.Duration) (int, error) { return 0, ErrUnsupported }

func (p *TTYPort) Sleep(d time.Duration) { time.Sleep(d) }
