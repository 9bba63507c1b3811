//go:build linux || darwin

package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/pkg/term"

	"github.com/ultraembedded/core-ft60x-axi/logger"
)

// TTYPort is a Port over a POSIX terminal device opened with pkg/term in
// raw mode. Unlike SerialPort the read timeout follows each call.
type TTYPort struct {
	cfg    *Config
	tty    *term.Term
	logger logger.Logger

	// readTimeout caches the VTIME currently programmed into the device
	readTimeout time.Duration
}

var _ Port = (*TTYPort)(nil)

// NewTTY creates a tty port for cfg.Device().
func NewTTY(cfg *Config) *TTYPort {
	return &TTYPort{cfg: cfg, logger: cfg.GetLogger()}
}

// Open opens the device in raw mode at the configured baud rate.
func (p *TTYPort) Open() error {
	if p.tty != nil {
		return nil
	}

	tty, err := term.Open(p.cfg.Device(), term.Speed(p.cfg.BaudRate()), term.RawMode)
	if err != nil {
		return fmt.Errorf("transport: open tty %s: %w", p.cfg.Device(), err)
	}
	_ = tty.Flush()

	p.tty = tty
	p.readTimeout = 0
	p.logger.Debug("transport: tty opened", "device", p.cfg.Device(), "baud", p.cfg.BaudRate())

	return nil
}

// Close restores and closes the device.
func (p *TTYPort) Close() error {
	if p.tty == nil {
		return nil
	}
	_ = p.tty.Restore()
	err := p.tty.Close()
	p.tty = nil

	return err
}

// Write sends data within timeout. A write that stalls past timeout closes
// the device, which then reports ErrNotOpen until it is opened again.
func (p *TTYPort) Write(data []byte, timeout time.Duration) (int, error) {
	if p.tty == nil {
		return 0, ErrNotOpen
	}

	tty := p.tty
	n, err := writeBounded(tty, data, timeout, func() { _ = tty.Close() })
	if errors.Is(err, ErrTimeout) {
		p.tty = nil
		p.logger.Warn("transport: tty write stalled, device closed", "device", p.cfg.Device(), "written", n)
	}

	return n, err
}

// vtimeResolution is the granularity of the termios VTIME read timer.
const vtimeResolution = 100 * time.Millisecond

// Read fills buf within timeout. Each underlying read waits at most
// min(timeout, poll interval), rounded up to the VTIME resolution.
func (p *TTYPort) Read(buf []byte, timeout time.Duration) (int, error) {
	if p.tty == nil {
		return 0, ErrNotOpen
	}

	step := max(vtimeResolution, min(timeout, p.cfg.PollInterval()))
	if step != p.readTimeout {
		if err := p.tty.SetReadTimeout(step); err != nil {
			return 0, fmt.Errorf("transport: set read timeout: %w", err)
		}
		p.readTimeout = step
	}

	return pollRead(p.tty, buf, timeout)
}

// Sleep pauses for d.
func (p *TTYPort) Sleep(d time.Duration) {
	time.Sleep(d)
}
