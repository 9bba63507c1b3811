package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/tarm/serial"

	"github.com/ultraembedded/core-ft60x-axi/logger"
)

// SerialPort is a Port over a serial device opened with tarm/serial.
//
// tarm/serial fixes the read timeout when the device is opened, so reads
// are polled at cfg.PollInterval() until the per-call timeout expires.
type SerialPort struct {
	cfg    *Config
	port   *serial.Port
	logger logger.Logger
}

var _ Port = (*SerialPort)(nil)

// NewSerial creates a serial port for cfg.Device().
func NewSerial(cfg *Config) *SerialPort {
	return &SerialPort{cfg: cfg, logger: cfg.GetLogger()}
}

// Open opens the serial device.
func (p *SerialPort) Open() error {
	if p.port != nil {
		return nil
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        p.cfg.Device(),
		Baud:        p.cfg.BaudRate(),
		ReadTimeout: p.cfg.PollInterval(),
	})
	if err != nil {
		return fmt.Errorf("transport: open serial port %s: %w", p.cfg.Device(), err)
	}

	// drop whatever the device buffered before we arrived
	_ = port.Flush()

	p.port = port
	p.logger.Debug("transport: serial port opened", "device", p.cfg.Device(), "baud", p.cfg.BaudRate())

	return nil
}

// Close closes the serial device.
func (p *SerialPort) Close() error {
	if p.port == nil {
		return nil
	}
	err := p.port.Close()
	p.port = nil

	return err
}

// Write sends data within timeout. tarm/serial writes have no deadline, so
// a device that stops draining its buffer is closed when timeout expires;
// the port then reports ErrNotOpen until it is opened again.
func (p *SerialPort) Write(data []byte, timeout time.Duration) (int, error) {
	if p.port == nil {
		return 0, ErrNotOpen
	}

	port := p.port
	n, err := writeBounded(port, data, timeout, func() { _ = port.Close() })
	if errors.Is(err, ErrTimeout) {
		p.port = nil
		p.logger.Warn("transport: serial write stalled, port closed", "device", p.cfg.Device(), "written", n)
	}

	return n, err
}

// Read fills buf within timeout.
func (p *SerialPort) Read(buf []byte, timeout time.Duration) (int, error) {
	if p.port == nil {
		return 0, ErrNotOpen
	}
	return pollRead(p.port, buf, timeout)
}

// Sleep pauses for d.
func (p *SerialPort) Sleep(d time.Duration) {
	time.Sleep(d)
}
