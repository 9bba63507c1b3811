package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/logger"
)

// TCPPort is a Port over a TCP stream.
type TCPPort struct {
	cfg    *Config
	conn   net.Conn
	logger logger.Logger
}

var _ Port = (*TCPPort)(nil)

// NewTCP creates a port that dials cfg.Device() on Open.
func NewTCP(cfg *Config) *TCPPort {
	return &TCPPort{cfg: cfg, logger: cfg.GetLogger()}
}

// NewTCPConn wraps an established connection. Open is a no-op for such a
// port. Any net.Conn supporting deadlines works, including net.Pipe.
func NewTCPConn(conn net.Conn, l logger.Logger) *TCPPort {
	if l == nil {
		l = logger.GetLogger()
	}
	return &TCPPort{conn: conn, logger: l}
}

// Open dials the configured address.
func (p *TCPPort) Open() error {
	if p.conn != nil {
		return nil
	}
	if p.cfg == nil {
		return ErrNotOpen
	}

	conn, err := net.DialTimeout("tcp", p.cfg.Device(), p.cfg.DialTimeout())
	if err != nil {
		return fmt.Errorf("transport: dial %s: %w", p.cfg.Device(), err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(p.cfg.NoDelay())
	}

	p.conn = conn
	p.logger.Debug("transport: tcp connected", "remote", conn.RemoteAddr().String())

	return nil
}

// Close closes the connection.
func (p *TCPPort) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}

// Write sends data within timeout.
func (p *TCPPort) Write(data []byte, timeout time.Duration) (int, error) {
	if p.conn == nil {
		return 0, ErrNotOpen
	}
	if err := p.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}

	n, err := writeAll(p.conn, data)
	if err != nil {
		if isTimeout(err) {
			return n, fmt.Errorf("%w: write: %w", ErrTimeout, err)
		}
		return n, err
	}

	return n, nil
}

// Read fills buf within timeout. The deadline covers the whole call, not
// each underlying read.
func (p *TCPPort) Read(buf []byte, timeout time.Duration) (int, error) {
	if p.conn == nil {
		return 0, ErrNotOpen
	}
	if err := p.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}

	read := 0
	for read < len(buf) {
		n, err := p.conn.Read(buf[read:])
		read += n

		if err == nil {
			continue
		}
		if isTimeout(err) {
			return finishRead(read)
		}
		if errors.Is(err, io.EOF) {
			return read, ErrClosed
		}

		return read, err
	}

	return read, nil
}

// Sleep pauses for d.
func (p *TCPPort) Sleep(d time.Duration) {
	time.Sleep(d)
}
