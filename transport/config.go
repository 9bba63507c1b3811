package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/logger"
)

const (
	DefaultBaudRate     = 115200
	DefaultDialTimeout  = 3 * time.Second
	DefaultPollInterval = 10 * time.Millisecond
)

const (
	MinPollInterval = 1 * time.Millisecond
	MaxPollInterval = 1 * time.Second
)

// Config holds the settings shared by the port implementations.
type Config struct {
	// device is a serial/tty device path or a TCP "host:port" address.
	device string

	baudRate int

	dialTimeout time.Duration

	// pollInterval bounds a single blocking read on devices whose driver
	// only supports a fixed read timeout (tarm/serial).
	pollInterval time.Duration

	noDelay bool

	logger logger.Logger
}

// NewConfig creates a port configuration for device.
func NewConfig(device string, opts ...Option) (*Config, error) {
	if device == "" {
		return nil, errors.New("transport: device must not be empty")
	}

	cfg := &Config{
		device:       device,
		baudRate:     DefaultBaudRate,
		dialTimeout:  DefaultDialTimeout,
		pollInterval: DefaultPollInterval,
		noDelay:      true,
		logger:       logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Device returns the device path or network address.
func (cfg *Config) Device() string { return cfg.device }

// BaudRate returns the serial line rate.
func (cfg *Config) BaudRate() int { return cfg.baudRate }

// DialTimeout returns the TCP connect timeout.
func (cfg *Config) DialTimeout() time.Duration { return cfg.dialTimeout }

// PollInterval returns the granularity of polled reads.
func (cfg *Config) PollInterval() time.Duration { return cfg.pollInterval }

// NoDelay reports whether Nagle's algorithm is disabled on TCP ports.
func (cfg *Config) NoDelay() bool { return cfg.noDelay }

// GetLogger returns the configured logger.
func (cfg *Config) GetLogger() logger.Logger { return cfg.logger }

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithBaudRate sets the serial line rate. USB CDC and FIFO bridges ignore it.
func WithBaudRate(baud int) Option {
	return optFunc(func(cfg *Config) error {
		if baud <= 0 {
			return fmt.Errorf("transport: invalid baud rate %d", baud)
		}
		cfg.baudRate = baud

		return nil
	})
}

// WithDialTimeout sets the TCP connect timeout.
func WithDialTimeout(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d <= 0 {
			return errors.New("transport: dial timeout must be positive")
		}
		cfg.dialTimeout = d

		return nil
	})
}

// WithPollInterval sets the granularity of polled reads.
func WithPollInterval(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < MinPollInterval || d > MaxPollInterval {
			return fmt.Errorf("transport: poll interval %v out of range [%v, %v]", d, MinPollInterval, MaxPollInterval)
		}
		cfg.pollInterval = d

		return nil
	})
}

// WithNoDelay enables or disables TCP_NODELAY. Enabled by default since
// the protocol is strictly request/response.
func WithNoDelay(enabled bool) Option {
	return optFunc(func(cfg *Config) error {
		cfg.noDelay = enabled
		return nil
	})
}

// WithLogger sets the logger for the port.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("transport: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
