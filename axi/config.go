package axi

import (
	"errors"
	"fmt"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/logger"
	"github.com/ultraembedded/core-ft60x-axi/protocol"
)

// Defaults matching the reference gateware's buffering.
const (
	DefaultTimeout      = 100 * time.Millisecond
	DefaultDrainTimeout = 1 * time.Second
	DefaultSettleDelay  = 10 * time.Millisecond

	DefaultMaxChunkSize   = 512
	DefaultMaxWriteChunks = 128
	DefaultMaxReadChunks  = 128
)

// Limits for the configurable values.
const (
	MinTimeout = 1 * time.Millisecond
	MaxTimeout = 60 * time.Second

	MinChunkSize = protocol.WordSize
	MaxChunkSize = protocol.MaxPayloadSize

	MinPipelineDepth = 1
	MaxPipelineDepth = 4096
)

// DriverConfig holds the configuration of a Driver.
type DriverConfig struct {
	// timeout bounds every transport call of a bus operation.
	timeout time.Duration

	// drainTimeout bounds the drain write sent by Open.
	drainTimeout time.Duration

	// settleDelay is slept after the drain sent by Open.
	settleDelay time.Duration

	maxChunkSize   int
	maxWriteChunks int
	maxReadChunks  int

	// chunkStatusCheck enables sequence validation of every status block
	// of a read round instead of only the round's last one.
	chunkStatusCheck bool

	logger logger.Logger
}

// NewDriverConfig creates a driver configuration.
func NewDriverConfig(opts ...DriverOption) (*DriverConfig, error) {
	cfg := &DriverConfig{
		timeout:          DefaultTimeout,
		drainTimeout:     DefaultDrainTimeout,
		settleDelay:      DefaultSettleDelay,
		maxChunkSize:     DefaultMaxChunkSize,
		maxWriteChunks:   DefaultMaxWriteChunks,
		maxReadChunks:    DefaultMaxReadChunks,
		chunkStatusCheck: true,
		logger:           logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Timeout returns the per transport call timeout.
func (cfg *DriverConfig) Timeout() time.Duration { return cfg.timeout }

// DrainTimeout returns the timeout of the drain sent on Open.
func (cfg *DriverConfig) DrainTimeout() time.Duration { return cfg.drainTimeout }

// SettleDelay returns the pause after the drain sent on Open.
func (cfg *DriverConfig) SettleDelay() time.Duration { return cfg.settleDelay }

// MaxChunkSize returns the largest body chunk in bytes.
func (cfg *DriverConfig) MaxChunkSize() int { return cfg.maxChunkSize }

// MaxWriteChunks returns the write pipeline depth.
func (cfg *DriverConfig) MaxWriteChunks() int { return cfg.maxWriteChunks }

// MaxReadChunks returns the read pipeline depth.
func (cfg *DriverConfig) MaxReadChunks() int { return cfg.maxReadChunks }

// ChunkStatusCheck reports whether every status of a read round is checked.
func (cfg *DriverConfig) ChunkStatusCheck() bool { return cfg.chunkStatusCheck }

// GetLogger returns the configured logger.
func (cfg *DriverConfig) GetLogger() logger.Logger { return cfg.logger }

// DriverOption is a functional option for configuring a DriverConfig.
type DriverOption interface {
	apply(*DriverConfig) error
}

type drvOptFunc func(*DriverConfig) error

func (f drvOptFunc) apply(cfg *DriverConfig) error { return f(cfg) }

func checkTimeout(name string, d time.Duration) error {
	if d < MinTimeout || d > MaxTimeout {
		return fmt.Errorf("axi: %s %v out of range [%v, %v]", name, d, MinTimeout, MaxTimeout)
	}
	return nil
}

// WithTimeout sets the timeout applied to each transport call.
func WithTimeout(d time.Duration) DriverOption {
	return drvOptFunc(func(cfg *DriverConfig) error {
		if err := checkTimeout("timeout", d); err != nil {
			return err
		}
		cfg.timeout = d

		return nil
	})
}

// WithDrainTimeout sets the timeout of the drain sent by Open.
func WithDrainTimeout(d time.Duration) DriverOption {
	return drvOptFunc(func(cfg *DriverConfig) error {
		if err := checkTimeout("drain timeout", d); err != nil {
			return err
		}
		cfg.drainTimeout = d

		return nil
	})
}

// WithSettleDelay sets the pause after the drain sent by Open. Zero
// disables it.
func WithSettleDelay(d time.Duration) DriverOption {
	return drvOptFunc(func(cfg *DriverConfig) error {
		if d < 0 || d > MaxTimeout {
			return fmt.Errorf("axi: settle delay %v out of range [0, %v]", d, MaxTimeout)
		}
		cfg.settleDelay = d

		return nil
	})
}

// WithMaxChunkSize sets the largest body chunk. It must be a multiple of 4
// in [MinChunkSize, MaxChunkSize].
func WithMaxChunkSize(n int) DriverOption {
	return drvOptFunc(func(cfg *DriverConfig) error {
		if n < MinChunkSize || n > MaxChunkSize || n%protocol.WordSize != 0 {
			return fmt.Errorf("axi: chunk size %d must be a multiple of %d in [%d, %d]",
				n, protocol.WordSize, MinChunkSize, MaxChunkSize)
		}
		cfg.maxChunkSize = n

		return nil
	})
}

// WithMaxWriteChunks sets how many write chunks may be batched per round.
func WithMaxWriteChunks(n int) DriverOption {
	return drvOptFunc(func(cfg *DriverConfig) error {
		if n < MinPipelineDepth || n > MaxPipelineDepth {
			return fmt.Errorf("axi: write pipeline depth %d out of range [%d, %d]", n, MinPipelineDepth, MaxPipelineDepth)
		}
		cfg.maxWriteChunks = n

		return nil
	})
}

// WithMaxReadChunks sets how many read chunks may be batched per round.
func WithMaxReadChunks(n int) DriverOption {
	return drvOptFunc(func(cfg *DriverConfig) error {
		if n < MinPipelineDepth || n > MaxPipelineDepth {
			return fmt.Errorf("axi: read pipeline depth %d out of range [%d, %d]", n, MinPipelineDepth, MaxPipelineDepth)
		}
		cfg.maxReadChunks = n

		return nil
	})
}

// WithChunkStatusCheck enables or disables sequence validation of every
// status block in a read round. Enabled by default; when disabled only the
// status of the round's last chunk is validated, plus the total byte count.
func WithChunkStatusCheck(enabled bool) DriverOption {
	return drvOptFunc(func(cfg *DriverConfig) error {
		cfg.chunkStatusCheck = enabled
		return nil
	})
}

// WithLogger sets the logger for the driver.
func WithLogger(l logger.Logger) DriverOption {
	return drvOptFunc(func(cfg *DriverConfig) error {
		if l == nil {
			return errors.New("axi: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
