package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ultraembedded/core-ft60x-axi/logger"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig("/dev/ttyUSB0")
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.Device())
	assert.Equal(t, DefaultBaudRate, cfg.BaudRate())
	assert.Equal(t, DefaultDialTimeout, cfg.DialTimeout())
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval())
	assert.True(t, cfg.NoDelay())
	assert.NotNil(t, cfg.GetLogger())
}

func TestNewConfig_WithOptions(t *testing.T) {
	l := logger.NewMockLogger()
	cfg, err := NewConfig("127.0.0.1:9000",
		WithBaudRate(3000000),
		WithDialTimeout(time.Second),
		WithPollInterval(50*time.Millisecond),
		WithNoDelay(false),
		WithLogger(l),
	)
	require.NoError(t, err)

	assert.Equal(t, 3000000, cfg.BaudRate())
	assert.Equal(t, time.Second, cfg.DialTimeout())
	assert.Equal(t, 50*time.Millisecond, cfg.PollInterval())
	assert.False(t, cfg.NoDelay())
	assert.Same(t, l, cfg.GetLogger())
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		device string
		opt    Option
	}{
		{"empty device", "", nil},
		{"zero baud", "x", WithBaudRate(0)},
		{"zero dial timeout", "x", WithDialTimeout(0)},
		{"poll too small", "x", WithPollInterval(time.Microsecond)},
		{"poll too large", "x", WithPollInterval(2 * time.Second)},
		{"nil logger", "x", WithLogger(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []Option
			if tt.opt != nil {
				opts = append(opts, tt.opt)
			}
			_, err := NewConfig(tt.device, opts...)
			assert.Error(t, err)
		})
	}
}
