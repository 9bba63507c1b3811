package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/axi"
)

// Link tests run by check.
const (
	testEcho = iota
	testWrite
	testRead
	testCompare
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	return fs
}

func toAddr(v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("address 0x%x exceeds 32 bits", v)
	}
	return uint32(v), nil
}

// rateMeter prints the transfer rate about once per second.
type rateMeter struct {
	start time.Time
	bytes int
}

func (r *rateMeter) add(n int) {
	if r.start.IsZero() {
		r.start = time.Now()
	}
	r.bytes += n

	if elapsed := time.Since(r.start); elapsed >= time.Second {
		fmt.Printf("Data rate: %dKB per s\n", int(float64(r.bytes)/elapsed.Seconds())/1024)
		r.start = time.Now()
		r.bytes = 0
	}
}

func runCheck(ctx context.Context, d *axi.Driver, args []string) error {
	fs := newFlagSet("check")
	test := fs.Int("test", testEcho, "0 echo, 1 write rate, 2 read rate, 3 write/read/compare")
	addrFlag := fs.Uint64("addr", 0, "bus address")
	size := fs.Int("size", 64*1024, "transfer size in bytes")
	count := fs.Int("count", 0, "iterations, 0 runs until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr, err := toAddr(*addrFlag)
	if err != nil {
		return err
	}
	if *size < 0 {
		return fmt.Errorf("negative size %d", *size)
	}

	var step func() error
	switch *test {
	case testEcho:
		fmt.Println("TEST: ECHO loopback - press CTRL-C to stop...")
		buf := make([]byte, 128)
		for i := range buf {
			buf[i] = byte(i)
		}
		step = func() error { return d.Echo(buf) }

	case testWrite:
		fmt.Println("TEST: Write performance test - press CTRL-C to stop...")
		buf := make([]byte, *size)
		meter := &rateMeter{}
		step = func() error {
			if err := d.Write(addr, buf); err != nil {
				return err
			}
			meter.add(len(buf))
			return nil
		}

	case testRead:
		fmt.Println("TEST: Read performance test - press CTRL-C to stop...")
		buf := make([]byte, *size)
		meter := &rateMeter{}
		step = func() error {
			if err := d.Read(addr, buf); err != nil {
				return err
			}
			meter.add(len(buf))
			return nil
		}

	case testCompare:
		fmt.Println("TEST: Read/write data test - press CTRL-C to stop...")
		buf := make([]byte, *size)
		rnd := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)) //nolint:gosec // test pattern
		meter := &rateMeter{}
		step = func() error {
			for i := range buf {
				buf[i] = byte(rnd.Uint32())
			}
			if err := d.Write(addr, buf); err != nil {
				return err
			}
			if err := d.Verify(addr, buf); err != nil {
				return err
			}
			meter.add(len(buf))
			return nil
		}

	default:
		return fmt.Errorf("unknown test %d", *test)
	}

	for i := 0; *count == 0 || i < *count; i++ {
		if ctx.Err() != nil {
			break
		}
		if err := step(); err != nil {
			return fmt.Errorf("iteration %d: %w", i, err)
		}
	}

	return nil
}

// readFileLimit reads a file, truncated to size bytes when size >= 0.
func readFileLimit(name string, size int) ([]byte, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if size >= 0 && len(data) > size {
		data = data[:size]
	}

	return data, nil
}

func fileFlags(name string, args []string) (uint32, []byte, error) {
	fs := newFlagSet(name)
	addrFlag := fs.Uint64("addr", 0, "bus address")
	file := fs.String("file", "", "file name")
	size := fs.Int("size", -1, "byte count, default the file size")
	if err := fs.Parse(args); err != nil {
		return 0, nil, err
	}
	if *file == "" {
		fs.Usage()
		return 0, nil, errors.New("missing -file")
	}

	addr, err := toAddr(*addrFlag)
	if err != nil {
		return 0, nil, err
	}

	data, err := readFileLimit(*file, *size)
	if err != nil {
		return 0, nil, err
	}

	return addr, data, nil
}

func runLoad(_ context.Context, d *axi.Driver, args []string) error {
	addr, data, err := fileFlags("load", args)
	if err != nil {
		return err
	}

	if err := d.Write(addr, data); err != nil {
		return err
	}
	fmt.Printf("Loaded %d bytes to 0x%08x\n", len(data), addr)

	return nil
}

func runVerify(_ context.Context, d *axi.Driver, args []string) error {
	addr, data, err := fileFlags("verify", args)
	if err != nil {
		return err
	}

	err = d.Verify(addr, data)

	var mismatch *axi.MismatchError
	if errors.As(err, &mismatch) {
		fmt.Printf("Mismatch at 0x%08x: read 0x%02x, expected 0x%02x\n",
			addr+uint32(mismatch.Index), mismatch.Actual, mismatch.Expected) //nolint:gosec // index < len(data)
		return err
	}
	if err != nil {
		return err
	}
	fmt.Printf("Verified %d bytes at 0x%08x\n", len(data), addr)

	return nil
}

func runPeek(_ context.Context, d *axi.Driver, args []string) error {
	fs := newFlagSet("peek")
	addrFlag := fs.Uint64("addr", 0, "bus address, rounded down to a word")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr, err := toAddr(*addrFlag)
	if err != nil {
		return err
	}
	addr &^= 3

	v, err := d.Read32(addr)
	if err != nil {
		return err
	}
	fmt.Printf("0x%08x: 0x%08x\n", addr, v)

	return nil
}

func runPoke(_ context.Context, d *axi.Driver, args []string) error {
	fs := newFlagSet("poke")
	addrFlag := fs.Uint64("addr", 0, "bus address, rounded down to a word")
	value := fs.Uint64("value", 0, "32-bit value")
	if err := fs.Parse(args); err != nil {
		return err
	}

	addr, err := toAddr(*addrFlag)
	if err != nil {
		return err
	}
	addr &^= 3
	if *value > math.MaxUint32 {
		return fmt.Errorf("value 0x%x exceeds 32 bits", *value)
	}

	return d.Write32(addr, uint32(*value))
}

func runGPIO(_ context.Context, d *axi.Driver, args []string) error {
	fs := newFlagSet("gpio")
	value := fs.Uint64("value", 0, "value for the GPIO output register")
	read := fs.Bool("read", false, "read the GPIO register instead of writing it")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *read {
		v, err := d.GPIORead()
		if err != nil {
			return err
		}
		fmt.Printf("GPIO: 0x%08x\n", v)
		return nil
	}

	if *value > math.MaxUint32 {
		return fmt.Errorf("value 0x%x exceeds 32 bits", *value)
	}

	return d.GPIOWrite(uint32(*value))
}
