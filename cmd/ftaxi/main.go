// Command ftaxi drives an AXI bus through an FT60x bridge.
//
// Usage:
//
//	ftaxi [global flags] <command> [command flags]
//
// Commands:
//
//	check   run a link test (echo, write, read or write/read/compare)
//	load    write a file into bus memory
//	verify  compare bus memory with a file
//	peek    read one word
//	poke    write one word
//	gpio    write or read the bridge GPIO register
//
// The port is selected by one of -device (serial, default), -tty (raw
// POSIX tty), -tcp (host:port of a bridge proxy or ftaxi-sim) or -sim
// (in-process simulated target).
//
// Logs are JSON on stderr; set ENV=development for console output.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ultraembedded/core-ft60x-axi/axi"
	"github.com/ultraembedded/core-ft60x-axi/logger"
	"github.com/ultraembedded/core-ft60x-axi/sim"
	"github.com/ultraembedded/core-ft60x-axi/transport"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "serial device path")
	tty     = flag.String("tty", "", "raw tty device path, used instead of -device")
	tcpAddr = flag.String("tcp", "", "bridge TCP address host:port, used instead of -device")
	useSim  = flag.Bool("sim", false, "use an in-process simulated target")
	baud    = flag.Int("baud", transport.DefaultBaudRate, "baud rate for -device and -tty")
	timeout = flag.Duration("timeout", time.Second, "timeout of each transport call")
	verbose = flag.Bool("v", false, "enable debug logging")
)

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, d *axi.Driver, args []string) error
}

var commands = []command{
	{"check", "-test N [-addr A] [-size S] [-count C]", runCheck},
	{"load", "-addr A -file F [-size S]", runLoad},
	{"verify", "-addr A -file F [-size S]", runVerify},
	{"peek", "-addr A", runPeek},
	{"poke", "-addr A -value V", runPoke},
	{"gpio", "-value V | -read", runGPIO},
}

var log logger.Logger

func main() {
	flag.Usage = usage
	flag.Parse()

	level := logger.InfoLevel
	if *verbose {
		level = logger.DebugLevel
	}
	log = logger.NewSlog(level, false)
	logger.SetDefault(log)

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == flag.Arg(0) {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cmd, flag.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error("command failed", "command", cmd.name, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *command, args []string) error {
	port, err := openPort()
	if err != nil {
		return err
	}

	cfg, err := axi.NewDriverConfig(
		axi.WithTimeout(*timeout),
		axi.WithLogger(log),
	)
	if err != nil {
		return err
	}

	d, err := axi.Open(port, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Warn("close port", "error", err)
		}
	}()

	err = cmd.run(ctx, d, args)

	m := d.Metrics()
	log.Debug("driver metrics",
		"commands", m.CommandCount.Load(),
		"rounds", m.RoundCount.Load(),
		"txBytes", m.TxBytes.Load(),
		"rxBytes", m.RxBytes.Load(),
		"shortReadRecoveries", m.ShortReadRecoveryCount.Load(),
	)

	return err
}

func openPort() (transport.Port, error) {
	if *useSim {
		return sim.NewLoopback(sim.NewTarget(sim.WithLogger(log))), nil
	}

	name := *device
	switch {
	case *tcpAddr != "":
		name = *tcpAddr
	case *tty != "":
		name = *tty
	}

	cfg, err := transport.NewConfig(name,
		transport.WithBaudRate(*baud),
		transport.WithNoDelay(true),
		transport.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	switch {
	case *tcpAddr != "":
		return transport.NewTCP(cfg), nil
	case *tty != "":
		return transport.NewTTY(cfg), nil
	default:
		return transport.NewSerial(cfg), nil
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage: %s [flags] <command> [command flags]\n\nCommands:\n", os.Args[0])
	for _, c := range commands {
		fmt.Fprintf(out, "  %-7s %s\n", c.name, c.usage)
	}
	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}
