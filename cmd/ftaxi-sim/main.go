// Command ftaxi-sim serves a simulated FT60x AXI bridge over TCP, for use
// with ftaxi -tcp.
package main

import (
	"context"
	"flag"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ultraembedded/core-ft60x-axi/logger"
	"github.com/ultraembedded/core-ft60x-axi/sim"
)

var (
	listen  = flag.String("listen", "127.0.0.1:5555", "listen address host:port")
	verbose = flag.Bool("v", false, "enable debug logging")
)

func main() {
	flag.Parse()

	level := logger.InfoLevel
	if *verbose {
		level = logger.DebugLevel
	}
	log := logger.NewSlog(level, false)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Error("listen failed", "address", *listen, "error", err)
		os.Exit(1)
	}

	target := sim.NewTarget(sim.WithLogger(log))
	srv := sim.NewServer(target, ln)
	log.Info("simulated bridge listening", "address", srv.Addr().String())

	if err := srv.Serve(ctx); err != nil {
		log.Error("serve failed", "error", err)
		os.Exit(1)
	}

	log.Info("simulated bridge stopped",
		"commands", target.CommandCount(),
		"words", target.WordCount(),
	)
}
