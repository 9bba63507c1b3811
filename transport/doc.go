// Package transport provides the byte-stream ports the AXI bridge driver
// runs on.
//
// A Port moves raw bytes with a timeout on every call and knows nothing
// about the bridge protocol. Three implementations are provided:
//
//   - TCPPort: a TCP stream, e.g. to a bridge simulator or a network tunnel.
//   - SerialPort: a serial device opened through github.com/tarm/serial.
//   - TTYPort: a POSIX terminal device opened through github.com/pkg/term,
//     with the read timeout applied per call (unix only).
//
// The package sim adds an in-process loopback Port backed by a simulated
// bridge target.
//
// Ports are not goroutine-safe; one driver owns one port.
package transport
