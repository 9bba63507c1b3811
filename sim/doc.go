// Package sim models the FPGA side of the FT60x AXI bridge.
//
// A Target owns a sparse, word addressed bus memory and the GPIO output
// register. Each byte stream attached to it gets its own Session, which
// parses command blocks exactly as the gateware does and produces the
// response bytes the host expects:
//
//   - DRAIN bytes found where a header should start are skipped one at a
//     time, which lets the host resynchronise the parser.
//   - ECHO returns its payload followed by a status block.
//   - READ returns the requested words followed by a status block.
//   - WRITE8/WRITE16/WRITE strobe the byte lanes selected by the command
//     width and the low address bits; the _NP forms then return a status
//     block, the posted forms return nothing.
//   - GPIO_WR latches the output register and acknowledges, GPIO_RD
//     returns it.
//
// Loopback adapts a Session to transport.Port for in-process use, and
// Serve exposes a Target to TCP clients.
package sim
