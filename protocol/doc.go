// Package protocol implements the wire format spoken between the host and
// the FT60x AXI bridge gateware.
//
// Every request is a command block: an 8-byte header followed by an
// optional payload of whole 32-bit words. All fields are little-endian.
//
//	+--------+--------+-----------------+-----------------------------------+
//	| cmd id | words  | sequence (u16)  | address (u32)                     |
//	+--------+--------+-----------------+-----------------------------------+
//	| payload: words * 4 bytes (right padded with zeros)                    |
//	+-----------------------------------------------------------------------+
//
// Responses are an optional payload followed by a 4-byte status block
// carrying the sequence number of the command being answered:
//
//	+-----------------+-----------------+
//	| sequence (u16)  | status (u16)    |
//	+-----------------+-----------------+
//
// Posted commands (WRITE8, WRITE16, WRITE) produce no response at all.
//
// The helpers here only encode and decode; they never touch a transport.
// Decoding performs no validation, the caller is expected to slice the
// exact number of bytes it wants interpreted.
package protocol
