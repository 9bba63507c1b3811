// Package axi drives the memory mapped bus behind an FT60x AXI bridge.
//
// A Driver turns bus reads, writes and GPIO accesses into the command
// blocks of package protocol and ships them over a transport.Port.
//
// # Block transfers
//
// Write and Read accept any address and length. The range is split into
// an unaligned head (0-3 bytes), an aligned body and an unaligned tail
// (0-3 bytes):
//
//   - Head and tail bytes of a write are sent as posted byte writes, each
//     shifted into its lane of the containing word. Head and tail bytes of
//     a read are extracted from a single word read.
//   - The body is cut into word aligned chunks of at most MaxChunkSize
//     bytes. Chunks are batched into rounds of up to MaxWriteChunks (or
//     MaxReadChunks) commands that are sent with a single transport write.
//
// In a write round every chunk but the last is posted; the last one is
// acknowledged and its status block is the completion barrier for the
// whole round. In a read round every chunk is answered by its payload and
// a status block; the whole round is collected with one transport read,
// plus at most one follow-up read when the first came back short.
//
// # Sequence numbers
//
// Every command carries a 16-bit sequence number from the driver's
// Sequencer. A status block whose sequence number differs from the
// command it answers fails the operation with ErrSequenceMismatch.
//
// # Concurrency
//
// A Driver owns its sequence counter and scratch buffers and must not be
// used from several goroutines at once. Serialise access externally, or
// use one Driver per connection.
package axi
