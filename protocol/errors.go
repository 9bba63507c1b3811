package protocol

import "errors"

// ErrPayloadTooLarge indicates a payload that does not fit in the 8-bit word
// count of a command header (more than MaxPayloadSize bytes).
var ErrPayloadTooLarge = errors.New("protocol: payload exceeds 255 words")
