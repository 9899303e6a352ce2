// Package domain contains the core entities and value objects for nethex.
//
// This package is the innermost layer. It has no dependencies on
// infrastructure concerns (libpcap, file system, logging) and holds only the
// values the transmit/receive engine passes around.
//
// # Entities
//
//   - [Frame]: one link-layer payload, an opaque byte sequence
//   - [Rate]: optional transmit cap in frames per second
//   - [Bound]: receive termination policy (count and timeout)
//
// Values are immutable after construction. A Frame's Data must not be
// modified once the frame has been handed to a queue or a sink.
package domain
