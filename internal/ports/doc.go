// Package ports defines the interfaces that connect the application layer
// to infrastructure adapters.
//
// # Port Interfaces
//
//   - [FrameSource]: produces the ordered frames to transmit
//   - [LinkWriter]: transmits frames on the link (owned by the sender)
//   - [LinkReader]: polls frames from the link (owned by the receiver)
//   - [FrameSink]: consumes accepted inbound frames
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters (internal/adapters, internal/source) implement them with libpcap,
// files, and zerolog, and tests substitute in-memory fakes.
package ports
