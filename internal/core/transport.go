package core

// Frame is a raw signaling payload.
type Frame []byte

// LifecycleKind enumerates channel transport lifecycle transitions.
type LifecycleKind string

const (
	LifecycleConnected LifecycleKind = "connected"
	LifecycleShutdown  LifecycleKind = "shutdown"
	LifecycleError     LifecycleKind = "error"
)

// LifecycleEvent is emitted by the transport alongside inbound frames.
// Code carries the close code on shutdown, when known.
type LifecycleEvent struct {
	Kind LifecycleKind
	Code int
	Err  error
}

// Transport abstracts the persistent bidirectional signaling connection.
// Reconnection policy belongs to the implementation; consumers only react
// to lifecycle events. Owned by the adapter; the adapter must Close() it.
type Transport interface {
	TrySend(Frame) error
	Inbox() <-chan Frame
	Lifecycle() <-chan LifecycleEvent
	Close()
}
