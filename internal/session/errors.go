package session

import "errors"

var (
	// ErrUnknownNamespace — the envelope names a namespace no handler owns.
	// Always fatal for the dispatched message.
	ErrUnknownNamespace = errors.New("unknown namespace")

	// ErrUnknownMessage — a known namespace carried an unrecognized message
	// discriminant. Fatal everywhere except the control namespace, which
	// logs and drops for forward compatibility.
	ErrUnknownMessage = errors.New("unknown message")

	// ErrBadPayload — the payload failed to decode for a known discriminant.
	ErrBadPayload = errors.New("bad payload")

	// ErrNoActiveRoom — the command builder was invoked without a bound room.
	ErrNoActiveRoom = errors.New("no active room")

	// ErrUnknownCommand — the builder was asked for a (namespace, action)
	// pair outside the declared command surface.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNegotiationFailed — a fatal media negotiation error; the connection
	// is not usable afterwards.
	ErrNegotiationFailed = errors.New("media negotiation failed")
)

func isUnknownMessage(err error) bool {
	return errors.Is(err, ErrUnknownMessage)
}
