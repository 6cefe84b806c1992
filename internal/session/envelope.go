// Package session is the signaling session core: it consumes the ordered
// multiplexed event stream pushed by the server, keeps the in-memory room
// model consistent with it, and turns local intents into outgoing commands.
//
// Reducers are pure with respect to side effects: they mutate only the
// SessionState they own and return effect descriptions. Executing those
// descriptions is the coordinator's job, never the reducer's.
package session

import (
	"encoding/json"
	"time"
)

// Namespaces of the multiplexed signaling stream.
const (
	NamespaceControl      = "control"
	NamespaceMedia        = "media"
	NamespaceBreakout     = "breakout"
	NamespaceAutomod      = "automod"
	NamespaceLegalVote    = "legal_vote"
	NamespaceModeration   = "moderation"
	NamespaceMeetingNotes = "meeting_notes"
	NamespacePolls        = "polls"
	NamespaceChat         = "chat"
	NamespaceTimer        = "timer"
	NamespaceWhiteboard   = "whiteboard"
	NamespaceRecording    = "recording"
	NamespaceSharedFolder = "shared_folder"
)

// MessageEnvelope is one inbound server push. Payload keeps the namespace
// specific body raw until the router hands it to the right decoder.
type MessageEnvelope struct {
	Namespace string          `json:"namespace"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// CommandEnvelope is one outbound command. Payload always carries an
// "action" discriminant next to the declared fields.
type CommandEnvelope struct {
	Namespace string         `json:"namespace"`
	Payload   map[string]any `json:"payload"`
}

// messageHead peeks at the discriminant before the full decode.
type messageHead struct {
	Message string `json:"message"`
}
