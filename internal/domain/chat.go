package domain

import "time"

// ChatScope selects which conversation a message belongs to.
type ChatScope string

const (
	ChatScopeGlobal  ChatScope = "global"
	ChatScopeGroup   ChatScope = "group"
	ChatScopePrivate ChatScope = "private"
)

// ChatMessage is one entry of the flattened chat timeline. Target is a
// participant id for private messages and a group id for group messages;
// empty for global scope.
type ChatMessage struct {
	ID        string        `json:"id"`
	Scope     ChatScope     `json:"scope"`
	Source    ParticipantID `json:"source"`
	Target    string        `json:"target,omitempty"`
	Content   string        `json:"content"`
	Timestamp time.Time     `json:"timestamp"`
}

// ChatSettings records the enabled flag of one chat scope together with who
// issued it and when. Conflicts resolve last-writer-wins by IssuedAt, never
// by arrival order.
type ChatSettings struct {
	Enabled  bool          `json:"enabled"`
	IssuedBy ParticipantID `json:"issued_by"`
	IssuedAt time.Time     `json:"issued_at"`
}
