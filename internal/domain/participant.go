// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"time"
)

const MaxDisplayNameLen = 36

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
)

type ParticipantID string

type Role string

const (
	RoleGuest     Role = "guest"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

// WaitingState tells where a participant currently sits relative to the room.
type WaitingState string

const (
	// WaitingStateWaiting — parked in the waiting room, not yet admitted.
	WaitingStateWaiting WaitingState = "waiting"
	// WaitingStateJoined — present in the room.
	WaitingStateJoined WaitingState = "joined"
	// WaitingStateJoinedOtherRoom — admitted, but currently inside a breakout room.
	WaitingStateJoinedOtherRoom WaitingState = "joined_other_room"
)

type MeetingNotesAccess string

const (
	MeetingNotesAccessNone  MeetingNotesAccess = "none"
	MeetingNotesAccessRead  MeetingNotesAccess = "read"
	MeetingNotesAccessWrite MeetingNotesAccess = "write"
)

// Participant is one identity inside a room. The id is unique within the
// joined set; de-duplication against the waiting room happens in the
// session bootstrap, not here.
type Participant struct {
	ID                 ParticipantID      `json:"id"`
	DisplayName        string             `json:"display_name"`
	Role               Role               `json:"role"`
	WaitingState       WaitingState       `json:"waiting_state"`
	BreakoutRoomID     *BreakoutRoomID    `json:"breakout_room,omitempty"`
	JoinedAt           time.Time          `json:"joined_at"`
	LeftAt             *time.Time         `json:"left_at,omitempty"`
	HandIsUp           bool               `json:"hand_is_up"`
	HandUpdatedAt      time.Time          `json:"hand_updated_at"`
	IsPresenter        bool               `json:"is_presenter"`
	IsSpeaking         bool               `json:"is_speaking"`
	MeetingNotesAccess MeetingNotesAccess `json:"meeting_notes_access"`
	IsRoomOwner        bool               `json:"is_room_owner"`
}

func (p *Participant) SetDisplayName(name string) error {
	if len(name) == 0 {
		return ErrDisplayNameEmpty
	}
	if len(name) > MaxDisplayNameLen {
		return ErrDisplayNameTooLong
	}
	p.DisplayName = name
	return nil
}
