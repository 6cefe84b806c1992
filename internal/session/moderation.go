package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

type moderationMessage interface {
	isModerationMessage()
}

type ModerationSentToWaitingRoom struct{}

type ModerationWaitingRoomEnabled struct{}

type ModerationWaitingRoomDisabled struct{}

type ModerationJoinedWaitingRoom struct {
	Participant participantPayload `json:"participant"`
}

type ModerationLeftWaitingRoom struct {
	ID domain.ParticipantID `json:"id"`
}

type ModerationAccepted struct{}

type ModerationRaisedHandReset struct {
	IssuedBy domain.ParticipantID `json:"issued_by"`
}

type ModerationRaiseHandsEnabled struct{}

type ModerationRaiseHandsDisabled struct{}

type ModerationDebriefingStarted struct{}

type ModerationSessionEnded struct {
	IssuedBy domain.ParticipantID `json:"issued_by"`
}

type ModerationKicked struct{}

func (ModerationSentToWaitingRoom) isModerationMessage()   {}
func (ModerationWaitingRoomEnabled) isModerationMessage()  {}
func (ModerationWaitingRoomDisabled) isModerationMessage() {}
func (ModerationJoinedWaitingRoom) isModerationMessage()   {}
func (ModerationLeftWaitingRoom) isModerationMessage()     {}
func (ModerationAccepted) isModerationMessage()            {}
func (ModerationRaisedHandReset) isModerationMessage()     {}
func (ModerationRaiseHandsEnabled) isModerationMessage()   {}
func (ModerationRaiseHandsDisabled) isModerationMessage()  {}
func (ModerationDebriefingStarted) isModerationMessage()   {}
func (ModerationSessionEnded) isModerationMessage()        {}
func (ModerationKicked) isModerationMessage()              {}

func decodeModeration(payload []byte) (moderationMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "sent_to_waiting_room":
		return ModerationSentToWaitingRoom{}, nil
	case "waiting_room_enabled":
		return ModerationWaitingRoomEnabled{}, nil
	case "waiting_room_disabled":
		return ModerationWaitingRoomDisabled{}, nil
	case "joined_waiting_room":
		return decodeAs[ModerationJoinedWaitingRoom](payload)
	case "left_waiting_room":
		return decodeAs[ModerationLeftWaitingRoom](payload)
	case "accepted":
		return ModerationAccepted{}, nil
	case "raised_hand_reset_by_moderator":
		return decodeAs[ModerationRaisedHandReset](payload)
	case "raise_hands_enabled":
		return ModerationRaiseHandsEnabled{}, nil
	case "raise_hands_disabled":
		return ModerationRaiseHandsDisabled{}, nil
	case "debriefing_started":
		return ModerationDebriefingStarted{}, nil
	case "session_ended":
		return decodeAs[ModerationSessionEnded](payload)
	case "kicked":
		return ModerationKicked{}, nil
	default:
		return nil, fmt.Errorf("%w: moderation.%s", ErrUnknownMessage, head.Message)
	}
}

func (s *SessionState) applyModeration(msg moderationMessage, at time.Time) ([]Effect, error) {
	switch m := msg.(type) {
	case ModerationSentToWaitingRoom:
		s.Status = StatusWaiting
		// Release, not mute: capture stops entirely in the waiting room.
		return []Effect{
			ReleaseMedia{},
			info(noteKeyWaitingRoom, "A moderator moved you to the waiting room"),
		}, nil

	case ModerationWaitingRoomEnabled:
		s.Moderation.WaitingRoomEnabled = true
		return nil, nil

	case ModerationWaitingRoomDisabled:
		s.Moderation.WaitingRoomEnabled = false
		return nil, nil

	case ModerationJoinedWaitingRoom:
		p := m.Participant.toDomain()
		p.WaitingState = domain.WaitingStateWaiting
		// Kept as its own list; waiting participants never merge into the
		// joined set.
		s.removeWaiting(p.ID)
		s.WaitingRoom = append(s.WaitingRoom, p)
		return nil, nil

	case ModerationLeftWaitingRoom:
		s.removeWaiting(m.ID)
		return nil, nil

	case ModerationAccepted:
		s.Status = StatusReadyToEnter
		return []Effect{
			SendCommand{Namespace: NamespaceControl, Action: "enter_room"},
			info(noteKeyWaitingRoom, "You were accepted into the room"),
		}, nil

	case ModerationRaisedHandReset:
		return s.lowerLocalHand(at, false), nil

	case ModerationRaiseHandsEnabled:
		s.Moderation.RaiseHandsEnabled = true
		return []Effect{info("raise-hands", "Raising hands is enabled again")}, nil

	case ModerationRaiseHandsDisabled:
		return s.lowerLocalHand(at, true), nil

	case ModerationDebriefingStarted:
		s.Moderation.DebriefingActive = true
		return []Effect{info("debriefing", "A debriefing has started")}, nil

	case ModerationSessionEnded:
		if s.LocalRole == domain.RoleModerator {
			return []Effect{Hangup{Message: "You ended the session for all participants"}}, nil
		}
		return []Effect{Hangup{Message: "The session was ended by a moderator"}}, nil

	case ModerationKicked:
		return []Effect{Hangup{Message: "You were removed from the room by a moderator"}}, nil

	default:
		return nil, fmt.Errorf("%w: unhandled moderation message %T", ErrUnknownMessage, msg)
	}
}

// lowerLocalHand force-lowers the local hand; disable additionally turns
// the capability off.
func (s *SessionState) lowerLocalHand(at time.Time, disable bool) []Effect {
	s.Moderation.LocalHandIsUp = false
	if disable {
		s.Moderation.RaiseHandsEnabled = false
	}
	if p, ok := s.Participant(s.LocalID); ok {
		p.HandIsUp = false
		p.HandUpdatedAt = at
	}
	if disable {
		return []Effect{info("raise-hands", "Raising hands was disabled by a moderator")}
	}
	return []Effect{info("raise-hands", "Your raised hand was lowered by a moderator")}
}
