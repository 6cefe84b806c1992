package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

// controlMessage is the closed union of the control namespace.
type controlMessage interface {
	isControlMessage()
}

type ControlJoinSuccess struct {
	ID          domain.ParticipantID `json:"id"`
	DisplayName string               `json:"display_name"`
	Role        domain.Role          `json:"role"`
	IsPresenter bool                 `json:"is_presenter"`

	Participants []participantPayload `json:"participants"`
	WaitingRoom  []participantPayload `json:"waiting_room_participants,omitempty"`

	Breakout     *breakoutSnapshot    `json:"breakout,omitempty"`
	Chat         *chatSnapshot        `json:"chat,omitempty"`
	Automod      *automodSnapshot     `json:"automod,omitempty"`
	Polls        []pollPayload        `json:"polls,omitempty"`
	LegalVotes   []legalVotePayload   `json:"legal_vote,omitempty"`
	Moderation   *moderationSnapshot  `json:"moderation,omitempty"`
	Timer        *timerPayload        `json:"timer,omitempty"`
	SharedFolder *domain.SharedFolder `json:"shared_folder,omitempty"`
	Recording    *recordingSnapshot   `json:"recording,omitempty"`

	Tariff     domain.Tariff `json:"tariff"`
	ServerTime time.Time     `json:"server_timestamp"`
}

type ControlJoinBlocked struct {
	Reason string `json:"reason"`
}

type ControlJoined struct {
	Participant participantPayload `json:"participant"`
}

type ControlLeft struct {
	ID domain.ParticipantID `json:"id"`
}

type ControlUpdate struct {
	Participant participantPayload `json:"participant"`
}

type ControlRoleUpdated struct {
	NewRole domain.Role `json:"new_role"`
}

type ControlTimeLimitElapsed struct{}

func (ControlJoinSuccess) isControlMessage()      {}
func (ControlJoinBlocked) isControlMessage()      {}
func (ControlJoined) isControlMessage()           {}
func (ControlLeft) isControlMessage()             {}
func (ControlUpdate) isControlMessage()           {}
func (ControlRoleUpdated) isControlMessage()      {}
func (ControlTimeLimitElapsed) isControlMessage() {}

func decodeControl(payload []byte) (controlMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "join_success":
		return decodeAs[ControlJoinSuccess](payload)
	case "join_blocked":
		return decodeAs[ControlJoinBlocked](payload)
	case "joined":
		return decodeAs[ControlJoined](payload)
	case "left":
		return decodeAs[ControlLeft](payload)
	case "update":
		return decodeAs[ControlUpdate](payload)
	case "role_updated":
		return decodeAs[ControlRoleUpdated](payload)
	case "time_limit_quota_elapsed":
		return ControlTimeLimitElapsed{}, nil
	default:
		return nil, fmt.Errorf("%w: control.%s", ErrUnknownMessage, head.Message)
	}
}

func decodeAs[T any](payload []byte) (T, error) {
	var msg T
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return msg, nil
}

func (s *SessionState) applyControl(msg controlMessage, at, localNow time.Time) ([]Effect, error) {
	switch m := msg.(type) {
	case ControlJoinSuccess:
		return s.applyJoinSuccess(m, localNow), nil
	case ControlJoinBlocked:
		return []Effect{Hangup{Message: "The room could not be joined: " + m.Reason}}, nil
	case ControlJoined:
		return s.applyParticipantJoined(m.Participant, at), nil
	case ControlLeft:
		if p, ok := s.Participant(m.ID); ok {
			left := at
			p.LeftAt = &left
		}
		return nil, nil
	case ControlUpdate:
		p := m.Participant.toDomain()
		if existing, ok := s.Participant(p.ID); ok {
			p.JoinedAt = existing.JoinedAt
			*existing = p
		}
		return nil, nil
	case ControlRoleUpdated:
		s.LocalRole = m.NewRole
		return []Effect{info("role-updated", "Your role changed to "+string(m.NewRole))}, nil
	case ControlTimeLimitElapsed:
		return []Effect{Hangup{Message: "The time limit for this room has elapsed"}}, nil
	default:
		return nil, fmt.Errorf("%w: unhandled control message %T", ErrUnknownMessage, msg)
	}
}

// applyParticipantJoined handles the incremental join path. The room-full
// check uses the same rule as the bootstrap: online count excluding the
// newcomer, plus one.
func (s *SessionState) applyParticipantJoined(payload participantPayload, at time.Time) []Effect {
	p := payload.toDomain()
	p.WaitingState = domain.WaitingStateJoined
	if p.JoinedAt.IsZero() {
		p.JoinedAt = at
	}

	online := s.OnlineCount()
	s.upsertParticipant(p)

	limit := s.Tariff.ParticipantLimit()
	if limit > 0 && uint64(online)+1 >= limit {
		return []Effect{warning(noteKeyRoomFull, "The room is now full")}
	}
	return nil
}
