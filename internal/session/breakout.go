package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

type breakoutMessage interface {
	isBreakoutMessage()
}

type BreakoutStarted struct {
	Rooms      []domain.BreakoutRoom  `json:"rooms"`
	ExpiresAt  *time.Time             `json:"expires,omitempty"`
	Assignment *domain.BreakoutRoomID `json:"assignment,omitempty"`
}

type BreakoutStopped struct{}

type BreakoutExpired struct{}

type BreakoutJoined struct {
	ID           domain.ParticipantID  `json:"id"`
	BreakoutRoom domain.BreakoutRoomID `json:"breakout_room"`
}

type BreakoutLeft struct {
	ID domain.ParticipantID `json:"id"`
}

type BreakoutError struct {
	Error string `json:"error"`
}

func (BreakoutStarted) isBreakoutMessage() {}
func (BreakoutStopped) isBreakoutMessage() {}
func (BreakoutExpired) isBreakoutMessage() {}
func (BreakoutJoined) isBreakoutMessage()  {}
func (BreakoutLeft) isBreakoutMessage()    {}
func (BreakoutError) isBreakoutMessage()   {}

func decodeBreakout(payload []byte) (breakoutMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "started":
		return decodeAs[BreakoutStarted](payload)
	case "stopped":
		return BreakoutStopped{}, nil
	case "expired":
		return BreakoutExpired{}, nil
	case "joined":
		return decodeAs[BreakoutJoined](payload)
	case "left":
		return decodeAs[BreakoutLeft](payload)
	case "error":
		return decodeAs[BreakoutError](payload)
	default:
		return nil, fmt.Errorf("%w: breakout.%s", ErrUnknownMessage, head.Message)
	}
}

func (s *SessionState) applyBreakout(msg breakoutMessage, at time.Time) ([]Effect, error) {
	switch m := msg.(type) {
	case BreakoutStarted:
		s.Breakout = BreakoutState{
			Active:     true,
			Rooms:      m.Rooms,
			ExpiresAt:  m.ExpiresAt,
			Assignment: m.Assignment,
		}
		text := "Breakout rooms were started"
		if m.Assignment != nil {
			text = "Breakout rooms were started; you were assigned to a room"
		}
		return []Effect{info(noteKeyBreakout, text)}, nil

	case BreakoutStopped:
		s.clearBreakout()
		return []Effect{info(noteKeyBreakout, "Breakout rooms were closed")}, nil

	case BreakoutExpired:
		s.clearBreakout()
		return []Effect{info(noteKeyBreakout, "Breakout rooms have expired")}, nil

	case BreakoutJoined:
		if p, ok := s.Participant(m.ID); ok {
			room := m.BreakoutRoom
			p.BreakoutRoomID = &room
			p.WaitingState = domain.WaitingStateJoinedOtherRoom
		}
		return nil, nil

	case BreakoutLeft:
		if p, ok := s.Participant(m.ID); ok {
			p.BreakoutRoomID = nil
			p.WaitingState = domain.WaitingStateJoined
			p.JoinedAt = at
		}
		return nil, nil

	case BreakoutError:
		return []Effect{warning(noteKeyBreakout, "Breakout error: "+m.Error)}, nil

	default:
		return nil, fmt.Errorf("%w: unhandled breakout message %T", ErrUnknownMessage, msg)
	}
}

func (s *SessionState) clearBreakout() {
	s.Breakout = BreakoutState{}
	for i := range s.Participants {
		if s.Participants[i].BreakoutRoomID != nil {
			s.Participants[i].BreakoutRoomID = nil
			s.Participants[i].WaitingState = domain.WaitingStateJoined
		}
	}
}
