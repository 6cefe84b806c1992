package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

type timerMessage interface {
	isTimerMessage()
}

type timerPayload struct {
	ID         domain.TimerID       `json:"id"`
	Kind       domain.TimerKind     `json:"kind"`
	Title      string               `json:"title,omitempty"`
	StartedAt  time.Time            `json:"started_at"`
	EndsAt     *time.Time           `json:"ends_at,omitempty"`
	ReadyCheck bool                 `json:"ready_check_enabled"`
	StartedBy  domain.ParticipantID `json:"started_by"`
}

func (p timerPayload) toDomain() domain.Timer {
	kind := p.Kind
	if kind == "" {
		kind = domain.TimerStopwatch
	}
	return domain.Timer{
		ID:         p.ID,
		Kind:       kind,
		Title:      p.Title,
		StartedAt:  p.StartedAt,
		EndsAt:     p.EndsAt,
		ReadyCheck: p.ReadyCheck,
		Running:    true,
		StartedBy:  p.StartedBy,
	}
}

type TimerStarted struct {
	timerPayload
}

type TimerStopped struct {
	ID     domain.TimerID `json:"id"`
	Reason string         `json:"reason,omitempty"`
}

type TimerUpdated struct {
	ID     domain.TimerID `json:"id"`
	EndsAt *time.Time     `json:"ends_at,omitempty"`
}

func (TimerStarted) isTimerMessage() {}
func (TimerStopped) isTimerMessage() {}
func (TimerUpdated) isTimerMessage() {}

func decodeTimer(payload []byte) (timerMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "started":
		return decodeAs[TimerStarted](payload)
	case "stopped":
		return decodeAs[TimerStopped](payload)
	case "updated":
		return decodeAs[TimerUpdated](payload)
	default:
		return nil, fmt.Errorf("%w: timer.%s", ErrUnknownMessage, head.Message)
	}
}

func (s *SessionState) applyTimer(msg timerMessage) ([]Effect, error) {
	switch m := msg.(type) {
	case TimerStarted:
		t := m.toDomain()
		s.Timer = &t
		text := "A timer was started"
		if t.EndsAt != nil {
			// Deadlines arrive on the server clock; show local time.
			text = fmt.Sprintf("A timer was started, it ends at %s",
				s.ToLocalTime(*t.EndsAt).Format("15:04:05"))
		}
		return []Effect{info(noteKeyTimer, text)}, nil

	case TimerStopped:
		if s.Timer == nil || s.Timer.ID != m.ID {
			return nil, nil
		}
		s.Timer = nil
		return []Effect{info(noteKeyTimer, "The timer was stopped")}, nil

	case TimerUpdated:
		if s.Timer != nil && s.Timer.ID == m.ID {
			s.Timer.EndsAt = m.EndsAt
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unhandled timer message %T", ErrUnknownMessage, msg)
	}
}
