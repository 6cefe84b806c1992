package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

type pollMessage interface {
	isPollMessage()
}

type pollPayload struct {
	ID        domain.VoteID       `json:"id"`
	Topic     string              `json:"topic"`
	State     domain.VoteState    `json:"state,omitempty"`
	Live      bool                `json:"live"`
	Choices   []domain.PollChoice `json:"choices"`
	StartedAt time.Time           `json:"started_at"`
}

func (p pollPayload) toDomain() domain.Poll {
	state := p.State
	if state == "" {
		state = domain.VoteStateActive
	}
	return domain.Poll{
		ID:        p.ID,
		Topic:     p.Topic,
		State:     state,
		Live:      p.Live,
		Choices:   p.Choices,
		StartedAt: p.StartedAt,
	}
}

type PollStarted struct {
	pollPayload
}

type PollLiveUpdate struct {
	ID      domain.VoteID       `json:"id"`
	Choices []domain.PollChoice `json:"choices"`
}

type PollDone struct {
	ID      domain.VoteID       `json:"id"`
	Choices []domain.PollChoice `json:"choices,omitempty"`
}

type PollError struct {
	Error string `json:"error"`
}

func (PollStarted) isPollMessage()    {}
func (PollLiveUpdate) isPollMessage() {}
func (PollDone) isPollMessage()       {}
func (PollError) isPollMessage()      {}

func decodePolls(payload []byte) (pollMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "started":
		return decodeAs[PollStarted](payload)
	case "live_poll_updated":
		return decodeAs[PollLiveUpdate](payload)
	case "done":
		return decodeAs[PollDone](payload)
	case "error":
		return decodeAs[PollError](payload)
	default:
		return nil, fmt.Errorf("%w: polls.%s", ErrUnknownMessage, head.Message)
	}
}

func (s *SessionState) poll(id domain.VoteID) (*domain.Poll, bool) {
	for i := range s.Polls {
		if s.Polls[i].ID == id {
			return &s.Polls[i], true
		}
	}
	return nil, false
}

func (s *SessionState) applyPolls(msg pollMessage, at time.Time) ([]Effect, error) {
	switch m := msg.(type) {
	case PollStarted:
		poll := m.toDomain()
		if poll.StartedAt.IsZero() {
			poll.StartedAt = at
		}
		if existing, ok := s.poll(poll.ID); ok {
			*existing = poll
		} else {
			s.Polls = append(s.Polls, poll)
		}
		return []Effect{info("poll", "A poll has started: "+poll.Topic)}, nil

	case PollLiveUpdate:
		if poll, ok := s.poll(m.ID); ok {
			poll.Choices = m.Choices
		}
		return nil, nil

	case PollDone:
		if poll, ok := s.poll(m.ID); ok {
			poll.State = domain.VoteStateFinished
			if m.Choices != nil {
				poll.Choices = m.Choices
			}
			return []Effect{info("poll", "The poll has finished: "+poll.Topic)}, nil
		}
		return nil, nil

	case PollError:
		return []Effect{warning("poll", "Poll error: "+m.Error)}, nil

	default:
		return nil, fmt.Errorf("%w: unhandled polls message %T", ErrUnknownMessage, msg)
	}
}
