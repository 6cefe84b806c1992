package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

type legalVoteMessage interface {
	isLegalVoteMessage()
}

type legalVotePayload struct {
	ID        domain.VoteID             `json:"id"`
	Name      string                    `json:"name"`
	Topic     string                    `json:"topic"`
	State     domain.VoteState          `json:"state,omitempty"`
	Tally     map[domain.VoteOption]int `json:"tally,omitempty"`
	OwnVote   *domain.VoteOption        `json:"own_vote,omitempty"`
	StartedAt time.Time                 `json:"started_at"`
}

func (p legalVotePayload) toDomain() domain.LegalVote {
	state := p.State
	if state == "" {
		state = domain.VoteStateActive
	}
	tally := p.Tally
	if tally == nil {
		tally = make(map[domain.VoteOption]int)
	}
	return domain.LegalVote{
		ID:        p.ID,
		Name:      p.Name,
		Topic:     p.Topic,
		State:     state,
		Tally:     tally,
		OwnVote:   p.OwnVote,
		StartedAt: p.StartedAt,
	}
}

type LegalVoteStarted struct {
	legalVotePayload
}

type LegalVoteUpdated struct {
	ID    domain.VoteID             `json:"id"`
	Tally map[domain.VoteOption]int `json:"tally"`
}

type LegalVoteStopped struct {
	ID    domain.VoteID             `json:"id"`
	Tally map[domain.VoteOption]int `json:"tally,omitempty"`
}

type LegalVoteCanceled struct {
	ID     domain.VoteID `json:"id"`
	Reason string        `json:"reason,omitempty"`
}

type LegalVoteError struct {
	Error string `json:"error"`
}

func (LegalVoteStarted) isLegalVoteMessage()  {}
func (LegalVoteUpdated) isLegalVoteMessage()  {}
func (LegalVoteStopped) isLegalVoteMessage()  {}
func (LegalVoteCanceled) isLegalVoteMessage() {}
func (LegalVoteError) isLegalVoteMessage()    {}

func decodeLegalVote(payload []byte) (legalVoteMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "started":
		return decodeAs[LegalVoteStarted](payload)
	case "updated":
		return decodeAs[LegalVoteUpdated](payload)
	case "stopped":
		return decodeAs[LegalVoteStopped](payload)
	case "canceled":
		return decodeAs[LegalVoteCanceled](payload)
	case "error":
		return decodeAs[LegalVoteError](payload)
	default:
		return nil, fmt.Errorf("%w: legal_vote.%s", ErrUnknownMessage, head.Message)
	}
}

func (s *SessionState) legalVote(id domain.VoteID) (*domain.LegalVote, bool) {
	for i := range s.LegalVotes {
		if s.LegalVotes[i].ID == id {
			return &s.LegalVotes[i], true
		}
	}
	return nil, false
}

func (s *SessionState) applyLegalVote(msg legalVoteMessage, at time.Time) ([]Effect, error) {
	switch m := msg.(type) {
	case LegalVoteStarted:
		vote := m.toDomain()
		if vote.StartedAt.IsZero() {
			vote.StartedAt = at
		}
		if existing, ok := s.legalVote(vote.ID); ok {
			*existing = vote
		} else {
			s.LegalVotes = append(s.LegalVotes, vote)
		}
		return []Effect{info("legal-vote", "A vote has started: "+vote.Name)}, nil

	case LegalVoteUpdated:
		if vote, ok := s.legalVote(m.ID); ok {
			vote.Tally = m.Tally
		}
		return nil, nil

	case LegalVoteStopped:
		if vote, ok := s.legalVote(m.ID); ok {
			vote.State = domain.VoteStateFinished
			if m.Tally != nil {
				vote.Tally = m.Tally
			}
			return []Effect{info("legal-vote", "The vote has finished: "+vote.Name)}, nil
		}
		return nil, nil

	case LegalVoteCanceled:
		if vote, ok := s.legalVote(m.ID); ok {
			vote.State = domain.VoteStateCanceled
			return []Effect{warning("legal-vote", "The vote was canceled: "+vote.Name)}, nil
		}
		return nil, nil

	case LegalVoteError:
		return []Effect{warning("legal-vote", "Voting error: "+m.Error)}, nil

	default:
		return nil, fmt.Errorf("%w: unhandled legal_vote message %T", ErrUnknownMessage, msg)
	}
}
