package domain

import "time"

type VoteID string

// VoteState is shared by legal votes and polls.
type VoteState string

const (
	VoteStateActive   VoteState = "active"
	VoteStateFinished VoteState = "finished"
	VoteStateCanceled VoteState = "canceled"
)

// VoteOption is a single legal-vote choice.
type VoteOption string

const (
	VoteYes     VoteOption = "yes"
	VoteNo      VoteOption = "no"
	VoteAbstain VoteOption = "abstain"
)

// LegalVote is the formally recorded voting mechanism. Votes carries the
// running tally; OwnVote stays nil until the local user voted.
type LegalVote struct {
	ID        VoteID             `json:"id"`
	Name      string             `json:"name"`
	Topic     string             `json:"topic"`
	State     VoteState          `json:"state"`
	Tally     map[VoteOption]int `json:"tally"`
	OwnVote   *VoteOption        `json:"own_vote,omitempty"`
	StartedAt time.Time          `json:"started_at"`
}

// PollChoice is one selectable answer of a poll with its running count.
type PollChoice struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
	Count   int    `json:"count"`
}

// Poll is the informal counterpart of LegalVote.
type Poll struct {
	ID        VoteID       `json:"id"`
	Topic     string       `json:"topic"`
	State     VoteState    `json:"state"`
	Live      bool         `json:"live"`
	Choices   []PollChoice `json:"choices"`
	Voted     bool         `json:"voted"`
	StartedAt time.Time    `json:"started_at"`
}
