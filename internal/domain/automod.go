package domain

import "time"

// SelectionStrategy decides how the next speaker is picked.
type SelectionStrategy string

const (
	SelectionPlaylist   SelectionStrategy = "playlist"
	SelectionRandom     SelectionStrategy = "random"
	SelectionNomination SelectionStrategy = "nomination"
)

// SpeakerState is the local participant's position inside an active
// turn-taking session.
type SpeakerState string

const (
	SpeakerInactive      SpeakerState = "inactive"
	SpeakerActive        SpeakerState = "active"
	SpeakerTransitioning SpeakerState = "transitioning"
)

// AutomodParameters is the configuration the moderator started the
// turn-taking session with.
type AutomodParameters struct {
	Strategy             SelectionStrategy `json:"selection_strategy"`
	ConsiderHandRaise    bool              `json:"consider_hand_raise"`
	TimeLimit            *time.Duration    `json:"time_limit,omitempty"`
	AllowDoubleSelection bool              `json:"allow_double_selection"`
	IssuedBy             ParticipantID     `json:"issued_by"`
}

// AutomodState is the talking-stick slice of the session.
type AutomodState struct {
	Active       bool              `json:"active"`
	Parameters   AutomodParameters `json:"parameters"`
	Remaining    []ParticipantID   `json:"remaining"`
	History      []ParticipantID   `json:"history"`
	Speaker      ParticipantID     `json:"speaker"`
	SpeakerState SpeakerState      `json:"speaker_state"`
}
