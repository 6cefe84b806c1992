package domain

import "time"

type TimerID string

type TimerKind string

const (
	TimerCountdown TimerKind = "countdown"
	TimerStopwatch TimerKind = "stopwatch"
)

// Timer is the shared room timer. EndsAt is a server-clock deadline; callers
// must correct it with the session's server time offset before display.
type Timer struct {
	ID               TimerID       `json:"id"`
	Kind             TimerKind     `json:"kind"`
	Title            string        `json:"title"`
	StartedAt        time.Time     `json:"started_at"`
	EndsAt           *time.Time    `json:"ends_at,omitempty"`
	ReadyCheck       bool          `json:"ready_check_enabled"`
	Running          bool          `json:"running"`
	StartedBy        ParticipantID `json:"started_by"`
	LocalReadyToGoOn bool          `json:"local_ready_to_continue"`
}
