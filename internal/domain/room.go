package domain

import "time"

type (
	RoomID         string
	BreakoutRoomID string
)

type Room struct {
	ID        RoomID `json:"id"`
	Name      string `json:"name"`
	OwnerID   ParticipantID
	CreatedAt time.Time
}

// BreakoutRoom is one sub-room of an active breakout session.
type BreakoutRoom struct {
	ID   BreakoutRoomID `json:"id"`
	Name string         `json:"name"`
}

// Tariff carries the quota slice of the room's plan. Only quotas that gate
// signaling behavior live here; billing stays on the REST side.
type Tariff struct {
	Name   string            `json:"name"`
	Quotas map[string]uint64 `json:"quotas"`
}

// Quota names the server is known to send.
const (
	QuotaRoomParticipantLimit = "room_participant_limit"
	QuotaRoomTimeLimit        = "room_time_limit_secs"
)

// ParticipantLimit returns the room participant quota, 0 meaning unlimited.
func (t Tariff) ParticipantLimit() uint64 {
	return t.Quotas[QuotaRoomParticipantLimit]
}
