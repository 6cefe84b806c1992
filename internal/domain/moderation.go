package domain

// ForceMutePolicy silences everyone except the allow-listed participants.
type ForceMutePolicy struct {
	Enabled   bool            `json:"enabled"`
	AllowList []ParticipantID `json:"allow_list"`
	IssuedBy  ParticipantID   `json:"issued_by"`
}

// Allows reports whether the policy lets the given participant keep their
// microphone. A disabled policy allows everyone.
func (p ForceMutePolicy) Allows(id ParticipantID) bool {
	if !p.Enabled {
		return true
	}
	for _, allowed := range p.AllowList {
		if allowed == id {
			return true
		}
	}
	return false
}

// ModerationState is the moderation slice of the session.
type ModerationState struct {
	WaitingRoomEnabled bool            `json:"waiting_room_enabled"`
	RaiseHandsEnabled  bool            `json:"raise_hands_enabled"`
	ForceMute          ForceMutePolicy `json:"force_mute"`
	LocalHandIsUp      bool            `json:"local_hand_is_up"`
	DebriefingActive   bool            `json:"debriefing_active"`
}
