package session

import (
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

// SessionStatus is the local participant's position in the session lifecycle.
type SessionStatus string

const (
	StatusNotJoined    SessionStatus = "not_joined"
	StatusWaiting      SessionStatus = "waiting"
	StatusReadyToEnter SessionStatus = "ready_to_enter"
	StatusJoined       SessionStatus = "joined"
	StatusDisconnected SessionStatus = "disconnected"
)

// BreakoutState is the breakout slice of the session.
type BreakoutState struct {
	Active     bool                   `json:"active"`
	Rooms      []domain.BreakoutRoom  `json:"rooms,omitempty"`
	ExpiresAt  *time.Time             `json:"expires_at,omitempty"`
	Assignment *domain.BreakoutRoomID `json:"assignment,omitempty"`
}

// ChatState is the chat slice: one flattened timeline across scopes plus
// per-scope enabled settings.
type ChatState struct {
	Messages []domain.ChatMessage                    `json:"messages"`
	Settings map[domain.ChatScope]domain.ChatSettings `json:"settings"`
}

// SessionState is the aggregate the reducer pipeline owns. Single writer;
// the UI and the side-effect coordinator only read it. It is replaced
// wholesale by join_success and mutated incrementally by every other
// inbound message.
type SessionState struct {
	Status         SessionStatus `json:"status"`
	DisconnectCode int           `json:"disconnect_code,omitempty"`

	RoomID           domain.RoomID        `json:"room_id"`
	LocalID          domain.ParticipantID `json:"local_id"`
	LocalDisplayName string               `json:"local_display_name"`
	LocalRole        domain.Role          `json:"local_role"`
	LocalIsPresenter bool                 `json:"local_is_presenter"`

	Participants []domain.Participant `json:"participants"`
	WaitingRoom  []domain.Participant `json:"waiting_room"`

	Breakout     BreakoutState          `json:"breakout"`
	Automod      domain.AutomodState    `json:"automod"`
	LegalVotes   []domain.LegalVote     `json:"legal_votes"`
	Polls        []domain.Poll          `json:"polls"`
	Moderation   domain.ModerationState `json:"moderation"`
	Chat         ChatState              `json:"chat"`
	MeetingNotes domain.MeetingNotes    `json:"meeting_notes"`
	Whiteboard   domain.Whiteboard      `json:"whiteboard"`
	SharedFolder domain.SharedFolder    `json:"shared_folder"`
	Timer        *domain.Timer          `json:"timer,omitempty"`

	Streams            map[domain.StreamTargetID]domain.StreamTarget `json:"streams"`
	RecordingConsent   *bool                                         `json:"recording_consent,omitempty"`
	consentPromptShown bool

	// FailedSubscriptions marks remote media subscriptions that hit a
	// recoverable negotiation error.
	FailedSubscriptions map[domain.ParticipantID]bool `json:"failed_subscriptions,omitempty"`

	Tariff           domain.Tariff `json:"tariff"`
	ServerTimeOffset time.Duration `json:"server_time_offset"`
}

// NewSessionState returns the empty, not-yet-joined aggregate for a room.
func NewSessionState(roomID domain.RoomID, displayName string) *SessionState {
	s := &SessionState{RoomID: roomID, LocalDisplayName: displayName}
	s.empty()
	return s
}

// empty initializes every per-namespace slice. Used at construction and on
// teardown; join_success replaces the slices again with snapshot contents.
func (s *SessionState) empty() {
	s.Status = StatusNotJoined
	s.DisconnectCode = 0
	s.Participants = nil
	s.WaitingRoom = nil
	s.Breakout = BreakoutState{}
	s.Automod = domain.AutomodState{SpeakerState: domain.SpeakerInactive}
	s.LegalVotes = nil
	s.Polls = nil
	s.Moderation = domain.ModerationState{RaiseHandsEnabled: true}
	s.Chat = ChatState{Settings: make(map[domain.ChatScope]domain.ChatSettings)}
	s.MeetingNotes = domain.MeetingNotes{}
	s.Whiteboard = domain.Whiteboard{}
	s.SharedFolder = domain.SharedFolder{}
	s.Timer = nil
	s.Streams = make(map[domain.StreamTargetID]domain.StreamTarget)
	s.FailedSubscriptions = make(map[domain.ParticipantID]bool)
	s.ServerTimeOffset = 0
}

// Reset tears the aggregate down at hang-up or room switch. Identity and
// the recorded consent decision survive; consent is per session, not per
// room visit.
func (s *SessionState) Reset() {
	consent := s.RecordingConsent
	shown := s.consentPromptShown
	s.empty()
	s.RecordingConsent = consent
	s.consentPromptShown = shown
}

// MarkDisconnected records a transport-level shutdown.
func (s *SessionState) MarkDisconnected(code int) {
	s.Status = StatusDisconnected
	s.DisconnectCode = code
}

// Participant finds a joined participant by id.
func (s *SessionState) Participant(id domain.ParticipantID) (*domain.Participant, bool) {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i], true
		}
	}
	return nil, false
}

func (s *SessionState) upsertParticipant(p domain.Participant) {
	if existing, ok := s.Participant(p.ID); ok {
		*existing = p
		return
	}
	s.Participants = append(s.Participants, p)
}

func (s *SessionState) removeWaiting(id domain.ParticipantID) {
	for i := range s.WaitingRoom {
		if s.WaitingRoom[i].ID == id {
			s.WaitingRoom = append(s.WaitingRoom[:i], s.WaitingRoom[i+1:]...)
			return
		}
	}
}

// OnlineCount counts participants currently present in the main room. The
// local participant is not part of Participants, so a "would the room be
// full" check is OnlineCount()+1 against the quota.
func (s *SessionState) OnlineCount() int {
	n := 0
	for i := range s.Participants {
		if s.Participants[i].WaitingState == domain.WaitingStateJoined && s.Participants[i].LeftAt == nil {
			n++
		}
	}
	return n
}

// ToLocalTime corrects a server-clock timestamp by the measured offset.
func (s *SessionState) ToLocalTime(serverTime time.Time) time.Time {
	return serverTime.Add(-s.ServerTimeOffset)
}

// Clone returns a deep copy for read-only consumers. The reducers keep
// mutating the live aggregate; the copy shares no map, slice or pointer
// they write through.
func (s *SessionState) Clone() SessionState {
	out := *s

	out.Participants = append([]domain.Participant(nil), s.Participants...)
	out.WaitingRoom = append([]domain.Participant(nil), s.WaitingRoom...)
	out.Breakout.Rooms = append([]domain.BreakoutRoom(nil), s.Breakout.Rooms...)
	out.Automod.Remaining = append([]domain.ParticipantID(nil), s.Automod.Remaining...)
	out.Automod.History = append([]domain.ParticipantID(nil), s.Automod.History...)
	out.Moderation.ForceMute.AllowList = append([]domain.ParticipantID(nil), s.Moderation.ForceMute.AllowList...)
	out.Whiteboard.PDFAssets = append([]string(nil), s.Whiteboard.PDFAssets...)

	out.LegalVotes = append([]domain.LegalVote(nil), s.LegalVotes...)
	for i := range out.LegalVotes {
		tally := make(map[domain.VoteOption]int, len(out.LegalVotes[i].Tally))
		for option, count := range out.LegalVotes[i].Tally {
			tally[option] = count
		}
		out.LegalVotes[i].Tally = tally
	}
	out.Polls = append([]domain.Poll(nil), s.Polls...)
	for i := range out.Polls {
		out.Polls[i].Choices = append([]domain.PollChoice(nil), out.Polls[i].Choices...)
	}

	out.Chat.Messages = append([]domain.ChatMessage(nil), s.Chat.Messages...)
	out.Chat.Settings = make(map[domain.ChatScope]domain.ChatSettings, len(s.Chat.Settings))
	for scope, settings := range s.Chat.Settings {
		out.Chat.Settings[scope] = settings
	}

	out.Streams = make(map[domain.StreamTargetID]domain.StreamTarget, len(s.Streams))
	for id, target := range s.Streams {
		out.Streams[id] = target
	}
	out.FailedSubscriptions = make(map[domain.ParticipantID]bool, len(s.FailedSubscriptions))
	for id, failed := range s.FailedSubscriptions {
		out.FailedSubscriptions[id] = failed
	}

	if s.Timer != nil {
		timer := *s.Timer
		out.Timer = &timer
	}
	return out
}
