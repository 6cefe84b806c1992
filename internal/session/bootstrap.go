package session

import (
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

// Wire payload shapes shared between the bootstrap document and the
// incremental messages.

type participantPayload struct {
	ID                 domain.ParticipantID      `json:"id"`
	DisplayName        string                    `json:"display_name"`
	Role               domain.Role               `json:"role"`
	WaitingState       domain.WaitingState       `json:"waiting_state,omitempty"`
	BreakoutRoom       *domain.BreakoutRoomID    `json:"breakout_room,omitempty"`
	JoinedAt           time.Time                 `json:"joined_at"`
	LeftAt             *time.Time                `json:"left_at,omitempty"`
	HandIsUp           bool                      `json:"hand_is_up"`
	HandUpdatedAt      time.Time                 `json:"hand_updated_at"`
	IsPresenter        bool                      `json:"is_presenter"`
	IsSpeaking         bool                      `json:"is_speaking"`
	MeetingNotesAccess domain.MeetingNotesAccess `json:"meeting_notes_access,omitempty"`
	IsRoomOwner        bool                      `json:"is_room_owner"`
}

func (p participantPayload) toDomain() domain.Participant {
	access := p.MeetingNotesAccess
	if access == "" {
		access = domain.MeetingNotesAccessNone
	}
	return domain.Participant{
		ID:                 p.ID,
		DisplayName:        p.DisplayName,
		Role:               p.Role,
		WaitingState:       p.WaitingState,
		BreakoutRoomID:     p.BreakoutRoom,
		JoinedAt:           p.JoinedAt,
		LeftAt:             p.LeftAt,
		HandIsUp:           p.HandIsUp,
		HandUpdatedAt:      p.HandUpdatedAt,
		IsPresenter:        p.IsPresenter,
		IsSpeaking:         p.IsSpeaking,
		MeetingNotesAccess: access,
		IsRoomOwner:        p.IsRoomOwner,
	}
}

type breakoutSnapshot struct {
	Rooms        []domain.BreakoutRoom  `json:"rooms"`
	ExpiresAt    *time.Time             `json:"expires,omitempty"`
	Assignment   *domain.BreakoutRoomID `json:"assignment,omitempty"`
	Participants []participantPayload   `json:"participants,omitempty"`
}

type chatMessagePayload struct {
	ID        string               `json:"id"`
	Source    domain.ParticipantID `json:"source"`
	Target    string               `json:"target,omitempty"`
	Content   string               `json:"content"`
	Scope     domain.ChatScope     `json:"scope,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

func (m chatMessagePayload) toDomain(scope domain.ChatScope, target string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        m.ID,
		Scope:     scope,
		Source:    m.Source,
		Target:    target,
		Content:   m.Content,
		Timestamp: m.Timestamp,
	}
}

type groupChatSnapshot struct {
	ID      string               `json:"id"`
	History []chatMessagePayload `json:"history"`
}

type chatSnapshot struct {
	History []chatMessagePayload `json:"history"`
	Groups  []groupChatSnapshot  `json:"groups,omitempty"`
}

type automodSnapshot struct {
	Parameters automodParametersPayload `json:"parameters"`
	Remaining  []domain.ParticipantID   `json:"remaining"`
	History    []domain.ParticipantID   `json:"history"`
	Speaker    domain.ParticipantID     `json:"speaker,omitempty"`
}

type moderationSnapshot struct {
	WaitingRoomEnabled bool              `json:"waiting_room_enabled"`
	RaiseHandsEnabled  bool              `json:"raise_hands_enabled"`
	ForceMute          *forceMutePayload `json:"force_mute,omitempty"`
	HandIsUp           bool              `json:"hand_is_up"`
}

type recordingSnapshot struct {
	Targets []streamTargetPayload `json:"targets"`
}

// applyJoinSuccess atomically seeds the aggregate from the bootstrap
// document. Order matters and is load-bearing:
//
//  1. partition participants, waiting room wins on duplicates
//  2. breakout participants go ahead of the joined list
//  3. group chat histories flatten into the single timeline
//  4. server time offset for clock-skew correction
//  5. one-shot notices derived from the snapshot
func (s *SessionState) applyJoinSuccess(m ControlJoinSuccess, localNow time.Time) []Effect {
	s.Reset()
	s.Status = StatusJoined
	s.LocalID = m.ID
	if m.DisplayName != "" {
		s.LocalDisplayName = m.DisplayName
	}
	s.LocalRole = m.Role
	s.LocalIsPresenter = m.IsPresenter
	s.Tariff = m.Tariff

	// 1. Waiting room membership has priority: a participant listed both as
	// waiting and joined (possible mid-transition, e.g. during a debrief)
	// must not appear in the joined set.
	waiting := make(map[domain.ParticipantID]bool, len(m.WaitingRoom))
	for _, wp := range m.WaitingRoom {
		p := wp.toDomain()
		p.WaitingState = domain.WaitingStateWaiting
		s.WaitingRoom = append(s.WaitingRoom, p)
		waiting[p.ID] = true
	}

	// 2. Participants sitting in breakout rooms come first, flagged as
	// joined elsewhere.
	if m.Breakout != nil {
		s.Breakout = BreakoutState{
			Active:     true,
			Rooms:      m.Breakout.Rooms,
			ExpiresAt:  m.Breakout.ExpiresAt,
			Assignment: m.Breakout.Assignment,
		}
		for _, bp := range m.Breakout.Participants {
			if waiting[bp.ID] {
				continue
			}
			p := bp.toDomain()
			p.WaitingState = domain.WaitingStateJoinedOtherRoom
			s.upsertParticipant(p)
		}
	}

	seen := make(map[domain.ParticipantID]bool)
	for _, pp := range m.Participants {
		if waiting[pp.ID] || seen[pp.ID] {
			continue
		}
		seen[pp.ID] = true
		p := pp.toDomain()
		if p.WaitingState == "" {
			p.WaitingState = domain.WaitingStateJoined
		}
		s.upsertParticipant(p)
	}

	// 3. Flatten chat: global history first, then each group's history
	// tagged with scope group and the group id as target.
	if m.Chat != nil {
		for _, cm := range m.Chat.History {
			s.Chat.Messages = append(s.Chat.Messages, cm.toDomain(domain.ChatScopeGlobal, ""))
		}
		for _, g := range m.Chat.Groups {
			for _, cm := range g.History {
				s.Chat.Messages = append(s.Chat.Messages, cm.toDomain(domain.ChatScopeGroup, g.ID))
			}
		}
	}

	if m.Automod != nil {
		s.Automod = domain.AutomodState{
			Active:       true,
			Parameters:   m.Automod.Parameters.toDomain(),
			Remaining:    m.Automod.Remaining,
			History:      m.Automod.History,
			Speaker:      m.Automod.Speaker,
			SpeakerState: domain.SpeakerInactive,
		}
	}
	for _, pp := range m.Polls {
		s.Polls = append(s.Polls, pp.toDomain())
	}
	for _, lv := range m.LegalVotes {
		s.LegalVotes = append(s.LegalVotes, lv.toDomain())
	}
	if m.Moderation != nil {
		s.Moderation.WaitingRoomEnabled = m.Moderation.WaitingRoomEnabled
		s.Moderation.RaiseHandsEnabled = m.Moderation.RaiseHandsEnabled
		s.Moderation.LocalHandIsUp = m.Moderation.HandIsUp
		if m.Moderation.ForceMute != nil {
			s.Moderation.ForceMute = m.Moderation.ForceMute.toDomain()
		}
	}
	if m.Timer != nil {
		t := m.Timer.toDomain()
		s.Timer = &t
	}
	if m.SharedFolder != nil {
		s.SharedFolder = *m.SharedFolder
	}
	if m.Recording != nil {
		for _, st := range m.Recording.Targets {
			s.Streams[st.ID] = st.toDomain()
		}
	}

	// 4. Clock skew. Timers carry server-clock deadlines; everything the UI
	// displays goes through ToLocalTime.
	s.ServerTimeOffset = m.ServerTime.Sub(localNow)

	// 5. One-shot notices derived from the snapshot.
	var effects []Effect

	// The local participant is not part of the snapshot lists yet, hence
	// the +1 when comparing against the quota.
	if limit := s.Tariff.ParticipantLimit(); limit > 0 && uint64(s.OnlineCount())+1 >= limit {
		effects = append(effects, warning(noteKeyRoomFull, "The room is now full"))
	}

	if s.Automod.Active && s.Automod.Parameters.Strategy == domain.SelectionPlaylist {
		effects = append(effects, sticky(noteKeyAutomodHowTo, automodHowToText, ""))
	}

	// The snapshot can name the local user as current speaker (rejoining
	// mid-turn, e.g. after a breakout switch). The next speaker_updated
	// repeats the same speaker and is filtered, so the prompt must be
	// raised here.
	if s.Automod.Active && s.Automod.Speaker == s.LocalID {
		s.Automod.SpeakerState = domain.SpeakerTransitioning
		effects = append(effects, speakingTurnPrompt())
	}

	// A recording or stream may already run when we join; ask for consent
	// unless a decision for this session exists.
	if s.RecordingConsent == nil && !s.consentPromptShown {
		for _, st := range s.Streams {
			if st.Status == domain.StreamActive {
				s.consentPromptShown = true
				effects = append(effects, consentPrompt())
				break
			}
		}
	}

	return effects
}
