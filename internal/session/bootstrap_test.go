package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

func testEnvelope(t *testing.T, ns string, payload map[string]any, ts time.Time) MessageEnvelope {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return MessageEnvelope{Namespace: ns, Payload: raw, Timestamp: ts}
}

func notificationKeys(effects []Effect) []string {
	var keys []string
	for _, e := range effects {
		if n, ok := e.(ShowNotification); ok {
			keys = append(keys, n.Key)
		}
	}
	return keys
}

func TestJoinSuccessWaitingRoomWinsOnDuplicates(t *testing.T) {
	state := NewSessionState("room-1", "me")

	msg := ControlJoinSuccess{
		ID:   "local",
		Role: domain.RoleUser,
		Participants: []participantPayload{
			{ID: "a", DisplayName: "a"},
			{ID: "b", DisplayName: "b"},
			{ID: "a", DisplayName: "a again"},
		},
		WaitingRoom: []participantPayload{
			{ID: "b", DisplayName: "b"},
			{ID: "c", DisplayName: "c"},
		},
	}

	state.applyJoinSuccess(msg, time.Now())

	seen := map[domain.ParticipantID]int{}
	for _, p := range state.Participants {
		seen[p.ID]++
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "participant %s duplicated", id)
	}
	// b was in both lists: waiting room wins.
	_, joined := state.Participant("b")
	assert.False(t, joined)
	require.Len(t, state.WaitingRoom, 2)
	assert.Equal(t, domain.ParticipantID("b"), state.WaitingRoom[0].ID)
}

func TestJoinSuccessBreakoutParticipantsComeFirst(t *testing.T) {
	state := NewSessionState("room-1", "me")
	roomID := domain.BreakoutRoomID("sub-1")

	msg := ControlJoinSuccess{
		ID: "local",
		Participants: []participantPayload{
			{ID: "main-1"},
		},
		Breakout: &breakoutSnapshot{
			Rooms:        []domain.BreakoutRoom{{ID: roomID, Name: "Sub 1"}},
			Participants: []participantPayload{{ID: "away-1", BreakoutRoom: &roomID}},
		},
	}

	state.applyJoinSuccess(msg, time.Now())

	require.Len(t, state.Participants, 2)
	assert.Equal(t, domain.ParticipantID("away-1"), state.Participants[0].ID)
	assert.Equal(t, domain.WaitingStateJoinedOtherRoom, state.Participants[0].WaitingState)
	assert.Equal(t, domain.WaitingStateJoined, state.Participants[1].WaitingState)
	assert.True(t, state.Breakout.Active)
}

func TestJoinSuccessFlattensGroupChats(t *testing.T) {
	state := NewSessionState("room-1", "me")

	msg := ControlJoinSuccess{
		ID: "local",
		Chat: &chatSnapshot{
			History: []chatMessagePayload{
				{ID: "m1", Source: "a", Content: "hello"},
			},
			Groups: []groupChatSnapshot{
				{ID: "g1", History: []chatMessagePayload{{ID: "m2", Source: "b", Content: "group hi"}}},
			},
		},
	}

	state.applyJoinSuccess(msg, time.Now())

	require.Len(t, state.Chat.Messages, 2)
	assert.Equal(t, domain.ChatScopeGlobal, state.Chat.Messages[0].Scope)
	assert.Equal(t, domain.ChatScopeGroup, state.Chat.Messages[1].Scope)
	assert.Equal(t, "g1", state.Chat.Messages[1].Target)
}

func TestJoinSuccessServerTimeOffset(t *testing.T) {
	state := NewSessionState("room-1", "me")
	localNow := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	serverTime := localNow.Add(90 * time.Second)

	state.applyJoinSuccess(ControlJoinSuccess{ID: "local", ServerTime: serverTime}, localNow)

	assert.Equal(t, 90*time.Second, state.ServerTimeOffset)
	assert.Equal(t, localNow, state.ToLocalTime(serverTime))
}

func TestJoinSuccessRoomFullNotification(t *testing.T) {
	// 5 online participants, limit 5: the local user is about to become
	// the 6th, so the room counts as full.
	state := NewSessionState("room-1", "me")

	msg := ControlJoinSuccess{
		ID:   "local",
		Role: domain.RoleModerator,
		Participants: []participantPayload{
			{ID: "p1"}, {ID: "p2"}, {ID: "p3"}, {ID: "p4"}, {ID: "p5"},
		},
		Tariff: domain.Tariff{Quotas: map[string]uint64{domain.QuotaRoomParticipantLimit: 5}},
	}

	effects := state.applyJoinSuccess(msg, time.Now())
	assert.Contains(t, notificationKeys(effects), noteKeyRoomFull)
}

func TestJoinSuccessRoomNotFullBelowLimit(t *testing.T) {
	state := NewSessionState("room-1", "me")

	msg := ControlJoinSuccess{
		ID:           "local",
		Participants: []participantPayload{{ID: "p1"}, {ID: "p2"}},
		Tariff:       domain.Tariff{Quotas: map[string]uint64{domain.QuotaRoomParticipantLimit: 10}},
	}

	effects := state.applyJoinSuccess(msg, time.Now())
	assert.NotContains(t, notificationKeys(effects), noteKeyRoomFull)
}

func TestJoinSuccessPlaylistStrategyShowsHowTo(t *testing.T) {
	state := NewSessionState("room-1", "me")

	msg := ControlJoinSuccess{
		ID: "local",
		Automod: &automodSnapshot{
			Parameters: automodParametersPayload{Strategy: domain.SelectionPlaylist},
		},
	}

	effects := state.applyJoinSuccess(msg, time.Now())
	keys := notificationKeys(effects)
	assert.Contains(t, keys, noteKeyAutomodHowTo)
}

func TestJoinSuccessSeedsActiveSpeakingTurn(t *testing.T) {
	state := NewSessionState("room-1", "me")

	msg := ControlJoinSuccess{
		ID: "local",
		Automod: &automodSnapshot{
			Parameters: automodParametersPayload{Strategy: domain.SelectionRandom},
			Speaker:    "local",
			Remaining:  []domain.ParticipantID{"a"},
		},
	}

	effects := state.applyJoinSuccess(msg, time.Now())
	assert.Contains(t, notificationKeys(effects), noteKeyAutomodSpeaking)
	assert.Equal(t, domain.SpeakerTransitioning, state.Automod.SpeakerState)

	// The server repeats the current speaker right after the bootstrap; the
	// duplicate must not re-prompt or mute.
	repeat, err := state.applyAutomod(AutomodSpeakerUpdated{Speaker: speakerID("local")})
	require.NoError(t, err)
	assert.Empty(t, repeat)
}

func TestJoinSuccessActiveStreamPromptsConsent(t *testing.T) {
	state := NewSessionState("room-1", "me")

	msg := ControlJoinSuccess{
		ID: "local",
		Recording: &recordingSnapshot{
			Targets: []streamTargetPayload{{ID: "t1", Status: domain.StreamActive}},
		},
	}

	effects := state.applyJoinSuccess(msg, time.Now())
	assert.Contains(t, notificationKeys(effects), noteKeyConsent)

	// A decision recorded earlier in the session suppresses the prompt on
	// a later (breakout) bootstrap.
	state.RecordConsent(true)
	effects = state.applyJoinSuccess(msg, time.Now())
	assert.NotContains(t, notificationKeys(effects), noteKeyConsent)
}

func TestIncrementalJoinRoomFull(t *testing.T) {
	state := NewSessionState("room-1", "me")
	state.applyJoinSuccess(ControlJoinSuccess{
		ID:           "local",
		Participants: []participantPayload{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
		Tariff:       domain.Tariff{Quotas: map[string]uint64{domain.QuotaRoomParticipantLimit: 4}},
	}, time.Now())

	effects := state.applyParticipantJoined(participantPayload{ID: "p4"}, time.Now())
	assert.Contains(t, notificationKeys(effects), noteKeyRoomFull)
	_, ok := state.Participant("p4")
	assert.True(t, ok)
}

func TestResetKeepsConsentDecision(t *testing.T) {
	state := NewSessionState("room-1", "me")
	state.RecordConsent(false)
	state.Reset()

	require.NotNil(t, state.RecordingConsent)
	assert.False(t, *state.RecordingConsent)
	assert.Equal(t, StatusNotJoined, state.Status)
	assert.Empty(t, state.Participants)
}

func TestConsentPromptCarriesAction(t *testing.T) {
	prompt := consentPrompt().(ShowNotification)
	assert.Equal(t, core.ActionGiveConsent, prompt.Action)
	assert.True(t, prompt.Sticky)
}
