package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/domain"
)

func TestSentToWaitingRoomReleasesMedia(t *testing.T) {
	state := joinedState(t, "local", "a")

	effects, err := state.applyModeration(ModerationSentToWaitingRoom{}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, StatusWaiting, state.Status)
	var released, muted bool
	for _, e := range effects {
		switch e.(type) {
		case ReleaseMedia:
			released = true
		case ReconfigureMedia:
			muted = true
		}
	}
	assert.True(t, released, "capture stops entirely in the waiting room")
	assert.False(t, muted, "release, not mute")
}

func TestAcceptedEntersRoomAutomatically(t *testing.T) {
	state := NewSessionState("room-1", "me")
	state.Status = StatusWaiting

	effects, err := state.applyModeration(ModerationAccepted{}, time.Now())
	require.NoError(t, err)

	assert.Equal(t, StatusReadyToEnter, state.Status)
	var entered bool
	for _, e := range effects {
		if cmd, ok := e.(SendCommand); ok {
			assert.Equal(t, NamespaceControl, cmd.Namespace)
			assert.Equal(t, "enter_room", cmd.Action)
			entered = true
		}
	}
	assert.True(t, entered)
}

func TestWaitingRoomListNeverDuplicates(t *testing.T) {
	state := joinedState(t, "local")

	_, err := state.applyModeration(ModerationJoinedWaitingRoom{
		Participant: participantPayload{ID: "w1"},
	}, time.Now())
	require.NoError(t, err)
	_, err = state.applyModeration(ModerationJoinedWaitingRoom{
		Participant: participantPayload{ID: "w1"},
	}, time.Now())
	require.NoError(t, err)

	assert.Len(t, state.WaitingRoom, 1)

	_, err = state.applyModeration(ModerationLeftWaitingRoom{ID: "w1"}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, state.WaitingRoom)
}

func TestRaiseHandsDisabledLowersLocalHand(t *testing.T) {
	state := joinedState(t, "local")
	state.Moderation.LocalHandIsUp = true

	_, err := state.applyModeration(ModerationRaiseHandsDisabled{}, time.Now())
	require.NoError(t, err)

	assert.False(t, state.Moderation.LocalHandIsUp)
	assert.False(t, state.Moderation.RaiseHandsEnabled)

	// Reset by a moderator lowers the hand but leaves the feature on.
	state.Moderation.RaiseHandsEnabled = true
	state.Moderation.LocalHandIsUp = true
	_, err = state.applyModeration(ModerationRaisedHandReset{IssuedBy: "a"}, time.Now())
	require.NoError(t, err)
	assert.False(t, state.Moderation.LocalHandIsUp)
	assert.True(t, state.Moderation.RaiseHandsEnabled)
}

func TestSessionEndedMessageDependsOnRole(t *testing.T) {
	state := joinedState(t, "local")
	state.LocalRole = domain.RoleModerator

	effects, err := state.applyModeration(ModerationSessionEnded{IssuedBy: "local"}, time.Now())
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Contains(t, effects[0].(Hangup).Message, "You ended the session")

	state.LocalRole = domain.RoleUser
	effects, err = state.applyModeration(ModerationSessionEnded{IssuedBy: "a"}, time.Now())
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Contains(t, effects[0].(Hangup).Message, "ended by a moderator")
}

func TestKickedHangsUp(t *testing.T) {
	state := joinedState(t, "local")

	effects, err := state.applyModeration(ModerationKicked{}, time.Now())
	require.NoError(t, err)
	require.Len(t, effects, 1)
	_, ok := effects[0].(Hangup)
	assert.True(t, ok)
}

func TestRecordingConsentAskedOncePerSession(t *testing.T) {
	state := joinedState(t, "local")

	effects, err := state.applyRecording(RecordingStreamUpdated{
		streamTargetPayload{ID: "t1", Status: domain.StreamActive},
	})
	require.NoError(t, err)
	assert.Contains(t, notificationKeys(effects), noteKeyConsent)

	// A second target going active does not re-prompt.
	effects, err = state.applyRecording(RecordingStreamUpdated{
		streamTargetPayload{ID: "t2", Status: domain.StreamActive},
	})
	require.NoError(t, err)
	assert.Empty(t, notificationKeys(effects))
	assert.Len(t, state.Streams, 2)
}
