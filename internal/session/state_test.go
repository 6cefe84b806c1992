package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/domain"
)

func TestCloneIsDetachedFromLiveState(t *testing.T) {
	state := joinedState(t, "local", "a", "b")
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	_, err := state.applyRecording(RecordingStreamUpdated{
		streamTargetPayload{ID: "t1", Status: domain.StreamActive},
	})
	require.NoError(t, err)
	_, err = state.applyChat(ChatEnabled{IssuedBy: "a"}, t0)
	require.NoError(t, err)
	endsAt := t0.Add(10 * time.Minute)
	_, err = state.applyTimer(TimerStarted{timerPayload{ID: "timer-1", EndsAt: &endsAt}})
	require.NoError(t, err)

	clone := state.Clone()

	// Keep reducing the live aggregate; the copy must not move.
	_, err = state.applyRecording(RecordingStreamUpdated{
		streamTargetPayload{ID: "t2", Status: domain.StreamActive},
	})
	require.NoError(t, err)
	_, err = state.applyChat(ChatDisabled{IssuedBy: "b"}, t0.Add(time.Minute))
	require.NoError(t, err)
	laterEnd := endsAt.Add(5 * time.Minute)
	_, err = state.applyTimer(TimerUpdated{ID: "timer-1", EndsAt: &laterEnd})
	require.NoError(t, err)
	state.Participants[0].DisplayName = "renamed"
	state.FailedSubscriptions["a"] = true

	assert.Len(t, clone.Streams, 1)
	assert.True(t, clone.Chat.Settings[domain.ChatScopeGlobal].Enabled)
	require.NotNil(t, clone.Timer)
	require.NotNil(t, clone.Timer.EndsAt)
	assert.True(t, clone.Timer.EndsAt.Equal(endsAt))
	assert.NotEqual(t, "renamed", clone.Participants[0].DisplayName)
	assert.Empty(t, clone.FailedSubscriptions)

	// Live state did move.
	assert.Len(t, state.Streams, 2)
	assert.False(t, state.Chat.Settings[domain.ChatScopeGlobal].Enabled)
}
