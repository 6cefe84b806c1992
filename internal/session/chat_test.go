package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/domain"
)

func TestChatLastWriterWinsByTimestamp(t *testing.T) {
	state := joinedState(t, "local")
	t1 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(2 * time.Minute)
	t3 := t1.Add(1 * time.Minute)

	_, err := state.applyChat(ChatEnabled{IssuedBy: "a"}, t1)
	require.NoError(t, err)
	_, err = state.applyChat(ChatDisabled{IssuedBy: "b"}, t2)
	require.NoError(t, err)
	// Arrives last but was issued before the disable: must lose.
	_, err = state.applyChat(ChatEnabled{IssuedBy: "c"}, t3)
	require.NoError(t, err)

	settings := state.Chat.Settings[domain.ChatScopeGlobal]
	assert.False(t, settings.Enabled)
	assert.Equal(t, domain.ParticipantID("b"), settings.IssuedBy)
}

func TestChatPrivateMessageRetagsSender(t *testing.T) {
	state := joinedState(t, "local", "a")

	effects, err := state.applyChat(ChatMessageSent{
		ID: "m1", Source: "a", Target: "local",
		Scope: domain.ChatScopePrivate, Content: "psst",
	}, time.Now())
	require.NoError(t, err)

	require.Len(t, state.Chat.Messages, 1)
	assert.Equal(t, "a", state.Chat.Messages[0].Target)
	assert.NotEmpty(t, notificationKeys(effects))
}

func TestChatGroupMessageFromSelfIsQuiet(t *testing.T) {
	state := joinedState(t, "local")

	effects, err := state.applyChat(ChatMessageSent{
		ID: "m1", Source: "local", Target: "g1",
		Scope: domain.ChatScopeGroup, Content: "hi all",
	}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, notificationKeys(effects))
}

func TestChatHistoryClearedKeepsNonGlobal(t *testing.T) {
	state := joinedState(t, "local")
	now := time.Now()

	_, err := state.applyChat(ChatMessageSent{ID: "m1", Source: "a", Content: "global"}, now)
	require.NoError(t, err)
	_, err = state.applyChat(ChatMessageSent{
		ID: "m2", Source: "a", Target: "g1", Scope: domain.ChatScopeGroup, Content: "group",
	}, now)
	require.NoError(t, err)
	_, err = state.applyChat(ChatMessageSent{
		ID: "m3", Source: "a", Target: "local", Scope: domain.ChatScopePrivate, Content: "private",
	}, now)
	require.NoError(t, err)

	_, err = state.applyChat(ChatHistoryCleared{}, now)
	require.NoError(t, err)

	require.Len(t, state.Chat.Messages, 2)
	for _, m := range state.Chat.Messages {
		assert.NotEqual(t, domain.ChatScopeGlobal, m.Scope)
	}
}
