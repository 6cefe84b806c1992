package session

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchUnknownNamespaceFailsWithoutMutation(t *testing.T) {
	state := joinedState(t, "local", "a")
	router := NewRouter(state, zerolog.Nop())
	before := *state

	effects, err := router.Dispatch(testEnvelope(t, "bogus", map[string]any{
		"message": "whatever",
	}, time.Now()))

	require.ErrorIs(t, err, ErrUnknownNamespace)
	assert.Empty(t, effects)
	assert.Equal(t, before.Status, state.Status)
	assert.Len(t, state.Participants, len(before.Participants))
}

func TestDispatchUnknownControlMessageIsDropped(t *testing.T) {
	// The control namespace tolerates unknown messages so newer servers can
	// extend it; everywhere else an unknown message is a protocol violation.
	state := joinedState(t, "local")
	router := NewRouter(state, zerolog.Nop())

	effects, err := router.Dispatch(testEnvelope(t, NamespaceControl, map[string]any{
		"message": "brand_new_thing",
	}, time.Now()))

	require.NoError(t, err)
	assert.Empty(t, effects)
}

func TestDispatchUnknownChatMessageFails(t *testing.T) {
	state := joinedState(t, "local")
	router := NewRouter(state, zerolog.Nop())

	_, err := router.Dispatch(testEnvelope(t, NamespaceChat, map[string]any{
		"message": "brand_new_thing",
	}, time.Now()))
	require.ErrorIs(t, err, ErrUnknownMessage)
}

func TestDispatchMalformedPayload(t *testing.T) {
	state := joinedState(t, "local")
	router := NewRouter(state, zerolog.Nop())

	_, err := router.Dispatch(MessageEnvelope{
		Namespace: NamespaceChat,
		Payload:   []byte(`{"message": "message_sent", "content": 42}`),
		Timestamp: time.Now(),
	})
	require.ErrorIs(t, err, ErrBadPayload)
	assert.Empty(t, state.Chat.Messages)
}

func TestDispatchRoutesToReducer(t *testing.T) {
	state := joinedState(t, "local", "a")
	router := NewRouter(state, zerolog.Nop())

	effects, err := router.Dispatch(testEnvelope(t, NamespaceChat, map[string]any{
		"message": "message_sent",
		"id":      "m1",
		"source":  "a",
		"content": "hello",
	}, time.Now()))

	require.NoError(t, err)
	assert.Empty(t, effects)
	require.Len(t, state.Chat.Messages, 1)
	assert.Equal(t, "hello", state.Chat.Messages[0].Content)
}

func TestDispatchJoinBlockedHangsUp(t *testing.T) {
	state := NewSessionState("room-1", "me")
	router := NewRouter(state, zerolog.Nop())

	effects, err := router.Dispatch(testEnvelope(t, NamespaceControl, map[string]any{
		"message": "join_blocked",
		"reason":  "room is full",
	}, time.Now()))

	require.NoError(t, err)
	require.Len(t, effects, 1)
	hangup := effects[0].(Hangup)
	assert.Contains(t, hangup.Message, "room is full")
}
