package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/domain"
)

func TestBreakoutJoinAndReturn(t *testing.T) {
	state := joinedState(t, "local", "a", "b")

	_, err := state.applyBreakout(BreakoutStarted{
		Rooms: []domain.BreakoutRoom{{ID: "sub-1", Name: "Sub 1"}},
	}, time.Now())
	require.NoError(t, err)
	assert.True(t, state.Breakout.Active)

	_, err = state.applyBreakout(BreakoutJoined{ID: "a", BreakoutRoom: "sub-1"}, time.Now())
	require.NoError(t, err)

	p, ok := state.Participant("a")
	require.True(t, ok)
	assert.Equal(t, domain.WaitingStateJoinedOtherRoom, p.WaitingState)
	require.NotNil(t, p.BreakoutRoomID)
	assert.Equal(t, domain.BreakoutRoomID("sub-1"), *p.BreakoutRoomID)

	returnedAt := time.Now().Add(time.Minute)
	_, err = state.applyBreakout(BreakoutLeft{ID: "a"}, returnedAt)
	require.NoError(t, err)
	p, _ = state.Participant("a")
	assert.Equal(t, domain.WaitingStateJoined, p.WaitingState)
	assert.Nil(t, p.BreakoutRoomID)
	assert.Equal(t, returnedAt, p.JoinedAt)
}

func TestBreakoutStoppedReturnsEveryone(t *testing.T) {
	state := joinedState(t, "local", "a", "b")
	_, err := state.applyBreakout(BreakoutStarted{
		Rooms: []domain.BreakoutRoom{{ID: "sub-1"}},
	}, time.Now())
	require.NoError(t, err)
	_, err = state.applyBreakout(BreakoutJoined{ID: "a", BreakoutRoom: "sub-1"}, time.Now())
	require.NoError(t, err)
	_, err = state.applyBreakout(BreakoutJoined{ID: "b", BreakoutRoom: "sub-1"}, time.Now())
	require.NoError(t, err)

	_, err = state.applyBreakout(BreakoutStopped{}, time.Now())
	require.NoError(t, err)

	assert.False(t, state.Breakout.Active)
	for _, id := range []domain.ParticipantID{"a", "b"} {
		p, ok := state.Participant(id)
		require.True(t, ok)
		assert.Equal(t, domain.WaitingStateJoined, p.WaitingState)
		assert.Nil(t, p.BreakoutRoomID)
	}
}

func TestLegalVoteLifecycle(t *testing.T) {
	state := joinedState(t, "local")
	now := time.Now()

	effects, err := state.applyLegalVote(LegalVoteStarted{
		legalVotePayload{ID: "v1", Name: "Budget", Topic: "Approve the budget?"},
	}, now)
	require.NoError(t, err)
	assert.NotEmpty(t, effects)
	require.Len(t, state.LegalVotes, 1)
	assert.Equal(t, domain.VoteStateActive, state.LegalVotes[0].State)
	assert.Equal(t, now, state.LegalVotes[0].StartedAt)

	_, err = state.applyLegalVote(LegalVoteUpdated{
		ID:    "v1",
		Tally: map[domain.VoteOption]int{domain.VoteYes: 3, domain.VoteNo: 1},
	}, now)
	require.NoError(t, err)
	assert.Equal(t, 3, state.LegalVotes[0].Tally[domain.VoteYes])

	_, err = state.applyLegalVote(LegalVoteStopped{ID: "v1"}, now)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteStateFinished, state.LegalVotes[0].State)

	// Events for a vote we never saw are ignored, not an error.
	_, err = state.applyLegalVote(LegalVoteStopped{ID: "v9"}, now)
	require.NoError(t, err)
	assert.Len(t, state.LegalVotes, 1)
}

func TestPollLiveUpdateAndDone(t *testing.T) {
	state := joinedState(t, "local")
	now := time.Now()

	_, err := state.applyPolls(PollStarted{
		pollPayload{ID: "p1", Topic: "Lunch?", Live: true, Choices: []domain.PollChoice{
			{ID: 1, Content: "Pizza"},
			{ID: 2, Content: "Sushi"},
		}},
	}, now)
	require.NoError(t, err)

	_, err = state.applyPolls(PollLiveUpdate{
		ID: "p1",
		Choices: []domain.PollChoice{
			{ID: 1, Content: "Pizza", Count: 4},
			{ID: 2, Content: "Sushi", Count: 2},
		},
	}, now)
	require.NoError(t, err)
	require.Len(t, state.Polls, 1)
	assert.Equal(t, 4, state.Polls[0].Choices[0].Count)

	_, err = state.applyPolls(PollDone{ID: "p1"}, now)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteStateFinished, state.Polls[0].State)
}

func TestTimerDeadlineShownInLocalTime(t *testing.T) {
	state := joinedState(t, "local")
	// Server clock runs one hour ahead of us.
	state.ServerTimeOffset = time.Hour

	endsAt := time.Date(2026, 3, 1, 13, 30, 0, 0, time.UTC)
	effects, err := state.applyTimer(TimerStarted{
		timerPayload{ID: "t1", Kind: domain.TimerCountdown, EndsAt: &endsAt},
	})
	require.NoError(t, err)

	require.Len(t, effects, 1)
	assert.Contains(t, effects[0].(ShowNotification).Text, "12:30:00")
	require.NotNil(t, state.Timer)
	assert.True(t, state.Timer.Running)
}

func TestTimerStopIgnoresUnknownID(t *testing.T) {
	state := joinedState(t, "local")
	_, err := state.applyTimer(TimerStarted{timerPayload{ID: "t1"}})
	require.NoError(t, err)

	effects, err := state.applyTimer(TimerStopped{ID: "t2"})
	require.NoError(t, err)
	assert.Empty(t, effects)
	assert.NotNil(t, state.Timer)

	_, err = state.applyTimer(TimerStopped{ID: "t1"})
	require.NoError(t, err)
	assert.Nil(t, state.Timer)
}
