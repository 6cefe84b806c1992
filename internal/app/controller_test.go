package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/session"
)

type stubTransport struct {
	mu      sync.Mutex
	frames  []core.Frame
	sendErr error

	inbox  chan core.Frame
	events chan core.LifecycleEvent
}

func newStubTransport() *stubTransport {
	return &stubTransport{
		inbox:  make(chan core.Frame, 8),
		events: make(chan core.LifecycleEvent, 8),
	}
}

func (s *stubTransport) TrySend(f core.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *stubTransport) failWith(err error) {
	s.mu.Lock()
	s.sendErr = err
	s.mu.Unlock()
}

func (s *stubTransport) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func (s *stubTransport) Inbox() <-chan core.Frame { return s.inbox }

func (s *stubTransport) Lifecycle() <-chan core.LifecycleEvent { return s.events }

func (s *stubTransport) Close() {}

type stubMedia struct{}

func (stubMedia) IsAudioRunning() bool { return true }

func (stubMedia) IsAudioEnabled() bool { return false }

func (stubMedia) Reconfigure(context.Context, core.MediaRequest) error { return nil }

func (stubMedia) Release() {}

type stubScreen struct{}

func (stubScreen) IsSharing() bool { return false }

func (stubScreen) Release() {}

type stubNotifier struct{}

func (stubNotifier) Show(core.Notification) {}

func (stubNotifier) Clear(string) {}

func newTestController(t *testing.T) (*Controller, *stubTransport) {
	t.Helper()
	tr := newStubTransport()
	c := NewController("room-1", "me", tr, stubMedia{}, stubScreen{}, stubNotifier{}, zerolog.Nop())
	return c, tr
}

func streamFrame(t *testing.T, target string) core.Frame {
	t.Helper()
	payload := fmt.Sprintf(`{"message":"stream_updated","target":%q,"status":"active"}`, target)
	env := session.MessageEnvelope{
		Namespace: session.NamespaceRecording,
		Payload:   json.RawMessage(payload),
		Timestamp: time.Now(),
	}
	raw, err := json.Marshal(env)
	require.NoError(t, err)
	return raw
}

func TestRaiseHandRollsBackOnSendFailure(t *testing.T) {
	c, tr := newTestController(t)

	tr.failWith(errors.New("connection closed"))
	err := c.RaiseHand()
	require.Error(t, err)
	assert.False(t, c.state.Moderation.LocalHandIsUp, "flag must not flip when the command never left")

	tr.failWith(nil)
	require.NoError(t, c.RaiseHand())
	assert.True(t, c.state.Moderation.LocalHandIsUp)
	assert.Equal(t, 1, tr.sentCount())

	c.state.Moderation.RaiseHandsEnabled = false
	err = c.RaiseHand()
	require.Error(t, err)
	assert.Equal(t, 1, tr.sentCount(), "disabled raise-hands must not send")
}

func TestSnapshotIsolatedFromDispatch(t *testing.T) {
	c, _ := newTestController(t)

	c.dispatch(streamFrame(t, "t1"))
	snap := c.Snapshot()
	require.Len(t, snap.Streams, 1)

	c.dispatch(streamFrame(t, "t2"))
	assert.Len(t, snap.Streams, 1, "earlier snapshot must not see later dispatches")

	// A reader marshaling snapshots while dispatch keeps reducing must not
	// observe the live maps.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_, err := json.Marshal(c.Snapshot())
			assert.NoError(t, err)
		}
	}()
	for i := 0; i < 100; i++ {
		c.dispatch(streamFrame(t, fmt.Sprintf("t-%d", i)))
	}
	<-done
}
