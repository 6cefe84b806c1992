package effects

import (
	"context"
	"sync"
)

// micQueue serializes every change to the shared microphone. It is a
// two-slot command queue: while one reconfigure is in flight, at most one
// pending "on" and one pending "off" are remembered, and a pending change
// only starts after the in-flight one completed. Rapid push-to-talk
// alternation therefore collapses to exactly one on and one off, in order.
type micQueue struct {
	mu         sync.Mutex
	inFlight   *bool
	pendingOn  bool
	pendingOff bool
	state      bool
	stale      bool
	apply      func(ctx context.Context, on bool)
}

func newMicQueue(initial bool, apply func(ctx context.Context, on bool)) *micQueue {
	return &micQueue{state: initial, apply: apply}
}

// Set requests the microphone to end up in the given state. Duplicate
// requests for the already-applied or in-flight state are dropped, which
// makes repeated identical server events no-ops on local media.
func (q *micQueue) Set(on bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stale {
		return
	}
	if q.inFlight != nil {
		if *q.inFlight == on {
			return
		}
		if on {
			q.pendingOn = true
		} else {
			q.pendingOff = true
		}
		return
	}
	if q.state == on {
		return
	}
	q.start(on)
}

// invalidate drops all pending work. Completions of in-flight calls are
// ignored afterwards; used on room switch and hang-up.
func (q *micQueue) invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stale = true
	q.pendingOn = false
	q.pendingOff = false
}

func (q *micQueue) start(on bool) {
	v := on
	q.inFlight = &v
	go q.run(on)
}

func (q *micQueue) run(on bool) {
	q.apply(context.Background(), on)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.inFlight = nil
	if q.stale {
		return
	}
	q.state = on

	// The opposite slot drains first; a same-direction slot left behind is
	// already satisfied.
	if on {
		q.pendingOn = false
		if q.pendingOff {
			q.pendingOff = false
			q.start(false)
		}
	} else {
		q.pendingOff = false
		if q.pendingOn {
			q.pendingOn = false
			q.start(true)
		}
	}
}
