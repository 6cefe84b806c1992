package session

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Router dispatches one inbound envelope at a time to exactly one domain
// reducer. It is not safe for concurrent use; the controller feeds it from
// a single goroutine, in arrival order, one envelope to completion before
// the next.
type Router struct {
	state *SessionState
	log   zerolog.Logger
	now   func() time.Time
}

func NewRouter(state *SessionState, log zerolog.Logger) *Router {
	return &Router{
		state: state,
		log:   log.With().Str("module", "session.router").Logger(),
		now:   time.Now,
	}
}

func (r *Router) State() *SessionState { return r.state }

// Dispatch routes the envelope by namespace. An unknown namespace, or an
// unknown message inside a known namespace, is a protocol violation: the
// full envelope is logged and a hard error unwinds the dispatch. The one
// exception is the control namespace, whose unknown messages are logged
// and dropped so newer servers can add messages without breaking older
// clients.
func (r *Router) Dispatch(env MessageEnvelope) ([]Effect, error) {
	switch env.Namespace {
	case NamespaceControl:
		msg, err := decodeControl(env.Payload)
		if err != nil {
			if isUnknownMessage(err) {
				r.log.Warn().RawJSON("payload", env.Payload).Msg("unknown control message, dropped")
				return nil, nil
			}
			return nil, r.violation(env, err)
		}
		return r.state.applyControl(msg, env.Timestamp, r.now())
	case NamespaceMedia:
		msg, err := decodeMedia(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyMedia(msg)
	case NamespaceBreakout:
		msg, err := decodeBreakout(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyBreakout(msg, env.Timestamp)
	case NamespaceAutomod:
		msg, err := decodeAutomod(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyAutomod(msg)
	case NamespaceLegalVote:
		msg, err := decodeLegalVote(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyLegalVote(msg, env.Timestamp)
	case NamespaceModeration:
		msg, err := decodeModeration(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyModeration(msg, env.Timestamp)
	case NamespaceMeetingNotes:
		msg, err := decodeMeetingNotes(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyMeetingNotes(msg)
	case NamespacePolls:
		msg, err := decodePolls(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyPolls(msg, env.Timestamp)
	case NamespaceChat:
		msg, err := decodeChat(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyChat(msg, env.Timestamp)
	case NamespaceTimer:
		msg, err := decodeTimer(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyTimer(msg)
	case NamespaceWhiteboard:
		msg, err := decodeWhiteboard(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyWhiteboard(msg)
	case NamespaceRecording:
		msg, err := decodeRecording(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applyRecording(msg)
	case NamespaceSharedFolder:
		msg, err := decodeSharedFolder(env.Payload)
		if err != nil {
			return nil, r.violation(env, err)
		}
		return r.state.applySharedFolder(msg)
	default:
		r.log.Error().Str("namespace", env.Namespace).RawJSON("payload", env.Payload).Msg("unknown namespace")
		return nil, fmt.Errorf("%w: %q", ErrUnknownNamespace, env.Namespace)
	}
}

func (r *Router) violation(env MessageEnvelope, err error) error {
	r.log.Error().Err(err).Str("namespace", env.Namespace).RawJSON("payload", env.Payload).Msg("protocol violation")
	return fmt.Errorf("namespace %s: %w", env.Namespace, err)
}
