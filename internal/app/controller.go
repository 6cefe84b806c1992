// Package app wires the session core together: channel transport in,
// namespace router, side-effect coordinator out. One controller per room
// connection.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
	"github.com/dkeye/Meet/internal/effects"
	"github.com/dkeye/Meet/internal/session"
)

// Controller drains the transport inbox from a single goroutine and runs
// the router to completion for one envelope before reading the next. That
// is the entire concurrency story of the inbound path; effects are handed
// off and never awaited here.
type Controller struct {
	mu    sync.Mutex
	state *session.SessionState

	router    *session.Router
	builder   *session.Builder
	coord     *effects.Coordinator
	transport core.Transport
	notifier  core.Notifier
	media     core.MediaCapability
	log       zerolog.Logger

	cancel context.CancelFunc
}

func NewController(
	roomID domain.RoomID,
	displayName string,
	transport core.Transport,
	media core.MediaCapability,
	screen core.ScreenCapability,
	notifier core.Notifier,
	log zerolog.Logger,
) *Controller {
	state := session.NewSessionState(roomID, displayName)
	builder := session.NewBuilder(roomID, transport, log)

	c := &Controller{
		state:     state,
		router:    session.NewRouter(state, log),
		builder:   builder,
		transport: transport,
		notifier:  notifier,
		media:     media,
		log:       log.With().Str("module", "app.controller").Logger(),
	}
	c.coord = effects.NewCoordinator(media, screen, notifier, builder, log)
	c.coord.OnHangup = c.hangup
	return c
}

// Run processes lifecycle events and inbound envelopes until the transport
// shuts down or ctx is canceled.
func (c *Controller) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			c.teardown(0)
			return ctx.Err()

		case ev, ok := <-c.transport.Lifecycle():
			if !ok {
				c.teardown(0)
				return nil
			}
			switch ev.Kind {
			case core.LifecycleConnected:
				c.mu.Lock()
				name := c.state.LocalDisplayName
				c.mu.Unlock()
				if err := c.builder.Join(name); err != nil {
					c.log.Error().Err(err).Msg("join command failed")
				}
			case core.LifecycleShutdown, core.LifecycleError:
				c.log.Warn().Int("code", ev.Code).Err(ev.Err).Msg("transport shutdown")
				c.teardown(ev.Code)
				c.notifier.Show(core.Notification{
					Key:    "transport",
					Level:  core.LevelError,
					Text:   "The connection to the room was lost",
					Sticky: true,
				})
				return ev.Err
			}

		case frame, ok := <-c.transport.Inbox():
			if !ok {
				c.teardown(0)
				return nil
			}
			c.dispatch(frame)
		}
	}
}

func (c *Controller) dispatch(frame core.Frame) {
	var env session.MessageEnvelope
	if err := json.Unmarshal(frame, &env); err != nil {
		c.log.Error().Err(err).Bytes("frame", frame).Msg("malformed envelope")
		return
	}

	c.mu.Lock()
	effectList, err := c.router.Dispatch(env)
	c.mu.Unlock()

	if err != nil {
		// Fatal for this message: state was not silently half-applied, and
		// the user gets a diagnostic view instead of nothing.
		c.log.Error().Err(err).Str("namespace", env.Namespace).Msg("dispatch failed")
		if errors.Is(err, session.ErrUnknownNamespace) || errors.Is(err, session.ErrUnknownMessage) {
			c.notifier.Show(core.Notification{
				Key:    "protocol",
				Level:  core.LevelError,
				Text:   "The server sent a message this client does not understand",
				Sticky: true,
			})
		}
	}
	c.coord.Apply(effectList)
}

// teardown detaches everything bound to the current channel. In-flight
// effects of the old room are marked stale and ignored on completion.
func (c *Controller) teardown(code int) {
	c.coord.Invalidate()
	c.mu.Lock()
	c.state.MarkDisconnected(code)
	c.mu.Unlock()
	c.transport.Close()
}

func (c *Controller) hangup(message string) {
	c.log.Info().Str("reason", message).Msg("hanging up")
	c.coord.Invalidate()
	c.media.Release()
	c.mu.Lock()
	c.state.Reset()
	c.mu.Unlock()
	c.transport.Close()
	c.notifier.Show(core.Notification{Key: "hangup", Level: core.LevelInfo, Text: message, Sticky: true})
	if c.cancel != nil {
		c.cancel()
	}
}

// Snapshot returns a deep copy of the aggregate for read-only consumers.
// Callers may marshal it while dispatch keeps mutating the live state.
func (c *Controller) Snapshot() session.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Local intents. Every one of them funnels into the command builder; the
// push-to-talk pair goes through the coordinator's microphone queue.

func (c *Controller) KeyDown() { c.coord.PushToTalk(true) }

func (c *Controller) KeyUp() { c.coord.PushToTalk(false) }

// RaiseHand checks, sends and commits in one critical section; the flag
// only flips after the command actually went out.
func (c *Controller) RaiseHand() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Moderation.RaiseHandsEnabled {
		return errors.New("raising hands is disabled")
	}
	if err := c.builder.RaiseHand(); err != nil {
		return err
	}
	c.state.Moderation.LocalHandIsUp = true
	return nil
}

func (c *Controller) LowerHand() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.builder.LowerHand(); err != nil {
		return err
	}
	c.state.Moderation.LocalHandIsUp = false
	return nil
}

// RespondConsent records the streaming/recording decision and reports it.
// Once recorded, no further consent prompts are raised this session.
func (c *Controller) RespondConsent(consent bool) error {
	c.mu.Lock()
	c.state.RecordConsent(consent)
	c.mu.Unlock()
	c.notifier.Clear("recording-consent")
	return c.builder.SetConsent(consent)
}

// AcceptMuteRequest is the user saying yes to a non-forced mute request.
func (c *Controller) AcceptMuteRequest() {
	c.notifier.Clear("mute-request")
	c.coord.MuteNow()
}

// UnmuteAsSpeaker turns the microphone on for a speaking turn and, if more
// people wait in line, offers passing the turn on.
func (c *Controller) UnmuteAsSpeaker() {
	c.coord.Unmute()
	c.mu.Lock()
	c.state.ConfirmSpeaking()
	offer, ok := c.state.PassToNextOffer()
	c.mu.Unlock()
	if ok {
		c.coord.Apply([]session.Effect{offer})
	}
}

// PassTurn hands the talking stick to the next participant.
func (c *Controller) PassTurn() error {
	c.notifier.Clear("automod-pass")
	c.coord.MuteNow()
	return c.builder.PassTurn()
}

func (c *Controller) SendChat(scope domain.ChatScope, target, content string) error {
	return c.builder.SendChatMessage(scope, target, content)
}

// Builder exposes the full outgoing command surface for the UI layer.
func (c *Controller) Builder() *session.Builder { return c.builder }

// HangUp ends the session on local intent.
func (c *Controller) HangUp() {
	c.hangup("You left the room")
}
