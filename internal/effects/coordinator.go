// Package effects executes the side-effect descriptions emitted by the
// session reducers: local media reconfiguration, notifications, outgoing
// commands and hang-up. Reducers never perform effects themselves.
package effects

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/session"
)

// CommandSink is where reducer-originated commands go; implemented by the
// outgoing command builder.
type CommandSink interface {
	Command(ns, action string, fields map[string]any) error
}

// Coordinator owns every collaborator the router must never touch: the
// media capability, the screen capability and the notifier.
type Coordinator struct {
	media    core.MediaCapability
	screen   core.ScreenCapability
	notifier core.Notifier
	sink     CommandSink
	mic      *micQueue
	log      zerolog.Logger

	// generation guards against stale async completions after a room
	// switch; bumped by Invalidate.
	generation atomic.Int64

	// OnHangup navigates away. Set by the controller.
	OnHangup func(message string)
}

func NewCoordinator(media core.MediaCapability, screen core.ScreenCapability, notifier core.Notifier, sink CommandSink, log zerolog.Logger) *Coordinator {
	c := &Coordinator{
		media:    media,
		screen:   screen,
		notifier: notifier,
		sink:     sink,
		log:      log.With().Str("module", "effects").Logger(),
	}
	c.mic = newMicQueue(media.IsAudioEnabled(), c.applyAudio)
	return c
}

// Apply executes the effect list of one dispatched envelope. Asynchronous
// effects are fire-and-forget with respect to message ordering; only
// changes to the shared microphone are serialized through the queue.
func (c *Coordinator) Apply(effects []session.Effect) {
	for _, effect := range effects {
		switch e := effect.(type) {
		case session.ShowNotification:
			c.notifier.Show(e.Notification)

		case session.ClearNotification:
			c.notifier.Clear(e.Key)

		case session.ReconfigureMedia:
			if e.Audio != nil {
				c.mic.Set(*e.Audio)
			}
			if e.Video != nil {
				gen := c.generation.Load()
				video := *e.Video
				go func() {
					req := core.MediaRequest{Video: &video}
					if err := c.media.Reconfigure(context.Background(), req); err != nil {
						c.log.Error().Err(err).Msg("video reconfigure")
					}
					if gen != c.generation.Load() {
						c.log.Debug().Msg("stale video reconfigure ignored")
					}
				}()
			}

		case session.ReleaseMedia:
			c.mic.invalidate()
			c.media.Release()
			c.mic = newMicQueue(false, c.applyAudio)

		case session.ReleaseScreen:
			if c.screen != nil && c.screen.IsSharing() {
				c.screen.Release()
			}

		case session.SendCommand:
			if err := c.sink.Command(e.Namespace, e.Action, e.Fields); err != nil {
				c.log.Error().Err(err).Str("namespace", e.Namespace).Str("action", e.Action).Msg("reducer command failed")
			}

		case session.Hangup:
			if c.OnHangup != nil {
				c.OnHangup(e.Message)
			}

		default:
			c.log.Error().Type("effect", effect).Msg("unhandled effect")
		}
	}
}

// PushToTalk feeds a key transition into the microphone queue.
func (c *Coordinator) PushToTalk(on bool) {
	c.mic.Set(on)
}

// MuteNow is the accepted outcome of a non-forced mute request.
func (c *Coordinator) MuteNow() {
	c.mic.Set(false)
}

// Unmute turns the microphone back on, e.g. when taking a speaking turn.
func (c *Coordinator) Unmute() {
	c.mic.Set(true)
}

// Invalidate marks every in-flight effect stale. Called on room switch and
// hang-up before listeners are torn down.
func (c *Coordinator) Invalidate() {
	c.generation.Add(1)
	c.mic.invalidate()
	c.mic = newMicQueue(c.media.IsAudioEnabled(), c.applyAudio)
}

func (c *Coordinator) applyAudio(ctx context.Context, on bool) {
	req := core.MediaRequest{Audio: &on}
	if err := c.media.Reconfigure(ctx, req); err != nil {
		c.log.Error().Err(err).Bool("on", on).Msg("audio reconfigure")
	}
}
