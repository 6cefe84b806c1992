package session

import (
	"github.com/dkeye/Meet/internal/core"
)

// Effect is a description of a side effect a reducer wants performed. The
// closed set below is everything the coordinator knows how to execute.
type Effect interface {
	isEffect()
}

// ShowNotification renders (or replaces, by key) a user-facing notice.
type ShowNotification struct {
	core.Notification
}

// ClearNotification removes a notice by its stable key.
type ClearNotification struct {
	Key string
}

// ReconfigureMedia asks the coordinator to change local capture. Audio
// changes are serialized through the microphone queue.
type ReconfigureMedia struct {
	core.MediaRequest
}

// ReleaseMedia tears down local capture entirely. Distinct from muting.
type ReleaseMedia struct{}

// ReleaseScreen stops an active local screen-share, if any.
type ReleaseScreen struct{}

// SendCommand routes a reducer-originated command through the outgoing
// command builder.
type SendCommand struct {
	Namespace string
	Action    string
	Fields    map[string]any
}

// Hangup ends the session and navigates away with the given message.
type Hangup struct {
	Message string
}

func (ShowNotification) isEffect()  {}
func (ClearNotification) isEffect() {}
func (ReconfigureMedia) isEffect()  {}
func (ReleaseMedia) isEffect()      {}
func (ReleaseScreen) isEffect()     {}
func (SendCommand) isEffect()       {}
func (Hangup) isEffect()            {}

// Stable notification keys. Repeated shows with the same key replace the
// existing notice instead of stacking a duplicate.
const (
	noteKeyRoomFull        = "room-full"
	noteKeyAutomodHowTo    = "automod-howto"
	noteKeyAutomodLowCount = "automod-low-count"
	noteKeyAutomodNext     = "automod-next"
	noteKeyAutomodSpeaking = "automod-speaking"
	noteKeyAutomodPass     = "automod-pass"
	noteKeyAutomodFinished = "automod-finished"
	noteKeyConsent         = "recording-consent"
	noteKeyMuteRequest     = "mute-request"
	noteKeyForceMute       = "force-mute"
	noteKeyPresenter       = "presenter-role"
	noteKeyWaitingRoom     = "waiting-room"
	noteKeyBreakout        = "breakout"
	noteKeyTimer           = "timer"
)

// automodNoteKeys lists every key the turn-taking domain may have shown;
// automod stop clears all of them.
var automodNoteKeys = []string{
	noteKeyAutomodHowTo,
	noteKeyAutomodLowCount,
	noteKeyAutomodNext,
	noteKeyAutomodSpeaking,
	noteKeyAutomodPass,
}

func info(key, text string) Effect {
	return ShowNotification{core.Notification{Key: key, Level: core.LevelInfo, Text: text}}
}

func warning(key, text string) Effect {
	return ShowNotification{core.Notification{Key: key, Level: core.LevelWarning, Text: text}}
}

func sticky(key, text string, action core.NotificationAction) Effect {
	return ShowNotification{core.Notification{Key: key, Level: core.LevelInfo, Text: text, Sticky: true, Action: action}}
}

func reconfigureAudio(on bool) Effect {
	return ReconfigureMedia{core.MediaRequest{Audio: &on}}
}
