package core

// NotificationLevel maps to how prominently the UI renders a notice.
type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// NotificationAction names an interactive affordance attached to a notice.
// The UI reports the user's choice back through the controller.
type NotificationAction string

const (
	ActionNone        NotificationAction = ""
	ActionAcceptMute  NotificationAction = "accept_mute"
	ActionUnmute      NotificationAction = "unmute"
	ActionPassToNext  NotificationAction = "pass_to_next"
	ActionGiveConsent NotificationAction = "give_consent"
)

// Notification is one user-facing notice. Key is stable so repeated shows
// replace rather than stack, and so notices can be cleared by key.
type Notification struct {
	Key    string
	Level  NotificationLevel
	Text   string
	Sticky bool
	Action NotificationAction
}

// Notifier renders notifications. Implemented by the UI layer; the session
// core only emits effect descriptions that the coordinator forwards here.
type Notifier interface {
	Show(Notification)
	Clear(key string)
}
