// Package notify is a zerolog-backed Notifier for headless runs; a real UI
// replaces it.
package notify

import (
	"github.com/rs/zerolog"

	"github.com/dkeye/Meet/internal/core"
)

type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log.With().Str("module", "notify").Logger()}
}

func (n *LogNotifier) Show(note core.Notification) {
	event := n.log.Info()
	switch note.Level {
	case core.LevelWarning:
		event = n.log.Warn()
	case core.LevelError:
		event = n.log.Error()
	}
	event.
		Str("key", note.Key).
		Bool("sticky", note.Sticky).
		Str("action", string(note.Action)).
		Msg(note.Text)
}

func (n *LogNotifier) Clear(key string) {
	n.log.Debug().Str("key", key).Msg("notification cleared")
}
