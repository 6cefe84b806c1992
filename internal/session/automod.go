package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// automodMinParticipants — below this room size turn-taking degrades into
// two people passing a stick back and forth, so we warn.
const automodMinParticipants = 3

const automodHowToText = "Turn-taking is active: speakers are picked from a playlist.\n" +
	"You will be notified when it is your turn."

type automodMessage interface {
	isAutomodMessage()
}

type automodParametersPayload struct {
	Strategy             domain.SelectionStrategy `json:"selection_strategy"`
	ConsiderHandRaise    bool                     `json:"consider_hand_raise"`
	TimeLimitSecs        *int64                   `json:"time_limit_secs,omitempty"`
	AllowDoubleSelection bool                     `json:"allow_double_selection"`
	IssuedBy             domain.ParticipantID     `json:"issued_by"`
}

func (p automodParametersPayload) toDomain() domain.AutomodParameters {
	params := domain.AutomodParameters{
		Strategy:             p.Strategy,
		ConsiderHandRaise:    p.ConsiderHandRaise,
		AllowDoubleSelection: p.AllowDoubleSelection,
		IssuedBy:             p.IssuedBy,
	}
	if p.TimeLimitSecs != nil {
		d := time.Duration(*p.TimeLimitSecs) * time.Second
		params.TimeLimit = &d
	}
	return params
}

type AutomodStarted struct {
	Parameters automodParametersPayload `json:"parameters"`
	Remaining  []domain.ParticipantID   `json:"remaining"`
	History    []domain.ParticipantID   `json:"history,omitempty"`
}

type AutomodStopped struct {
	IssuedBy domain.ParticipantID `json:"issued_by,omitempty"`
}

type AutomodRemainingUpdated struct {
	Remaining []domain.ParticipantID `json:"remaining"`
}

type AutomodSpeakerUpdated struct {
	Speaker   *domain.ParticipantID  `json:"speaker,omitempty"`
	Remaining []domain.ParticipantID `json:"remaining,omitempty"`
	History   []domain.ParticipantID `json:"history,omitempty"`
}

type AutomodError struct {
	Error string `json:"error"`
}

func (AutomodStarted) isAutomodMessage()          {}
func (AutomodStopped) isAutomodMessage()          {}
func (AutomodRemainingUpdated) isAutomodMessage() {}
func (AutomodSpeakerUpdated) isAutomodMessage()   {}
func (AutomodError) isAutomodMessage()            {}

func decodeAutomod(payload []byte) (automodMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "started":
		return decodeAs[AutomodStarted](payload)
	case "stopped":
		return decodeAs[AutomodStopped](payload)
	case "remaining_updated":
		return decodeAs[AutomodRemainingUpdated](payload)
	case "speaker_updated":
		return decodeAs[AutomodSpeakerUpdated](payload)
	case "error":
		return decodeAs[AutomodError](payload)
	default:
		return nil, fmt.Errorf("%w: automod.%s", ErrUnknownMessage, head.Message)
	}
}

func (s *SessionState) applyAutomod(msg automodMessage) ([]Effect, error) {
	switch m := msg.(type) {
	case AutomodStarted:
		s.Automod = domain.AutomodState{
			Active:       true,
			Parameters:   m.Parameters.toDomain(),
			Remaining:    m.Remaining,
			History:      m.History,
			SpeakerState: domain.SpeakerInactive,
		}
		var effects []Effect
		if s.Automod.Parameters.Strategy == domain.SelectionPlaylist {
			// Keyed, so a repeated started event replaces instead of
			// stacking a second copy.
			effects = append(effects, sticky(noteKeyAutomodHowTo, automodHowToText, ""))
		}
		if s.OnlineCount()+1 < automodMinParticipants {
			effects = append(effects, warning(noteKeyAutomodLowCount,
				"Turn-taking works better with at least three participants"))
		}
		if s.Automod.Parameters.IssuedBy == s.LocalID {
			// The moderator who started the session kicks off the first
			// selection right away.
			effects = append(effects, SendCommand{Namespace: NamespaceAutomod, Action: "select_next"})
		}
		return effects, nil

	case AutomodStopped:
		s.Automod = domain.AutomodState{SpeakerState: domain.SpeakerInactive}
		effects := make([]Effect, 0, len(automodNoteKeys)+2)
		for _, key := range automodNoteKeys {
			effects = append(effects, ClearNotification{Key: key})
		}
		effects = append(effects,
			info(noteKeyAutomodFinished, "The turn-taking session has finished"),
			// Forced off regardless of prior state: the stick is gone.
			reconfigureAudio(false),
		)
		return effects, nil

	case AutomodRemainingUpdated:
		s.Automod.Remaining = m.Remaining
		if len(m.Remaining) > 0 && m.Remaining[0] == s.LocalID && s.Automod.Speaker != s.LocalID {
			return []Effect{sticky(noteKeyAutomodNext, "You are next in line to speak", "")}, nil
		}
		return nil, nil

	case AutomodSpeakerUpdated:
		return s.applySpeakerUpdated(m), nil

	case AutomodError:
		return []Effect{warning("automod-error", "Turn-taking error: "+m.Error)}, nil

	default:
		return nil, fmt.Errorf("%w: unhandled automod message %T", ErrUnknownMessage, msg)
	}
}

func speakingTurnPrompt() Effect {
	return sticky(noteKeyAutomodSpeaking,
		"It is your turn to speak. Unmute yourself to start.", core.ActionUnmute)
}

// applySpeakerUpdated is written to be idempotent: dispatching the same
// event twice must not emit a second mute or a second transition notice.
func (s *SessionState) applySpeakerUpdated(m AutomodSpeakerUpdated) []Effect {
	var newSpeaker domain.ParticipantID
	if m.Speaker != nil {
		newSpeaker = *m.Speaker
	}
	if s.Automod.Speaker == newSpeaker {
		return nil
	}

	if prev := s.Automod.Speaker; prev != "" {
		s.Automod.History = append(s.Automod.History, prev)
	}
	if m.History != nil {
		s.Automod.History = m.History
	}
	if m.Remaining != nil {
		s.Automod.Remaining = m.Remaining
	}
	s.Automod.Speaker = newSpeaker

	if newSpeaker == s.LocalID {
		// Only a transition out of inactive raises the prompt; repeated
		// identical events were already filtered above. The turn sits in
		// transitioning until the user confirms it by unmuting.
		if s.Automod.SpeakerState == domain.SpeakerInactive {
			s.Automod.SpeakerState = domain.SpeakerTransitioning
			return []Effect{
				ClearNotification{Key: noteKeyAutomodNext},
				speakingTurnPrompt(),
			}
		}
		return nil
	}

	var effects []Effect
	if s.Automod.SpeakerState != domain.SpeakerInactive {
		s.Automod.SpeakerState = domain.SpeakerInactive
		effects = append(effects,
			ClearNotification{Key: noteKeyAutomodSpeaking},
			ClearNotification{Key: noteKeyAutomodPass},
		)
	}
	// Whoever is not the speaker must not hold an open microphone. The
	// coordinator drops this when audio is already off.
	effects = append(effects, reconfigureAudio(false))
	return effects
}

// ConfirmSpeaking moves a pending local turn from transitioning to active
// once the user actually unmuted for it.
func (s *SessionState) ConfirmSpeaking() {
	if s.Automod.Active && s.Automod.Speaker == s.LocalID &&
		s.Automod.SpeakerState == domain.SpeakerTransitioning {
		s.Automod.SpeakerState = domain.SpeakerActive
	}
}

// PassToNextOffer returns the follow-up notice shown once the local speaker
// unmutes: pass the stick on, unless the queue ran out.
func (s *SessionState) PassToNextOffer() (Effect, bool) {
	if !s.Automod.Active || s.Automod.Speaker != s.LocalID || len(s.Automod.Remaining) == 0 {
		return nil, false
	}
	return sticky(noteKeyAutomodPass, "Done speaking? Pass the turn to the next participant.",
		core.ActionPassToNext), true
}
