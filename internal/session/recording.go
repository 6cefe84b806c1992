package session

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

type recordingMessage interface {
	isRecordingMessage()
}

type streamTargetPayload struct {
	ID     domain.StreamTargetID `json:"target"`
	Name   string                `json:"name,omitempty"`
	Status domain.StreamStatus   `json:"status"`
}

func (p streamTargetPayload) toDomain() domain.StreamTarget {
	return domain.StreamTarget{ID: p.ID, Name: p.Name, Status: p.Status}
}

type RecordingStreamUpdated struct {
	streamTargetPayload
}

type RecordingError struct {
	Error string `json:"error"`
}

func (RecordingStreamUpdated) isRecordingMessage() {}
func (RecordingError) isRecordingMessage()         {}

func decodeRecording(payload []byte) (recordingMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "stream_updated":
		return decodeAs[RecordingStreamUpdated](payload)
	case "error":
		return decodeAs[RecordingError](payload)
	default:
		return nil, fmt.Errorf("%w: recording.%s", ErrUnknownMessage, head.Message)
	}
}

func consentPrompt() Effect {
	return ShowNotification{core.Notification{
		Key:    noteKeyConsent,
		Level:  core.LevelWarning,
		Text:   "This meeting is being recorded or streamed. Do you consent?",
		Sticky: true,
		Action: core.ActionGiveConsent,
	}}
}

func (s *SessionState) applyRecording(msg recordingMessage) ([]Effect, error) {
	switch m := msg.(type) {
	case RecordingStreamUpdated:
		s.Streams[m.ID] = m.toDomain()

		// Consent is asked once per session: not per target, and never
		// again once a decision exists.
		if m.Status == domain.StreamActive && s.RecordingConsent == nil && !s.consentPromptShown {
			s.consentPromptShown = true
			return []Effect{consentPrompt()}, nil
		}
		return nil, nil

	case RecordingError:
		return []Effect{warning("recording", "Recording error: "+m.Error)}, nil

	default:
		return nil, fmt.Errorf("%w: unhandled recording message %T", ErrUnknownMessage, msg)
	}
}

// RecordConsent stores the local decision. Once set it is final for the
// session; further active targets do not re-prompt.
func (s *SessionState) RecordConsent(consent bool) {
	s.RecordingConsent = &consent
	s.consentPromptShown = true
}
