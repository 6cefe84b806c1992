package session

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Meet/internal/domain"
)

type meetingNotesMessage interface {
	isMeetingNotesMessage()
}

type MeetingNotesAccessURL struct {
	ReadURL  string `json:"read_url,omitempty"`
	WriteURL string `json:"write_url,omitempty"`
}

type MeetingNotesPDFAsset struct {
	AssetID string `json:"asset_id"`
}

type MeetingNotesError struct {
	Error string `json:"error"`
}

func (MeetingNotesAccessURL) isMeetingNotesMessage() {}
func (MeetingNotesPDFAsset) isMeetingNotesMessage()  {}
func (MeetingNotesError) isMeetingNotesMessage()     {}

func decodeMeetingNotes(payload []byte) (meetingNotesMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "access_url":
		return decodeAs[MeetingNotesAccessURL](payload)
	case "pdf_asset":
		return decodeAs[MeetingNotesPDFAsset](payload)
	case "error":
		return decodeAs[MeetingNotesError](payload)
	default:
		return nil, fmt.Errorf("%w: meeting_notes.%s", ErrUnknownMessage, head.Message)
	}
}

func (s *SessionState) applyMeetingNotes(msg meetingNotesMessage) ([]Effect, error) {
	switch m := msg.(type) {
	case MeetingNotesAccessURL:
		s.MeetingNotes.Available = m.ReadURL != "" || m.WriteURL != ""
		s.MeetingNotes.ReadURL = m.ReadURL
		s.MeetingNotes.WriteURL = m.WriteURL

		access := domain.MeetingNotesAccessNone
		switch {
		case m.WriteURL != "":
			access = domain.MeetingNotesAccessWrite
		case m.ReadURL != "":
			access = domain.MeetingNotesAccessRead
		}
		if p, ok := s.Participant(s.LocalID); ok {
			p.MeetingNotesAccess = access
		}

		if access == domain.MeetingNotesAccessWrite {
			return []Effect{info("meeting-notes", "You can now edit the meeting notes")}, nil
		}
		return nil, nil

	case MeetingNotesPDFAsset:
		return []Effect{info("meeting-notes", "The meeting notes were exported as PDF")}, nil

	case MeetingNotesError:
		return []Effect{warning("meeting-notes", "Meeting notes error: "+m.Error)}, nil

	default:
		return nil, fmt.Errorf("%w: unhandled meeting_notes message %T", ErrUnknownMessage, msg)
	}
}
