package session

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

type mediaMessage interface {
	isMediaMessage()
}

type MediaPresenterGranted struct{}

type MediaPresenterRevoked struct{}

type forceMutePayload struct {
	AllowList []domain.ParticipantID `json:"allow_list"`
	IssuedBy  domain.ParticipantID   `json:"issued_by"`
}

func (p forceMutePayload) toDomain() domain.ForceMutePolicy {
	return domain.ForceMutePolicy{Enabled: true, AllowList: p.AllowList, IssuedBy: p.IssuedBy}
}

type MediaForceMuteEnabled struct {
	forceMutePayload
}

type MediaForceMuteDisabled struct {
	IssuedBy domain.ParticipantID `json:"issued_by"`
}

type MediaRequestMute struct {
	IssuedBy domain.ParticipantID `json:"issued_by"`
	Force    bool                 `json:"force"`
}

type MediaSpeakerUpdated struct {
	Participant domain.ParticipantID `json:"participant"`
	IsSpeaking  bool                 `json:"is_speaking"`
}

type MediaError struct {
	Error  string               `json:"error"`
	Source domain.ParticipantID `json:"source,omitempty"`
}

func (MediaPresenterGranted) isMediaMessage()   {}
func (MediaPresenterRevoked) isMediaMessage()   {}
func (MediaForceMuteEnabled) isMediaMessage()   {}
func (MediaForceMuteDisabled) isMediaMessage()  {}
func (MediaRequestMute) isMediaMessage()        {}
func (MediaSpeakerUpdated) isMediaMessage()     {}
func (MediaError) isMediaMessage()              {}

func decodeMedia(payload []byte) (mediaMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "presenter_granted":
		return MediaPresenterGranted{}, nil
	case "presenter_revoked":
		return MediaPresenterRevoked{}, nil
	case "force_mute_enabled":
		return decodeAs[MediaForceMuteEnabled](payload)
	case "force_mute_disabled":
		return decodeAs[MediaForceMuteDisabled](payload)
	case "request_mute":
		return decodeAs[MediaRequestMute](payload)
	case "speaker_updated":
		return decodeAs[MediaSpeakerUpdated](payload)
	case "error":
		return decodeAs[MediaError](payload)
	default:
		return nil, fmt.Errorf("%w: media.%s", ErrUnknownMessage, head.Message)
	}
}

// Negotiation error buckets. Only invalid_request_offer is recoverable: it
// marks the one failed subscription and the session goes on. Everything
// else poisons the connection and must unwind the dispatch.
var fatalNegotiationErrors = map[string]bool{
	"invalid_sdp_offer":         true,
	"invalid_candidate":         true,
	"handle_sdp_answer":         true,
	"invalid_configure_request": true,
	"permission_denied":         true,
}

func (s *SessionState) applyMedia(msg mediaMessage) ([]Effect, error) {
	switch m := msg.(type) {
	case MediaPresenterGranted:
		s.LocalIsPresenter = true
		if p, ok := s.Participant(s.LocalID); ok {
			p.IsPresenter = true
		}
		return []Effect{info(noteKeyPresenter, "You were granted the presenter role")}, nil

	case MediaPresenterRevoked:
		s.LocalIsPresenter = false
		if p, ok := s.Participant(s.LocalID); ok {
			p.IsPresenter = false
		}
		// Losing the role must also stop an in-progress screen-share.
		return []Effect{
			ReleaseScreen{},
			info(noteKeyPresenter, "Your presenter role was revoked"),
		}, nil

	case MediaForceMuteEnabled:
		s.Moderation.ForceMute = m.toDomain()
		effects := []Effect{info(noteKeyForceMute, "A moderator muted all participants")}
		// Only silence the microphone when we are not allow-listed. The
		// enabled flag itself must stay untouched otherwise.
		if !s.Moderation.ForceMute.Allows(s.LocalID) {
			effects = append(effects, reconfigureAudio(false))
		}
		return effects, nil

	case MediaForceMuteDisabled:
		s.Moderation.ForceMute = domain.ForceMutePolicy{}
		return []Effect{info(noteKeyForceMute, "Muting of all participants was lifted")}, nil

	case MediaRequestMute:
		if m.Force {
			return []Effect{
				reconfigureAudio(false),
				info(noteKeyMuteRequest, "A moderator muted you"),
			}, nil
		}
		// A plain request never mutes by itself; the user decides.
		return []Effect{
			sticky(noteKeyMuteRequest, "A moderator asks you to mute yourself", core.ActionAcceptMute),
		}, nil

	case MediaSpeakerUpdated:
		if p, ok := s.Participant(m.Participant); ok {
			p.IsSpeaking = m.IsSpeaking
		}
		return nil, nil

	case MediaError:
		if !fatalNegotiationErrors[m.Error] {
			if m.Source != "" {
				s.FailedSubscriptions[m.Source] = true
			}
			return []Effect{warning("media-error", "A media subscription failed and will be retried")}, nil
		}
		return []Effect{
				ShowNotification{core.Notification{
					Key:    "media-error",
					Level:  core.LevelError,
					Text:   "The media connection failed: " + m.Error,
					Sticky: true,
				}},
			},
			fmt.Errorf("%w: %s", ErrNegotiationFailed, m.Error)

	default:
		return nil, fmt.Errorf("%w: unhandled media message %T", ErrUnknownMessage, msg)
	}
}
