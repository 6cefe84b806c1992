package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkeye/Meet/internal/domain"
)

type chatMessage interface {
	isChatMessage()
}

type ChatMessageSent struct {
	ID      string               `json:"id"`
	Source  domain.ParticipantID `json:"source"`
	Content string               `json:"content"`
	Scope   domain.ChatScope     `json:"scope"`
	Target  string               `json:"target,omitempty"`
}

type ChatEnabled struct {
	Scope    domain.ChatScope     `json:"scope,omitempty"`
	IssuedBy domain.ParticipantID `json:"issued_by"`
}

type ChatDisabled struct {
	Scope    domain.ChatScope     `json:"scope,omitempty"`
	IssuedBy domain.ParticipantID `json:"issued_by"`
}

type ChatHistoryCleared struct{}

func (ChatMessageSent) isChatMessage()    {}
func (ChatEnabled) isChatMessage()        {}
func (ChatDisabled) isChatMessage()       {}
func (ChatHistoryCleared) isChatMessage() {}

func decodeChat(payload []byte) (chatMessage, error) {
	var head messageHead
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	switch head.Message {
	case "message_sent":
		return decodeAs[ChatMessageSent](payload)
	case "chat_enabled":
		return decodeAs[ChatEnabled](payload)
	case "chat_disabled":
		return decodeAs[ChatDisabled](payload)
	case "history_cleared":
		return ChatHistoryCleared{}, nil
	default:
		return nil, fmt.Errorf("%w: chat.%s", ErrUnknownMessage, head.Message)
	}
}

// All three scopes share one transition; scope plus target select the
// conversation.
func (s *SessionState) applyChat(msg chatMessage, at time.Time) ([]Effect, error) {
	switch m := msg.(type) {
	case ChatMessageSent:
		scope := m.Scope
		if scope == "" {
			scope = domain.ChatScopeGlobal
		}
		entry := domain.ChatMessage{
			ID:        m.ID,
			Scope:     scope,
			Source:    m.Source,
			Target:    m.Target,
			Content:   m.Content,
			Timestamp: at,
		}

		var effects []Effect
		switch {
		case scope == domain.ChatScopePrivate && m.Target == string(s.LocalID):
			// Re-tag so the sender becomes the addressable target; a reply
			// then threads back into the same conversation.
			entry.Target = string(m.Source)
			effects = append(effects, info("chat-private", "New private message"))
		case scope == domain.ChatScopeGroup && m.Source != s.LocalID:
			effects = append(effects, info("chat-group", "New message in your group"))
		}

		s.Chat.Messages = append(s.Chat.Messages, entry)
		return effects, nil

	case ChatEnabled:
		s.commitChatSettings(m.Scope, true, m.IssuedBy, at)
		return nil, nil

	case ChatDisabled:
		s.commitChatSettings(m.Scope, false, m.IssuedBy, at)
		return nil, nil

	case ChatHistoryCleared:
		kept := s.Chat.Messages[:0]
		for _, entry := range s.Chat.Messages {
			if entry.Scope != domain.ChatScopeGlobal {
				kept = append(kept, entry)
			}
		}
		s.Chat.Messages = kept
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: unhandled chat message %T", ErrUnknownMessage, msg)
	}
}

// commitChatSettings is last-writer-wins by the event timestamp, not by
// arrival order: a delayed older toggle must not overwrite a newer one.
func (s *SessionState) commitChatSettings(scope domain.ChatScope, enabled bool, issuedBy domain.ParticipantID, at time.Time) {
	if scope == "" {
		scope = domain.ChatScopeGlobal
	}
	if existing, ok := s.Chat.Settings[scope]; ok && existing.IssuedAt.After(at) {
		return
	}
	s.Chat.Settings[scope] = domain.ChatSettings{Enabled: enabled, IssuedBy: issuedBy, IssuedAt: at}
}
