package session

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dkeye/Meet/internal/core"
	"github.com/dkeye/Meet/internal/domain"
)

// Builder is the single choke point through which any state-mutating local
// intent reaches the channel transport. It is bound to one room at
// construction; calling it without a room is a typed error, never a silent
// no-op.
type Builder struct {
	roomID    domain.RoomID
	transport core.Transport
	log       zerolog.Logger
}

func NewBuilder(roomID domain.RoomID, transport core.Transport, log zerolog.Logger) *Builder {
	return &Builder{
		roomID:    roomID,
		transport: transport,
		log:       log.With().Str("module", "session.outbound").Logger(),
	}
}

// Command stamps, validates and sends one outgoing command. The payload is
// checked against the declared schema for the pair, so a stray field is a
// bug caught here and not a message the server has to reject.
func (b *Builder) Command(ns, action string, fields map[string]any) error {
	if b.roomID == "" {
		return ErrNoActiveRoom
	}
	schema, ok := commandSchema(ns, action)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownCommand, ns, action)
	}

	payload := make(map[string]any, len(fields)+1)
	payload["action"] = action
	for k, v := range fields {
		payload[k] = v
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal command payload: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("remarshal command payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("command %s.%s rejected: %w", ns, action, err)
	}

	frame, err := json.Marshal(CommandEnvelope{Namespace: ns, Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal command envelope: %w", err)
	}
	b.log.Debug().Str("namespace", ns).Str("action", action).Msg("command sent")
	return b.transport.TrySend(frame)
}

// The full set of local intents, one narrow constructor per
// (namespace, action) pair.

func (b *Builder) Join(displayName string) error {
	return b.Command(NamespaceControl, "join", map[string]any{"display_name": displayName})
}

func (b *Builder) EnterRoom() error {
	return b.Command(NamespaceControl, "enter_room", nil)
}

func (b *Builder) RaiseHand() error {
	return b.Command(NamespaceControl, "raise_hand", nil)
}

func (b *Builder) LowerHand() error {
	return b.Command(NamespaceControl, "lower_hand", nil)
}

func (b *Builder) GrantPresenterRole(ids []domain.ParticipantID) error {
	return b.Command(NamespaceMedia, "grant_presenter_role", map[string]any{"participant_ids": ids})
}

func (b *Builder) RevokePresenterRole(ids []domain.ParticipantID) error {
	return b.Command(NamespaceMedia, "revoke_presenter_role", map[string]any{"participant_ids": ids})
}

func (b *Builder) ModeratorMute(targets []domain.ParticipantID, force bool) error {
	return b.Command(NamespaceMedia, "moderator_mute", map[string]any{"targets": targets, "force": force})
}

func (b *Builder) StartBreakout(rooms []string, durationSecs int64) error {
	fields := map[string]any{"rooms": rooms}
	if durationSecs > 0 {
		fields["duration_secs"] = durationSecs
	}
	return b.Command(NamespaceBreakout, "start", fields)
}

func (b *Builder) StopBreakout() error {
	return b.Command(NamespaceBreakout, "stop", nil)
}

func (b *Builder) StartAutomod(strategy domain.SelectionStrategy, considerHandRaise, allowDouble bool) error {
	return b.Command(NamespaceAutomod, "start", map[string]any{
		"selection_strategy":     string(strategy),
		"consider_hand_raise":    considerHandRaise,
		"allow_double_selection": allowDouble,
	})
}

func (b *Builder) StopAutomod() error {
	return b.Command(NamespaceAutomod, "stop", nil)
}

func (b *Builder) SelectNextSpeaker() error {
	return b.Command(NamespaceAutomod, "select_next", nil)
}

func (b *Builder) PassTurn() error {
	return b.Command(NamespaceAutomod, "pass", nil)
}

func (b *Builder) Vote(voteID domain.VoteID, option domain.VoteOption) error {
	return b.Command(NamespaceLegalVote, "vote", map[string]any{
		"vote_id": string(voteID),
		"option":  string(option),
	})
}

func (b *Builder) PollVote(pollID domain.VoteID, choiceID int) error {
	return b.Command(NamespacePolls, "vote", map[string]any{
		"poll_id":   string(pollID),
		"choice_id": choiceID,
	})
}

func (b *Builder) FinishPoll(pollID domain.VoteID) error {
	return b.Command(NamespacePolls, "finish", map[string]any{"id": string(pollID)})
}

func (b *Builder) AcceptFromWaitingRoom(target domain.ParticipantID) error {
	return b.Command(NamespaceModeration, "accept", map[string]any{"target": string(target)})
}

func (b *Builder) Kick(target domain.ParticipantID) error {
	return b.Command(NamespaceModeration, "kick", map[string]any{"target": string(target)})
}

func (b *Builder) SetWaitingRoom(enabled bool) error {
	if enabled {
		return b.Command(NamespaceModeration, "enable_waiting_room", nil)
	}
	return b.Command(NamespaceModeration, "disable_waiting_room", nil)
}

func (b *Builder) SetRaiseHands(enabled bool) error {
	if enabled {
		return b.Command(NamespaceModeration, "enable_raise_hands", nil)
	}
	return b.Command(NamespaceModeration, "disable_raise_hands", nil)
}

func (b *Builder) ResetRaisedHands() error {
	return b.Command(NamespaceModeration, "reset_raised_hands", nil)
}

func (b *Builder) SelectNotesWriter(ids []domain.ParticipantID) error {
	return b.Command(NamespaceMeetingNotes, "select_writer", map[string]any{"participant_ids": ids})
}

func (b *Builder) DeselectNotesWriter(ids []domain.ParticipantID) error {
	return b.Command(NamespaceMeetingNotes, "deselect_writer", map[string]any{"participant_ids": ids})
}

func (b *Builder) GenerateNotesPDF() error {
	return b.Command(NamespaceMeetingNotes, "generate_pdf", nil)
}

func (b *Builder) SendChatMessage(scope domain.ChatScope, target, content string) error {
	fields := map[string]any{"scope": string(scope), "content": content}
	if target != "" {
		fields["target"] = target
	}
	return b.Command(NamespaceChat, "send_message", fields)
}

func (b *Builder) ClearChatHistory() error {
	return b.Command(NamespaceChat, "clear_history", nil)
}

func (b *Builder) StartTimer(kind domain.TimerKind, durationSecs int64, title string, readyCheck bool) error {
	fields := map[string]any{"kind": string(kind), "ready_check_enabled": readyCheck}
	if durationSecs > 0 {
		fields["duration_secs"] = durationSecs
	}
	if title != "" {
		fields["title"] = title
	}
	return b.Command(NamespaceTimer, "start", fields)
}

func (b *Builder) StopTimer(id domain.TimerID, reason string) error {
	fields := map[string]any{"timer_id": string(id)}
	if reason != "" {
		fields["reason"] = reason
	}
	return b.Command(NamespaceTimer, "stop", fields)
}

func (b *Builder) ReadyToContinue(id domain.TimerID, ready bool) error {
	return b.Command(NamespaceTimer, "ready_to_continue", map[string]any{
		"timer_id": string(id),
		"status":   ready,
	})
}

func (b *Builder) InitializeWhiteboard() error {
	return b.Command(NamespaceWhiteboard, "initialize", nil)
}

func (b *Builder) GenerateWhiteboardPDF() error {
	return b.Command(NamespaceWhiteboard, "generate_pdf", nil)
}

func (b *Builder) SetConsent(consent bool) error {
	return b.Command(NamespaceRecording, "set_consent", map[string]any{"consent": consent})
}

func (b *Builder) StartStream(target domain.StreamTargetID) error {
	return b.Command(NamespaceRecording, "start_stream", map[string]any{"target": string(target)})
}

func (b *Builder) StopStream(target domain.StreamTargetID) error {
	return b.Command(NamespaceRecording, "stop_stream", map[string]any{"target": string(target)})
}
