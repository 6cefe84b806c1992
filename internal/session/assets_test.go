package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Meet/internal/domain"
)

func TestMeetingNotesAccessFromURLs(t *testing.T) {
	tests := []struct {
		name       string
		msg        MeetingNotesAccessURL
		wantAccess domain.MeetingNotesAccess
		wantNotice bool
	}{
		{
			name:       "write url grants write",
			msg:        MeetingNotesAccessURL{ReadURL: "https://pad/r", WriteURL: "https://pad/w"},
			wantAccess: domain.MeetingNotesAccessWrite,
			wantNotice: true,
		},
		{
			name:       "read url only",
			msg:        MeetingNotesAccessURL{ReadURL: "https://pad/r"},
			wantAccess: domain.MeetingNotesAccessRead,
		},
		{
			name:       "no urls revokes",
			msg:        MeetingNotesAccessURL{},
			wantAccess: domain.MeetingNotesAccessNone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := joinedState(t, "local")
			state.upsertParticipant(domain.Participant{ID: "local", WaitingState: domain.WaitingStateJoined})

			effects, err := state.applyMeetingNotes(tt.msg)
			require.NoError(t, err)

			p, ok := state.Participant("local")
			require.True(t, ok)
			assert.Equal(t, tt.wantAccess, p.MeetingNotesAccess)
			if tt.wantNotice {
				assert.NotEmpty(t, effects)
			} else {
				assert.Empty(t, effects)
			}
		})
	}
}

func TestWhiteboardAnnouncedOnce(t *testing.T) {
	state := joinedState(t, "local")

	effects, err := state.applyWhiteboard(WhiteboardSpaceURL{URL: "https://board/1"})
	require.NoError(t, err)
	assert.NotEmpty(t, effects)

	// URL refresh on an already-available board is silent.
	effects, err = state.applyWhiteboard(WhiteboardSpaceURL{URL: "https://board/2"})
	require.NoError(t, err)
	assert.Empty(t, effects)
	assert.Equal(t, "https://board/2", state.Whiteboard.SpaceURL)
}

func TestWhiteboardCollectsPDFAssets(t *testing.T) {
	state := joinedState(t, "local")

	_, err := state.applyWhiteboard(WhiteboardPDFAsset{AssetID: "a1"})
	require.NoError(t, err)
	_, err = state.applyWhiteboard(WhiteboardPDFAsset{AssetID: "a2"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, state.Whiteboard.PDFAssets)
}

func TestSharedFolderAnnouncedOnAvailability(t *testing.T) {
	state := joinedState(t, "local")

	effects, err := state.applySharedFolder(SharedFolderUpdated{
		domain.SharedFolder{Available: true, ReadURL: "https://folder/r"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, effects)

	effects, err = state.applySharedFolder(SharedFolderUpdated{
		domain.SharedFolder{Available: true, ReadURL: "https://folder/r2"},
	})
	require.NoError(t, err)
	assert.Empty(t, effects)
}
