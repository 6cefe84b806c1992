package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "valid", input: "Alice"},
		{name: "empty", input: "", wantErr: ErrDisplayNameEmpty},
		{name: "max length", input: strings.Repeat("x", MaxDisplayNameLen)},
		{name: "too long", input: strings.Repeat("x", MaxDisplayNameLen+1), wantErr: ErrDisplayNameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Participant
			err := p.SetDisplayName(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, p.DisplayName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, p.DisplayName)
		})
	}
}

func TestTariffParticipantLimit(t *testing.T) {
	unlimited := Tariff{Name: "free"}
	assert.Zero(t, unlimited.ParticipantLimit())

	limited := Tariff{Name: "basic", Quotas: map[string]uint64{QuotaRoomParticipantLimit: 10}}
	assert.EqualValues(t, 10, limited.ParticipantLimit())
}

func TestForceMutePolicyAllows(t *testing.T) {
	var disabled ForceMutePolicy
	assert.True(t, disabled.Allows("anyone"), "disabled policy restricts nobody")

	policy := ForceMutePolicy{Enabled: true, AllowList: []ParticipantID{"a", "b"}}
	assert.True(t, policy.Allows("a"))
	assert.False(t, policy.Allows("c"))
}
