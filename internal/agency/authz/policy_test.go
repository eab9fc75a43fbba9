package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name        string
		actor       Actor
		ownerAgency string
		want        Decision
	}{
		{
			name:        "owner always owner regardless of agency",
			actor:       Actor{ID: owner, Agency: "A"},
			ownerAgency: "B",
			want:        Owner,
		},
		{
			name:        "agency mate",
			actor:       Actor{ID: other, Agency: "A"},
			ownerAgency: "A",
			want:        SameAgency,
		},
		{
			name:        "different agency denied",
			actor:       Actor{ID: other, Agency: "A"},
			ownerAgency: "B",
			want:        Denied,
		},
		{
			name:        "empty agencies do not match each other",
			actor:       Actor{ID: other, Agency: ""},
			ownerAgency: "",
			want:        Denied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.actor, owner, tt.ownerAgency)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecisionRights(t *testing.T) {
	assert.True(t, Owner.CanView())
	assert.True(t, Owner.CanSubmitEdit())
	assert.True(t, Owner.CanRequestDeletion())

	assert.True(t, SameAgency.CanView())
	assert.True(t, SameAgency.CanSubmitEdit())
	assert.False(t, SameAgency.CanRequestDeletion(), "agency mates may not request deletion")

	assert.False(t, Denied.CanView())
	assert.False(t, Denied.CanSubmitEdit())
	assert.False(t, Denied.CanRequestDeletion())
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "owner", Owner.String())
	assert.Equal(t, "same-agency", SameAgency.String())
	assert.Equal(t, "denied", Denied.String())
}
