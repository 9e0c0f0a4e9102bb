package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		role       Role
		capability Capability
		want       bool
	}{
		{"client submits", RoleClient, CapabilitySubmit, true},
		{"client views own", RoleClient, CapabilityViewOwn, true},
		{"client cannot view all", RoleClient, CapabilityViewAll, false},
		{"client cannot adjudicate", RoleClient, CapabilityAdjudicate, false},
		{"staff views all", RoleStaff, CapabilityViewAll, true},
		{"staff cannot submit", RoleStaff, CapabilitySubmit, false},
		{"staff cannot adjudicate", RoleStaff, CapabilityAdjudicate, false},
		{"planning views all", RolePlanning, CapabilityViewAll, true},
		{"planning cannot adjudicate units", RolePlanning, CapabilityAdjudicateUnit, false},
		{"head adjudicates", RoleHead, CapabilityAdjudicate, true},
		{"head adjudicates units", RoleHead, CapabilityAdjudicateUnit, true},
		{"head cannot submit", RoleHead, CapabilitySubmit, false},
		{"admin adjudicates", RoleAdmin, CapabilityAdjudicate, true},
		{"every role dismisses notifications", RoleClient, CapabilityDeleteNotification, true},
		{"unknown role holds nothing", Role("intern"), CapabilityViewOwn, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.role.Can(tt.capability))
		})
	}
}

func TestCapabilitiesReturnsCopy(t *testing.T) {
	t.Parallel()

	caps := Capabilities(RoleClient)
	assert.NotEmpty(t, caps)
	caps[0] = Capability("tampered")
	assert.NotContains(t, Capabilities(RoleClient), Capability("tampered"))
}

func TestRoleValid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleClient.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("superuser").Valid())
}
