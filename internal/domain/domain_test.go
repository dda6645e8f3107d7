package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceStatusSets(t *testing.T) {
	for _, s := range []ServiceStatus{ServiceCompleted, ServiceRejected, ServiceCancelled} {
		assert.NotContains(t, NonTerminalStatuses(), s)
		assert.NotContains(t, ActiveStatuses(), s)
	}
	assert.NotContains(t, ActiveStatuses(), ServiceAvailable)
}

func TestRole(t *testing.T) {
	assert.True(t, RoleClient.Valid())
	assert.True(t, RoleProfessional.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())

	assert.Equal(t, 6, RoleClient.MinPasswordLength())
	assert.Equal(t, 6, RoleProfessional.MinPasswordLength())
	assert.Equal(t, 8, RoleAdmin.MinPasswordLength())
}

func TestChat_HasParticipant(t *testing.T) {
	c := &Chat{ClientID: 3, ProfessionalID: 7}
	assert.True(t, c.HasParticipant(3))
	assert.True(t, c.HasParticipant(7))
	assert.False(t, c.HasParticipant(1))
}
