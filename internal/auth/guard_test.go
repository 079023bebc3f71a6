package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/ticket-bot/internal/domain"
)

func TestIsStaff(t *testing.T) {
	g := NewGuard("role-staff")

	tests := []struct {
		name  string
		actor domain.Actor
		want  bool
	}{
		{"admin without role", domain.Actor{ID: "a", IsAdmin: true}, true},
		{"holder of staff role", domain.Actor{ID: "b", RoleIDs: []string{"role-x", "role-staff"}}, true},
		{"other roles only", domain.Actor{ID: "c", RoleIDs: []string{"role-x"}}, false},
		{"no roles", domain.Actor{ID: "d"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.IsStaff(tt.actor))
		})
	}
}

func TestIsStaffUnconfiguredRole(t *testing.T) {
	// With no staff role configured only admins qualify.
	g := NewGuard("")
	assert.True(t, g.IsStaff(domain.Actor{ID: "a", IsAdmin: true}))
	assert.False(t, g.IsStaff(domain.Actor{ID: "b", RoleIDs: []string{""}}))
}

func TestCanCloseAndTranscript(t *testing.T) {
	g := NewGuard("role-staff")
	ticket := &domain.TicketRecord{ThreadID: "thread-1", CreatorUserID: "user-creator"}

	tests := []struct {
		name  string
		actor domain.Actor
		want  bool
	}{
		{"creator", domain.Actor{ID: "user-creator"}, true},
		{"staff", domain.Actor{ID: "user-staff", RoleIDs: []string{"role-staff"}}, true},
		{"admin", domain.Actor{ID: "user-admin", IsAdmin: true}, true},
		{"stranger", domain.Actor{ID: "user-other"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.CanClose(tt.actor, ticket))
			assert.Equal(t, tt.want, g.CanRequestTranscript(tt.actor, ticket))
		})
	}
}

func TestStaffOnlyPredicates(t *testing.T) {
	g := NewGuard("role-staff")
	staff := domain.Actor{ID: "user-staff", RoleIDs: []string{"role-staff"}}
	creator := domain.Actor{ID: "user-creator"}

	checks := map[string]func(domain.Actor) bool{
		"claim":       g.CanClaim,
		"lock":        g.CanLock,
		"add":         g.CanAddParticipant,
		"remove":      g.CanRemoveParticipant,
		"delete":      g.CanDelete,
		"admin panel": g.CanOpenAdminPanel,
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			assert.True(t, check(staff))
			assert.False(t, check(creator))
		})
	}
}
