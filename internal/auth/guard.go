package auth

import (
	"github.com/spec-kit/ticket-bot/internal/domain"
)

// Guard decides whether an actor may perform a lifecycle action. Every
// predicate is a total function of (actor, ticket) with no hidden state, so
// buttons, slash commands and modals all funnel through the same checks.
type Guard struct {
	StaffRoleID string
}

// NewGuard builds a guard for the configured staff role.
func NewGuard(staffRoleID string) Guard {
	return Guard{StaffRoleID: staffRoleID}
}

// IsStaff reports whether the actor has administrative capability or holds
// the configured staff role.
func (g Guard) IsStaff(actor domain.Actor) bool {
	if actor.IsAdmin {
		return true
	}
	return g.StaffRoleID != "" && actor.HasRole(g.StaffRoleID)
}

// CanClose allows staff and the ticket creator.
func (g Guard) CanClose(actor domain.Actor, ticket *domain.TicketRecord) bool {
	return g.IsStaff(actor) || actor.ID == ticket.CreatorUserID
}

// CanRequestTranscript allows staff and the ticket creator.
func (g Guard) CanRequestTranscript(actor domain.Actor, ticket *domain.TicketRecord) bool {
	return g.IsStaff(actor) || actor.ID == ticket.CreatorUserID
}

func (g Guard) CanClaim(actor domain.Actor) bool             { return g.IsStaff(actor) }
func (g Guard) CanLock(actor domain.Actor) bool              { return g.IsStaff(actor) }
func (g Guard) CanAddParticipant(actor domain.Actor) bool    { return g.IsStaff(actor) }
func (g Guard) CanRemoveParticipant(actor domain.Actor) bool { return g.IsStaff(actor) }
func (g Guard) CanDelete(actor domain.Actor) bool            { return g.IsStaff(actor) }
func (g Guard) CanOpenAdminPanel(actor domain.Actor) bool    { return g.IsStaff(actor) }
