package domain

// Actor identifies the guild member behind an interaction, with the role
// set and admin flag the platform delivered alongside the event.
type Actor struct {
	ID          string
	DisplayName string
	RoleIDs     []string
	IsAdmin     bool
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(roleID string) bool {
	for _, id := range a.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}
