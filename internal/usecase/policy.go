package usecase

import "github.com/agrolease/agrolease-backend/internal/entity"

// Actor is the authenticated identity resolved from a verified token.
type Actor struct {
	ID   string
	Role entity.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// CanMutate reports whether the actor may update or delete the listing.
// Only the owning identity and admins qualify; the rule is identical for
// update, delete and image removal on both listing kinds.
func CanMutate(actor Actor, listing *entity.Listing) bool {
	return actor.ID == listing.OwnerID || actor.IsAdmin()
}

// CanCreate reports whether the actor may create listings. Leasers browse
// and rent; they do not list.
func CanCreate(actor Actor) bool {
	return actor.Role == entity.RoleOwner || actor.Role == entity.RoleAdmin
}
