package user

import "github.com/google/uuid"

// User is an account in the quote archive.
//
// Clearance is a coarse ordinal rank (0-255) gating visibility of quotes and
// authority over other users: administering another user requires strictly
// greater clearance than the target. Attributes is the granted permission
// bitfield. The password hash is never part of this value; it stays behind
// the repository.
type User struct {
	ID         uuid.UUID  `json:"id"`
	Handle     string     `json:"handle"`
	Clearance  uint8      `json:"clearance"`
	Attributes Attributes `json:"attributes"`
}

// NewIncomplete returns a user value with fresh identity and default grants.
// It is local to the caller's scope until persisted via Repository.Create.
func NewIncomplete(handle string) User {
	return User{
		ID:         uuid.Must(uuid.NewV7()),
		Handle:     handle,
		Clearance:  1,
		Attributes: DefaultAttributes(),
	}
}

// HasAttribute checks the exact bit, without the wildcard short-circuit.
func (u User) HasAttribute(a Attribute) bool {
	return u.Attributes.Has(a)
}

// HasPermission checks the bit or the wildcard.
func (u User) HasPermission(a Attribute) bool {
	return u.Attributes.HasPermission(a)
}

// Outranks reports whether u may administer target: strictly greater
// clearance is required, so equals never administer each other.
func (u User) Outranks(target User) bool {
	return u.Clearance > target.Clearance
}

// IsInfradmin reports whether this is the reserved infrastructure
// administrator account.
func (u User) IsInfradmin() bool {
	return u.ID == uuid.Max
}
