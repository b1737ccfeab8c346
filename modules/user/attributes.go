package user

// Attribute identifies a single named capability or cosmetic flag. Its value
// is the bit offset inside a user's attribute bitfield.
//
// Offsets are part of the stored data contract: bitfields persist across
// versions, so an offset must never be reassigned once data exists. The gaps
// between groups are reserved for future capabilities of the same group.
type Attribute uint8

const (
	// TheEverythingPermission is the wildcard: any permission check passes
	// for a user holding this bit.
	TheEverythingPermission Attribute = 0

	UsersInspectPermission           Attribute = 1
	UsersChangeOwnHandlePermission   Attribute = 2
	UsersChangeOwnPasswordPermission Attribute = 3
	UsersManageHandlesPermission     Attribute = 4
	UsersManagePasswordsPermission   Attribute = 5
	UsersManageClearancesPermission  Attribute = 6
	UsersManageAttributesPermission  Attribute = 7
	UsersManualCreatePermission      Attribute = 8
	UsersDeletePermission            Attribute = 9

	// offsets 10-15 reserved

	LogsInspectPermission Attribute = 16

	// offsets 17-19 reserved

	AuthorsInspectPermission Attribute = 20
	AuthorsCreatePermission  Attribute = 21
	AuthorsModifyPermission  Attribute = 22

	// offsets 23-24 reserved

	AuthorsDeletePermission Attribute = 25

	// offsets 26-31 reserved

	QuotesCreatePermission Attribute = 32

	// offsets 33-60 reserved

	DisplayCoquetteAvatar    Attribute = 61
	DisplayProfileCardFlower Attribute = 62
)

// Bit returns the attribute's position as a bitmask.
func (a Attribute) Bit() uint64 {
	return 1 << a
}

// String returns the attribute's wire name as exposed to clients.
func (a Attribute) String() string {
	switch a {
	case TheEverythingPermission:
		return "TheEverythingPermission"
	case UsersInspectPermission:
		return "UsersInspectPermission"
	case UsersChangeOwnHandlePermission:
		return "UsersChangeOwnHandlePermission"
	case UsersChangeOwnPasswordPermission:
		return "UsersChangeOwnPasswordPermission"
	case UsersManageHandlesPermission:
		return "UsersManageHandlesPermission"
	case UsersManagePasswordsPermission:
		return "UsersManagePasswordsPermission"
	case UsersManageClearancesPermission:
		return "UsersManageClearancesPermission"
	case UsersManageAttributesPermission:
		return "UsersManageAttributesPermission"
	case UsersManualCreatePermission:
		return "UsersManualCreatePermission"
	case UsersDeletePermission:
		return "UsersDeletePermission"
	case LogsInspectPermission:
		return "LogsInspectPermission"
	case AuthorsInspectPermission:
		return "AuthorsInspectPermission"
	case AuthorsCreatePermission:
		return "AuthorsCreatePermission"
	case AuthorsModifyPermission:
		return "AuthorsModifyPermission"
	case AuthorsDeletePermission:
		return "AuthorsDeletePermission"
	case QuotesCreatePermission:
		return "QuotesCreatePermission"
	case DisplayCoquetteAvatar:
		return "DisplayCoquetteAvatar"
	case DisplayProfileCardFlower:
		return "DisplayProfileCardFlower"
	default:
		return "UnknownAttribute"
	}
}

// AllAttributes lists every assigned attribute, in offset order.
func AllAttributes() []Attribute {
	return []Attribute{
		TheEverythingPermission,
		UsersInspectPermission,
		UsersChangeOwnHandlePermission,
		UsersChangeOwnPasswordPermission,
		UsersManageHandlesPermission,
		UsersManagePasswordsPermission,
		UsersManageClearancesPermission,
		UsersManageAttributesPermission,
		UsersManualCreatePermission,
		UsersDeletePermission,
		LogsInspectPermission,
		AuthorsInspectPermission,
		AuthorsCreatePermission,
		AuthorsModifyPermission,
		AuthorsDeletePermission,
		QuotesCreatePermission,
		DisplayCoquetteAvatar,
		DisplayProfileCardFlower,
	}
}

// Attributes is a user's granted permission bitfield. It exposes only
// capability checks; the offset assignment stays an implementation detail.
type Attributes uint64

// Has reports whether the exact attribute bit is set, with no wildcard
// short-circuit. Use it for cosmetic attributes that must not be silently
// granted by the wildcard.
func (s Attributes) Has(a Attribute) bool {
	return uint64(s)&a.Bit() != 0
}

// HasPermission reports whether the attribute bit is set or the wildcard
// grants it.
func (s Attributes) HasPermission(a Attribute) bool {
	return s.Has(a) || s.Has(TheEverythingPermission)
}

// With returns a copy of the set with the attribute granted.
func (s Attributes) With(a Attribute) Attributes {
	return s | Attributes(a.Bit())
}

// DefaultAttributes is the fixed minimal grant for newly created users:
// inspect-style rights plus control over their own handle and password.
func DefaultAttributes() Attributes {
	var s Attributes
	for _, a := range []Attribute{
		LogsInspectPermission,
		AuthorsInspectPermission,
		AuthorsCreatePermission,
		AuthorsModifyPermission,
		UsersInspectPermission,
		UsersChangeOwnHandlePermission,
		UsersChangeOwnPasswordPermission,
	} {
		s = s.With(a)
	}
	return s
}
