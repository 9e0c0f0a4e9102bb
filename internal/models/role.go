package models

// Role identifies the access level of a user account.
type Role string

const (
	// RoleClient submits requests and sees only their own records.
	RoleClient Role = "client"
	// RoleStaff views all records but does not adjudicate.
	RoleStaff Role = "staff"
	// RolePlanning views all records but does not adjudicate.
	RolePlanning Role = "planning"
	// RoleHead adjudicates requests and request units.
	RoleHead Role = "head"
	// RoleAdmin has the same request capabilities as head.
	RoleAdmin Role = "admin"
)

// Capability is a single permission granted to a role.
type Capability string

const (
	// CapabilitySubmit allows creating new requests.
	CapabilitySubmit Capability = "submit"
	// CapabilityViewOwn allows viewing the caller's own requests.
	CapabilityViewOwn Capability = "viewOwn"
	// CapabilityViewAll allows viewing every request.
	CapabilityViewAll Capability = "viewAll"
	// CapabilityAdjudicate allows approving, denying, and claiming requests.
	CapabilityAdjudicate Capability = "adjudicate"
	// CapabilityAdjudicateUnit allows adjudicating individual request units.
	CapabilityAdjudicateUnit Capability = "adjudicateUnit"
	// CapabilityDeleteNotification allows dismissing notifications.
	CapabilityDeleteNotification Capability = "deleteNotification"
)

// capabilityTable is the fixed role to capability mapping. Roles absent from
// the table hold no capabilities.
var capabilityTable = map[Role][]Capability{
	RoleClient:   {CapabilitySubmit, CapabilityViewOwn, CapabilityDeleteNotification},
	RoleStaff:    {CapabilityViewAll, CapabilityDeleteNotification},
	RolePlanning: {CapabilityViewAll, CapabilityDeleteNotification},
	RoleHead:     {CapabilityViewAll, CapabilityAdjudicate, CapabilityAdjudicateUnit, CapabilityDeleteNotification},
	RoleAdmin:    {CapabilityViewAll, CapabilityAdjudicate, CapabilityAdjudicateUnit, CapabilityDeleteNotification},
}

// Capabilities returns the capability set for the role. Unknown roles get an
// empty set, which callers must treat as a denial.
func Capabilities(role Role) []Capability {
	caps := capabilityTable[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

// Can reports whether the role holds the capability.
func (r Role) Can(cap Capability) bool {
	for _, c := range capabilityTable[r] {
		if c == cap {
			return true
		}
	}
	return false
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, ok := capabilityTable[r]
	return ok
}
