package domain

import "errors"

// Role determines which portal views an identity may open.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RoleStaff   Role = "staff"
	RolePatient Role = "patient"
)

// Roles lists every known role in display order.
var Roles = []Role{RoleDoctor, RoleStaff, RolePatient}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleStaff, RolePatient:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts s into a Role, rejecting anything outside the enumeration.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrInvalidRole        = errors.New("invalid role")
)

// Identity is the authenticated actor of a browser profile. A nil *Identity
// means the profile is not authenticated. Identities are replaced wholesale,
// never edited in place.
type Identity struct {
	ID    string `json:"id"    validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"required"`
	Role  Role   `json:"role"  validate:"required,oneof=doctor staff patient"`
}

// Equal compares two identities field by field. Two nil identities are equal.
func (i *Identity) Equal(other *Identity) bool {
	if i == nil || other == nil {
		return i == other
	}
	return *i == *other
}

// HasRole reports whether the identity holds one of roles.
func (i *Identity) HasRole(roles ...Role) bool {
	if i == nil {
		return false
	}
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

// ErrInvalidPolicy reports a malformed route policy table.
var ErrInvalidPolicy = errors.New("invalid route policy")
