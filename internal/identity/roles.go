package identity

import dErrors "certledger/pkg/domain-errors"

// Role is the authorization level derived from a wallet address.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleNone    Role = "none"
)

// ParseRole validates a role name from an external input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTeacher, RoleStudent, RoleNone:
		return Role(s), nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+s)
	}
}

func (r Role) String() string { return string(r) }

// In reports whether the role is one of the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}
