package auth

import "fmt"

// Role is the closed set of account roles.
type Role string

const (
	RoleLecturer Role = "lecturer"
	RoleStudent  Role = "student"
)

// ParseRole validates a role string. Anything outside the closed set is a
// construction-time error, never a silent passthrough.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleLecturer:
		return RoleLecturer, nil
	case RoleStudent:
		return RoleStudent, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }
