package domain

// Role is the role of an authenticated caller, supplied by the external
// auth layer and trusted as given
type Role string

const (
	RoleProvider Role = "provider"
	RolePatient  Role = "patient"
	RoleAdmin    Role = "admin"
)

// IsValid returns true if the role is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleProvider || r == RolePatient || r == RoleAdmin
}

// Caller is the authenticated identity performing an operation
type Caller struct {
	ID   int64
	Role Role
}

// HasAnyRole returns true if the caller's role is in the allowed set.
// Every operation checks its required role set explicitly at the start
// of its implementation.
func (c Caller) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
