package models

// RoleType defines the user role type
type RoleType string

const (
	RoleAdmin    RoleType = "ADMIN"
	RoleLecturer RoleType = "LECTURER"
	RoleStudent  RoleType = "STUDENT"
)

// Valid reports whether r is one of the known roles.
func (r RoleType) Valid() bool {
	switch r {
	case RoleAdmin, RoleLecturer, RoleStudent:
		return true
	}
	return false
}

// Projection is a flat {field: value} view of a record.
type Projection map[string]interface{}
