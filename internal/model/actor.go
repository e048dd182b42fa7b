package model

import "github.com/google/uuid"

// Role of the acting user, as supplied by the external auth provider.
type Role string

const (
	RoleStudent       Role = "student"
	RoleCounselor     Role = "counselor"
	RoleAdministrator Role = "administrator"
)

// Actor identifies who is performing an operation. Credential
// verification happens upstream; services only check the role.
type Actor struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdministrator
}
