package model

import "time"

// Role distinguishes parents (who can review completions) from children.
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleParent || r == RoleChild
}

type Person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	HasPIN    bool      `json:"has_pin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
