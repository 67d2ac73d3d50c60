package user

import "time"

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN" // Unrestricted access
	RoleAdmin      Role = "ADMIN"       // Back office staff
	RoleUser       Role = "USER"        // Read-mostly access
)

var Roles = []Role{RoleSuperAdmin, RoleAdmin, RoleUser}

func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	}
	return false
}

type User struct {
	ID           int
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Privileges   Privileges
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSuperAdmin checks if user bypasses privilege checks
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
