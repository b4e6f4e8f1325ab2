package identity

import (
	"time"

	"github.com/uptrace/bun"
)

// Role tags carried by every account. Applications may only request
// student or teacher; admin roles are provisioned out of band.
const (
	RoleStudent     = "student"
	RoleTeacher     = "teacher"
	RoleSchoolAdmin = "school_admin"
	RoleSuperAdmin  = "super_admin"
)

// User is a login-capable account record.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID         int       `bun:"id,pk,autoincrement" json:"id"`
	Email      string    `bun:"email,unique,notnull" json:"email"`
	Name       string    `bun:"name,notnull" json:"name"`
	Role       string    `bun:"role,notnull" json:"role"`
	Password   string    `bun:"password,notnull" json:"-"` // bcrypt hash, never exposed
	IsActive   bool      `bun:"is_active,notnull" json:"isActive"`
	DateJoined time.Time `bun:"date_joined,notnull,default:current_timestamp" json:"dateJoined"`
}

// ApplicantRole reports whether role is one an application may request.
func ApplicantRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher
}

// AdminRole reports whether role carries any admin capability.
func AdminRole(role string) bool {
	return role == RoleSchoolAdmin || role == RoleSuperAdmin
}
