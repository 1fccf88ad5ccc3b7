package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Role is the closed set of storefront roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCashier  Role = "cashier"
	RoleStaff    Role = "staff"
	RoleOwner    Role = "owner"
	RoleCustomer Role = "customer"
)

// Valid reports whether the role is one of the known storefront roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleStaff, RoleOwner, RoleCustomer:
		return true
	}
	return false
}

// ActingUser identifies who is performing a state-changing operation. It is
// always passed explicitly; services never read identity from ambient state.
type ActingUser struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
	Role Role         `json:"role"`
}

type User struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	Name         string       `json:"name" gorm:"type:text;not null"`
	Email        string       `json:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string       `json:"-" gorm:"type:text;not null"`
	Role         Role         `json:"role" gorm:"type:text;not null"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }
