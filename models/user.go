// models/user.go
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role names used by the route guards.
const (
	RoleAdmin     = "admin"
	RoleRegistrar = "registrar"
	RoleFinance   = "finance"
)

type Role struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null"`
}

// User is a staff account. Students do not log in.
type User struct {
	gorm.Model
	Login        string `json:"login" gorm:"unique;not null"`
	PasswordHash string `json:"-" gorm:"not null"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`

	FailedLoginAttempts int        `json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"lastLoginAt"`

	Roles []Role `json:"roles" gorm:"many2many:user_roles;"`
}
