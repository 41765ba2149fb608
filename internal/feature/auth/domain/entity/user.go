// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// Role classifies what a user account is allowed to do.
type Role string

// Role values. Every account holds exactly one.
const (
	RoleUser    Role = "user"
	RoleCourier Role = "courier"
	RoleService Role = "service"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleCourier, RoleService, RoleAdmin:
		return true
	}
	return false
}

// User represents a registered account in the system.
// It contains authentication credentials and profile data.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the login identifier. It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This never stores plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Role determines the operations the account may perform.
	Role Role `gorm:"size:16;not null;default:user"`

	FirstName string `gorm:"size:100"`
	LastName  string `gorm:"size:100"`
	Phone     string `gorm:"size:32"`

	// AcceptedTerms and AcceptedPrivacy record the consents given at registration.
	AcceptedTerms   bool
	AcceptedPrivacy bool
	Marketing       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
