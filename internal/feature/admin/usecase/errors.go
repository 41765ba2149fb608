// Package usecase implements the administrative account and reporting
// operations.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when the addressed account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailAlreadyExists is returned when a staff account reuses an email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidRole is returned when the requested role is not a known one.
	ErrInvalidRole = errors.New("invalid role")

	// ErrEscalationDisabled is returned when granting the admin role while
	// admin escalation is switched off.
	ErrEscalationDisabled = errors.New("admin escalation is disabled")

	// ErrCannotDeleteAdmin is returned when deleting an admin account.
	ErrCannotDeleteAdmin = errors.New("admin accounts cannot be deleted")

	// ErrUserHasActivePackages is returned when deleting an account that still
	// has packages in flight.
	ErrUserHasActivePackages = errors.New("user still has active packages")
)
